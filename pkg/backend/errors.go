package backend

import (
	"errors"
	"fmt"
)

// ErrNoResponse marks transport-level failures where no HTTP response
// arrived at all. It is distinct from every status-code error.
var ErrNoResponse = errors.New("no response from backend")

// APIError is a non-2xx backend reply. Detail carries the optional
// `detail` string from the JSON error body, verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an
// APIError (including connectivity failures).
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// UserMessage maps a fetch failure to the message shown on the page.
// Each status in {401,403,404,429,500,504} has its own wording; 404
// wording names the resource that was requested. Anything else falls
// back to a generic message carrying the backend detail when present.
func UserMessage(err error, resource string) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrNoResponse) {
		return "Cannot reach the server. Please check your internet connection."
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "An unknown error occurred."
	}

	switch apiErr.StatusCode {
	case 401:
		return "Your session has expired. Please sign in again."
	case 403:
		return "You do not have permission for this operation."
	case 404:
		if resource == "" {
			resource = "The requested resource"
		}
		return fmt.Sprintf("%s could not be found.", resource)
	case 429:
		return "Too many requests. Please try again later."
	case 500:
		return "Server error. Please try again later."
	case 504:
		return "The request timed out. Please try again later."
	}

	msg := "The request failed."
	if apiErr.Detail != "" {
		msg += " " + apiErr.Detail
	}
	return msg
}

// IsSessionExpired reports whether err means the session is gone and
// the user has to sign in again.
func IsSessionExpired(err error) bool {
	return StatusCode(err) == 401
}
