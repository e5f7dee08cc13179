package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL:        server.URL,
		Timeout:        2 * time.Second,
		AuditRateLimit: 1000,
		AuditBurst:     1000,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

// TestAuthStatusForwardsCookie verifies the session cookie travels with
// the request and a 2xx reply reads as authenticated.
func TestAuthStatusForwardsCookie(t *testing.T) {
	var gotCookie string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(`{"username":"alice"}`))
	}))

	status, err := client.AuthStatus(context.Background(), "session=abc")
	if err != nil {
		t.Fatalf("AuthStatus failed: %v", err)
	}
	if gotCookie != "session=abc" {
		t.Errorf("Cookie not forwarded, got %q", gotCookie)
	}
	if !status.Authenticated || status.Username != "alice" {
		t.Errorf("Unexpected status: %+v", status)
	}
}

// TestAuthStatusUnknownBody verifies a 2xx reply with an unexpected body
// still counts as a valid session.
func TestAuthStatusUnknownBody(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`ok`))
	}))

	status, err := client.AuthStatus(context.Background(), "")
	if err != nil {
		t.Fatalf("AuthStatus failed: %v", err)
	}
	if !status.Authenticated {
		t.Error("2xx reply must count as authenticated")
	}
}

// TestNon2xxBecomesAPIError verifies status and detail extraction.
func TestNon2xxBecomesAPIError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"session expired"}`))
	}))

	_, err := client.ListSites(context.Background(), "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != 401 || apiErr.Detail != "session expired" {
		t.Errorf("Unexpected APIError: %+v", apiErr)
	}
}

// TestTransportFailureWrapsErrNoResponse verifies connectivity failures
// are distinguishable from status errors.
func TestTransportFailureWrapsErrNoResponse(t *testing.T) {
	client, err := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.ListSites(context.Background(), "")
	if !errors.Is(err, ErrNoResponse) {
		t.Errorf("Expected ErrNoResponse, got %v", err)
	}
	if StatusCode(err) != 0 {
		t.Errorf("Transport failure must carry no status, got %d", StatusCode(err))
	}
}

// TestListSitesNormalizesShapes verifies wrapped and bare list replies
// decode the same.
func TestListSitesNormalizesShapes(t *testing.T) {
	bodies := []string{
		`[{"siteUrl":"https://a.com/","permissionLevel":"siteOwner"}]`,
		`{"sites":[{"siteUrl":"https://a.com/","permissionLevel":"siteOwner"}]}`,
	}

	for _, body := range bodies {
		reply := body
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(reply))
		}))

		sites, err := client.ListSites(context.Background(), "")
		if err != nil {
			t.Fatalf("ListSites failed for %q: %v", body, err)
		}
		if len(sites) != 1 || sites[0].SiteURL != "https://a.com/" {
			t.Errorf("Unexpected sites for %q: %+v", body, sites)
		}
	}
}

// TestGetSettingsDefaultsStatus verifies a settings reply without a key
// status reads as not_set.
func TestGetSettingsDefaultsStatus(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	settings, err := client.GetSettings(context.Background(), "", "a.com")
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.APIKeyStatus != APIKeyNotSet {
		t.Errorf("Expected default status %q, got %q", APIKeyNotSet, settings.APIKeyStatus)
	}
}

// TestQualityAuditQuery verifies the page URL rides the query string.
func TestQualityAuditQuery(t *testing.T) {
	var gotURL string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		w.Write([]byte(`{}`))
	}))

	_, err := client.QualityAudit(context.Background(), "", "a.com", "https://a.com/page")
	if err != nil {
		t.Fatalf("QualityAudit failed: %v", err)
	}
	if gotURL != "https://a.com/page" {
		t.Errorf("Unexpected url query: %q", gotURL)
	}
}

// TestTrafficQuery verifies the period parameter.
func TestTrafficQuery(t *testing.T) {
	var gotDays string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDays = r.URL.Query().Get("days")
		w.Write([]byte(`{}`))
	}))

	if _, err := client.Traffic(context.Background(), "", "a.com", 90); err != nil {
		t.Fatalf("Traffic failed: %v", err)
	}
	if gotDays != "90" {
		t.Errorf("Unexpected days query: %q", gotDays)
	}
}

// TestGenerateReportUnknownKind verifies the kind whitelist.
func TestGenerateReportUnknownKind(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`%PDF-1.4`))
	}))

	if _, err := client.GenerateReport(context.Background(), "", "a.com", "bogus", nil); err == nil {
		t.Error("Expected error for unknown report kind")
	}
	pdf, err := client.GenerateReport(context.Background(), "", "a.com", ReportKeyword, nil)
	if err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}
	if string(pdf) != "%PDF-1.4" {
		t.Errorf("Unexpected report bytes: %q", pdf)
	}
}
