// Package wizard implements the add-site flow as a four-step state
// machine: site info, competitors, keywords, verification. Steps
// advance only past validation; going back is always allowed.
package wizard

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"seopanel-go/pkg/backend"
)

// Step is the wizard position, 1-based to match the rendered progress.
type Step int

const (
	StepSiteInfo Step = iota + 1
	StepCompetitors
	StepKeywords
	StepVerification

	TotalSteps = 4
)

// VerificationStatus is the terminal outcome of the ownership check.
type VerificationStatus string

const (
	VerificationPending VerificationStatus = ""
	VerificationOK      VerificationStatus = "verified"
	VerificationFailed  VerificationStatus = "failed"
)

// MaxKeywords bounds the tracked keyword list per site.
const MaxKeywords = 50

// Form holds all wizard input across steps.
type Form struct {
	SiteURL            string   `json:"siteUrl"`
	SiteName           string   `json:"siteName"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Language           string   `json:"language"`
	Competitors        []string `json:"competitors"`
	Keywords           string   `json:"keywords"`
	VerificationMethod string   `json:"verificationMethod"`
	AgreedToTerms      bool     `json:"agreedToTerms"`
}

// Verifier checks site ownership. The production check lives in the
// backend; this is the collaborator contract the wizard depends on.
type Verifier interface {
	Verify(ctx context.Context, siteURL, method string) (bool, error)
}

// ErrNotVerified gates submission on a successful verification outcome.
var ErrNotVerified = errors.New("site ownership has not been verified")

// Wizard is one add-site session.
type Wizard struct {
	step         Step
	form         Form
	verification VerificationStatus
	verifier     Verifier
}

// New starts a wizard at the first step with default form values.
func New(verifier Verifier) *Wizard {
	return &Wizard{
		step: StepSiteInfo,
		form: Form{
			Category:           "business",
			Language:           "en",
			Competitors:        make([]string, 3),
			VerificationMethod: "html",
		},
		verifier: verifier,
	}
}

// Step returns the current position.
func (w *Wizard) Step() Step {
	return w.step
}

// Form returns a copy of the current input.
func (w *Wizard) Form() Form {
	return w.form
}

// Verification returns the current ownership-check outcome.
func (w *Wizard) Verification() VerificationStatus {
	return w.verification
}

// Update replaces the form input without moving the step.
func (w *Wizard) Update(form Form) {
	w.form = form
}

// Validate checks one step's input and returns field-scoped messages.
// An empty map means the step is valid.
func (w *Wizard) Validate(step Step) map[string]string {
	errs := make(map[string]string)

	switch step {
	case StepSiteInfo:
		if strings.TrimSpace(w.form.SiteURL) == "" {
			errs["siteUrl"] = "Site URL is required"
		} else if !ValidSiteURL(w.form.SiteURL) {
			errs["siteUrl"] = "Enter a valid URL"
		}
		if strings.TrimSpace(w.form.SiteName) == "" {
			errs["siteName"] = "Site name is required"
		}
		if w.form.Language != "" && !ValidLanguage(w.form.Language) {
			errs["language"] = "Unknown language"
		}

	case StepCompetitors:
		// Optional step, no required fields.

	case StepKeywords:
		keywords := ParseKeywords(w.form.Keywords)
		if len(keywords) == 0 {
			errs["keywords"] = "Enter at least one keyword"
		} else if len(keywords) > MaxKeywords {
			errs["keywords"] = "Too many keywords"
		}

	case StepVerification:
		if !w.form.AgreedToTerms {
			errs["agreedToTerms"] = "You must accept the terms of use"
		}
	}

	return errs
}

// Next advances past the current step when it validates. The returned
// map is non-empty when the wizard stays put.
func (w *Wizard) Next() map[string]string {
	errs := w.Validate(w.step)
	if len(errs) > 0 {
		return errs
	}
	if w.step < StepVerification {
		w.step++
	}
	return nil
}

// Back moves one step back unconditionally.
func (w *Wizard) Back() {
	if w.step > StepSiteInfo {
		w.step--
	}
}

// Verify runs the ownership check and records its terminal outcome.
func (w *Wizard) Verify(ctx context.Context) VerificationStatus {
	ok, err := w.verifier.Verify(ctx, NormalizeSiteURL(w.form.SiteURL), w.form.VerificationMethod)
	if err != nil || !ok {
		w.verification = VerificationFailed
	} else {
		w.verification = VerificationOK
	}
	return w.verification
}

// Submit validates the final step, requires a successful verification,
// and assembles the site-creation payload.
func (w *Wizard) Submit() (*backend.AddSiteRequest, error) {
	if errs := w.Validate(StepVerification); len(errs) > 0 {
		return nil, errors.New(firstMessage(errs))
	}
	if w.verification != VerificationOK {
		return nil, ErrNotVerified
	}

	competitors := make([]string, 0, len(w.form.Competitors))
	for _, competitor := range w.form.Competitors {
		if trimmed := strings.TrimSpace(competitor); trimmed != "" {
			competitors = append(competitors, trimmed)
		}
	}

	return &backend.AddSiteRequest{
		SiteURL:            NormalizeSiteURL(w.form.SiteURL),
		SiteName:           strings.TrimSpace(w.form.SiteName),
		Description:        strings.TrimSpace(w.form.Description),
		Category:           w.form.Category,
		Language:           w.form.Language,
		Competitors:        competitors,
		Keywords:           ParseKeywords(w.form.Keywords),
		VerificationMethod: w.form.VerificationMethod,
	}, nil
}

// ValidSiteURL reports whether the input parses as a URL once an
// https:// prefix is added if missing.
func ValidSiteURL(raw string) bool {
	candidate := raw
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	return err == nil && parsed.Host != ""
}

// NormalizeSiteURL adds an https:// scheme when missing and strips the
// trailing slash.
func NormalizeSiteURL(raw string) string {
	normalized := strings.TrimSpace(raw)
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}
	return strings.TrimSuffix(normalized, "/")
}

// ParseKeywords splits comma-separated keyword input, trimming each
// entry and dropping empty ones.
func ParseKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}

// ValidLanguage reports whether the input is a well-formed BCP 47
// language tag.
func ValidLanguage(tag string) bool {
	_, err := language.Parse(tag)
	return err == nil
}

func firstMessage(errs map[string]string) string {
	for _, msg := range errs {
		return msg
	}
	return "validation failed"
}
