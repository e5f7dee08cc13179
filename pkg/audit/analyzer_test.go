package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"seopanel-go/pkg/backend"
)

// auditBackend is a fake backend for analyzer tests. It counts how
// often the two audit endpoints are hit.
type auditBackend struct {
	settings       string
	auditCalls     atomic.Int64
	analyticsCalls atomic.Int64
}

func (b *auditBackend) analyzer(t *testing.T) *Analyzer {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/sites/a.com/settings", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(b.settings))
	})
	mux.HandleFunc("/sites/a.com/lighthouse", func(w http.ResponseWriter, r *http.Request) {
		b.auditCalls.Add(1)
		w.Write([]byte(`{
			"performance":{"score":1.0},
			"seo":{"score":1.0},
			"accessibility":{"score":1.0},
			"bestPractices":{"score":1.0}
		}`))
	})
	mux.HandleFunc("/sites/a.com/search-console", func(w http.ResponseWriter, r *http.Request) {
		b.analyticsCalls.Add(1)
		w.Write([]byte(`{"pageDetails":[{"path":"/blog/post","clicks":7}]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := backend.New(backend.Config{
		BaseURL:        server.URL,
		Timeout:        2 * time.Second,
		AuditRateLimit: 1000,
		AuditBurst:     1000,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return NewAnalyzer(client)
}

// TestAnalyzePreconditionBlocksAuditCalls verifies an unusable API key
// short-circuits the chain before any audit endpoint is hit.
func TestAnalyzePreconditionBlocksAuditCalls(t *testing.T) {
	testCases := []struct {
		name     string
		settings string
	}{
		{"no key configured", `{"apiKeyStatus":"not_set"}`},
		{"key marked invalid", `{"apiKey":"k","apiKeyStatus":"invalid"}`},
		{"valid status but empty key", `{"apiKey":"","apiKeyStatus":"valid"}`},
		{"empty settings", `{}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &auditBackend{settings: tc.settings}
			analyzer := fake.analyzer(t)

			_, err := analyzer.Analyze(context.Background(), "session=abc", "a.com", "/blog/post")
			if !errors.Is(err, ErrAPIKeyRequired) {
				t.Fatalf("Expected ErrAPIKeyRequired, got %v", err)
			}
			if calls := fake.auditCalls.Load(); calls != 0 {
				t.Errorf("Lighthouse endpoint hit %d times despite failed precondition", calls)
			}
			if calls := fake.analyticsCalls.Load(); calls != 0 {
				t.Errorf("Search-console endpoint hit %d times despite failed precondition", calls)
			}
		})
	}
}

// TestAnalyzeCombinesBothSources verifies the happy path fetches both
// sources and combines them into one report.
func TestAnalyzeCombinesBothSources(t *testing.T) {
	fake := &auditBackend{settings: `{"apiKey":"k","apiKeyStatus":"valid"}`}
	analyzer := fake.analyzer(t)

	report, err := analyzer.Analyze(context.Background(), "session=abc", "a.com", "/blog/post")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if fake.auditCalls.Load() != 1 || fake.analyticsCalls.Load() != 1 {
		t.Errorf("Expected one call per source, got %d and %d",
			fake.auditCalls.Load(), fake.analyticsCalls.Load())
	}
	if report.OverallScore != 100 {
		t.Errorf("Expected overall score 100, got %d", report.OverallScore)
	}
	if len(report.PageDetails) != 1 || report.PageDetails[0].Path != "/blog/post" {
		t.Errorf("Analytics rows missing from report: %+v", report.PageDetails)
	}
}

// TestAnalyzeSourceFailure verifies a failing source fails the chain
// instead of producing a half-empty report.
func TestAnalyzeSourceFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sites/a.com/settings", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"apiKey":"k","apiKeyStatus":"valid"}`))
	})
	mux.HandleFunc("/sites/a.com/lighthouse", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"audit service down"}`))
	})
	mux.HandleFunc("/sites/a.com/search-console", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pageDetails":[]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := backend.New(backend.Config{
		BaseURL:        server.URL,
		Timeout:        2 * time.Second,
		AuditRateLimit: 1000,
		AuditBurst:     1000,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = NewAnalyzer(client).Analyze(context.Background(), "session=abc", "a.com", "/blog/post")
	if err == nil {
		t.Fatal("Expected Analyze to fail when a source fails")
	}
	if backend.StatusCode(err) != 500 {
		t.Errorf("Expected the source's status to surface, got %v", err)
	}
}
