// Package audit runs the page-analysis chain: settings precondition,
// parallel quality-audit and search-analytics fetches, and the combined
// view-model with a weighted overall score.
package audit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"seopanel-go/pkg/backend"
	"seopanel-go/pkg/logger"
)

// ErrAPIKeyRequired is the precondition failure raised before any audit
// endpoint is called: the site has no valid audit API key configured.
// Pages surface it as an actionable pointer to site settings, not as a
// backend fault.
var ErrAPIKeyRequired = errors.New("a valid audit API key is required; configure one in site settings")

// Category score weights for the overall score.
const (
	weightPerformance   = 0.4
	weightSEO           = 0.3
	weightAccessibility = 0.2
	weightBestPractices = 0.1
)

// Finding is one failed or degraded audit item.
type Finding struct {
	Title    string `json:"title"`
	Severity string `json:"severity"`
}

// CategoryReport is one scored category of the combined report.
type CategoryReport struct {
	Score    int       `json:"score"`
	Findings []Finding `json:"findings"`
}

// Report is the combined page-analysis view-model.
type Report struct {
	OverallScore    int                  `json:"overallScore"`
	Performance     CategoryReport       `json:"performance"`
	SEO             CategoryReport       `json:"seo"`
	Accessibility   CategoryReport       `json:"accessibility"`
	BestPractices   CategoryReport       `json:"bestPractices"`
	PageDetails     []backend.PageDetail `json:"pageDetails"`
	Recommendations []string             `json:"recommendations"`
}

// Analyzer fetches and combines the two audit data sources.
type Analyzer struct {
	client *backend.Client
	log    *logger.Logger
}

// NewAnalyzer creates a page analyzer backed by the given client.
func NewAnalyzer(client *backend.Client) *Analyzer {
	return &Analyzer{
		client: client,
		log:    logger.GetLogger().WithComponent("audit_analyzer"),
	}
}

// Analyze runs the full chain for one page of a site. pagePath may be a
// bare path or a fully-qualified URL.
func (a *Analyzer) Analyze(ctx context.Context, cookie, site, pagePath string) (*Report, error) {
	settings, err := a.client.GetSettings(ctx, cookie, site)
	if err != nil {
		return nil, err
	}
	if settings.APIKeyStatus != backend.APIKeyValid || settings.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	pageURL := FullPageURL(site, pagePath)
	a.log.WithFields(map[string]interface{}{
		"site": site,
		"url":  pageURL,
	}).Debug("Running page analysis")

	// Both sources are fetched concurrently; the combination step
	// waits for both before deriving anything.
	var (
		wg        sync.WaitGroup
		quality   *backend.QualityAudit
		analytics *backend.SearchAnalytics
		qualErr   error
		analyErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		quality, qualErr = a.client.QualityAudit(ctx, cookie, site, pageURL)
	}()
	go func() {
		defer wg.Done()
		analytics, analyErr = a.client.SearchAnalytics(ctx, cookie, site, pageURL)
	}()
	wg.Wait()

	if qualErr != nil {
		return nil, fmt.Errorf("quality audit failed: %w", qualErr)
	}
	if analyErr != nil {
		return nil, fmt.Errorf("search analytics failed: %w", analyErr)
	}

	return Combine(quality, analytics), nil
}

// FullPageURL builds the fully-qualified URL the audit endpoints are
// keyed by. Stored page paths may or may not carry a scheme.
func FullPageURL(site, pagePath string) string {
	if strings.HasPrefix(pagePath, "http://") || strings.HasPrefix(pagePath, "https://") {
		return pagePath
	}
	return "https://" + site + "/" + strings.TrimPrefix(pagePath, "/")
}

// Combine derives the report from both fetched sources. A category
// missing from the audit response scores zero before weighting; that is
// the deliberate fail-safe, not data loss.
func Combine(quality *backend.QualityAudit, analytics *backend.SearchAnalytics) *Report {
	report := &Report{
		OverallScore:    OverallScore(quality),
		Performance:     categoryReport(quality.Performance),
		SEO:             categoryReport(quality.SEO),
		Accessibility:   categoryReport(quality.Accessibility),
		BestPractices:   categoryReport(quality.BestPractices),
		Recommendations: Recommendations(quality),
	}
	if analytics != nil {
		report.PageDetails = analytics.PageDetails
	}
	return report
}

// OverallScore computes the weighted 0-100 score across the four
// categories: 0.4 performance, 0.3 seo, 0.2 accessibility,
// 0.1 best-practices.
func OverallScore(quality *backend.QualityAudit) int {
	weighted := categoryScore(quality.Performance)*weightPerformance +
		categoryScore(quality.SEO)*weightSEO +
		categoryScore(quality.Accessibility)*weightAccessibility +
		categoryScore(quality.BestPractices)*weightBestPractices
	return int(math.Round(weighted * 100))
}

func categoryScore(category *backend.AuditCategory) float64 {
	if category == nil || category.Score == nil {
		return 0
	}
	return *category.Score
}

func categoryReport(category *backend.AuditCategory) CategoryReport {
	report := CategoryReport{
		Score:    int(math.Round(categoryScore(category) * 100)),
		Findings: []Finding{},
	}
	if category == nil {
		return report
	}

	names := make([]string, 0, len(category.Audits))
	for name := range category.Audits {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := category.Audits[name]
		if entry.Score != nil && *entry.Score == 1 {
			continue
		}
		severity := "warning"
		if entry.Score != nil && *entry.Score == 0 {
			severity = "error"
		}
		report.Findings = append(report.Findings, Finding{
			Title:    entry.Title,
			Severity: severity,
		})
	}
	return report
}

// Rule checks mapping specific audit items to recommendations.
var recommendationRules = []struct {
	category func(*backend.QualityAudit) *backend.AuditCategory
	auditID  string
	text     string
}{
	{func(q *backend.QualityAudit) *backend.AuditCategory { return q.Performance }, "uses-responsive-images",
		"Serve responsive images and use modern formats such as WebP"},
	{func(q *backend.QualityAudit) *backend.AuditCategory { return q.Performance }, "render-blocking-resources",
		"Defer resources that block page rendering"},
	{func(q *backend.QualityAudit) *backend.AuditCategory { return q.SEO }, "meta-description",
		"Add a meta description to the page"},
	{func(q *backend.QualityAudit) *backend.AuditCategory { return q.SEO }, "document-title",
		"Optimize the page title"},
	{func(q *backend.QualityAudit) *backend.AuditCategory { return q.Accessibility }, "color-contrast",
		"Ensure sufficient contrast between text and background colors"},
	{func(q *backend.QualityAudit) *backend.AuditCategory { return q.Accessibility }, "image-alt",
		"Add descriptive alt text to all images"},
}

// Baseline recommendations appended to every report.
var baselineRecommendations = []string{
	"Make sure the site is served over HTTPS",
	"Test mobile friendliness",
	"Check page speed regularly",
}

// Recommendations derives the advice list from rule checks against
// individual audit items. Rules only fire for categories scoring below
// 0.9 whose audit item exists and did not pass.
func Recommendations(quality *backend.QualityAudit) []string {
	recommendations := make([]string, 0, len(recommendationRules)+len(baselineRecommendations))

	for _, rule := range recommendationRules {
		category := rule.category(quality)
		if category == nil || categoryScore(category) >= 0.9 {
			continue
		}
		entry, ok := category.Audits[rule.auditID]
		if !ok {
			continue
		}
		if entry.Score != nil && *entry.Score >= 1 {
			continue
		}
		recommendations = append(recommendations, rule.text)
	}

	return append(recommendations, baselineRecommendations...)
}
