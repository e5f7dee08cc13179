package backend

import "time"

// Permission levels reported by the search console service.
const (
	PermissionOwner      = "siteOwner"
	PermissionFullUser   = "siteFullUser"
	PermissionRestricted = "siteRestrictedUser"
)

// Site is one verified property from the search console service.
type Site struct {
	SiteURL         string `json:"siteUrl"`
	PermissionLevel string `json:"permissionLevel"`
}

// KeywordRecord is a single search-analytics row for the selected site.
// Keys is ordered; the first element is the display term.
type KeywordRecord struct {
	Keys        []string `json:"keys"`
	Clicks      int      `json:"clicks"`
	Impressions int      `json:"impressions"`
	CTR         float64  `json:"ctr"`
	Position    float64  `json:"position"`
}

// PageInfo identifies one crawlable page of a site.
type PageInfo struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// API key status values for site settings.
const (
	APIKeyNotSet  = "not_set"
	APIKeyValid   = "valid"
	APIKeyInvalid = "invalid"
)

// SiteSettings holds the per-site audit configuration.
type SiteSettings struct {
	APIKey       string     `json:"apiKey"`
	APIKeyStatus string     `json:"apiKeyStatus"`
	LastTested   *time.Time `json:"lastTested"`
}

// AnalyticsProperty links a site to its analytics service property.
type AnalyticsProperty struct {
	Success       bool   `json:"success"`
	PropertyID    string `json:"property_id"`
	MeasurementID string `json:"measurement_id"`
	IsActive      bool   `json:"is_active"`
}

// AuditEntry is one audit item inside a quality-audit category.
type AuditEntry struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Score        *float64 `json:"score"`
	DisplayValue string   `json:"displayValue"`
}

// AuditCategory is one scored category of a quality-audit run.
// Score is in the 0..1 range; a nil Score means the category was
// missing from the response.
type AuditCategory struct {
	Score  *float64              `json:"score"`
	Audits map[string]AuditEntry `json:"audits"`
}

// QualityAudit is the site-speed/quality auditing service response for
// a single page URL.
type QualityAudit struct {
	Performance   *AuditCategory `json:"performance"`
	SEO           *AuditCategory `json:"seo"`
	Accessibility *AuditCategory `json:"accessibility"`
	BestPractices *AuditCategory `json:"bestPractices"`
}

// PageDetail is one search-analytics row for a page path.
type PageDetail struct {
	Path        string  `json:"path"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// SearchAnalytics is the search console response for a page URL.
type SearchAnalytics struct {
	PageDetails []PageDetail `json:"pageDetails"`
}

// TopPage is one entry of a traffic summary's most-visited list.
type TopPage struct {
	Page       string  `json:"page"`
	Visits     int     `json:"visits"`
	Percentage float64 `json:"percentage"`
}

// TrafficSource is one referral channel of a traffic summary.
type TrafficSource struct {
	Source     string  `json:"source"`
	Visits     int     `json:"visits"`
	Percentage float64 `json:"percentage"`
}

// TrafficSummary is the analytics service rollup for one period.
type TrafficSummary struct {
	TotalVisits        int             `json:"totalVisits"`
	OrganicTraffic     int             `json:"organicTraffic"`
	PageViews          int             `json:"pageViews"`
	AvgSessionDuration string          `json:"avgSessionDuration"`
	BounceRate         float64         `json:"bounceRate"`
	MonthlyGrowth      float64         `json:"monthlyGrowth"`
	TopPages           []TopPage       `json:"topPages"`
	TrafficSources     []TrafficSource `json:"trafficSources"`
}

// AuthStatus is the session endpoint's success payload.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
}

// AddSiteRequest is the site-creation payload assembled by the wizard.
type AddSiteRequest struct {
	SiteURL            string   `json:"siteUrl"`
	SiteName           string   `json:"siteName"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Language           string   `json:"language"`
	Competitors        []string `json:"competitors"`
	Keywords           []string `json:"keywords"`
	VerificationMethod string   `json:"verificationMethod"`
}

// TestResult reports the outcome of an API key test.
type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Report kinds accepted by the report-generation endpoints. The
// downloaded file is named {site}_{kind}.pdf.
const (
	ReportKeyword      = "keyword_report"
	ReportPageAnalysis = "page_analysis_report"
)
