package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"seopanel-go/pkg/logger"
)

// Config configures the backend client.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// Audit endpoints burn third-party quota; calls to them are
	// throttled client-side.
	AuditRateLimit float64
	AuditBurst     int
}

// Client talks to the external SEO backend. It issues no requests of
// its own authority: every call forwards the caller's session cookie.
type Client struct {
	config       Config
	http         *fasthttp.Client
	auditLimiter *rate.Limiter
	log          *logger.Logger
}

// New creates a backend client with an explicit per-request timeout.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.AuditRateLimit == 0 {
		config.AuditRateLimit = 1.0
	}
	if config.AuditBurst == 0 {
		config.AuditBurst = 2
	}

	client := &fasthttp.Client{
		ReadTimeout:         config.Timeout,
		WriteTimeout:        config.Timeout,
		MaxConnsPerHost:     100,
		MaxIdleConnDuration: 90 * time.Second,
	}

	return &Client{
		config:       config,
		http:         client,
		auditLimiter: rate.NewLimiter(rate.Limit(config.AuditRateLimit), config.AuditBurst),
		log:          logger.GetLogger().WithComponent("backend_client"),
	}, nil
}

// AuthStatus runs the session check. A non-2xx reply surfaces as an
// APIError; the caller decides whether to redirect to login.
func (c *Client) AuthStatus(ctx context.Context, cookie string) (*AuthStatus, error) {
	body, err := c.do(ctx, fasthttp.MethodGet, "/auth/status", cookie, nil, nil)
	if err != nil {
		return nil, err
	}

	// Body shape is backend-owned; the 2xx status alone means the
	// session is valid.
	status := &AuthStatus{}
	_ = json.Unmarshal(body, status)
	status.Authenticated = true
	return status, nil
}

// Logout invalidates the backend session.
func (c *Client) Logout(ctx context.Context, cookie string) error {
	_, err := c.do(ctx, fasthttp.MethodPost, "/auth/logout", cookie, nil, nil)
	return err
}

// ListSites returns the raw (unfiltered) site list.
func (c *Client) ListSites(ctx context.Context, cookie string) ([]Site, error) {
	body, err := c.do(ctx, fasthttp.MethodGet, "/gsc_sites", cookie, nil, nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[Site](body), nil
}

// ListKeywords returns the search-analytics keyword rows for a site.
func (c *Client) ListKeywords(ctx context.Context, cookie, site string) ([]KeywordRecord, error) {
	body, err := c.do(ctx, fasthttp.MethodGet, "/sites/"+url.PathEscape(site)+"/keywords", cookie, nil, nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[KeywordRecord](body), nil
}

// ListPages returns the known pages of a site.
func (c *Client) ListPages(ctx context.Context, cookie, site string) ([]PageInfo, error) {
	body, err := c.do(ctx, fasthttp.MethodGet, "/sites/"+url.PathEscape(site)+"/pages", cookie, nil, nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[PageInfo](body), nil
}

// GetSettings fetches the per-site audit configuration.
func (c *Client) GetSettings(ctx context.Context, cookie, site string) (*SiteSettings, error) {
	body, err := c.do(ctx, fasthttp.MethodGet, "/sites/"+url.PathEscape(site)+"/settings", cookie, nil, nil)
	if err != nil {
		return nil, err
	}

	var settings SiteSettings
	if err := json.Unmarshal(body, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if settings.APIKeyStatus == "" {
		settings.APIKeyStatus = APIKeyNotSet
	}
	return &settings, nil
}

// SaveAPIKey stores the audit API key for a site and returns the
// updated settings.
func (c *Client) SaveAPIKey(ctx context.Context, cookie, site, apiKey string) (*SiteSettings, error) {
	payload := map[string]string{"apiKey": apiKey}
	body, err := c.do(ctx, fasthttp.MethodPost, "/sites/"+url.PathEscape(site)+"/settings/api-key", cookie, nil, payload)
	if err != nil {
		return nil, err
	}

	var settings SiteSettings
	if err := json.Unmarshal(body, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &settings, nil
}

// TestAPIKey checks a key against the auditing service without saving it.
func (c *Client) TestAPIKey(ctx context.Context, cookie, site, apiKey string) (*TestResult, error) {
	payload := map[string]string{"apiKey": apiKey}
	body, err := c.do(ctx, fasthttp.MethodPost, "/sites/"+url.PathEscape(site)+"/settings/test-api-key", cookie, nil, payload)
	if err != nil {
		return nil, err
	}

	var result TestResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode test result: %w", err)
	}
	return &result, nil
}

// DeleteAPIKey removes the stored audit API key.
func (c *Client) DeleteAPIKey(ctx context.Context, cookie, site string) error {
	_, err := c.do(ctx, fasthttp.MethodDelete, "/sites/"+url.PathEscape(site)+"/settings/api-key", cookie, nil, nil)
	return err
}

// GetAnalyticsProperty fetches the linked analytics property, if any.
func (c *Client) GetAnalyticsProperty(ctx context.Context, cookie, site string) (*AnalyticsProperty, error) {
	body, err := c.do(ctx, fasthttp.MethodGet, "/sites/"+url.PathEscape(site)+"/analytics-property", cookie, nil, nil)
	if err != nil {
		return nil, err
	}

	var property AnalyticsProperty
	if err := json.Unmarshal(body, &property); err != nil {
		return nil, fmt.Errorf("failed to decode analytics property: %w", err)
	}
	return &property, nil
}

// SaveAnalyticsProperty links an analytics property to the site.
// MeasurementID is optional.
func (c *Client) SaveAnalyticsProperty(ctx context.Context, cookie, site, propertyID, measurementID string) error {
	payload := map[string]any{"propertyId": propertyID}
	if measurementID != "" {
		payload["measurementId"] = measurementID
	}
	_, err := c.do(ctx, fasthttp.MethodPost, "/sites/"+url.PathEscape(site)+"/save-analytics-property", cookie, nil, payload)
	return err
}

// QualityAudit fetches the quality-audit result for one page URL.
// Throttled by the audit rate limiter.
func (c *Client) QualityAudit(ctx context.Context, cookie, site, pageURL string) (*QualityAudit, error) {
	if err := c.auditLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("audit rate limiter: %w", err)
	}

	query := url.Values{"url": {pageURL}}
	body, err := c.do(ctx, fasthttp.MethodGet, "/sites/"+url.PathEscape(site)+"/lighthouse", cookie, query, nil)
	if err != nil {
		return nil, err
	}

	var audit QualityAudit
	if err := json.Unmarshal(body, &audit); err != nil {
		return nil, fmt.Errorf("failed to decode quality audit: %w", err)
	}
	return &audit, nil
}

// SearchAnalytics fetches the search console rows for one page URL.
func (c *Client) SearchAnalytics(ctx context.Context, cookie, site, pageURL string) (*SearchAnalytics, error) {
	query := url.Values{"url": {pageURL}}
	body, err := c.do(ctx, fasthttp.MethodGet, "/sites/"+url.PathEscape(site)+"/search-console", cookie, query, nil)
	if err != nil {
		return nil, err
	}

	var analytics SearchAnalytics
	if err := json.Unmarshal(body, &analytics); err != nil {
		return nil, fmt.Errorf("failed to decode search analytics: %w", err)
	}
	return &analytics, nil
}

// Traffic fetches the traffic summary for a site over the given period.
func (c *Client) Traffic(ctx context.Context, cookie, site string, days int) (*TrafficSummary, error) {
	query := url.Values{"days": {strconv.Itoa(days)}}
	body, err := c.do(ctx, fasthttp.MethodGet, "/sites/"+url.PathEscape(site)+"/traffic-analysis", cookie, query, nil)
	if err != nil {
		return nil, err
	}

	var summary TrafficSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode traffic summary: %w", err)
	}
	return &summary, nil
}

// AddSite submits a site-creation payload assembled by the wizard.
func (c *Client) AddSite(ctx context.Context, cookie string, req *AddSiteRequest) error {
	_, err := c.do(ctx, fasthttp.MethodPost, "/sites/add", cookie, nil, req)
	return err
}

// GenerateReport asks the backend to render a PDF report and returns
// the raw bytes. The caller is responsible for the download filename.
func (c *Client) GenerateReport(ctx context.Context, cookie, site, kind string, payload any) ([]byte, error) {
	var path string
	switch kind {
	case ReportKeyword:
		path = "/sites/" + url.PathEscape(site) + "/generate-keyword-pdf"
	case ReportPageAnalysis:
		path = "/sites/" + url.PathEscape(site) + "/generate-page-analysis-pdf"
	default:
		return nil, fmt.Errorf("unknown report kind: %s", kind)
	}

	return c.do(ctx, fasthttp.MethodPost, path, cookie, nil, payload)
}

// do executes one request against the backend. Transport failures wrap
// ErrNoResponse; non-2xx replies become APIError with the body's
// `detail` field when present.
func (c *Client) do(ctx context.Context, method, path, cookie string, query url.Values, payload any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	requestURL := c.config.BaseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(method)
	if cookie != "" {
		req.Header.Set(fasthttp.HeaderCookie, cookie)
	}

	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	timeout := c.config.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	c.log.WithFields(map[string]interface{}{
		"method": method,
		"path":   path,
	}).Debug("Sending backend request")

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)

	if status < 200 || status >= 300 {
		apiErr := &APIError{StatusCode: status}
		var errBody struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errBody); err == nil {
			apiErr.Detail = errBody.Detail
		}
		return nil, apiErr
	}

	return body, nil
}
