package handler

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"seopanel-go/pkg/audit"
	"seopanel-go/pkg/backend"
	"seopanel-go/pkg/fetch"
	"seopanel-go/pkg/prefs"
	"seopanel-go/pkg/sites"
)

// keywordsView is the keyword-list page view-model.
type keywordsView struct {
	Page     string                                  `json:"page"`
	Gate     gateResult                              `json:"gate"`
	Site     string                                  `json:"site"`
	Keywords fetch.Snapshot[[]backend.KeywordRecord] `json:"keywords"`
}

// Keywords lists search-analytics keyword rows for the selected site.
func (h *Handler) Keywords(c *fiber.Ctx) error {
	site := h.siteParam(c)
	view := keywordsView{Page: "keywords", Site: site}

	view.Gate = h.gate(c)
	if !view.Gate.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(view)
	}

	fetcher := fetch.NewList[backend.KeywordRecord]("Keyword data")
	view.Keywords = fetcher.Run(c.UserContext(), site, func(ctx context.Context, key string) ([]backend.KeywordRecord, error) {
		return h.client.ListKeywords(ctx, sessionCookie(c), key)
	})

	return c.JSON(view)
}

// Traffic periods the analytics service accepts.
var validPeriods = map[string]int{"7": 7, "30": 30, "90": 90}

// trafficView is the traffic-summary page view-model.
type trafficView struct {
	Page    string                                  `json:"page"`
	Gate    gateResult                              `json:"gate"`
	Site    string                                  `json:"site"`
	Days    int                                     `json:"days"`
	Traffic fetch.Snapshot[*backend.TrafficSummary] `json:"traffic"`
}

// Traffic shows the period-scoped traffic summary. The resource key
// couples site and period: changing either invalidates the data.
func (h *Handler) Traffic(c *fiber.Ctx) error {
	site := h.siteParam(c)
	days, ok := validPeriods[c.Query("days", "30")]
	if !ok {
		days = 30
	}

	view := trafficView{Page: "traffic", Site: site, Days: days}
	view.Gate = h.gate(c)
	if !view.Gate.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(view)
	}

	fetcher := fetch.New[*backend.TrafficSummary]("Analytics data", func(s *backend.TrafficSummary) bool {
		return s == nil
	})
	key := ""
	if site != "" {
		key = fmt.Sprintf("%s:%d", site, days)
	}
	view.Traffic = fetcher.Run(c.UserContext(), key, func(ctx context.Context, key string) (*backend.TrafficSummary, error) {
		return h.client.Traffic(ctx, sessionCookie(c), site, days)
	})

	return c.JSON(view)
}

// pageAnalysisView is the page-audit view-model.
type pageAnalysisView struct {
	Page         string                              `json:"page"`
	Gate         gateResult                          `json:"gate"`
	Site         string                              `json:"site"`
	Pages        fetch.Snapshot[[]backend.PageInfo]  `json:"pages"`
	SelectedPage string                              `json:"selectedPage,omitempty"`
	Report       *audit.Report                       `json:"report,omitempty"`
	Precondition string                              `json:"precondition,omitempty"`
	SettingsPath string                              `json:"settingsPath,omitempty"`
	Error        string                              `json:"error,omitempty"`
}

// PageAnalysis runs the dependent audit chain for one page of a site:
// pages list, settings precondition, then the combined report.
func (h *Handler) PageAnalysis(c *fiber.Ctx) error {
	site := h.siteParam(c)
	view := pageAnalysisView{Page: "page-analysis", Site: site}

	view.Gate = h.gate(c)
	if !view.Gate.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(view)
	}

	// No site key means no backend call, not even with an explicit
	// ?url=. The page asks for a site selection instead.
	if site == "" {
		view.Precondition = "Select a site to run page analysis."
		return c.JSON(view)
	}

	fetcher := fetch.NewList[backend.PageInfo]("Pages")
	view.Pages = fetcher.Run(c.UserContext(), site, func(ctx context.Context, key string) ([]backend.PageInfo, error) {
		return h.client.ListPages(ctx, sessionCookie(c), key)
	})

	view.SelectedPage = c.Query("url")
	if view.SelectedPage == "" && view.Pages.State == fetch.StateSuccess {
		view.SelectedPage = view.Pages.Data[0].URL
	}
	if view.SelectedPage == "" {
		return c.JSON(view)
	}

	report, err := h.analyzer.Analyze(c.UserContext(), sessionCookie(c), site, view.SelectedPage)
	switch {
	case errors.Is(err, audit.ErrAPIKeyRequired):
		view.Precondition = "Page analysis requires a valid audit API key. Configure one in site settings."
		view.SettingsPath = "/site-settings/" + site
	case err != nil:
		view.Error = backend.UserMessage(err, "Page")
	default:
		view.Report = report
	}

	return c.JSON(view)
}

// competitorsView is the competitor-comparison page view-model.
type competitorsView struct {
	Page        string              `json:"page"`
	Gate        gateResult          `json:"gate"`
	Site        string              `json:"site"`
	Competitors []CompetitorMetrics `json:"competitors"`
}

// Competitors compares the selected site against its tracked rivals.
// Metrics come from the competitor source collaborator; the backend
// does not expose them yet.
func (h *Handler) Competitors(c *fiber.Ctx) error {
	site := h.siteParam(c)
	view := competitorsView{Page: "competitors", Site: site}

	view.Gate = h.gate(c)
	if !view.Gate.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(view)
	}

	view.Competitors = h.competitors.Metrics(site)
	return c.JSON(view)
}

// siteParam returns the site route parameter as a cleaned key. Alias
// routes without a site parameter fall back to the remembered
// selection.
func (h *Handler) siteParam(c *fiber.Ctx) string {
	site, err := url.PathUnescape(c.Params("site"))
	if err != nil {
		site = c.Params("site")
	}
	site = sites.CleanURL(site)
	if site == "" {
		site, _ = h.prefs.Load(c.UserContext(), prefs.KeyLastSelectedSite)
	}
	return site
}
