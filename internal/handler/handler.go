// Package handler maps dashboard routes to page view-models. Each
// handler runs the page's fetch lifecycle against the external backend
// and reduces the outcome to a JSON view-model; rendering is left to
// whatever consumes it.
package handler

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"

	"seopanel-go/pkg/audit"
	"seopanel-go/pkg/backend"
	"seopanel-go/pkg/fetch"
	"seopanel-go/pkg/logger"
	"seopanel-go/pkg/prefs"
	"seopanel-go/pkg/sites"
	"seopanel-go/pkg/wizard"
)

// Handler owns the per-page orchestration.
type Handler struct {
	client      *backend.Client
	analyzer    *audit.Analyzer
	prefs       prefs.Store
	verifier    wizard.Verifier
	competitors CompetitorSource
	log         *logger.Logger

	mu      sync.Mutex
	wizards map[string]*wizardSession
}

// New wires a handler with its collaborators.
func New(client *backend.Client, store prefs.Store) *Handler {
	return &Handler{
		client:      client,
		analyzer:    audit.NewAnalyzer(client),
		prefs:       store,
		verifier:    wizard.AcceptAllVerifier(),
		competitors: StaticCompetitorSource(),
		log:         logger.GetLogger().WithComponent("handler"),
		wizards:     make(map[string]*wizardSession),
	}
}

// sessionCookie is the ambient credential forwarded on every backend
// call: the caller's raw Cookie header.
func sessionCookie(c *fiber.Ctx) string {
	return c.Get(fiber.HeaderCookie)
}

// gateResult is the session gate outcome shared by protected pages.
type gateResult struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Message       string `json:"message,omitempty"`
	LoginPath     string `json:"loginPath,omitempty"`
}

// gate runs the session check. When the session is missing or expired
// the page must not fetch protected resources; the result carries the
// login redirect instead.
func (h *Handler) gate(c *fiber.Ctx) gateResult {
	status, err := h.client.AuthStatus(c.UserContext(), sessionCookie(c))
	if err != nil {
		return gateResult{
			Authenticated: false,
			Message:       backend.UserMessage(err, "Session"),
			LoginPath:     "/login",
		}
	}
	return gateResult{
		Authenticated: true,
		Username:      status.Username,
	}
}

// fetchSites runs the site-list lifecycle: fetch, normalize, filter to
// displayable permissions, clean URLs.
func (h *Handler) fetchSites(c *fiber.Ctx) fetch.Snapshot[[]sites.Entry] {
	fetcher := fetch.NewList[sites.Entry]("Sites")
	return fetcher.Run(c.UserContext(), "sites", func(ctx context.Context, key string) ([]sites.Entry, error) {
		raw, err := h.client.ListSites(ctx, sessionCookie(c))
		if err != nil {
			return nil, err
		}
		return sites.Filter(raw), nil
	})
}
