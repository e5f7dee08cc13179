package handler

import (
	"github.com/gofiber/fiber/v2"

	"seopanel-go/pkg/backend"
	"seopanel-go/pkg/fetch"
	"seopanel-go/pkg/prefs"
	"seopanel-go/pkg/sites"
)

// Login is the unauthenticated entry page. Sign-in itself is the
// backend's OAuth flow; the page just points at it.
func (h *Handler) Login(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":      "login",
		"signInURL": "/login",
		"message":   "Sign in with your search console account",
	})
}

// Register mirrors the login page; account creation happens during the
// backend's sign-in flow.
func (h *Handler) Register(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":      "register",
		"signInURL": "/login",
	})
}

// NotFound is the 404 page, also the fallback for unknown routes.
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"page":    "not-found",
		"message": "The page you are looking for was not found.",
	})
}

// ServerError is the 500 page.
func (h *Handler) ServerError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"page":    "server-error",
		"message": "Something went wrong. Please try again later.",
	})
}

// dashboardView is the dashboard page view-model.
type dashboardView struct {
	Page         string                        `json:"page"`
	Gate         gateResult                    `json:"gate"`
	Sites        fetch.Snapshot[[]sites.Entry] `json:"sites"`
	SelectedSite string                        `json:"selectedSite,omitempty"`
	Theme        string                        `json:"theme,omitempty"`
}

// Dashboard lists the user's sites and preselects the remembered one.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	view := dashboardView{Page: "dashboard"}
	if theme, ok := h.prefs.Load(c.UserContext(), prefs.KeyTheme); ok {
		view.Theme = theme
	}

	view.Gate = h.gate(c)
	if !view.Gate.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(view)
	}

	view.Sites = h.fetchSites(c)
	if view.Sites.State == fetch.StateSuccess {
		last, _ := h.prefs.Load(c.UserContext(), prefs.KeyLastSelectedSite)
		view.SelectedSite = sites.SelectDefault(view.Sites.Data, last)
	}

	return c.JSON(view)
}

// SelectSite remembers the active site. The selection must be one of
// the fetched, permission-filtered sites.
func (h *Handler) SelectSite(c *fiber.Ctx) error {
	var body struct {
		Site string `json:"site"`
	}
	if err := c.BodyParser(&body); err != nil || body.Site == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A site is required.",
		})
	}

	gate := h.gate(c)
	if !gate.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"gate": gate})
	}

	snap := h.fetchSites(c)
	selected := ""
	for _, entry := range snap.Data {
		if entry.URL == sites.CleanURL(body.Site) {
			selected = entry.URL
			break
		}
	}
	if selected == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "The selected site is not in your site list.",
		})
	}

	if err := h.prefs.Save(c.UserContext(), prefs.KeyLastSelectedSite, selected); err != nil {
		h.log.WithError(err).Warn("Failed to persist site selection")
	}
	return c.JSON(fiber.Map{"selectedSite": selected})
}

// Logout invalidates the backend session and points back to login.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.client.Logout(c.UserContext(), sessionCookie(c)); err != nil {
		h.log.WithError(err).Warn("Logout request failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": backend.UserMessage(err, "Session"),
		})
	}
	return c.JSON(fiber.Map{"redirect": "/login"})
}
