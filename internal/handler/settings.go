package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"seopanel-go/pkg/backend"
	"seopanel-go/pkg/fetch"
	"seopanel-go/pkg/prefs"
)

// siteSettingsView is the site-settings page view-model.
type siteSettingsView struct {
	Page      string                                `json:"page"`
	Gate      gateResult                            `json:"gate"`
	Site      string                                `json:"site"`
	Settings  fetch.Snapshot[*backend.SiteSettings] `json:"settings"`
	Analytics *backend.AnalyticsProperty            `json:"analytics,omitempty"`
}

// SiteSettings shows the audit API key state and the linked analytics
// property. A missing analytics property does not fail the page.
func (h *Handler) SiteSettings(c *fiber.Ctx) error {
	site := h.siteParam(c)
	view := siteSettingsView{Page: "site-settings", Site: site}

	view.Gate = h.gate(c)
	if !view.Gate.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(view)
	}

	fetcher := fetch.New[*backend.SiteSettings]("Settings", func(s *backend.SiteSettings) bool {
		return s == nil
	})
	view.Settings = fetcher.Run(c.UserContext(), site, func(ctx context.Context, key string) (*backend.SiteSettings, error) {
		return h.client.GetSettings(ctx, sessionCookie(c), key)
	})

	if site != "" {
		property, err := h.client.GetAnalyticsProperty(c.UserContext(), sessionCookie(c), site)
		if err != nil {
			h.log.WithError(err).Debug("No analytics property for site")
		} else {
			view.Analytics = property
		}
	}

	return c.JSON(view)
}

// SaveAPIKey stores the audit API key for a site.
func (h *Handler) SaveAPIKey(c *fiber.Ctx) error {
	site := h.siteParam(c)
	var body struct {
		APIKey string `json:"apiKey"`
	}
	if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.APIKey) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "An API key is required.",
		})
	}

	settings, err := h.client.SaveAPIKey(c.UserContext(), sessionCookie(c), site, strings.TrimSpace(body.APIKey))
	if err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{
			"message": backend.UserMessage(err, "Settings"),
		})
	}
	return c.JSON(settings)
}

// TestAPIKey runs a live check of a candidate key without storing it.
func (h *Handler) TestAPIKey(c *fiber.Ctx) error {
	site := h.siteParam(c)
	var body struct {
		APIKey string `json:"apiKey"`
	}
	if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.APIKey) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "An API key is required.",
		})
	}

	result, err := h.client.TestAPIKey(c.UserContext(), sessionCookie(c), site, strings.TrimSpace(body.APIKey))
	if err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{
			"message": backend.UserMessage(err, "Settings"),
		})
	}
	return c.JSON(result)
}

// DeleteAPIKey removes the stored audit API key.
func (h *Handler) DeleteAPIKey(c *fiber.Ctx) error {
	site := h.siteParam(c)
	if err := h.client.DeleteAPIKey(c.UserContext(), sessionCookie(c), site); err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{
			"message": backend.UserMessage(err, "Settings"),
		})
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// SaveAnalyticsProperty links a GA property to the site.
func (h *Handler) SaveAnalyticsProperty(c *fiber.Ctx) error {
	site := h.siteParam(c)
	var body struct {
		PropertyID    string `json:"propertyId"`
		MeasurementID string `json:"measurementId"`
	}
	if err := c.BodyParser(&body); err != nil || body.PropertyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A property ID is required.",
		})
	}

	err := h.client.SaveAnalyticsProperty(c.UserContext(), sessionCookie(c), site, body.PropertyID, body.MeasurementID)
	if err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{
			"message": backend.UserMessage(err, "Settings"),
		})
	}
	return c.JSON(fiber.Map{"saved": true})
}

// Themes the global settings page accepts.
var validThemes = map[string]bool{"light": true, "dark": true}

// GlobalSettings shows account-wide preferences.
func (h *Handler) GlobalSettings(c *fiber.Ctx) error {
	view := fiber.Map{"page": "settings"}

	gate := h.gate(c)
	view["gate"] = gate
	if !gate.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(view)
	}

	theme, ok := h.prefs.Load(c.UserContext(), prefs.KeyTheme)
	if !ok {
		theme = "light"
	}
	view["theme"] = theme
	return c.JSON(view)
}

// SaveTheme persists the color theme preference.
func (h *Handler) SaveTheme(c *fiber.Ctx) error {
	var body struct {
		Theme string `json:"theme"`
	}
	if err := c.BodyParser(&body); err != nil || !validThemes[body.Theme] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Theme must be light or dark.",
		})
	}

	if err := h.prefs.Save(c.UserContext(), prefs.KeyTheme, body.Theme); err != nil {
		h.log.WithError(err).Error("Failed to persist theme")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to save the theme.",
		})
	}
	return c.JSON(fiber.Map{"theme": body.Theme})
}

// statusOf picks the response status for a backend failure: the
// upstream status when there is one, 502 when the backend never
// answered.
func statusOf(err error) int {
	if code := backend.StatusCode(err); code != 0 {
		return code
	}
	return fiber.StatusBadGateway
}
