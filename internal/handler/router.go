package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// NewRouter builds the fiber app with the full navigation shell. Pages
// that historically lived under more than one path keep every alias.
func NewRouter(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "seopanel",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) && fiberErr.Code == fiber.StatusNotFound {
				return h.NotFound(c)
			}
			h.log.WithError(err).Error("Unhandled request error")
			return h.ServerError(c)
		},
	})

	app.Use(RequestLogger())

	app.Get("/", h.Dashboard)
	app.Get("/dashboard", h.Dashboard)
	app.Get("/login", h.Login)
	app.Get("/register", h.Register)
	app.Post("/logout", h.Logout)
	app.Post("/select-site", h.SelectSite)

	app.Get("/add-site", h.AddSite)
	app.Post("/add-site/:action", h.WizardAction)

	app.Get("/keywords/:site", h.Keywords)
	app.Get("/keyword-analysis", h.Keywords)
	app.Get("/keyword-analysis/:site", h.Keywords)

	app.Get("/traffic/:site", h.Traffic)
	app.Get("/traffic-analysis", h.Traffic)
	app.Get("/traffic-analysis/:site", h.Traffic)

	app.Get("/page-analysis", h.PageAnalysis)
	app.Get("/page-analysis/:site", h.PageAnalysis)

	app.Get("/competitor-analysis", h.Competitors)
	app.Get("/competitor-analysis/:site", h.Competitors)

	app.Get("/reports", h.Reports)
	app.Get("/reports/:site", h.Reports)
	app.Post("/reports/:site/:kind", h.DownloadReport)

	app.Get("/site-settings", h.SiteSettings)
	app.Get("/site-settings/:site", h.SiteSettings)
	app.Post("/site-settings/:site/api-key", h.SaveAPIKey)
	app.Post("/site-settings/:site/api-key/test", h.TestAPIKey)
	app.Delete("/site-settings/:site/api-key", h.DeleteAPIKey)
	app.Post("/site-settings/:site/analytics-property", h.SaveAnalyticsProperty)

	app.Get("/settings", h.GlobalSettings)
	app.Post("/settings/theme", h.SaveTheme)

	app.Use(h.NotFound)

	return app
}
