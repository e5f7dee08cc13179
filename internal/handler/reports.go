package handler

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"seopanel-go/pkg/backend"
)

// Report kinds offered on the reports page.
var reportKinds = map[string]string{
	"keywords":      backend.ReportKeyword,
	"page-analysis": backend.ReportPageAnalysis,
}

// Reports shows the report generator page.
func (h *Handler) Reports(c *fiber.Ctx) error {
	site := h.siteParam(c)
	view := fiber.Map{
		"page": "reports",
		"site": site,
		"kinds": []fiber.Map{
			{"id": "keywords", "label": "Keyword report"},
			{"id": "page-analysis", "label": "Page analysis report"},
		},
	}

	gate := h.gate(c)
	view["gate"] = gate
	if !gate.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(view)
	}
	return c.JSON(view)
}

// DownloadReport generates a PDF report and streams it back as an
// attachment named {site}_{kind}.pdf.
func (h *Handler) DownloadReport(c *fiber.Ctx) error {
	site := h.siteParam(c)
	kind, ok := reportKinds[c.Params("kind")]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unknown report kind.",
		})
	}

	gate := h.gate(c)
	if !gate.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"gate": gate})
	}

	var payload map[string]any
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "The report payload is not valid JSON.",
			})
		}
	}

	pdf, err := h.client.GenerateReport(c.UserContext(), sessionCookie(c), site, kind, payload)
	if err != nil {
		h.log.WithError(err).Error("Report generation failed")
		return c.Status(statusOf(err)).JSON(fiber.Map{
			"message": backend.UserMessage(err, "Report"),
		})
	}

	filename := fmt.Sprintf("%s_%s.pdf", strings.ReplaceAll(site, "/", "_"), c.Params("kind"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
