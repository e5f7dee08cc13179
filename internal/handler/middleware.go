package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"seopanel-go/pkg/logger"
)

// RequestLogger tags each request with an ID and logs its outcome.
func RequestLogger() fiber.Handler {
	log := logger.GetLogger().WithComponent("http")

	return func(c *fiber.Ctx) error {
		requestID := uuid.NewString()
		c.Locals("request_id", requestID)
		c.Set("X-Request-ID", requestID)

		start := time.Now()
		err := c.Next()

		log.WithFields(map[string]interface{}{
			"request_id":  requestID,
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Request handled")

		return err
	}
}
