package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	MaxHeadingLength int
	MaxBodyLength    int
}

// Middleware screens submit requests before the pipeline runs: the body must
// be multipart form data and the text fields must stay within bounds. The
// credibility decision itself belongs to the scorer, not here.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxHeadingLength == 0 {
		cfg.MaxHeadingLength = 500
	}
	if cfg.MaxBodyLength == 0 {
		cfg.MaxBodyLength = 50000
	}

	return func(c *fiber.Ctx) error {
		contentType := c.Get("Content-Type")
		if !strings.Contains(contentType, "multipart/form-data") {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"error": "Submissions must be multipart form data",
			})
		}

		if len(c.FormValue("heading")) > cfg.MaxHeadingLength {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Heading too long",
			})
		}
		if len(c.FormValue("body")) > cfg.MaxBodyLength {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Body too long",
			})
		}

		return c.Next()
	}
}
