package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Config struct {
	MaxTextLength       int
	AllowedContentTypes []string
	Logger              *zap.Logger
}

// Middleware rejects malformed or oversized audit requests before they
// reach the pipeline. The report text itself is passed through verbatim;
// only size and shape are checked here.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxTextLength == 0 {
		cfg.MaxTextLength = 50000
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json"}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == "POST" || c.Method() == "PUT" {
			contentType := c.Get("Content-Type")
			if contentType != "" {
				allowed := false
				for _, allowedType := range cfg.AllowedContentTypes {
					if strings.Contains(contentType, allowedType) {
						allowed = true
						break
					}
				}
				if !allowed {
					return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
						"error": "Unsupported content type",
					})
				}
			}
		}

		path := c.Path()

		if strings.HasSuffix(path, "/audits") || strings.HasSuffix(path, "/quick-validate") {
			var req map[string]interface{}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			text, ok := req["text"].(string)
			if !ok || text == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Text is required and must be a string",
				})
			}

			if len(text) > cfg.MaxTextLength {
				cfg.Logger.Warn("Oversized report rejected",
					zap.String("ip", c.IP()),
					zap.Int("text_length", len(text)),
				)
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
					"error": "Text exceeds maximum length",
				})
			}
		}

		return c.Next()
	}
}
