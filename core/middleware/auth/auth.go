package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// Config holds configuration for the auth middleware.
type Config struct {
	// ApiKey is the expected key. An empty key disables authentication.
	ApiKey string

	// Next skips this middleware when it returns true, for routes that
	// carry their own authentication.
	Next func(c *fiber.Ctx) bool
}

// New returns a middleware that checks the api_key query parameter or the
// X-Api-Key header against the configured key.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		key := c.Query("api_key")
		if key == "" {
			key = c.Get("X-Api-Key")
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid api key",
			})
		}
		return c.Next()
	}
}
