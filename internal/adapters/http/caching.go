package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on
// endpoint. TTLs track how fast each feed actually changes; handlers can
// override by setting the header themselves.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if a handler already set it
		if existing := c.GetRespHeader("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/api/health" || path == "/api/ready":
			ttl = "no-cache" // Health must reflect the latest probe

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/api/aviation":
			ttl = "public, max-age=10" // Aircraft move fast

		case path == "/api/wikipedia":
			ttl = "public, max-age=60"

		case path == "/api/surveillance":
			ttl = "public, max-age=120"

		case path == "/api/military":
			ttl = "public, max-age=300"

		case path == "/api/hazards" || path == "/api/gdacs":
			ttl = "public, max-age=300" // Disaster feeds update on minute scale

		case path == "/api/submarine-cables":
			ttl = "public, max-age=3600" // Cable geometry changes rarely

		case path == "/api/reverse-geocode":
			ttl = "public, max-age=3600"

		case strings.HasPrefix(path, "/api/groups") || strings.HasPrefix(path, "/api/features") ||
			strings.HasPrefix(path, "/api/auth"):
			ttl = "private, no-store" // Per-user data never enters shared caches
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
