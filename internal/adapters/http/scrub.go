package http

import (
	"github.com/gofiber/fiber/v2"
)

// scrubbedHeaders are the inbound headers that reveal the caller's address
// or proxy chain. They are deleted before any handler (or upstream proxy
// call) can see them.
var scrubbedHeaders = []string{
	"X-Forwarded-For",
	"Forwarded",
	"Via",
	"X-Real-Ip",
}

// ScrubMiddleware strips identifying proxy headers from API requests. Nothing
// downstream of this middleware can correlate a request with the client's
// network path.
func ScrubMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, h := range scrubbedHeaders {
			c.Request().Header.Del(h)
		}
		return c.Next()
	}
}
