package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/tkaczmarek/geoscope/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "no-referrer")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Privacy scrub: proxy-revealing headers never reach handlers
	api := app.Group("/api", ScrubMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	api.Get("/health", FeedHealthHandler(deps))
	api.Get("/ready", ReadyHandler(deps))

	// Feed proxies — generous timeout, Overpass can be slow
	api.Get("/aviation", timeout.NewWithContext(AviationHandler(deps), 25*time.Second))
	api.Get("/hazards", timeout.NewWithContext(HazardsHandler(deps), 25*time.Second))
	api.Get("/wikipedia", timeout.NewWithContext(WikipediaHandler(deps), 25*time.Second))
	api.Get("/surveillance", timeout.NewWithContext(SurveillanceHandler(deps), 25*time.Second))
	api.Get("/military", timeout.NewWithContext(MilitaryHandler(deps), 25*time.Second))
	api.Get("/gdacs", timeout.NewWithContext(GDACSHandler(deps), 25*time.Second))
	api.Get("/submarine-cables", timeout.NewWithContext(CablesHandler(deps), 35*time.Second))
	api.Get("/reverse-geocode", timeout.NewWithContext(ReverseGeocodeHandler(deps), 20*time.Second))

	// Anonymous sessions
	api.Get("/auth/user", AuthUserHandler(deps))

	// Workspace persistence — session required
	authed := api.Group("", RequireAuth(deps))
	authed.Get("/groups", ListGroupsHandler(deps))
	authed.Post("/groups", CreateGroupHandler(deps))
	authed.Delete("/groups/:id", DeleteGroupHandler(deps))
	authed.Get("/groups/:id/features", ListFeaturesHandler(deps))
	authed.Post("/features", SaveFeatureHandler(deps))
	authed.Delete("/features/:id", DeleteFeatureHandler(deps))

	// GraphQL (read-only workspace queries)
	authed.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// Marine vessel relay
	api.Use("/marine/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/marine/ws", websocket.New(MarineWSHandler(deps.NATS)))
}
