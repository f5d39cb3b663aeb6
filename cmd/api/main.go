package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tkaczmarek/geoscope/internal/adapters/http"
	natsadapter "github.com/tkaczmarek/geoscope/internal/adapters/nats"
	"github.com/tkaczmarek/geoscope/internal/adapters/postgres"
	"github.com/tkaczmarek/geoscope/internal/adapters/upstream"
	"github.com/tkaczmarek/geoscope/internal/adapters/valkey"
	"github.com/tkaczmarek/geoscope/internal/core/ports"
	"github.com/tkaczmarek/geoscope/internal/core/usecases"
	"github.com/tkaczmarek/geoscope/internal/health"
	"github.com/tkaczmarek/geoscope/internal/pkg/config"
	"github.com/tkaczmarek/geoscope/internal/pkg/logging"
	"github.com/tkaczmarek/geoscope/internal/pkg/metrics"
	"github.com/tkaczmarek/geoscope/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geoscope-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("geoscope-api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			}
		}
	}()

	// Cache: the gateway degrades to uncached lookups without it.
	var cache *valkey.Cache
	var lookupCache ports.CacheService
	if cache, err = valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, lookups uncached", "error", err)
		cache = nil
	} else {
		defer cache.Close()
		lookupCache = cache
	}

	// NATS feeds the marine websocket relay.
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, marine relay offline", "error", err)
	}

	// All feed adapters share one health registry.
	reg := health.NewRegistry()

	deps := &http.Dependencies{
		Aviation:     upstream.NewAviationAPI(cfg.Upstream.OpenSky, reg),
		Hazards:      upstream.NewHazardsAPI(cfg.Upstream.EONET, reg),
		Surveillance: upstream.NewSurveillanceAPI(cfg.Upstream.Overpass, reg),
		Military:     upstream.NewMilitaryAPI(cfg.Upstream.Overpass, reg),
		GDACS:        upstream.NewGDACSAPI(cfg.Upstream.GDACS, reg),
		Cables:       upstream.NewCablesAPI(cfg.Upstream.Cables, reg),
		Lookup: usecases.NewLookupService(
			upstream.NewGeocodeAPI(cfg.Upstream.Nominatim),
			upstream.NewWikipediaAPI(cfg.Upstream.Wikipedia, reg),
			lookupCache,
		),
		Workspace: usecases.NewWorkspaceService(
			postgres.NewGroupRepo(db),
			postgres.NewFeatureRepo(db),
		),
		Health: reg,
		Auth:   cfg.Auth,
		NATS:   natsConn,
		DB:     db,
		Cache:  cache,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "GeoScope API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	if natsConn != nil {
		natsConn.Close()
	}

	slog.Info("server stopped")
}
