package http

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
)

// Feed endpoints fail soft: a dead or misbehaving upstream yields an empty
// 200 payload, never an error status. The map keeps rendering whatever
// layers still work, and /api/health carries the degradation signal.

// parseBBox reads south/west/north/east query params. ok is false when any
// param is missing or not a number.
func parseBBox(c *fiber.Ctx) (domain.BoundingBox, bool) {
	var box domain.BoundingBox
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"south", &box.South},
		{"west", &box.West},
		{"north", &box.North},
		{"east", &box.East},
	} {
		v, err := strconv.ParseFloat(c.Query(p.name), 64)
		if err != nil {
			return domain.BoundingBox{}, false
		}
		*p.dst = v
	}
	return box, true
}

// parsePoint reads lat/lon query params.
func parsePoint(c *fiber.Ctx) (lat, lon float64, ok bool) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	return lat, lon, errLat == nil && errLon == nil
}

// AviationHandler returns live aircraft state vectors inside the viewport.
func AviationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		box, ok := parseBBox(c)
		if !ok {
			return c.JSON([]domain.FlightRecord{})
		}

		states, err := deps.Aviation.States(c.UserContext(), box)
		if err != nil {
			slog.Warn("aviation fetch failed", "error", err)
			return c.JSON([]domain.FlightRecord{})
		}
		return c.JSON(states)
	}
}

// HazardsHandler returns open wildfire and severe-storm events.
func HazardsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		events, err := deps.Hazards.OpenEvents(c.UserContext())
		if err != nil {
			slog.Warn("hazards fetch failed", "error", err)
			return c.JSON([]domain.HazardEvent{})
		}
		return c.JSON(events)
	}
}

// WikipediaHandler returns geotagged articles near a point.
func WikipediaHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, lon, ok := parsePoint(c)
		if !ok {
			return c.JSON([]domain.WikiArticle{})
		}
		radius, _ := strconv.ParseFloat(c.Query("radius"), 64)

		articles, err := deps.Lookup.NearbyArticles(c.UserContext(), domain.GeoSearch{
			Lat: lat, Lon: lon, Radius: radius,
		})
		if err != nil {
			slog.Warn("wikipedia fetch failed", "error", err)
			return c.JSON([]domain.WikiArticle{})
		}
		return c.JSON(articles)
	}
}

// SurveillanceHandler returns mapped camera nodes inside the viewport.
func SurveillanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		box, ok := parseBBox(c)
		if !ok {
			return c.JSON([]domain.SurveillanceCamera{})
		}

		cameras, err := deps.Surveillance.Cameras(c.UserContext(), box)
		if err != nil {
			slog.Warn("surveillance fetch failed", "error", err)
			return c.JSON([]domain.SurveillanceCamera{})
		}
		return c.JSON(cameras)
	}
}

// MilitaryHandler returns military installation outlines inside the viewport.
func MilitaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		box, ok := parseBBox(c)
		if !ok {
			return c.JSON(fiber.Map{"elements": []domain.MilitaryElement{}})
		}

		elements, err := deps.Military.Installations(c.UserContext(), box)
		if err != nil {
			slog.Warn("military fetch failed", "error", err)
			return c.JSON(fiber.Map{"elements": []domain.MilitaryElement{}})
		}
		return c.JSON(fiber.Map{"elements": elements})
	}
}

// GDACSHandler proxies the disaster-alert FeatureCollection.
func GDACSHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fc, err := deps.GDACS.Events(c.UserContext())
		if err != nil {
			slog.Warn("gdacs fetch failed", "error", err)
		}
		return c.JSON(fc)
	}
}

// CablesHandler proxies the submarine-cable FeatureCollection.
func CablesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fc, err := deps.Cables.CableGeo(c.UserContext())
		if err != nil {
			slog.Warn("cables fetch failed", "error", err)
		}
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(fc)
	}
}

// ReverseGeocodeHandler resolves a point to a postal address. The response is
// always 200; both bad input and lookup failure surface as an error field in
// the body, with distinct messages so clients can tell them apart.
func ReverseGeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, lon, ok := parsePoint(c)
		if !ok {
			return c.JSON(domain.GeocodeResult{Error: "Invalid parameters"})
		}
		return c.JSON(deps.Lookup.ReverseGeocode(c.UserContext(), lat, lon))
	}
}
