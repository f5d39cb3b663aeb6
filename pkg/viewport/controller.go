package viewport

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Per-feed staleness windows. An entry older than its window is refetched on
// the next access; there is no background refresh.
const (
	aviationTTL     = 10 * time.Second
	wikipediaTTL    = 60 * time.Second
	surveillanceTTL = 120 * time.Second
	militaryTTL     = 5 * time.Minute
	hazardsTTL      = 5 * time.Minute
	cablesTTL       = time.Hour
)

// Zoom gates. Below the threshold the feed yields an empty result without
// issuing a request; country-scale viewports must not pull point-level data.
const (
	SurveillanceMinZoom = 12
	MilitaryMinZoom     = 8
)

// Rendering-cost truncation limits, applied after fetch.
const (
	MaxFlights  = 500
	MaxCameras  = 200
	MaxPolygons = 100
)

// DefaultWikiRadius is the geosearch radius in meters when the caller does
// not override it.
const DefaultWikiRadius = 10000

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

// Controller answers per-feed queries for the current view from a TTL cache.
// Cache keys are built from rounded coordinates, which bounds key cardinality
// and absorbs sub-precision jitter between move-end events. Methods are safe
// for concurrent use; a superseded in-flight fetch is not cancelled, but a
// per-key sequence guard keeps its late response from overwriting a fresher
// entry.
type Controller struct {
	client *Client
	now    func() time.Time

	mu      sync.Mutex
	view    View
	cache   map[string]cacheEntry
	issued  map[string]uint64
	applied map[string]uint64
}

// NewController creates a controller over the given gateway client.
func NewController(client *Client) *Controller {
	return &Controller{
		client:  client,
		now:     time.Now,
		cache:   map[string]cacheEntry{},
		issued:  map[string]uint64{},
		applied: map[string]uint64{},
	}
}

// MoveEnd records the view sampled at a map move-end event. Intermediate pan
// frames must not be fed here.
func (c *Controller) MoveEnd(v View) {
	c.mu.Lock()
	c.view = v
	c.mu.Unlock()
}

// View returns the last recorded view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// cached returns a fresh entry for key, or issues fn and stores its result.
// Results are applied in sequence order per key: if a newer request finished
// first, the older response is returned to its caller but not stored.
func cached[T any](c *Controller, ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if e, ok := c.cache[key]; ok && c.now().Sub(e.fetchedAt) < ttl {
		v := e.value.(T)
		c.mu.Unlock()
		return v, nil
	}
	c.issued[key]++
	seq := c.issued[key]
	c.mu.Unlock()

	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	if seq > c.applied[key] {
		c.applied[key] = seq
		c.cache[key] = cacheEntry{value: v, fetchedAt: c.now()}
	}
	c.mu.Unlock()
	return v, nil
}

// roundBox rounds each edge to the given precision for key building.
func roundBox(b BoundingBox, format string) string {
	return fmt.Sprintf(format, b.South, b.West, b.North, b.East)
}

// Aviation returns plottable aircraft in the current view, at most
// MaxFlights of them. Bounding-box feeds key at one decimal place.
func (c *Controller) Aviation(ctx context.Context) ([]FlightRecord, error) {
	view := c.View()
	key := "aviation:" + roundBox(view.BBox, "%.1f:%.1f:%.1f:%.1f")
	return cached(c, ctx, key, aviationTTL, func(ctx context.Context) ([]FlightRecord, error) {
		records, err := c.client.Aviation(ctx, view.BBox)
		if err != nil {
			return nil, err
		}
		plottable := make([]FlightRecord, 0, len(records))
		for _, r := range records {
			if r.Plottable() {
				plottable = append(plottable, r)
			}
		}
		if len(plottable) > MaxFlights {
			plottable = plottable[:MaxFlights]
		}
		return plottable, nil
	})
}

// Wikipedia returns articles near the view center. Point feeds key at two
// decimal places.
func (c *Controller) Wikipedia(ctx context.Context) ([]WikiArticle, error) {
	view := c.View()
	key := fmt.Sprintf("wikipedia:%.2f:%.2f", view.Lat, view.Lon)
	return cached(c, ctx, key, wikipediaTTL, func(ctx context.Context) ([]WikiArticle, error) {
		return c.client.Wikipedia(ctx, view.Lat, view.Lon, DefaultWikiRadius)
	})
}

// Surveillance returns camera nodes in the current view, gated to close-in
// zoom levels and truncated to MaxCameras.
func (c *Controller) Surveillance(ctx context.Context) ([]SurveillanceCamera, error) {
	view := c.View()
	if view.Zoom < SurveillanceMinZoom {
		return []SurveillanceCamera{}, nil
	}
	key := "surveillance:" + roundBox(view.BBox, "%.1f:%.1f:%.1f:%.1f")
	return cached(c, ctx, key, surveillanceTTL, func(ctx context.Context) ([]SurveillanceCamera, error) {
		cameras, err := c.client.Surveillance(ctx, view.BBox)
		if err != nil {
			return nil, err
		}
		if len(cameras) > MaxCameras {
			cameras = cameras[:MaxCameras]
		}
		return cameras, nil
	})
}

// Military returns drawable installation outlines in the current view, gated
// by zoom and truncated to MaxPolygons valid polygons. Large-area semantics
// key at whole degrees.
func (c *Controller) Military(ctx context.Context) ([]MilitaryElement, error) {
	view := c.View()
	if view.Zoom < MilitaryMinZoom {
		return []MilitaryElement{}, nil
	}
	key := "military:" + roundBox(view.BBox, "%.0f:%.0f:%.0f:%.0f")
	return cached(c, ctx, key, militaryTTL, func(ctx context.Context) ([]MilitaryElement, error) {
		elements, err := c.client.Military(ctx, view.BBox)
		if err != nil {
			return nil, err
		}
		polygons := make([]MilitaryElement, 0, len(elements))
		for _, e := range elements {
			if !e.ValidPolygon() {
				continue
			}
			polygons = append(polygons, e)
			if len(polygons) == MaxPolygons {
				break
			}
		}
		return polygons, nil
	})
}

// Hazards returns open hazard events. The feed is global, so the key is
// constant.
func (c *Controller) Hazards(ctx context.Context) ([]HazardEvent, error) {
	return cached(c, ctx, "hazards", hazardsTTL, func(ctx context.Context) ([]HazardEvent, error) {
		return c.client.Hazards(ctx)
	})
}

// GDACS returns the disaster-alert FeatureCollection.
func (c *Controller) GDACS(ctx context.Context) (FeatureCollection, error) {
	return cached(c, ctx, "gdacs", hazardsTTL, func(ctx context.Context) (FeatureCollection, error) {
		return c.client.GDACS(ctx)
	})
}

// Cables returns the submarine-cable FeatureCollection.
func (c *Controller) Cables(ctx context.Context) (FeatureCollection, error) {
	return cached(c, ctx, "cables", cablesTTL, func(ctx context.Context) (FeatureCollection, error) {
		return c.client.Cables(ctx)
	})
}
