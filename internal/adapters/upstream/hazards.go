package upstream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/health"
)

// Hazard categories kept by this system. Everything else the vendor reports
// (volcanoes, icebergs, ...) is dropped on purpose.
const (
	categoryWildfires    = "wildfires"
	categorySevereStorms = "severeStorms"
)

// HazardsAPI proxies the open natural-hazard event feed.
type HazardsAPI struct {
	base   string
	c      *client
	health *health.Registry
}

// NewHazardsAPI creates the hazards adapter.
func NewHazardsAPI(base string, reg *health.Registry) *HazardsAPI {
	return &HazardsAPI{base: base, c: newClient(health.FeedHazards, 20*time.Second), health: reg}
}

// OpenEvents returns currently open wildfire and severe-storm events.
// The feed is global; no geospatial parameters apply.
func (a *HazardsAPI) OpenEvents(ctx context.Context) ([]domain.HazardEvent, error) {
	url := a.base + "/api/v3/events?status=open"

	body, err := a.c.get(ctx, url)
	if err != nil {
		a.health.Set(health.FeedHazards, health.Red)
		return nil, err
	}
	a.health.Set(health.FeedHazards, health.Green)

	var payload struct {
		Events []struct {
			ID          string                  `json:"id"`
			Title       string                  `json:"title"`
			Description string                  `json:"description"`
			Categories  []domain.HazardCategory `json:"categories"`
			Geometry    []domain.HazardGeometry `json:"geometry"`
		} `json:"events"`
	}
	// A body we cannot decode collapses to an empty result; the request
	// itself succeeded so the feed stays green.
	if err := json.Unmarshal(body, &payload); err != nil {
		return []domain.HazardEvent{}, nil
	}

	events := make([]domain.HazardEvent, 0, len(payload.Events))
	for _, e := range payload.Events {
		if !wantedHazard(e.Categories) {
			continue
		}
		events = append(events, domain.HazardEvent{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Categories:  e.Categories,
			Geometry:    e.Geometry,
		})
	}
	return events, nil
}

func wantedHazard(cats []domain.HazardCategory) bool {
	for _, c := range cats {
		if c.ID == categoryWildfires || c.ID == categorySevereStorms {
			return true
		}
	}
	return false
}
