package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/health"
)

// overpassElement is the raw element shape shared by both Overpass-backed
// feeds. Nodes carry lat/lon directly; ways carry a geometry outline.
type overpassElement struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
	Tags     map[string]string `json:"tags"`
	Geometry []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"geometry"`
}

// runOverpass posts an interpolated query template to the interpreter.
// Overpass is slow on large boxes; the short client timeout turns a hung
// query into a failure instead of a stalled request. An error always means
// the request itself failed; a 2xx body that does not decode comes back as
// an empty element list.
func runOverpass(ctx context.Context, c *client, base, query string) ([]overpassElement, error) {
	body := "data=" + url.QueryEscape(query)
	raw, err := c.postForm(ctx, base+"/api/interpreter", body)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Elements []overpassElement `json:"elements"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return []overpassElement{}, nil
	}
	return payload.Elements, nil
}

// SurveillanceAPI queries mapped surveillance camera nodes.
type SurveillanceAPI struct {
	base   string
	c      *client
	health *health.Registry
}

// NewSurveillanceAPI creates the surveillance adapter.
func NewSurveillanceAPI(base string, reg *health.Registry) *SurveillanceAPI {
	return &SurveillanceAPI{base: base, c: newClient(health.FeedSurveillance, 15*time.Second), health: reg}
}

// Cameras returns camera nodes inside the bounding box.
func (a *SurveillanceAPI) Cameras(ctx context.Context, box domain.BoundingBox) ([]domain.SurveillanceCamera, error) {
	query := fmt.Sprintf(
		`[out:json][timeout:10];node["man_made"="surveillance"](%g,%g,%g,%g);out body;`,
		box.South, box.West, box.North, box.East)

	elements, err := runOverpass(ctx, a.c, a.base, query)
	if err != nil {
		a.health.Set(health.FeedSurveillance, health.Red)
		return nil, err
	}
	a.health.Set(health.FeedSurveillance, health.Green)

	cameras := make([]domain.SurveillanceCamera, 0, len(elements))
	for _, el := range elements {
		tags := el.Tags
		if tags == nil {
			tags = map[string]string{}
		}
		cameras = append(cameras, domain.SurveillanceCamera{
			ID:   el.ID,
			Lat:  el.Lat,
			Lon:  el.Lon,
			Tags: tags,
		})
	}
	return cameras, nil
}

// MilitaryAPI queries military installation outlines.
type MilitaryAPI struct {
	base   string
	c      *client
	health *health.Registry
}

// NewMilitaryAPI creates the military adapter.
func NewMilitaryAPI(base string, reg *health.Registry) *MilitaryAPI {
	return &MilitaryAPI{base: base, c: newClient(health.FeedMilitary, 20*time.Second), health: reg}
}

// Installations returns military landuse ways inside the bounding box.
// Outlines with two or fewer points survive normalization but are skipped by
// the renderer.
func (a *MilitaryAPI) Installations(ctx context.Context, box domain.BoundingBox) ([]domain.MilitaryElement, error) {
	query := fmt.Sprintf(
		`[out:json][timeout:15];way["landuse"="military"](%g,%g,%g,%g);out geom;`,
		box.South, box.West, box.North, box.East)

	elements, err := runOverpass(ctx, a.c, a.base, query)
	if err != nil {
		a.health.Set(health.FeedMilitary, health.Red)
		return nil, err
	}
	a.health.Set(health.FeedMilitary, health.Green)

	out := make([]domain.MilitaryElement, 0, len(elements))
	for _, el := range elements {
		tags := el.Tags
		if tags == nil {
			tags = map[string]string{}
		}
		geom := make([]domain.GeoPoint, 0, len(el.Geometry))
		for _, p := range el.Geometry {
			geom = append(geom, domain.GeoPoint{Lat: p.Lat, Lon: p.Lon})
		}
		out = append(out, domain.MilitaryElement{
			Type:     el.Type,
			ID:       el.ID,
			Geometry: geom,
			Tags:     tags,
		})
	}
	return out, nil
}
