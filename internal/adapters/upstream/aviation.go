package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/health"
)

// AviationAPI proxies the flight-tracking state-vector endpoint.
type AviationAPI struct {
	base   string
	c      *client
	health *health.Registry
}

// NewAviationAPI creates the aviation adapter.
func NewAviationAPI(base string, reg *health.Registry) *AviationAPI {
	return &AviationAPI{base: base, c: newClient(health.FeedAviation, 20*time.Second), health: reg}
}

// States returns all aircraft state vectors inside the bounding box. The
// upstream encodes each state as a positional array; fields are mapped by
// fixed index.
func (a *AviationAPI) States(ctx context.Context, box domain.BoundingBox) ([]domain.FlightRecord, error) {
	url := fmt.Sprintf("%s/api/states/all?lamin=%g&lomin=%g&lamax=%g&lomax=%g",
		a.base, box.South, box.West, box.North, box.East)

	body, err := a.c.get(ctx, url)
	if err != nil {
		a.health.Set(health.FeedAviation, health.Red)
		return nil, err
	}

	a.health.Set(health.FeedAviation, health.Green)

	// The request succeeded, so red is off the table; a body we cannot
	// decode collapses to an empty result.
	var payload struct {
		States [][]any `json:"states"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return []domain.FlightRecord{}, nil
	}

	flights := make([]domain.FlightRecord, 0, len(payload.States))
	for _, s := range payload.States {
		flights = append(flights, domain.FlightRecord{
			Icao24:        strAt(s, 0),
			Callsign:      callsignAt(s, 1),
			OriginCountry: strAt(s, 2),
			Longitude:     floatAt(s, 5),
			Latitude:      floatAt(s, 6),
			BaroAltitude:  floatAt(s, 7),
			OnGround:      boolAt(s, 8),
			Velocity:      floatAt(s, 9),
			TrueTrack:     floatAt(s, 10),
			VerticalRate:  floatAt(s, 11),
			GeoAltitude:   floatAt(s, 13),
		})
	}
	return flights, nil
}

func strAt(s []any, i int) string {
	if i < len(s) {
		if v, ok := s[i].(string); ok {
			return v
		}
	}
	return ""
}

// callsignAt trims the padded callsign; empty becomes nil.
func callsignAt(s []any, i int) *string {
	v := strings.TrimSpace(strAt(s, i))
	if v == "" {
		return nil
	}
	return &v
}

func floatAt(s []any, i int) *float64 {
	if i < len(s) {
		if v, ok := s[i].(float64); ok {
			return &v
		}
	}
	return nil
}

func boolAt(s []any, i int) bool {
	if i < len(s) {
		if v, ok := s[i].(bool); ok {
			return v
		}
	}
	return false
}
