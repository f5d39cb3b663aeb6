package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
)

// GeocodeAPI proxies reverse geocoding. Unlike the other adapters it has no
// health entry and never surfaces HTTP errors: failures come back as an
// error field inside a 200 payload.
type GeocodeAPI struct {
	base string
	c    *client
}

// NewGeocodeAPI creates the reverse-geocode adapter.
func NewGeocodeAPI(base string) *GeocodeAPI {
	return &GeocodeAPI{base: base, c: newClient("geocode", 15*time.Second)}
}

// Reverse resolves a point to a postal address at city-level zoom.
func (a *GeocodeAPI) Reverse(ctx context.Context, lat, lon float64) domain.GeocodeResult {
	url := fmt.Sprintf("%s/reverse?format=json&lat=%g&lon=%g&zoom=10", a.base, lat, lon)

	body, err := a.c.get(ctx, url)
	if err != nil {
		return domain.GeocodeResult{Error: "Geocoding failed"}
	}

	var payload struct {
		DisplayName string         `json:"display_name"`
		Address     map[string]any `json:"address"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.GeocodeResult{Error: "Geocoding failed"}
	}

	result := domain.GeocodeResult{Address: payload.Address}
	if result.Address == nil {
		result.Address = map[string]any{}
	}
	if payload.DisplayName != "" {
		result.DisplayName = &payload.DisplayName
	}
	if zip, ok := payload.Address["postcode"].(string); ok && zip != "" {
		result.ZipCode = &zip
	}
	return result
}
