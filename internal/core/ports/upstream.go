package ports

import (
	"context"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
)

// ReverseGeocoder resolves a point to a postal address. Failures surface as
// an Error field in the result, never as a Go error.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) domain.GeocodeResult
}

// GeoSearcher finds encyclopedia articles near a point.
type GeoSearcher interface {
	GeoSearch(ctx context.Context, q domain.GeoSearch) ([]domain.WikiArticle, error)
}
