package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/core/ports"
)

// LookupService fronts the two rate-limited point lookups, reverse geocoding
// and encyclopedia geosearch, with a shared cache. Both upstreams throttle
// aggressively, so repeat lookups for the same rounded point must not leave
// the process.
type LookupService struct {
	geocoder ports.ReverseGeocoder
	wiki     ports.GeoSearcher
	cache    ports.CacheService
}

// NewLookupService creates a new LookupService.
func NewLookupService(geocoder ports.ReverseGeocoder, wiki ports.GeoSearcher, cache ports.CacheService) *LookupService {
	return &LookupService{geocoder: geocoder, wiki: wiki, cache: cache}
}

// ReverseGeocode resolves a point to an address, serving repeats from cache
// for an hour. Failed lookups are never cached.
func (s *LookupService) ReverseGeocode(ctx context.Context, lat, lon float64) domain.GeocodeResult {
	cacheKey := fmt.Sprintf("geocode:%.2f:%.2f", lat, lon)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var res domain.GeocodeResult
			if err := json.Unmarshal(data, &res); err == nil {
				return res
			}
		}
	}

	res := s.geocoder.Reverse(ctx, lat, lon)

	if s.cache != nil && res.Error == "" {
		if data, err := json.Marshal(res); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}
	return res
}

// NearbyArticles finds articles around a point, caching results for a
// minute. Radius defaults to the standard search radius when unset.
func (s *LookupService) NearbyArticles(ctx context.Context, q domain.GeoSearch) ([]domain.WikiArticle, error) {
	if q.Radius <= 0 {
		q.Radius = domain.DefaultSearchRadius
	}

	cacheKey := fmt.Sprintf("wiki:%.2f:%.2f:%g", q.Lat, q.Lon, q.Radius)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var articles []domain.WikiArticle
			if err := json.Unmarshal(data, &articles); err == nil {
				return articles, nil
			}
		}
	}

	articles, err := s.wiki.GeoSearch(ctx, q)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(articles); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}
	return articles, nil
}
