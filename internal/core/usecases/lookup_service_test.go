package usecases_test

import (
	"context"
	"sync"
	"testing"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/core/usecases"
)

type mockGeocoder struct {
	calls int
	fn    func(lat, lon float64) domain.GeocodeResult
}

func (m *mockGeocoder) Reverse(ctx context.Context, lat, lon float64) domain.GeocodeResult {
	m.calls++
	if m.fn != nil {
		return m.fn(lat, lon)
	}
	return domain.GeocodeResult{Address: map[string]any{}}
}

type mockGeoSearcher struct {
	calls int
	fn    func(q domain.GeoSearch) ([]domain.WikiArticle, error)
}

func (m *mockGeoSearcher) GeoSearch(ctx context.Context, q domain.GeoSearch) ([]domain.WikiArticle, error) {
	m.calls++
	if m.fn != nil {
		return m.fn(q)
	}
	return nil, nil
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func TestLookupService_ReverseGeocode_CachesByRoundedPoint(t *testing.T) {
	display := "Brooklyn"
	geo := &mockGeocoder{fn: func(lat, lon float64) domain.GeocodeResult {
		return domain.GeocodeResult{DisplayName: &display, Address: map[string]any{"city": "New York"}}
	}}
	svc := usecases.NewLookupService(geo, &mockGeoSearcher{}, newMemoryCache())

	first := svc.ReverseGeocode(context.Background(), 40.6936, -73.9895)
	// Same point to two decimals must be a cache hit.
	second := svc.ReverseGeocode(context.Background(), 40.6942, -73.9851)

	if geo.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", geo.calls)
	}
	if first.DisplayName == nil || second.DisplayName == nil || *second.DisplayName != "Brooklyn" {
		t.Errorf("cached result must round-trip: %+v", second)
	}
}

func TestLookupService_ReverseGeocode_FailuresNotCached(t *testing.T) {
	geo := &mockGeocoder{fn: func(lat, lon float64) domain.GeocodeResult {
		return domain.GeocodeResult{Error: "Geocoding failed"}
	}}
	svc := usecases.NewLookupService(geo, &mockGeoSearcher{}, newMemoryCache())

	svc.ReverseGeocode(context.Background(), 51.5, -0.12)
	svc.ReverseGeocode(context.Background(), 51.5, -0.12)

	if geo.calls != 2 {
		t.Errorf("failed lookups must retry upstream, got %d calls", geo.calls)
	}
}

func TestLookupService_NearbyArticles_DefaultRadius(t *testing.T) {
	wiki := &mockGeoSearcher{fn: func(q domain.GeoSearch) ([]domain.WikiArticle, error) {
		if q.Radius != domain.DefaultSearchRadius {
			t.Errorf("expected default radius %g, got %g", float64(domain.DefaultSearchRadius), q.Radius)
		}
		return []domain.WikiArticle{{PageID: 1, Title: "Test"}}, nil
	}}
	svc := usecases.NewLookupService(&mockGeocoder{}, wiki, nil)

	articles, err := svc.NearbyArticles(context.Background(), domain.GeoSearch{Lat: 48.85, Lon: 2.29})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if wiki.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", wiki.calls)
	}
}

func TestLookupService_NearbyArticles_CacheHit(t *testing.T) {
	wiki := &mockGeoSearcher{fn: func(q domain.GeoSearch) ([]domain.WikiArticle, error) {
		return []domain.WikiArticle{{PageID: 7, Title: "Obelisk"}}, nil
	}}
	svc := usecases.NewLookupService(&mockGeocoder{}, wiki, newMemoryCache())

	q := domain.GeoSearch{Lat: 48.85, Lon: 2.29, Radius: 5000}
	if _, err := svc.NearbyArticles(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	articles, err := svc.NearbyArticles(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}

	if wiki.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", wiki.calls)
	}
	if len(articles) != 1 || articles[0].Title != "Obelisk" {
		t.Errorf("cached result must round-trip: %+v", articles)
	}
}
