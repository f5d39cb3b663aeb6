package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tkaczmarek/geoscope/internal/adapters/upstream"
	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/health"
)

const geosearchBody = `{
  "query": {
    "geosearch": [
      {"pageid": 736, "title": "Eiffel Tower", "lat": 48.8584, "lon": 2.2945, "dist": 12.3},
      {"pageid": 9202, "title": "Champ de Mars", "lat": 48.856, "lon": 2.298, "dist": 310.7}
    ]
  }
}`

func TestWikipedia_GeoSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(geosearchBody))
	}))
	defer srv.Close()

	reg := health.NewRegistry()
	api := upstream.NewWikipediaAPI(srv.URL, reg)

	articles, err := api.GeoSearch(context.Background(), domain.GeoSearch{Lat: 48.8584, Lon: 2.2945, Radius: 10000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "action=query&list=geosearch&gscoord=48.8584%7C2.2945&gsradius=10000&gslimit=50&format=json"
	if gotQuery != want {
		t.Errorf("query mismatch:\n got %s\nwant %s", gotQuery, want)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].PageID != 736 || articles[0].Title != "Eiffel Tower" {
		t.Errorf("unexpected first article: %+v", articles[0])
	}
	if articles[1].Dist != 310.7 {
		t.Errorf("expected dist 310.7, got %g", articles[1].Dist)
	}
	if reg.Get(health.FeedWikipedia) != health.Green {
		t.Errorf("expected green, got %s", reg.Get(health.FeedWikipedia))
	}
}

// A 200 with an undecodable body is not an upstream failure: the result
// collapses to empty and the feed stays green.
func TestWikipedia_MalformedBodyIsEmptyAndGreen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	reg := health.NewRegistry()
	api := upstream.NewWikipediaAPI(srv.URL, reg)

	articles, err := api.GeoSearch(context.Background(), domain.GeoSearch{Lat: 1, Lon: 2, Radius: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("expected empty result, got %d articles", len(articles))
	}
	if reg.Get(health.FeedWikipedia) != health.Green {
		t.Errorf("expected green, got %s", reg.Get(health.FeedWikipedia))
	}
}

func TestWikipedia_EmptyResultStaysGreen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query": {"geosearch": []}}`))
	}))
	defer srv.Close()

	reg := health.NewRegistry()
	api := upstream.NewWikipediaAPI(srv.URL, reg)

	articles, err := api.GeoSearch(context.Background(), domain.GeoSearch{Lat: 0, Lon: 0, Radius: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("expected no articles, got %d", len(articles))
	}
	if reg.Get(health.FeedWikipedia) != health.Green {
		t.Errorf("expected green, got %s", reg.Get(health.FeedWikipedia))
	}
}
