package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tkaczmarek/geoscope/internal/adapters/upstream"
	"github.com/tkaczmarek/geoscope/internal/health"
)

const eonetEvents = `{
  "events": [
    {
      "id": "EONET_1", "title": "Pine Gulch Fire",
      "categories": [{"id": "wildfires", "title": "Wildfires"}],
      "geometry": [{"date": "2023-08-01T00:00:00Z", "type": "Point", "coordinates": [-108.5, 39.3]}]
    },
    {
      "id": "EONET_2", "title": "Hurricane Ida",
      "categories": [{"id": "severeStorms", "title": "Severe Storms"}],
      "geometry": [{"date": "2023-08-26T12:00:00Z", "type": "Point", "coordinates": [-85.1, 22.8]}]
    },
    {
      "id": "EONET_3", "title": "Etna Eruption",
      "categories": [{"id": "volcanoes", "title": "Volcanoes"}],
      "geometry": [{"date": "2023-02-16T00:00:00Z", "type": "Point", "coordinates": [14.99, 37.75]}]
    },
    {
      "id": "EONET_4", "title": "Iceberg A-76",
      "categories": [{"id": "seaLakeIce", "title": "Sea and Lake Ice"}],
      "geometry": [{"date": "2023-05-13T00:00:00Z", "type": "Point", "coordinates": [-46.6, -74.4]}]
    }
  ]
}`

func TestHazards_FiltersToWildfiresAndStorms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "status=open" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(eonetEvents))
	}))
	defer srv.Close()

	reg := health.NewRegistry()
	api := upstream.NewHazardsAPI(srv.URL, reg)

	events, err := api.OpenEvents(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events after category filter, got %d", len(events))
	}
	if events[0].ID != "EONET_1" || events[1].ID != "EONET_2" {
		t.Errorf("unexpected event ids: %s, %s", events[0].ID, events[1].ID)
	}
	// Placement uses the first geometry entry.
	if len(events[0].Geometry) == 0 || events[0].Geometry[0].Coordinates[0] != -108.5 {
		t.Error("expected first geometry entry preserved for placement")
	}
	if reg.Get(health.FeedHazards) != health.Green {
		t.Errorf("expected green, got %s", reg.Get(health.FeedHazards))
	}
}

func TestHazards_UpstreamDownMarksRed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	reg := health.NewRegistry()
	api := upstream.NewHazardsAPI(srv.URL, reg)

	if _, err := api.OpenEvents(context.Background()); err == nil {
		t.Fatal("expected error on 503")
	}
	if reg.Get(health.FeedHazards) != health.Red {
		t.Errorf("expected red, got %s", reg.Get(health.FeedHazards))
	}
}

func TestHazards_MalformedBodyIsEmptyAndGreen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events": [truncated`))
	}))
	defer srv.Close()

	reg := health.NewRegistry()
	api := upstream.NewHazardsAPI(srv.URL, reg)

	events, err := api.OpenEvents(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty result, got %d", len(events))
	}
	if reg.Get(health.FeedHazards) != health.Green {
		t.Errorf("expected green, got %s", reg.Get(health.FeedHazards))
	}
}

func TestHazards_EmptyBodyYieldsEmptyEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	reg := health.NewRegistry()
	api := upstream.NewHazardsAPI(srv.URL, reg)

	events, err := api.OpenEvents(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
	if reg.Get(health.FeedHazards) != health.Green {
		t.Errorf("expected green, got %s", reg.Get(health.FeedHazards))
	}
}
