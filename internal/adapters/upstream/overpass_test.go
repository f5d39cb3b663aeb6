package upstream_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/tkaczmarek/geoscope/internal/adapters/upstream"
	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/health"
)

const cameraNodes = `{
  "elements": [
    {"type": "node", "id": 101, "lat": 40.71, "lon": -74.0, "tags": {"man_made": "surveillance", "surveillance:type": "camera", "operator": "NYPD"}},
    {"type": "node", "id": 102, "lat": 40.72, "lon": -74.01}
  ]
}`

func TestSurveillance_QueryTemplateAndNormalization(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type: %s", ct)
		}
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(cameraNodes))
	}))
	defer srv.Close()

	reg := health.NewRegistry()
	api := upstream.NewSurveillanceAPI(srv.URL, reg)

	cams, err := api.Cameras(context.Background(), domain.BoundingBox{South: 40.7, West: -74.1, North: 40.8, East: -73.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, _ := url.QueryUnescape(strings.TrimPrefix(gotBody, "data="))
	want := `[out:json][timeout:10];node["man_made"="surveillance"](40.7,-74.1,40.8,-73.9);out body;`
	if decoded != want {
		t.Errorf("query mismatch:\n got %s\nwant %s", decoded, want)
	}

	if len(cams) != 2 {
		t.Fatalf("expected 2 cameras, got %d", len(cams))
	}
	if cams[0].Tags["operator"] != "NYPD" {
		t.Errorf("expected operator tag, got %v", cams[0].Tags)
	}
	// Tagless nodes normalize to an empty map, never nil.
	if cams[1].Tags == nil {
		t.Error("expected empty tag map for untagged node")
	}
	if reg.Get(health.FeedSurveillance) != health.Green {
		t.Errorf("expected green, got %s", reg.Get(health.FeedSurveillance))
	}
}

func TestSurveillance_GatewayTimeoutMarksRed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	reg := health.NewRegistry()
	api := upstream.NewSurveillanceAPI(srv.URL, reg)

	if _, err := api.Cameras(context.Background(), domain.BoundingBox{}); err == nil {
		t.Fatal("expected error on 504")
	}
	if reg.Get(health.FeedSurveillance) != health.Red {
		t.Errorf("expected red, got %s", reg.Get(health.FeedSurveillance))
	}
}

// Overpass occasionally answers 200 with an HTML error page. The request
// succeeded, so the feed goes green and the result is empty.
func TestSurveillance_NonJSONBodyIsEmptyAndGreen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>server overloaded</html>"))
	}))
	defer srv.Close()

	reg := health.NewRegistry()
	api := upstream.NewSurveillanceAPI(srv.URL, reg)

	cams, err := api.Cameras(context.Background(), domain.BoundingBox{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cams) != 0 {
		t.Errorf("expected empty result, got %d", len(cams))
	}
	if reg.Get(health.FeedSurveillance) != health.Green {
		t.Errorf("expected green, got %s", reg.Get(health.FeedSurveillance))
	}
}

const militaryWays = `{
  "elements": [
    {"type": "way", "id": 201, "tags": {"landuse": "military", "name": "Fort Hamilton"},
     "geometry": [{"lat": 40.60, "lon": -74.03}, {"lat": 40.61, "lon": -74.03}, {"lat": 40.61, "lon": -74.02}, {"lat": 40.60, "lon": -74.02}]},
    {"type": "way", "id": 202, "tags": {"landuse": "military"},
     "geometry": [{"lat": 40.65, "lon": -74.05}, {"lat": 40.66, "lon": -74.05}]}
  ]
}`

func TestMilitary_OutlinesAndPolygonValidity(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(militaryWays))
	}))
	defer srv.Close()

	reg := health.NewRegistry()
	api := upstream.NewMilitaryAPI(srv.URL, reg)

	elements, err := api.Installations(context.Background(), domain.BoundingBox{South: 40.5, West: -74.1, North: 40.7, East: -74.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, _ := url.QueryUnescape(strings.TrimPrefix(gotBody, "data="))
	if !strings.Contains(decoded, `way["landuse"="military"](40.5,-74.1,40.7,-74)`) {
		t.Errorf("unexpected query: %s", decoded)
	}

	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}
	if !elements[0].ValidPolygon() {
		t.Error("4-point outline must be a valid polygon")
	}
	if elements[1].ValidPolygon() {
		t.Error("2-point outline must not be a valid polygon")
	}
	if elements[0].Tags["name"] != "Fort Hamilton" {
		t.Errorf("expected name tag, got %v", elements[0].Tags)
	}
	if reg.Get(health.FeedMilitary) != health.Green {
		t.Errorf("expected green, got %s", reg.Get(health.FeedMilitary))
	}
}

func TestMilitary_ConnectionRefusedMarksRed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	reg := health.NewRegistry()
	api := upstream.NewMilitaryAPI(srv.URL, reg)

	if _, err := api.Installations(context.Background(), domain.BoundingBox{}); err == nil {
		t.Fatal("expected error when upstream is unreachable")
	}
	if reg.Get(health.FeedMilitary) != health.Red {
		t.Errorf("expected red, got %s", reg.Get(health.FeedMilitary))
	}
}
