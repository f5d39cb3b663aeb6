package domain

import "encoding/json"

// FlightRecord is one aircraft state vector normalized from the aviation
// upstream. Records live for a single query response; identity is the
// transponder address (icao24) within that response only. A record is
// plottable only when both Latitude and Longitude are present.
type FlightRecord struct {
	Icao24        string   `json:"icao24"`
	Callsign      *string  `json:"callsign"`
	OriginCountry string   `json:"originCountry"`
	Longitude     *float64 `json:"longitude"`
	Latitude      *float64 `json:"latitude"`
	BaroAltitude  *float64 `json:"baroAltitude"`
	OnGround      bool     `json:"onGround"`
	Velocity      *float64 `json:"velocity"`
	TrueTrack     *float64 `json:"trueTrack"`
	VerticalRate  *float64 `json:"verticalRate"`
	GeoAltitude   *float64 `json:"geoAltitude"`
}

// Plottable reports whether the record carries a usable position.
func (f FlightRecord) Plottable() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// HazardCategory labels a hazard event (wildfire, severe storm, ...).
type HazardCategory struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// HazardGeometry is one dated location sample of a hazard event.
type HazardGeometry struct {
	Date        string    `json:"date"`
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

// HazardEvent is a natural-hazard event. The first geometry entry is used for
// placement; upstream ordering is assumed to put the most recent known
// location first (not verified against the vendor).
type HazardEvent struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Categories  []HazardCategory `json:"categories"`
	Geometry    []HazardGeometry `json:"geometry"`
}

// WikiArticle is a georeferenced encyclopedia article near a query point.
type WikiArticle struct {
	PageID int64   `json:"pageid"`
	Title  string  `json:"title"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Dist   float64 `json:"dist"` // meters from query center
}

// SurveillanceCamera is a mapped camera node with its open tag set.
type SurveillanceCamera struct {
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// MilitaryElement is an installation outline. It is a valid polygon, and
// rendered, only when the geometry has more than two points.
type MilitaryElement struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Geometry []GeoPoint        `json:"geometry"`
	Tags     map[string]string `json:"tags"`
}

// ValidPolygon reports whether the element outline can be drawn.
func (m MilitaryElement) ValidPolygon() bool {
	return len(m.Geometry) > 2
}

// FeatureCollection is a raw GeoJSON passthrough for feeds whose properties
// are vendor-specific and intentionally unvalidated (disaster alerts,
// submarine cables).
type FeatureCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// EmptyFeatureCollection is the fail-soft shape for passthrough feeds.
func EmptyFeatureCollection() FeatureCollection {
	return FeatureCollection{Type: "FeatureCollection", Features: []json.RawMessage{}}
}

// GeocodeResult is the reverse-geocode response payload. Errors are carried in
// the payload, never as an HTTP status.
type GeocodeResult struct {
	ZipCode     *string        `json:"zipCode,omitempty"`
	DisplayName *string        `json:"display_name,omitempty"`
	Address     map[string]any `json:"address,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// MarineVessel is the latest reported state of one AIS transponder,
// keyed by MMSI and upserted on each position report.
type MarineVessel struct {
	MMSI      int64   `json:"mmsi"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Cog       float64 `json:"cog"`
	Sog       float64 `json:"sog"`
	Heading   float64 `json:"heading"`
	ShipType  int     `json:"shipType"`
	Timestamp string  `json:"timestamp"`
}
