// Package viewport turns continuous map movement into a bounded, cached
// stream of gateway queries. A controller holds the current view (bounding
// box, center, zoom) and answers per-feed fetches from a TTL cache keyed on
// rounded coordinates, so sub-precision jitter from panning never reaches
// the network.
package viewport

import "encoding/json"

// BoundingBox is a geographic extent in degrees.
type BoundingBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Contains reports whether the point lies inside the box.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.South && lat <= b.North && lon >= b.West && lon <= b.East
}

// View is the map state sampled at a move-end event.
type View struct {
	BBox BoundingBox
	Lat  float64 // center
	Lon  float64
	Zoom int
}

// FlightRecord mirrors the gateway's aviation response. A record is
// plottable only when both coordinates are present.
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

// WikiArticle is a georeferenced encyclopedia article near the view center.
type WikiArticle struct {
	PageID int64   `json:"pageid"`
	Title  string  `json:"title"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Dist   float64 `json:"dist"`
}

// SurveillanceCamera is a mapped camera node.
type SurveillanceCamera struct {
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// GeoPoint is one vertex of an installation outline.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MilitaryElement is an installation outline; it is drawable only with more
// than two vertices.
type MilitaryElement struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Geometry []GeoPoint        `json:"geometry"`
	Tags     map[string]string `json:"tags"`
}

// ValidPolygon reports whether the outline can be drawn.
func (m MilitaryElement) ValidPolygon() bool {
	return len(m.Geometry) > 2
}

// HazardCategory labels a hazard event.
type HazardCategory struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// HazardGeometry is one dated location sample of a hazard event.
type HazardGeometry struct {
	Date        string    `json:"date"`
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// HazardEvent is a natural-hazard event; the first geometry entry places it.
type HazardEvent struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Categories  []HazardCategory `json:"categories"`
	Geometry    []HazardGeometry `json:"geometry"`
}

// FeatureCollection is the raw GeoJSON shape of the passthrough feeds.
type FeatureCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// MarineVessel is the latest reported AIS state of one transponder.
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
