package domain

import "time"

// Group is a user-defined named collection of saved drawn geometries.
// A group belongs to exactly one user.
type Group struct {
	ID        int       `json:"id"`
	UserID    string    `json:"userId"` // opaque hashed identity
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SavedFeature is one drawn geometry inside a group. Features are immutable
// once saved; they can only be deleted, individually or by group cascade.
// GeojsonData is stored and returned opaque, byte-for-byte.
type SavedFeature struct {
	ID          int       `json:"id"`
	GroupID     int       `json:"groupId"`
	FeatureType string    `json:"featureType"` // point|line|polygon|rectangle|circle
	GeojsonData string    `json:"geojsonData"`
	Color       string    `json:"color"`
	Opacity     float64   `json:"opacity"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Field bounds enforced by the persistence service. Geometry correctness is
// the client's problem; only ownership and these bounds are checked.
const (
	MaxFeatureTypeLen = 50
	MaxColorLen       = 20
	MinOpacity        = 0.1
	MaxOpacity        = 1.0

	DefaultFeatureColor   = "#00d4ff"
	DefaultFeatureOpacity = 0.8
)
