package upstream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/health"
)

// GDACSAPI proxies the disaster-alert event list. Feature properties
// (alertlevel, eventtype, ...) are vendor-specific and passed through
// unvalidated once the payload parses as a FeatureCollection.
type GDACSAPI struct {
	base   string
	c      *client
	health *health.Registry
}

// NewGDACSAPI creates the disaster-alerts adapter.
func NewGDACSAPI(base string, reg *health.Registry) *GDACSAPI {
	return &GDACSAPI{base: base, c: newClient(health.FeedGDACS, 20*time.Second), health: reg}
}

// Events returns the current disaster-alert FeatureCollection.
func (a *GDACSAPI) Events(ctx context.Context) (domain.FeatureCollection, error) {
	return passthrough(ctx, a.c, a.health, health.FeedGDACS,
		a.base+"/gdacsapi/api/events/geteventlist/MAP")
}

// CablesAPI proxies the submarine cable geometry map. Properties (name,
// owners, length) pass through unvalidated.
type CablesAPI struct {
	base   string
	c      *client
	health *health.Registry
}

// NewCablesAPI creates the cable-map adapter.
func NewCablesAPI(base string, reg *health.Registry) *CablesAPI {
	return &CablesAPI{base: base, c: newClient(health.FeedCables, 30*time.Second), health: reg}
}

// CableGeo returns the global cable FeatureCollection. The feed has
// large-area semantics and changes rarely; clients cache it for an hour.
func (a *CablesAPI) CableGeo(ctx context.Context) (domain.FeatureCollection, error) {
	return passthrough(ctx, a.c, a.health, health.FeedCables,
		a.base+"/api/v3/cable/cable-geo.json")
}

func passthrough(ctx context.Context, c *client, reg *health.Registry, feed, url string) (domain.FeatureCollection, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		reg.Set(feed, health.Red)
		return domain.EmptyFeatureCollection(), err
	}
	reg.Set(feed, health.Green)

	// Red is reserved for failed requests; an undecodable 2xx body
	// collapses to the empty collection.
	var fc domain.FeatureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return domain.EmptyFeatureCollection(), nil
	}

	if fc.Type == "" {
		fc.Type = "FeatureCollection"
	}
	if fc.Features == nil {
		fc.Features = []json.RawMessage{}
	}
	return fc, nil
}
