package ports

import (
	"context"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
)

// CacheService provides read-through caching for the few responses the
// gateway is allowed to cache (reverse-geocode, wikipedia). Feed data is
// otherwise pulled per request and never stored.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// VesselPublisher publishes AIS position reports to the message broker for
// the websocket relay.
type VesselPublisher interface {
	PublishVessel(ctx context.Context, v *domain.MarineVessel) error
}
