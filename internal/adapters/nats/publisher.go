package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
)

// VesselSubjectPrefix is the subject tree carrying AIS position reports.
// Each vessel publishes on its own MMSI leaf so relays can filter with a
// wildcard subscription.
const VesselSubjectPrefix = "osint.vessel."

// Publisher implements ports.VesselPublisher over core NATS. Position
// reports are superseded within seconds, so they are published
// fire-and-forget with no stream retention.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher connects to NATS with unbounded reconnects.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// RawConn opens a plain connection, used by the gateway's websocket relay
// for its wildcard subscription.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

// NewPublisherConn wraps an existing connection, used when the caller
// manages the connection lifecycle.
func NewPublisherConn(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn}
}

func (p *Publisher) PublishVessel(ctx context.Context, v *domain.MarineVessel) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.conn.Publish(VesselSubjectPrefix+strconv.FormatInt(v.MMSI, 10), data)
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close flushes pending publishes and drops the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		_ = p.conn.Flush()
		p.conn.Close()
	}
}
