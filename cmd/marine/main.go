// The marine bridge subscribes to the public AIS stream and republishes
// vessel position reports to NATS, one subject per MMSI, where the API
// gateway's websocket relay picks them up.
package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	natsadapter "github.com/tkaczmarek/geoscope/internal/adapters/nats"
	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/pkg/config"
	"github.com/tkaczmarek/geoscope/internal/pkg/logging"
)

// AIS stream wire types. The upstream wraps each message in an envelope with
// the message type and transponder metadata.
type streamSubscribe struct {
	APIKey             string          `json:"APIKey"`
	BoundingBoxes      [][2][2]float64 `json:"BoundingBoxes"`
	FilterMessageTypes []string        `json:"FilterMessageTypes"`
}

type streamEnvelope struct {
	MessageType string `json:"MessageType"`
	MetaData    struct {
		MMSI     int64  `json:"MMSI"`
		ShipName string `json:"ShipName"`
		ShipType int    `json:"ShipType"`
		Time     string `json:"time_utc"`
	} `json:"MetaData"`
	Message struct {
		PositionReport struct {
			Latitude    float64 `json:"Latitude"`
			Longitude   float64 `json:"Longitude"`
			Cog         float64 `json:"Cog"`
			Sog         float64 `json:"Sog"`
			TrueHeading float64 `json:"TrueHeading"`
		} `json:"PositionReport"`
	} `json:"Message"`
}

func main() {
	cfg, err := config.Load("geoscope-marine")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("geoscope-marine", "info", "json")

	if cfg.Marine.APIKey == "" {
		log.Fatal("marine.api_key is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutdown signal received")
		cancel()
	}()

	// Reconnect loop. The upstream drops idle or unlucky connections
	// routinely; each attempt resubscribes from scratch.
	for ctx.Err() == nil {
		if err := stream(ctx, cfg, pub); err != nil && ctx.Err() == nil {
			slog.Warn("stream dropped, reconnecting", "error", err)
		}
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
	}

	slog.Info("marine bridge stopped")
}

func stream(ctx context.Context, cfg *config.Config, pub *natsadapter.Publisher) error {
	dialCtx, dialCancel := context.WithTimeout(ctx, 15*time.Second)
	defer dialCancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, cfg.Marine.StreamURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Whole-world box; the gateway relay applies per-client filters.
	sub := streamSubscribe{
		APIKey:             cfg.Marine.APIKey,
		BoundingBoxes:      [][2][2]float64{{{-90, -180}, {90, 180}}},
		FilterMessageTypes: []string{"PositionReport"},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return err
	}
	slog.Info("subscribed to AIS stream", "url", cfg.Marine.StreamURL)

	// Unblock the read loop on shutdown.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env streamEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			slog.Debug("unparseable stream message", "error", err)
			continue
		}
		if env.MessageType != "PositionReport" {
			continue
		}

		v := vesselFromEnvelope(&env)
		if err := pub.PublishVessel(ctx, &v); err != nil {
			slog.Warn("publish failed", "mmsi", v.MMSI, "error", err)
		}
	}
}

// vesselFromEnvelope flattens the stream envelope into the domain shape.
// Transponders pad ShipName to fixed width, so it is trimmed here.
func vesselFromEnvelope(env *streamEnvelope) domain.MarineVessel {
	return domain.MarineVessel{
		MMSI:      env.MetaData.MMSI,
		Name:      strings.TrimSpace(env.MetaData.ShipName),
		Latitude:  env.Message.PositionReport.Latitude,
		Longitude: env.Message.PositionReport.Longitude,
		Cog:       env.Message.PositionReport.Cog,
		Sog:       env.Message.PositionReport.Sog,
		Heading:   env.Message.PositionReport.TrueHeading,
		ShipType:  env.MetaData.ShipType,
		Timestamp: env.MetaData.Time,
	}
}
