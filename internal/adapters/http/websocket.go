package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/pkg/metrics"
)

// marineSubject matches every vessel position published by the AIS bridge.
const marineSubject = "osint.vessel.>"

// wsMessage is sent from client to scope or stop the vessel stream.
type wsMessage struct {
	Action string              `json:"action"` // "subscribe" | "unsubscribe"
	BBox   *domain.BoundingBox `json:"bbox"`   // viewport filter (nil = worldwide)
}

// MarineWSHandler upgrades to WebSocket and relays vessel positions from
// NATS. The stream is idle until the client sends
// {"action":"subscribe","bbox":{...}}; a new subscribe replaces the previous
// viewport filter, and positions outside it are dropped server-side.
func MarineWSHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		if nc == nil {
			_ = c.WriteMessage(websocket.TextMessage, []byte(`{"error":"stream unavailable"}`))
			return
		}

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("marine ws client connected", "remote", remoteAddr)

		var mu sync.Mutex
		var active bool
		var filter *domain.BoundingBox

		writeRaw := func(data []byte) error {
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			return writeRaw(data)
		}

		sub, err := nc.Subscribe(marineSubject, func(msg *nats.Msg) {
			mu.Lock()
			on, box := active, filter
			mu.Unlock()

			if !on {
				return
			}
			if box != nil {
				var v domain.MarineVessel
				if err := json.Unmarshal(msg.Data, &v); err != nil {
					return
				}
				if !box.Contains(v.Latitude, v.Longitude) {
					return
				}
			}
			if writeRaw(msg.Data) == nil {
				metrics.VesselPositionsRelayed.Inc()
			}
		})
		if err != nil {
			slog.Error("marine ws subscribe failed", "error", err)
			return
		}
		defer func() { _ = sub.Unsubscribe() }()

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "subscribe":
				mu.Lock()
				active, filter = true, m.BBox
				mu.Unlock()
				_ = writeJSON(map[string]string{"status": "subscribed"})

			case "unsubscribe":
				mu.Lock()
				active, filter = false, nil
				mu.Unlock()
				_ = writeJSON(map[string]string{"status": "unsubscribed"})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		slog.Info("marine ws client disconnected", "remote", remoteAddr)
	}
}
