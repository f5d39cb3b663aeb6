package viewport

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

type subscribeMessage struct {
	Action string      `json:"action"`
	BBox   BoundingBox `json:"bbox"`
}

// MarineTracker mirrors the live vessel stream for one viewport. It holds at
// most one websocket at a time: a bounds change closes the old socket before
// dialing the new one, with no drain guarantee for in-flight messages.
// Position reports upsert by MMSI, so duplicates and reordering across a
// reconnect are harmless.
type MarineTracker struct {
	url    string
	dialer *websocket.Dialer

	mu      sync.Mutex
	conn    *websocket.Conn
	vessels map[int64]MarineVessel
}

// NewMarineTracker creates a tracker for the gateway's marine websocket
// endpoint (ws://host/api/marine/ws).
func NewMarineTracker(url string) *MarineTracker {
	return &MarineTracker{
		url:     url,
		dialer:  websocket.DefaultDialer,
		vessels: map[int64]MarineVessel{},
	}
}

// SetBounds subscribes the tracker to the given viewport. Any previous
// connection is closed synchronously first.
func (t *MarineTracker) SetBounds(box BoundingBox) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}

	conn, _, err := t.dialer.Dial(t.url, nil)
	if err != nil {
		return fmt.Errorf("dial marine stream: %w", err)
	}
	if err := conn.WriteJSON(subscribeMessage{Action: "subscribe", BBox: box}); err != nil {
		conn.Close()
		return fmt.Errorf("subscribe: %w", err)
	}

	t.conn = conn
	go t.readLoop(conn)
	return nil
}

// readLoop upserts inbound position reports until the connection dies. A
// loop belonging to a superseded connection exits on its read error and
// never touches the current one.
func (t *MarineTracker) readLoop(conn *websocket.Conn) {
	for {
		var v MarineVessel
		if err := conn.ReadJSON(&v); err != nil {
			return
		}
		t.mu.Lock()
		t.vessels[v.MMSI] = v
		t.mu.Unlock()
	}
}

// Snapshot returns the current vessel states, one per MMSI.
func (t *MarineTracker) Snapshot() []MarineVessel {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]MarineVessel, 0, len(t.vessels))
	for _, v := range t.vessels {
		out = append(out, v)
	}
	return out
}

// Close tears down the connection and clears the snapshot.
func (t *MarineTracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	t.vessels = map[int64]MarineVessel{}
}
