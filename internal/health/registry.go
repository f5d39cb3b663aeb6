// Package health tracks per-feed upstream health. The registry is the only
// mutable state shared by concurrent request handlers; every write is a single
// guarded assignment per key.
package health

import "sync"

// State is the health of one feed.
type State string

const (
	Green  State = "green"  // last call succeeded
	Yellow State = "yellow" // not yet probed
	Red    State = "red"    // last call failed
)

// Feed names tracked by the registry. Reverse-geocode intentionally has no
// entry: its errors are payload-level and never surface in the status panel.
const (
	FeedAviation     = "aviation"
	FeedHazards      = "hazards"
	FeedWikipedia    = "wikipedia"
	FeedSurveillance = "surveillance"
	FeedMilitary     = "military"
	FeedGDACS        = "gdacs"
	FeedCables       = "cables"
)

// Registry holds the current health state per feed. It is injected into
// adapters rather than kept as package-level state so tests get a fresh one.
type Registry struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewRegistry returns a registry with every known feed set to Yellow.
func NewRegistry() *Registry {
	r := &Registry{states: make(map[string]State)}
	for _, feed := range []string{
		FeedAviation, FeedHazards, FeedWikipedia, FeedSurveillance,
		FeedMilitary, FeedGDACS, FeedCables,
	} {
		r.states[feed] = Yellow
	}
	return r
}

// Set records the outcome of one adapter call.
func (r *Registry) Set(feed string, s State) {
	r.mu.Lock()
	r.states[feed] = s
	r.mu.Unlock()
}

// Get returns the current state of a feed, Yellow if unknown.
func (r *Registry) Get(feed string) State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.states[feed]; ok {
		return s
	}
	return Yellow
}

// Snapshot returns a copy of the full feed-to-state mapping.
func (r *Registry) Snapshot() map[string]State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]State, len(r.states))
	for k, v := range r.states {
		out[k] = v
	}
	return out
}
