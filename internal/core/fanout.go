package core

import "github.com/rs/zerolog"

// Fanout delivers one logical event to every session in the registry.
// Per-recipient delivery is a non-blocking enqueue onto the recipient's event
// queue, so one dead or slow connection never delays the rest. Recipients
// whose queue is full are handed to onStale, which tears them down through
// the same path as an explicit disconnect.
type Fanout struct {
	registry *Registry
	log      *zerolog.Logger
	onStale  func(connID string)
}

// NewFanout constructs a fan-out over the given registry.
func NewFanout(registry *Registry, logger *zerolog.Logger) *Fanout {
	return &Fanout{registry: registry, log: logger}
}

// Broadcast delivers an event to every live session.
func (f *Fanout) Broadcast(ev *Event) {
	f.BroadcastExcept(ev, "")
}

// BroadcastExcept delivers an event to every live session except the named
// connection. Exactly one delivery attempt is made per snapshot member.
func (f *Fanout) BroadcastExcept(ev *Event, exceptConnID string) {
	var stale []string
	for _, s := range f.registry.Snapshot() {
		if s.ConnID == exceptConnID {
			continue
		}
		if !s.client.send(ev) {
			f.log.Warn().
				Str("conn_id", s.ConnID).
				Str("username", s.Username).
				Msg("event queue full, scheduling connection removal")
			stale = append(stale, s.ConnID)
		}
	}
	if f.onStale != nil {
		for _, id := range stale {
			go f.onStale(id)
		}
	}
}
