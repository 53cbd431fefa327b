package core

import (
	"sync"
	"time"
)

// Session is the live record of one connected, identified participant.
// Sessions are owned by the Registry; other components only see transient
// snapshots.
type Session struct {
	ConnID    string
	Username  string
	AvatarRef string
	JoinedAt  time.Time

	client *Client
}

// Registry is the authoritative in-memory map of live sessions, indexed by
// connection id and by username. All operations are atomic; callers never
// need external locking.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]*Session
	byName map[string]*Session
	order  []*Session
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*Session),
		byName: make(map[string]*Session),
	}
}

// Register creates the session for a validated join. A rejoin under the same
// username supersedes the previous entry (last writer wins); the superseded
// connection is not closed here. Re-registering an existing connection under
// a new name replaces its prior session.
func (r *Registry) Register(client *Client, username, avatarRef string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byConn[client.ID]; ok {
		r.evictLocked(prev)
	}
	if prev, ok := r.byName[username]; ok {
		r.evictLocked(prev)
	}

	s := &Session{
		ConnID:    client.ID,
		Username:  username,
		AvatarRef: avatarRef,
		JoinedAt:  time.Now(),
		client:    client,
	}
	r.byConn[s.ConnID] = s
	r.byName[s.Username] = s
	r.order = append(r.order, s)
	return s
}

// ByConnection returns the session for a connection id, or nil.
func (r *Registry) ByConnection(connID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byConn[connID]
}

// ByUsername returns the session currently bound to a username, or nil.
func (r *Registry) ByUsername(username string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[username]
}

// Remove deletes the session for a connection id and returns it, or nil if
// no session exists. Safe to call twice; the second call is a no-op.
func (r *Registry) Remove(connID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byConn[connID]
	if !ok {
		return nil
	}
	r.evictLocked(s)
	return s
}

// Snapshot returns the live sessions in insertion order at time of call.
func (r *Registry) Snapshot() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, len(r.order))
	copy(out, r.order)
	return out
}

// Roster returns the usernames and avatars of live sessions in insertion order.
func (r *Registry) Roster() []RosterEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roster := make([]RosterEntry, 0, len(r.order))
	for _, s := range r.order {
		roster = append(roster, RosterEntry{Username: s.Username, AvatarRef: s.AvatarRef})
	}
	return roster
}

// Count reports the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) evictLocked(s *Session) {
	delete(r.byConn, s.ConnID)
	if cur, ok := r.byName[s.Username]; ok && cur == s {
		delete(r.byName, s.Username)
	}
	for i, o := range r.order {
		if o == s {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
