package core

import (
	"sync"
	"time"
)

// DefaultTypingDebounce is how long after the last typing signal a user is
// still considered to be composing.
const DefaultTypingDebounce = time.Second

type typingEntry struct {
	timer *time.Timer
	gen   uint64
}

// TypingTracker is the ephemeral set of usernames currently composing a
// message. Entries expire after the debounce window unless refreshed; expiry
// fires the onExpire callback exactly once per debounce period.
type TypingTracker struct {
	mu       sync.Mutex
	debounce time.Duration
	entries  map[string]typingEntry
	gen      uint64
	onExpire func(username string)
}

// NewTypingTracker constructs a tracker. A zero debounce falls back to
// DefaultTypingDebounce. onExpire may be nil.
func NewTypingTracker(debounce time.Duration, onExpire func(username string)) *TypingTracker {
	if debounce <= 0 {
		debounce = DefaultTypingDebounce
	}
	return &TypingTracker{
		debounce: debounce,
		entries:  make(map[string]typingEntry),
		onExpire: onExpire,
	}
}

// Mark inserts or refreshes a username with a fresh expiry deadline. Returns
// true if the user was not already marked as typing. A refresh cancels the
// pending expiry so only one timer is ever live per username.
func (t *TypingTracker) Mark(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, active := t.entries[username]
	if active {
		prev.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.entries[username] = typingEntry{
		timer: time.AfterFunc(t.debounce, func() { t.expire(username, gen) }),
		gen:   gen,
	}
	return !active
}

// Clear removes a username immediately, cancelling any pending expiry.
// Returns true if the user was marked as typing. Idempotent; also used on
// disconnect.
func (t *TypingTracker) Clear(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[username]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(t.entries, username)
	return true
}

// IsTyping reports whether a username is currently marked.
func (t *TypingTracker) IsTyping(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[username]
	return ok
}

func (t *TypingTracker) expire(username string, gen uint64) {
	t.mu.Lock()
	e, ok := t.entries[username]
	if !ok || e.gen != gen {
		// Refreshed or cleared while the timer was firing.
		t.mu.Unlock()
		return
	}
	delete(t.entries, username)
	t.mu.Unlock()

	if t.onExpire != nil {
		t.onExpire(username)
	}
}
