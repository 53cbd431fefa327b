package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatterup/chatterup-server/internal/store"
)

// memStore is an in-memory store.Store for coordinator tests.
type memStore struct {
	mu          sync.Mutex
	msgs        []*store.Message
	online      map[string]*store.OnlineUser
	failAppend  bool
	appendCalls int
}

func newMemStore() *memStore {
	return &memStore{online: make(map[string]*store.OnlineUser)}
}

func (m *memStore) AppendMessage(_ context.Context, username, text, avatarRef string) (*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.appendCalls++
	if m.failAppend {
		return nil, errors.New("append failed")
	}
	msg := &store.Message{
		ID:        int64(len(m.msgs) + 1),
		Username:  username,
		Text:      text,
		AvatarRef: avatarRef,
		CreatedAt: time.Now(),
	}
	m.msgs = append(m.msgs, msg)
	return msg, nil
}

func (m *memStore) RecentMessages(_ context.Context, limit int) ([]*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := len(m.msgs) - limit
	if start < 0 {
		start = 0
	}
	out := make([]*store.Message, len(m.msgs)-start)
	copy(out, m.msgs[start:])
	return out, nil
}

func (m *memStore) UpsertOnlineUser(_ context.Context, username, connID, avatarRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online[username] = &store.OnlineUser{Username: username, ConnID: connID, AvatarRef: avatarRef, JoinedAt: time.Now()}
	return nil
}

func (m *memStore) RemoveOnlineUser(_ context.Context, connID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, u := range m.online {
		if u.ConnID == connID {
			delete(m.online, name)
		}
	}
	return nil
}

func (m *memStore) ListOnlineUsers(_ context.Context) ([]*store.OnlineUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*store.OnlineUser, 0, len(m.online))
	for _, u := range m.online {
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) ClearOnlineUsers(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online = make(map[string]*store.OnlineUser)
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) appends() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendCalls
}

func newTestCoordinator(st store.Store, opts Options) *Coordinator {
	logger := zerolog.Nop()
	return NewCoordinator(st, &logger, opts)
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func noEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	for {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v: %+v", kind, ev)
			}
		default:
			return
		}
	}
}
