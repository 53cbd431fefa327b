package store

import (
	"context"
	"time"
)

// Message is a persisted chat message. Once appended it is never mutated.
type Message struct {
	ID        int64
	Username  string
	Text      string
	AvatarRef string
	CreatedAt time.Time
}

// OnlineUser is a row in the durable presence mirror. The mirror exists for
// recovery and inspection only; the in-memory registry stays authoritative.
type OnlineUser struct {
	Username  string
	ConnID    string
	AvatarRef string
	JoinedAt  time.Time
}

// MessageStore is the append-only, time-ordered log of chat messages.
type MessageStore interface {
	// AppendMessage persists a message; the store assigns id and timestamp.
	AppendMessage(ctx context.Context, username, text, avatarRef string) (*Message, error)

	// RecentMessages returns the most recent messages, oldest first.
	RecentMessages(ctx context.Context, limit int) ([]*Message, error)
}

// PresenceStore mirrors who is online into durable storage.
type PresenceStore interface {
	// UpsertOnlineUser records a user as online. A rejoin under the same
	// username replaces the prior row.
	UpsertOnlineUser(ctx context.Context, username, connID, avatarRef string) error

	// RemoveOnlineUser deletes the row for a connection, if any.
	RemoveOnlineUser(ctx context.Context, connID string) error

	// ListOnlineUsers returns the mirrored presence rows, oldest join first.
	ListOnlineUsers(ctx context.Context) ([]*OnlineUser, error)

	// ClearOnlineUsers wipes the mirror, used at startup to drop rows left
	// behind by a crashed process.
	ClearOnlineUsers(ctx context.Context) error
}

// Store aggregates all storage interfaces.
type Store interface {
	MessageStore
	PresenceStore

	// Close closes the underlying database connection.
	Close() error
}
