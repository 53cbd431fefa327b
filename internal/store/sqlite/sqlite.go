package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chatterup/chatterup-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	username   TEXT NOT NULL,
	text       TEXT NOT NULL,
	avatar     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS online_users (
	username  TEXT PRIMARY KEY,
	conn_id   TEXT NOT NULL,
	avatar    TEXT NOT NULL DEFAULT '',
	joined_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_online_users_conn ON online_users(conn_id);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendMessage persists a chat message and returns it with the assigned id
// and timestamp.
func (s *SQLiteStore) AppendMessage(ctx context.Context, username, text, avatarRef string) (*store.Message, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (username, text, avatar, created_at) VALUES (?, ?, ?, ?)`,
		username, text, avatarRef, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return &store.Message{
		ID:        id,
		Username:  username,
		Text:      text,
		AvatarRef: avatarRef,
		CreatedAt: now,
	}, nil
}

// RecentMessages returns the most recent messages, oldest first.
func (s *SQLiteStore) RecentMessages(ctx context.Context, limit int) ([]*store.Message, error) {
	query := `
		SELECT id, username, text, avatar, created_at FROM (
			SELECT id, username, text, avatar, created_at
			FROM messages
			ORDER BY id DESC
			LIMIT ?
		)
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.Message, 0, limit)
	for rows.Next() {
		var m store.Message
		if err := rows.Scan(&m.ID, &m.Username, &m.Text, &m.AvatarRef, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// UpsertOnlineUser records a user as online, replacing any prior row for the
// same username.
func (s *SQLiteStore) UpsertOnlineUser(ctx context.Context, username, connID, avatarRef string) error {
	query := `
		INSERT INTO online_users (username, conn_id, avatar, joined_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			conn_id = excluded.conn_id,
			avatar  = excluded.avatar
	`
	if _, err := s.db.ExecContext(ctx, query, username, connID, avatarRef, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert online user: %w", err)
	}
	return nil
}

// RemoveOnlineUser deletes the presence row for a connection.
func (s *SQLiteStore) RemoveOnlineUser(ctx context.Context, connID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM online_users WHERE conn_id = ?`, connID); err != nil {
		return fmt.Errorf("delete online user: %w", err)
	}
	return nil
}

// ListOnlineUsers returns the mirrored presence rows, oldest join first.
func (s *SQLiteStore) ListOnlineUsers(ctx context.Context) ([]*store.OnlineUser, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, conn_id, avatar, joined_at FROM online_users ORDER BY joined_at ASC, username ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query online users: %w", err)
	}
	defer rows.Close()

	var users []*store.OnlineUser
	for rows.Next() {
		var u store.OnlineUser
		if err := rows.Scan(&u.Username, &u.ConnID, &u.AvatarRef, &u.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan online user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate online users: %w", err)
	}

	return users, nil
}

// ClearOnlineUsers wipes the presence mirror.
func (s *SQLiteStore) ClearOnlineUsers(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM online_users`); err != nil {
		return fmt.Errorf("clear online users: %w", err)
	}
	return nil
}
