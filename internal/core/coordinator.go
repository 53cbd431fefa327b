package core

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/chatterup/chatterup-server/internal/store"
)

// DefaultHistoryLimit is the number of messages sent to a joining user.
const DefaultHistoryLimit = 50

// DefaultMaxMessageLen bounds chat message length in code points.
const DefaultMaxMessageLen = 500

// Options tune the coordinator. Zero values fall back to defaults.
type Options struct {
	HistoryLimit   int
	MaxMessageLen  int
	TypingDebounce time.Duration
}

// Coordinator owns connection lifecycle for the room: it validates joins,
// keeps presence, persists messages before broadcasting them, and relays
// typing state. Its methods are safe to call concurrently from every
// connection's read loop.
type Coordinator struct {
	registry *Registry
	typing   *TypingTracker
	fanout   *Fanout
	store    store.Store
	log      *zerolog.Logger

	historyLimit  int
	maxMessageLen int
}

// NewCoordinator wires the registry, typing tracker, and fan-out around the
// given store.
func NewCoordinator(st store.Store, logger *zerolog.Logger, opts Options) *Coordinator {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.MaxMessageLen <= 0 {
		opts.MaxMessageLen = DefaultMaxMessageLen
	}

	c := &Coordinator{
		registry:      NewRegistry(),
		store:         st,
		log:           logger,
		historyLimit:  opts.HistoryLimit,
		maxMessageLen: opts.MaxMessageLen,
	}
	c.typing = NewTypingTracker(opts.TypingDebounce, c.typingExpired)
	c.fanout = NewFanout(c.registry, logger)
	c.fanout.onStale = func(connID string) {
		c.Disconnect(context.Background(), connID)
	}
	return c
}

// Registry exposes the session registry for read-only inspection.
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Join admits a client under the proposed display name. On rejection the
// reason goes to the requester only. On success the client receives a private
// welcome with a history snapshot, then everyone is told about the new user.
func (c *Coordinator) Join(ctx context.Context, client *Client, rawName string) {
	name, verr := ValidateUsername(rawName)
	if verr != nil {
		c.log.Debug().Str("conn_id", client.ID).Str("reason", verr.Code).Msg("join rejected")
		client.send(&Event{Kind: EventJoinRejected, Error: verr})
		return
	}

	avatar := PickAvatar()
	c.registry.Register(client, name, avatar)

	if err := c.store.UpsertOnlineUser(ctx, name, client.ID, avatar); err != nil {
		c.log.Warn().Err(err).Str("username", name).Msg("presence mirror upsert failed")
	}

	history, err := c.store.RecentMessages(ctx, c.historyLimit)
	if err != nil {
		c.log.Error().Err(err).Msg("load history for welcome")
		history = nil
	}
	client.send(&Event{Kind: EventWelcome, Username: name, History: history})

	c.fanout.Broadcast(&Event{
		Kind:      EventUserJoined,
		Username:  name,
		AvatarRef: avatar,
		Count:     c.registry.Count(),
		Roster:    c.registry.Roster(),
	})
	c.log.Info().Str("username", name).Str("conn_id", client.ID).Msg("user joined")
}

// HandleMessage persists a chat message and, only once durably recorded,
// broadcasts it to everyone including the sender. Messages from connections
// with no session are ignored.
func (c *Coordinator) HandleMessage(ctx context.Context, connID, text string) {
	sess := c.registry.ByConnection(connID)
	if sess == nil {
		c.log.Debug().Str("conn_id", connID).Msg("message from connection without session")
		return
	}

	if verr := c.validateMessage(text); verr != nil {
		sess.client.send(&Event{Kind: EventMessageRejected, Error: verr})
		return
	}

	msg, err := c.store.AppendMessage(ctx, sess.Username, text, sess.AvatarRef)
	if err != nil {
		c.log.Error().Err(err).Str("username", sess.Username).Msg("message append failed")
		sess.client.send(&Event{
			Kind:  EventMessageRejected,
			Error: coreError(ErrCodePersistenceFailed, "message could not be saved"),
		})
		return
	}

	c.fanout.Broadcast(&Event{Kind: EventMessage, Message: msg})
}

// TypingStart marks the sender as composing. The state change is broadcast
// to everyone except the sender.
func (c *Coordinator) TypingStart(connID string) {
	sess := c.registry.ByConnection(connID)
	if sess == nil {
		return
	}
	if c.typing.Mark(sess.Username) {
		c.fanout.BroadcastExcept(&Event{Kind: EventTyping, Username: sess.Username, Typing: true}, connID)
	}
}

// TypingStop clears the sender's typing state immediately.
func (c *Coordinator) TypingStop(connID string) {
	sess := c.registry.ByConnection(connID)
	if sess == nil {
		return
	}
	if c.typing.Clear(sess.Username) {
		c.fanout.BroadcastExcept(&Event{Kind: EventTyping, Username: sess.Username, Typing: false}, connID)
	}
}

// Disconnect tears down the session for a connection: registry removal,
// typing cleanup, presence mirror delete, then a leave notice to the rest.
// A second call for the same connection id is a no-op.
func (c *Coordinator) Disconnect(ctx context.Context, connID string) {
	sess := c.registry.Remove(connID)
	if sess == nil {
		return
	}

	// Cancel any pending typing expiry; the leave notice covers the state.
	c.typing.Clear(sess.Username)

	if err := c.store.RemoveOnlineUser(ctx, connID); err != nil {
		c.log.Warn().Err(err).Str("conn_id", connID).Msg("presence mirror delete failed")
	}

	c.fanout.Broadcast(&Event{
		Kind:     EventUserLeft,
		Username: sess.Username,
		Count:    c.registry.Count(),
		Roster:   c.registry.Roster(),
	})
	c.log.Info().Str("username", sess.Username).Str("conn_id", connID).Msg("user left")
}

func (c *Coordinator) validateMessage(text string) *Error {
	if strings.TrimSpace(text) == "" {
		return coreError(ErrCodeEmptyMessage, "message is empty")
	}
	if utf8.RuneCountInString(text) > c.maxMessageLen {
		return coreError(ErrCodeMessageTooLong, "message too long")
	}
	return nil
}

func (c *Coordinator) typingExpired(username string) {
	var except string
	if sess := c.registry.ByUsername(username); sess != nil {
		except = sess.ConnID
	}
	c.fanout.BroadcastExcept(&Event{Kind: EventTyping, Username: username, Typing: false}, except)
}
