package core

import "github.com/chatterup/chatterup-server/internal/store"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventWelcome is sent privately to a client after a successful join,
	// carrying the accepted name and a history snapshot.
	EventWelcome EventKind = iota
	// EventUserJoined notifies everyone that a user entered the room.
	EventUserJoined
	// EventUserLeft notifies remaining users that a user left the room.
	EventUserLeft
	// EventMessage carries a persisted chat message.
	EventMessage
	// EventTyping reports a typing state change for one user.
	EventTyping
	// EventJoinRejected is sent to the requester only when a join fails.
	EventJoinRejected
	// EventMessageRejected is sent to the sender only when a message is refused.
	EventMessageRejected
)

// RosterEntry is one user in a presence update.
type RosterEntry struct {
	Username  string
	AvatarRef string
}

// Event describes what happened in the room. Fields are populated per Kind.
type Event struct {
	Kind      EventKind
	Username  string
	AvatarRef string
	Typing    bool
	Count     int
	Roster    []RosterEntry
	Message   *store.Message
	History   []*store.Message
	Error     *Error
}
