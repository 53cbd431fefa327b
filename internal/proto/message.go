package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin        = "join"
	InboundTypeMsg         = "msg"
	InboundTypeTypingStart = "typing_start"
	InboundTypeTypingStop  = "typing_stop"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameWelcome    = "welcome"
	EventNameUserJoined = "user_joined"
	EventNameUserLeft   = "user_left"
	EventNameMessage    = "message"
	EventNameUserTyping = "user_typing"

	ErrorNameJoinRejected    = "join_rejected"
	ErrorNameMessageRejected = "message_rejected"
)

// JoinData carries the proposed display name.
type JoinData struct {
	Username string `json:"username"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Text string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// ChatMessage is a persisted message on the wire, used both for live
// delivery and history snapshots.
type ChatMessage struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Text     string `json:"text"`
	Avatar   string `json:"avatar"`
	TS       int64  `json:"ts"`
}

// EventWelcome greets a newly joined user with the room history.
type EventWelcome struct {
	Username string        `json:"username"`
	History  []ChatMessage `json:"history"`
}

// RosterUser is one entry in a presence roster.
type RosterUser struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// EventUserJoined notifies that a user entered the room.
type EventUserJoined struct {
	Username string       `json:"username"`
	Avatar   string       `json:"avatar"`
	Count    int          `json:"count"`
	Users    []RosterUser `json:"users"`
}

// EventUserLeft notifies that a user left the room.
type EventUserLeft struct {
	Username string       `json:"username"`
	Count    int          `json:"count"`
	Users    []RosterUser `json:"users"`
}

// EventUserTyping reports a typing state change.
type EventUserTyping struct {
	Username string `json:"username"`
	Typing   bool   `json:"typing"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
