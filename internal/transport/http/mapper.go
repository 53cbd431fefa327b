package http

import (
	"github.com/chatterup/chatterup-server/internal/core"
	"github.com/chatterup/chatterup-server/internal/proto"
	"github.com/chatterup/chatterup-server/internal/store"
)

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventWelcome:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameWelcome,
			Data: proto.EventWelcome{
				Username: event.Username,
				History:  wireMessages(event.History),
			},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserJoined,
			Data: proto.EventUserJoined{
				Username: event.Username,
				Avatar:   event.AvatarRef,
				Count:    event.Count,
				Users:    wireRoster(event.Roster),
			},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserLeft,
			Data: proto.EventUserLeft{
				Username: event.Username,
				Count:    event.Count,
				Users:    wireRoster(event.Roster),
			},
		}
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessage,
			Data:  wireMessage(event.Message),
		}
	case core.EventTyping:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserTyping,
			Data: proto.EventUserTyping{
				Username: event.Username,
				Typing:   event.Typing,
			},
		}
	case core.EventJoinRejected:
		return rejectionOutbound(proto.ErrorNameJoinRejected, event.Error)
	case core.EventMessageRejected:
		return rejectionOutbound(proto.ErrorNameMessageRejected, event.Error)
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func rejectionOutbound(name string, err *core.Error) proto.Outbound {
	wire := &proto.Error{Code: "unknown", Msg: "unknown error"}
	if err != nil {
		wire = &proto.Error{Code: err.Code, Msg: err.Message}
	}
	return proto.Outbound{
		Type:  proto.OutboundTypeError,
		Event: name,
		Error: wire,
	}
}

func wireMessage(m *store.Message) proto.ChatMessage {
	if m == nil {
		return proto.ChatMessage{}
	}
	return proto.ChatMessage{
		ID:       m.ID,
		Username: m.Username,
		Text:     m.Text,
		Avatar:   m.AvatarRef,
		TS:       m.CreatedAt.Unix(),
	}
}

func wireMessages(msgs []*store.Message) []proto.ChatMessage {
	out := make([]proto.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, wireMessage(m))
	}
	return out
}

func wireRoster(roster []core.RosterEntry) []proto.RosterUser {
	out := make([]proto.RosterUser, 0, len(roster))
	for _, r := range roster {
		out = append(out, proto.RosterUser{Username: r.Username, Avatar: r.AvatarRef})
	}
	return out
}
