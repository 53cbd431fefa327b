package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chatterup/chatterup-server/internal/core"
	"github.com/chatterup/chatterup-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to the coordinator.
type WSHandler struct {
	coord    *core.Coordinator
	log      *zerolog.Logger
	msgLimit int
}

// NewWSHandler builds a new WebSocket handler. msgLimit bounds chat messages
// per connection per minute; zero disables the limit.
func NewWSHandler(coord *core.Coordinator, logger *zerolog.Logger, msgLimit int) stdhttp.Handler {
	return &WSHandler{coord: coord, log: logger, msgLimit: msgLimit}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString())
	defer h.coord.Disconnect(context.Background(), client.ID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	limiter := newRateLimiter(h.msgLimit)

	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		switch inbound.Type {
		case proto.InboundTypeJoin:
			var join proto.JoinData
			if err := json.Unmarshal(inbound.Data, &join); err != nil {
				return err
			}
			h.coord.Join(ctx, client, join.Username)

		case proto.InboundTypeMsg:
			var msg proto.MsgData
			if err := json.Unmarshal(inbound.Data, &msg); err != nil {
				return err
			}
			if !limiter.allow() {
				if err := wsjson.Write(ctx, conn, proto.Outbound{
					Type:  proto.OutboundTypeError,
					Event: proto.ErrorNameMessageRejected,
					Error: &proto.Error{Code: core.ErrCodeRateLimited, Msg: "too many messages"},
				}); err != nil {
					return err
				}
				continue
			}
			h.coord.HandleMessage(ctx, client.ID, msg.Text)

		case proto.InboundTypeTypingStart:
			h.coord.TypingStart(client.ID)

		case proto.InboundTypeTypingStop:
			h.coord.TypingStop(client.ID)

		default:
			if err := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: &proto.Error{Code: "invalid_message", Msg: "unknown message type"},
			}); err != nil {
				return err
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("conn_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
