package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/chatterup/chatterup-server/internal/proto"
)

func TestUserCountEmpty(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/users/count")
	if err != nil {
		t.Fatalf("count request failed: %v", err)
	}
	defer resp.Body.Close()

	var count CountResponse
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		t.Fatalf("decode count: %v", err)
	}
	if count.Count != 0 {
		t.Fatalf("expected 0 online users, got %d", count.Count)
	}
}

func TestMessagesEndpoint(t *testing.T) {
	ts, st := startTestServer(t)
	ctx := context.Background()

	if _, err := st.AppendMessage(ctx, "alice", "hello", "avatar-1"); err != nil {
		t.Fatalf("seed message: %v", err)
	}
	if _, err := st.AppendMessage(ctx, "bob", "hi alice", "avatar-2"); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	resp, err := ts.Client().Get(ts.URL + "/api/messages")
	if err != nil {
		t.Fatalf("messages request failed: %v", err)
	}
	defer resp.Body.Close()

	var msgs []proto.ChatMessage
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Username != "alice" || msgs[1].Username != "bob" {
		t.Fatalf("unexpected order: %+v", msgs)
	}
}

func TestMessagesEndpointRejectsBadLimit(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/messages?limit=9999")
	if err != nil {
		t.Fatalf("messages request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for out-of-range limit, got %d", resp.StatusCode)
	}
}
