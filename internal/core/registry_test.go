package core

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()

	alice := NewClient("c1")
	sess := reg.Register(alice, "alice", AvatarAt(0))

	if sess.ConnID != "c1" || sess.Username != "alice" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if got := reg.ByConnection("c1"); got != sess {
		t.Fatalf("ByConnection returned %+v", got)
	}
	if got := reg.ByUsername("alice"); got != sess {
		t.Fatalf("ByUsername returned %+v", got)
	}
	if reg.Count() != 1 {
		t.Fatalf("expected count 1, got %d", reg.Count())
	}
}

func TestRegistrySameUsernameLastWriterWins(t *testing.T) {
	reg := NewRegistry()

	reg.Register(NewClient("c1"), "alice", AvatarAt(0))
	reg.Register(NewClient("c2"), "alice", AvatarAt(1))

	if reg.Count() != 1 {
		t.Fatalf("expected one live entry, got %d", reg.Count())
	}
	sess := reg.ByUsername("alice")
	if sess == nil || sess.ConnID != "c2" {
		t.Fatalf("expected alice bound to c2, got %+v", sess)
	}
	if reg.ByConnection("c1") != nil {
		t.Fatal("superseded connection should no longer resolve")
	}
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewClient("c1"), "alice", AvatarAt(0))

	if sess := reg.Remove("c1"); sess == nil || sess.Username != "alice" {
		t.Fatalf("expected removed session for alice, got %+v", sess)
	}
	if reg.Count() != 0 {
		t.Fatalf("expected count 0, got %d", reg.Count())
	}
	if sess := reg.Remove("c1"); sess != nil {
		t.Fatalf("second remove should be a no-op, got %+v", sess)
	}
}

func TestRegistrySnapshotInsertionOrder(t *testing.T) {
	reg := NewRegistry()
	for i, name := range []string{"alice", "bob", "carol"} {
		reg.Register(NewClient(fmt.Sprintf("c%d", i)), name, AvatarAt(i))
	}
	reg.Remove("c1") // bob

	snapshot := reg.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(snapshot))
	}
	if snapshot[0].Username != "alice" || snapshot[1].Username != "carol" {
		t.Fatalf("unexpected order: %s, %s", snapshot[0].Username, snapshot[1].Username)
	}

	roster := reg.Roster()
	if len(roster) != 2 || roster[0].Username != "alice" || roster[1].Username != "carol" {
		t.Fatalf("unexpected roster: %+v", roster)
	}
}

func TestRegistryConcurrentRegistrations(t *testing.T) {
	reg := NewRegistry()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reg.Register(NewClient(fmt.Sprintf("c%d", i)), fmt.Sprintf("user%d", i), AvatarAt(i))
		}(i)
	}
	wg.Wait()

	if reg.Count() != n {
		t.Fatalf("expected %d sessions, got %d", n, reg.Count())
	}
	if len(reg.Snapshot()) != n {
		t.Fatalf("snapshot disagrees with count")
	}
}
