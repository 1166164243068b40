package app

import (
	"errors"
	"testing"

	"github.com/vmeet/signaling/internal/core"
	"github.com/vmeet/signaling/internal/domain"
)

func TestGetOrCreateIsLazy(t *testing.T) {
	m := NewRoomManager()
	if _, ok := m.Get("r1"); ok {
		t.Fatalf("room exists before first join")
	}
	room := m.GetOrCreate("r1")
	if room == nil {
		t.Fatalf("GetOrCreate returned nil")
	}
	again := m.GetOrCreate("r1")
	if room != again {
		t.Fatalf("GetOrCreate created a second instance for the same id")
	}
}

func TestReclaimDeletesOnlyEmptyRooms(t *testing.T) {
	m := NewRoomManager()
	room := m.GetOrCreate("r1")
	room.AddMember("c1", domain.User{ID: "u1"}, nopConn{})

	m.Reclaim("r1")
	if _, ok := m.Get("r1"); !ok {
		t.Fatalf("occupied room was reclaimed")
	}

	room.RemoveMember("c1")
	m.Reclaim("r1")
	if _, ok := m.Get("r1"); ok {
		t.Fatalf("empty room was not reclaimed")
	}

	// Reclaiming an unknown room is a no-op.
	m.Reclaim("never-created")
}

func TestReclaimClosesStaleReferences(t *testing.T) {
	m := NewRoomManager()
	stale := m.GetOrCreate("r1")
	m.Reclaim("r1")

	// A reference resolved before the reclaim must refuse new members, or a
	// joiner would land in a room the registry no longer knows about.
	if err := stale.AddMember("c1", domain.User{ID: "u1"}, nopConn{}); !errors.Is(err, core.ErrRoomClosed) {
		t.Fatalf("add to reclaimed record err=%v, want ErrRoomClosed", err)
	}
	fresh := m.GetOrCreate("r1")
	if fresh == stale {
		t.Fatalf("GetOrCreate handed back the reclaimed record")
	}
	if err := fresh.AddMember("c1", domain.User{ID: "u1"}, nopConn{}); err != nil {
		t.Fatalf("add to fresh record: %v", err)
	}
}

func TestList(t *testing.T) {
	m := NewRoomManager()
	m.GetOrCreate("a").AddMember("c1", domain.User{ID: "u1"}, nopConn{})
	m.GetOrCreate("b")

	infos := m.List()
	if len(infos) != 2 {
		t.Fatalf("List returned %d rooms, want 2", len(infos))
	}
	counts := map[domain.RoomID]int{}
	for _, info := range infos {
		counts[info.ID] = info.MemberCount
	}
	if counts["a"] != 1 || counts["b"] != 0 {
		t.Fatalf("counts=%v, want a:1 b:0", counts)
	}
}
