package app

import (
	"testing"

	"github.com/vmeet/signaling/internal/core"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func TestRegisterAssignsUniqueIDs(t *testing.T) {
	r := NewRegistry()
	a := r.Register(nopConn{}, nil)
	b := r.Register(nopConn{}, nil)
	if a == b {
		t.Fatalf("two registrations got the same id %q", a)
	}
	if !r.IsLive(a) || !r.IsLive(b) {
		t.Fatalf("fresh registrations should be live")
	}
}

func TestUnregisterIdempotent(t *testing.T) {
	r := NewRegistry()
	canceled := 0
	cid := r.Register(nopConn{}, func() { canceled++ })

	r.Unregister(cid)
	if r.IsLive(cid) {
		t.Fatalf("unregistered connection still live")
	}
	r.Unregister(cid)
	r.Unregister("never-registered")
	if canceled != 1 {
		t.Fatalf("cancel ran %d times, want 1", canceled)
	}
}

func TestRoomTracking(t *testing.T) {
	r := NewRegistry()
	cid := r.Register(nopConn{}, nil)

	if _, ok := r.RoomOf(cid); ok {
		t.Fatalf("fresh connection should be unjoined")
	}
	r.SetRoom(cid, "r1")
	room, ok := r.RoomOf(cid)
	if !ok || room != "r1" {
		t.Fatalf("RoomOf=%q ok=%v, want r1", room, ok)
	}
	r.ClearRoom(cid)
	if _, ok := r.RoomOf(cid); ok {
		t.Fatalf("ClearRoom did not clear membership")
	}
	// Setting state on an unknown connection is a no-op.
	r.SetRoom("ghost", "r1")
	if _, ok := r.RoomOf("ghost"); ok {
		t.Fatalf("SetRoom on unknown connection created an entry")
	}
}

func TestConnLookup(t *testing.T) {
	r := NewRegistry()
	conn := nopConn{}
	cid := r.Register(conn, nil)
	got, ok := r.Conn(cid)
	if !ok || got == nil {
		t.Fatalf("Conn lookup failed for live connection")
	}
	r.Unregister(cid)
	if _, ok := r.Conn(cid); ok {
		t.Fatalf("Conn lookup should fail after unregister")
	}
}
