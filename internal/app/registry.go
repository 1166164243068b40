package app

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vmeet/signaling/internal/core"
	"github.com/vmeet/signaling/internal/domain"
)

type connEntry struct {
	Conn   core.SignalConnection
	RoomID domain.RoomID
	Cancel context.CancelFunc
}

// Registry is the connection registry: it owns the table of live
// connections and each connection's current room (at most one).
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnID]*connEntry)}
}

// Register allocates a connection id at transport accept time.
func (r *Registry) Register(conn core.SignalConnection, cancel context.CancelFunc) core.ConnID {
	cid := core.ConnID(uuid.NewString())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[cid] = &connEntry{Conn: conn, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("connection registered")
	return cid
}

// Unregister removes the connection. It is idempotent: unregistering an
// unknown id is a no-op.
func (r *Registry) Unregister(cid core.ConnID) {
	r.mu.Lock()
	e, ok := r.conns[cid]
	delete(r.conns, cid)
	r.mu.Unlock()
	if !ok {
		return
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("connection unregistered")
}

func (r *Registry) IsLive(cid core.ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[cid]
	return ok
}

func (r *Registry) Conn(cid core.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[cid]; ok {
		return e.Conn, true
	}
	return nil, false
}

func (r *Registry) SetRoom(cid core.ConnID, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[cid]; ok {
		e.RoomID = roomID
		log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("room", string(roomID)).Msg("room updated")
	}
}

func (r *Registry) ClearRoom(cid core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[cid]; ok {
		e.RoomID = ""
	}
}

func (r *Registry) RoomOf(cid core.ConnID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[cid]
	if !ok || e.RoomID == "" {
		return "", false
	}
	return e.RoomID, true
}
