package app

import (
	"sync"

	"github.com/vmeet/signaling/internal/core"
	"github.com/vmeet/signaling/internal/domain"
)

// RoomManagerImpl is the room registry. Rooms are created lazily on first
// join and deleted once empty; an absent record means "zero members", not
// an error.
type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRoomManager() *RoomManagerImpl {
	return &RoomManagerImpl{rooms: make(map[domain.RoomID]core.RoomService)}
}

func (f *RoomManagerImpl) GetOrCreate(id domain.RoomID) core.RoomService {
	f.mu.RLock()
	room, ok := f.rooms[id]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[id]; ok {
		return room
	}
	room = core.NewRoomService(id)
	f.rooms[id] = room
	return room
}

func (f *RoomManagerImpl) Get(id domain.RoomID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

func (f *RoomManagerImpl) Reclaim(id domain.RoomID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// CloseIfEmpty marks the record dead before it leaves the map, so a
	// joiner that resolved it just before the delete cannot land in it:
	// its AddMember fails and it resolves a fresh record instead.
	if room, ok := f.rooms[id]; ok && room.CloseIfEmpty() {
		delete(f.rooms, id)
	}
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		out = append(out, core.RoomInfo{ID: id, MemberCount: r.MemberCount()})
	}
	return out
}
