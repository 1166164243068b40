package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vmeet/signaling/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
//
// The mutex also serializes BroadcastExcept against membership mutation, so
// a fan-out is always computed from a consistent member set.
type roomImpl struct {
	id      domain.RoomID
	mu      sync.RWMutex
	members map[ConnID]*memberEntry
	// closed is set by CloseIfEmpty once the manager reclaims the record.
	// A joiner holding a stale reference gets ErrRoomClosed instead of
	// landing in a room the registry no longer knows about.
	closed bool
}

type memberEntry struct {
	user domain.User
	conn SignalConnection
}

func NewRoomService(id domain.RoomID) RoomService {
	return &roomImpl{
		id:      id,
		members: make(map[ConnID]*memberEntry),
	}
}

func (r *roomImpl) ID() domain.RoomID { return r.id }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *roomImpl) AddMember(cid ConnID, user domain.User, conn SignalConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomClosed
	}
	if _, ok := r.members[cid]; ok {
		return ErrAlreadyMember
	}
	r.members[cid] = &memberEntry{user: user, conn: conn}
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("cid", string(cid)).Str("user", string(user.ID)).Msg("member added")
	return nil
}

func (r *roomImpl) CloseIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.members) > 0 {
		return false
	}
	r.closed = true
	return true
}

func (r *roomImpl) RemoveMember(cid ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[cid]; !ok {
		return false
	}
	delete(r.members, cid)
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("cid", string(cid)).Msg("member removed")
	return true
}

func (r *roomImpl) UserOf(cid ConnID) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.members[cid]; ok {
		return m.user, true
	}
	return domain.User{}, false
}

func (r *roomImpl) BroadcastExcept(from ConnID, data Frame, live func(ConnID) bool) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for cid, m := range r.members {
		if cid == from {
			continue
		}
		if live != nil && !live(cid) {
			res.Skipped++
			continue
		}
		if err := m.conn.TrySend(data); err != nil {
			res.Skipped++
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.id)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("skipped", res.Skipped).Msg("broadcast result")
	return res
}

func (r *roomImpl) MembersSnapshot() []MemberDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberDTO, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, MemberDTO{UserID: m.user.ID, Name: m.user.Name})
	}
	return out
}
