package orch

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/vmeet/signaling/internal/core"
	"github.com/vmeet/signaling/internal/domain"
)

type presenceMsg struct {
	Type   string        `json:"type"`
	UserID domain.UserID `json:"userId"`
	Name   string        `json:"name,omitempty"`
}

func (o *Orchestrator) handleJoin(cid core.ConnID, data []byte) {
	type joinPayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
		UserID string `json:"userId"`
		Name   string `json:"name,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("bad join payload")
		o.replyError(cid, ErrCodeBadPayload)
		return
	}
	if p.RoomID == "" || p.UserID == "" {
		o.replyError(cid, ErrCodeMalformed)
		return
	}
	user, err := domain.NewUser(domain.UserID(p.UserID), p.Name)
	if err != nil {
		o.replyError(cid, ErrCodeInvalidName)
		return
	}

	roomID := domain.RoomID(p.RoomID)

	if cur, ok := o.Registry.RoomOf(cid); ok && cur == roomID {
		// Re-joining the current room: no duplicate entry, no duplicate
		// notification, no limiter budget spent. Just refresh the snapshot.
		if room, ok := o.Rooms.Get(roomID); ok {
			o.replyRoomState(cid, room)
			return
		}
	}

	if o.Limiter != nil && !o.Limiter.Allow(user.ID) {
		log.Warn().Str("module", "orch").Str("user", p.UserID).Msg("join rate limited")
		o.replyError(cid, ErrCodeRateLimited)
		return
	}

	if cur, ok := o.Registry.RoomOf(cid); ok && cur != roomID {
		// Connections are single-room: departure for the old room is
		// announced before the join notification for the new one.
		o.depart(cid, cur)
	}

	conn, ok := o.Registry.Conn(cid)
	if !ok {
		return
	}

	var room core.RoomService
	for {
		room = o.Rooms.GetOrCreate(roomID)
		err := room.AddMember(cid, *user, conn)
		if err == nil {
			break
		}
		if errors.Is(err, core.ErrRoomClosed) {
			// The record was reclaimed between resolve and add; resolve a
			// fresh one rather than joining a room the registry dropped.
			continue
		}
		// Already a member, nothing to announce.
		o.replyRoomState(cid, room)
		return
	}
	o.Registry.SetRoom(cid, roomID)

	log.Info().Str("module", "orch").Str("cid", string(cid)).Str("room", p.RoomID).Str("user", p.UserID).Msg("join")

	o.replyRoomState(cid, room)
	o.broadcast(room, cid, presenceMsg{Type: EventUserJoined, UserID: user.ID, Name: user.Name})
	o.recordPresence(EventUserJoined, roomID, user.ID)
}

func (o *Orchestrator) handleLeave(cid core.ConnID, data []byte) {
	type leavePayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
		UserID string `json:"userId"`
	}
	var p leavePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("bad leave payload")
		o.replyError(cid, ErrCodeBadPayload)
		return
	}
	if p.RoomID == "" || p.UserID == "" {
		o.replyError(cid, ErrCodeMalformed)
		return
	}

	log.Info().Str("module", "orch").Str("cid", string(cid)).Str("room", p.RoomID).Msg("leave")
	o.depart(cid, domain.RoomID(p.RoomID))
	o.reply(cid, struct {
		Type string `json:"type"`
	}{EventLeft})
}

// depart removes cid from roomID, announces user-left to the remaining
// members, and reclaims the room if it emptied. Leaving a room the
// connection is not a member of (or one that does not exist) is a no-op,
// which keeps leave idempotent.
func (o *Orchestrator) depart(cid core.ConnID, roomID domain.RoomID) bool {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return false
	}
	user, _ := room.UserOf(cid)
	if !room.RemoveMember(cid) {
		return false
	}
	if cur, ok := o.Registry.RoomOf(cid); ok && cur == roomID {
		o.Registry.ClearRoom(cid)
	}
	o.broadcast(room, cid, presenceMsg{Type: EventUserLeft, UserID: user.ID, Name: user.Name})
	o.Rooms.Reclaim(roomID)
	o.recordPresence(EventUserLeft, roomID, user.ID)
	return true
}

func (o *Orchestrator) replyRoomState(cid core.ConnID, room core.RoomService) {
	o.reply(cid, struct {
		Type    string           `json:"type"`
		RoomID  domain.RoomID    `json:"roomId"`
		Members []core.MemberDTO `json:"members"`
		Count   int              `json:"count"`
	}{
		Type:    EventRoomState,
		RoomID:  room.ID(),
		Members: room.MembersSnapshot(),
		Count:   room.MemberCount(),
	})
}
