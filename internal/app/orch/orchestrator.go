// Package orch routes signaling events between connections and owns the
// session lifecycle: join/leave bookkeeping, presence broadcasts, and
// cleanup on disconnect.
package orch

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/vmeet/signaling/internal/app"
	"github.com/vmeet/signaling/internal/core"
	"github.com/vmeet/signaling/internal/domain"
	"github.com/vmeet/signaling/internal/journal"
)

// Inbound event kinds.
const (
	EventJoinRoom     = "join-room"
	EventLeaveRoom    = "leave-room"
	EventOffer        = "offer"
	EventAnswer       = "answer"
	EventICECandidate = "ice-candidate"
	EventPing         = "ping"
)

// Outbound event kinds (offer/answer/ice-candidate are mirrored verbatim).
const (
	EventUserJoined = "user-joined"
	EventUserLeft   = "user-left"
	EventRoomState  = "room-state"
	EventLeft       = "left"
	EventPong       = "pong"
	EventError      = "error"
)

// Error codes reported back to the offending sender only.
const (
	ErrCodeBadPayload  = "bad_payload"
	ErrCodeMalformed   = "malformed_event"
	ErrCodeInvalidName = "invalid_name"
	ErrCodeNotInRoom   = "not_in_room"
	ErrCodeRateLimited = "rate_limited"
	ErrCodeUnknown     = "unknown_event"
)

type handlerFunc func(cid core.ConnID, data []byte)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Journal  journal.Publisher
	Limiter  *JoinLimiter

	handlers map[string]handlerFunc
}

func New(reg *app.Registry, rooms core.RoomManager, pub journal.Publisher, limiter *JoinLimiter) *Orchestrator {
	o := &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Journal:  pub,
		Limiter:  limiter,
	}
	o.handlers = map[string]handlerFunc{
		EventJoinRoom:     o.handleJoin,
		EventLeaveRoom:    o.handleLeave,
		EventOffer:        o.relayHandler(EventOffer),
		EventAnswer:       o.relayHandler(EventAnswer),
		EventICECandidate: o.relayHandler(EventICECandidate),
		EventPing:         o.handlePing,
	}
	return o
}

// Dispatch routes one inbound frame by its type field. Malformed or unknown
// events are reported back to the sender and never fan out.
func (o *Orchestrator) Dispatch(cid core.ConnID, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("cid", string(cid)).Msg("bad json")
		o.replyError(cid, ErrCodeBadPayload)
		return
	}
	h, ok := o.handlers[env.Type]
	if !ok {
		log.Warn().Str("module", "orch").Str("type", env.Type).Msg("unknown event kind")
		o.replyError(cid, ErrCodeUnknown)
		return
	}
	h(cid, data)
}

// Disconnect is the transport close hook, for both normal closes and fatal
// errors. It removes the connection from its room, broadcasts one user-left
// to the remaining members, and unregisters. Idempotent.
func (o *Orchestrator) Disconnect(cid core.ConnID) {
	if roomID, ok := o.Registry.RoomOf(cid); ok {
		o.depart(cid, roomID)
	}
	o.Registry.Unregister(cid)
}

func (o *Orchestrator) handlePing(cid core.ConnID, _ []byte) {
	o.reply(cid, struct {
		Type string `json:"type"`
	}{EventPong})
}

func (o *Orchestrator) broadcast(room core.RoomService, from core.ConnID, v any) core.PublishResult {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("broadcast marshal")
		return core.PublishResult{}
	}
	return room.BroadcastExcept(from, b, o.Registry.IsLive)
}

func (o *Orchestrator) reply(cid core.ConnID, v any) {
	conn, ok := o.Registry.Conn(cid)
	if !ok {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("reply marshal")
		return
	}
	_ = conn.TrySend(b)
}

func (o *Orchestrator) recordPresence(event string, roomID domain.RoomID, userID domain.UserID) {
	journal.Record(o.Journal, event, roomID, userID)
}

func (o *Orchestrator) replyError(cid core.ConnID, code string) {
	o.reply(cid, struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}{EventError, code})
}
