package orch

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/vmeet/signaling/internal/core"
	"github.com/vmeet/signaling/internal/domain"
)

// relayMsg mirrors the inbound negotiation payload back out. SDP and
// candidate bodies are json.RawMessage so they pass through byte-for-byte;
// the relay never interprets them.
type relayMsg struct {
	Type      string          `json:"type"`
	UserID    domain.UserID   `json:"userId"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// relayHandler builds the handler for one negotiation kind (offer, answer,
// ice-candidate). All three share the same contract: validate addressing
// fields, require the sender to be a tracked member of the named room, then
// fan out to every other member still live. Delivery is best-effort; a
// recipient that went away between resolution and send is skipped without
// aborting the rest.
func (o *Orchestrator) relayHandler(kind string) handlerFunc {
	return func(cid core.ConnID, data []byte) {
		type relayPayload struct {
			Type      string          `json:"type"`
			RoomID    string          `json:"roomId"`
			UserID    string          `json:"userId"`
			SDP       json.RawMessage `json:"sdp,omitempty"`
			Candidate json.RawMessage `json:"candidate,omitempty"`
		}
		var p relayPayload
		if err := json.Unmarshal(data, &p); err != nil {
			log.Error().Err(err).Str("module", "orch").Str("kind", kind).Msg("bad relay payload")
			o.replyError(cid, ErrCodeBadPayload)
			return
		}
		if p.RoomID == "" || p.UserID == "" {
			o.replyError(cid, ErrCodeMalformed)
			return
		}

		out := relayMsg{Type: kind, UserID: domain.UserID(p.UserID)}
		switch kind {
		case EventOffer, EventAnswer:
			if len(p.SDP) == 0 {
				o.replyError(cid, ErrCodeMalformed)
				return
			}
			out.SDP = p.SDP
		case EventICECandidate:
			if len(p.Candidate) == 0 {
				o.replyError(cid, ErrCodeMalformed)
				return
			}
			out.Candidate = p.Candidate
		}

		roomID := domain.RoomID(p.RoomID)
		// Only tracked members of the named room may relay into it. Routing
		// purely by the payload roomId would let a stale or spoofed id
		// receive traffic the sender is not entitled to send.
		if cur, ok := o.Registry.RoomOf(cid); !ok || cur != roomID {
			o.replyError(cid, ErrCodeNotInRoom)
			return
		}
		room, ok := o.Rooms.Get(roomID)
		if !ok {
			// Room with no tracked members: the event reaches nobody.
			return
		}

		res := o.broadcast(room, cid, out)
		log.Debug().Str("module", "orch").Str("kind", kind).Str("room", p.RoomID).Int("sent_to", res.SentTo).Msg("relayed")
	}
}
