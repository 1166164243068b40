// Package journal records presence changes (joins and leaves) to an
// external stream for durable room rosters. The relay never reads it back;
// publish failures are logged and never surfaced to the signaling path.
package journal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vmeet/signaling/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, msg []byte) error
	Close() error
}

type Entry struct {
	Event  string        `json:"event"`
	RoomID domain.RoomID `json:"roomId"`
	UserID domain.UserID `json:"userId"`
	At     time.Time     `json:"at"`
}

// Record is fire-and-forget: marshal the entry, publish, log on failure.
func Record(p Publisher, event string, roomID domain.RoomID, userID domain.UserID) {
	if p == nil {
		return
	}
	b, err := json.Marshal(Entry{Event: event, RoomID: roomID, UserID: userID, At: time.Now().UTC()})
	if err != nil {
		log.Error().Err(err).Str("module", "journal").Msg("marshal entry")
		return
	}
	if err := p.Publish(context.Background(), b); err != nil {
		log.Warn().Err(err).Str("module", "journal").Str("event", event).Msg("publish failed")
	}
}

// Nop is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, []byte) error { return nil }
func (Nop) Close() error                          { return nil }
