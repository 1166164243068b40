package journal

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type capture struct {
	msgs [][]byte
	err  error
}

func (c *capture) Publish(_ context.Context, msg []byte) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *capture) Close() error { return nil }

func TestRecord(t *testing.T) {
	p := &capture{}
	Record(p, "user-joined", "r1", "u1")

	if len(p.msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(p.msgs))
	}
	var e Entry
	if err := json.Unmarshal(p.msgs[0], &e); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	if e.Event != "user-joined" || e.RoomID != "r1" || e.UserID != "u1" {
		t.Fatalf("entry=%+v, want user-joined r1/u1", e)
	}
	if e.At.IsZero() {
		t.Fatalf("entry timestamp not set")
	}
}

func TestRecordIsFireAndForget(t *testing.T) {
	// A failing publisher and a nil one must both be silent no-ops.
	Record(&capture{err: errors.New("broker down")}, "user-left", "r1", "u1")
	Record(nil, "user-left", "r1", "u1")
}
