package orch

import (
	"testing"
	"time"
)

func TestJoinLimiterWindow(t *testing.T) {
	now := time.Unix(0, 0)
	rl := NewJoinLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("u1") || !rl.Allow("u1") {
		t.Fatalf("attempts within the limit should be allowed")
	}
	if rl.Allow("u1") {
		t.Fatalf("third attempt inside the window should be blocked")
	}
	if !rl.Allow("u2") {
		t.Fatalf("limit is per user, u2 should be unaffected")
	}

	now = now.Add(61 * time.Second)
	if !rl.Allow("u1") {
		t.Fatalf("attempts should be allowed again once the window passes")
	}
}
