package domain

// RoomID is a caller-supplied opaque identifier. Rooms are created lazily
// on first join and reclaimed when their last member leaves.
type RoomID string
