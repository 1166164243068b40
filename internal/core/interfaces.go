package core

import (
	"errors"

	"github.com/vmeet/signaling/internal/domain"
)

var (
	// ErrAlreadyMember reports an idempotent re-join of the same room.
	ErrAlreadyMember = errors.New("already a member")
	// ErrRoomClosed reports a join against a room record that was
	// reclaimed after the caller resolved it. The caller must resolve a
	// fresh record from the manager.
	ErrRoomClosed = errors.New("room closed")
)

// Frame is a marshaled outbound message.
type Frame []byte

// ConnID identifies one live transport connection. It is allocated by the
// connection registry at accept time and is unrelated to the userId claimed
// in event payloads.
type ConnID string

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats to the router.
type PublishResult struct {
	SentTo  int
	Skipped int
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	UserID domain.UserID `json:"userId"`
	Name   string        `json:"name,omitempty"`
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	ID() domain.RoomID
	MemberCount() int
	MembersSnapshot() []MemberDTO

	// AddMember returns ErrAlreadyMember if cid is already a member
	// (idempotent join) and ErrRoomClosed if the record was reclaimed.
	AddMember(cid ConnID, user domain.User, conn SignalConnection) error
	// RemoveMember returns false if cid was not a member (idempotent leave).
	RemoveMember(cid ConnID) bool
	// CloseIfEmpty marks the room closed if its member set is empty, after
	// which every AddMember fails with ErrRoomClosed. Reports whether it
	// closed the room. Only the room manager calls this, while unlinking
	// the record.
	CloseIfEmpty() bool
	// UserOf reports the identity a member joined with.
	UserOf(cid ConnID) (domain.User, bool)

	// BroadcastExcept delivers data to every member but from. A member for
	// which live reports false, or whose TrySend fails, is skipped; delivery
	// to the rest continues. The member set cannot change mid-broadcast.
	BroadcastExcept(from ConnID, data Frame, live func(ConnID) bool) PublishResult
}

type RoomInfo struct {
	ID          domain.RoomID `json:"roomId"`
	MemberCount int           `json:"memberCount"`
}

// RoomManager is the room registry: it maps room ids to RoomService
// instances, creating them lazily and reclaiming them when empty.
type RoomManager interface {
	GetOrCreate(id domain.RoomID) RoomService
	Get(id domain.RoomID) (RoomService, bool)
	// Reclaim deletes the room record if its member set is empty.
	Reclaim(id domain.RoomID)
	List() []RoomInfo
}
