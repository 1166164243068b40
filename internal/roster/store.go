// Package roster is the durable bookkeeping path: rooms and membership
// rows persisted in badger for clients that need a roster surviving the
// relay process. The in-memory relay never consults it for fan-out.
package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/google/uuid"
)

var ErrRoomNotFound = errors.New("room not found")

const (
	roomPrefix   = "room"
	memberPrefix = "member"
	userPrefix   = "user"
)

type MemberRow struct {
	RoomID   string    `json:"roomId"`
	UserID   string    `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

type RoomRow struct {
	ID        string    `json:"roomId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store wraps a badger database. One row per room, one row per membership,
// plus a per-user pointer used to dedupe prior memberships on upsert.
type Store struct {
	db *badger.DB
}

// Open creates the database directory if nothing is found in path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithSyncWrites(false).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open roster store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func roomKey(id string) []byte {
	return []byte(fmt.Sprintf("%s_%s", roomPrefix, id))
}

func memberKey(roomID, userID string) []byte {
	return []byte(fmt.Sprintf("%s_%s_%s", memberPrefix, roomID, userID))
}

func userKey(userID string) []byte {
	return []byte(fmt.Sprintf("%s_%s", userPrefix, userID))
}

// CreateRoom allocates a fresh room id and persists its record.
func (s *Store) CreateRoom() (string, error) {
	id := uuid.NewString()
	row, err := json.Marshal(RoomRow{ID: id, CreatedAt: time.Now().UTC()})
	if err != nil {
		return "", err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(roomKey(id), row)
	})
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	return id, nil
}

func (s *Store) RoomExists(id string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(roomKey(id))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpsertMember records (roomID, userID). Any prior membership row for the
// same user, in this or another room, is deleted first so the roster keeps
// the single-room invariant of the relay.
func (s *Store) UpsertMember(roomID, userID string) error {
	row, err := json.Marshal(MemberRow{RoomID: roomID, UserID: userID, JoinedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(userID))
		if err == nil {
			var prevRoom string
			if verr := item.Value(func(val []byte) error {
				prevRoom = string(val)
				return nil
			}); verr != nil {
				return verr
			}
			if derr := txn.Delete(memberKey(prevRoom, userID)); derr != nil {
				return derr
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(memberKey(roomID, userID), row); err != nil {
			return err
		}
		return txn.Set(userKey(userID), []byte(roomID))
	})
	if err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}
	return nil
}

func (s *Store) RemoveMember(roomID, userID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(memberKey(roomID, userID)); err != nil {
			return err
		}
		item, err := txn.Get(userKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var cur string
		if verr := item.Value(func(val []byte) error {
			cur = string(val)
			return nil
		}); verr != nil {
			return verr
		}
		if cur == roomID {
			return txn.Delete(userKey(userID))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

// Members lists the persisted membership rows of a room. A room with no
// record yields ErrRoomNotFound; an existing room with no members yields an
// empty slice.
func (s *Store) Members(roomID string) ([]MemberRow, error) {
	var out []MemberRow
	prefix := []byte(fmt.Sprintf("%s_%s_", memberPrefix, roomID))
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(roomKey(roomID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var row MemberRow
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &row)
			}); err != nil {
				return err
			}
			out = append(out, row)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return out, nil
}
