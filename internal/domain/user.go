// Package domain contains entities without logic, just meta-data
package domain

import "errors"

const MaxNameLen = 36

var (
	ErrNameTooLong = errors.New("display name too long")
	ErrUserIDEmpty = errors.New("user id empty")
)

// UserID is the application-level identity carried in event payloads.
// The relay does not verify it; it only echoes it back to peers.
type UserID string

type User struct {
	ID   UserID `json:"userId"`
	Name string `json:"name,omitempty"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id UserID, name string) (*User, error) {
	if id == "" {
		return nil, ErrUserIDEmpty
	}
	if len(name) > MaxNameLen {
		return nil, ErrNameTooLong
	}
	return &User{ID: id, Name: name}, nil
}
