package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// IDSize is the width of a record or owner identity in bytes.
const IDSize = 32

// ID is an opaque fixed-width identity. The zero value marks a scrubbed slot.
type ID [IDSize]byte

// NewID returns a random identity.
func NewID() (ID, error) {
	var id ID
	if _, err := rand.Read(id[:]); err != nil {
		return ID{}, fmt.Errorf("rand: %w", err)
	}
	return id, nil
}

// ParseID decodes a full 64-char hex identity.
func ParseID(s string) (ID, error) {
	var id ID
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return ID{}, fmt.Errorf("parse id: %w", err)
	}
	if len(b) != IDSize {
		return ID{}, fmt.Errorf("parse id: want %d bytes, got %d", IDSize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id ID) IsZero() bool { return id == ID{} }

func (id ID) String() string { return hex.EncodeToString(id[:]) }

// Short is the first 8 hex chars, enough to tell records apart in a listing.
func (id ID) Short() string { return id.String()[:8] }

// Record is the domain model for a todo entry.
// A tombstoned record has an empty Content, Completed false and a zero ID.
type Record struct {
	ID        ID     `json:"id"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
}

func (r Record) IsTombstone() bool {
	return r.ID.IsZero() && r.Content == "" && !r.Completed
}
