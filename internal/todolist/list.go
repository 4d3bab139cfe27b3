// Package todolist implements a fixed-capacity record store whose deleted
// slots are scrubbed and reused last-freed-first instead of being compacted.
package todolist

import (
	"fmt"
	"math"

	"github.com/idilsaglam/boundedtodo/internal/model"
)

const (
	// MaxTodoListLength caps the number of allocated slots, live plus tombstoned.
	MaxTodoListLength = 40
	// MaxContentLen caps record content, in bytes.
	MaxContentLen = 200
)

// List is the record store of a single owner.
//
// Slots never shrink: a deleted record is scrubbed in place and its index
// pushed on FreeSlots, which Add pops before appending.
type List struct {
	Owner     model.ID
	Count     uint16 // live records
	FreeSlots []uint16
	Slots     []model.Record
}

// Entry is a live record together with the slot holding it.
type Entry struct {
	Slot int
	model.Record
}

// New returns an empty list owned by owner.
func New(owner model.ID) *List {
	return &List{
		Owner:     owner,
		FreeSlots: []uint16{},
		Slots:     []model.Record{},
	}
}

// Add stores a new pending record and returns the slot it landed in. The
// most recently freed slot is reused first; otherwise the record is
// appended. The zero ID is reserved for tombstones and is rejected with
// ErrInvalidID.
func (l *List) Add(id model.ID, content string) (int, error) {
	if len(content) > MaxContentLen {
		return 0, ErrContentTooLong
	}
	if id.IsZero() {
		return 0, ErrInvalidID
	}
	if len(l.Slots) >= MaxTodoListLength {
		return 0, ErrListFull
	}
	if l.Count == math.MaxUint16 {
		panic("todolist: live count overflow")
	}
	rec := model.Record{ID: id, Content: content}

	var slot int
	if n := len(l.FreeSlots); n > 0 {
		slot = int(l.FreeSlots[n-1])
		if slot >= len(l.Slots) {
			return 0, ErrIndexOOB
		}
		l.FreeSlots = l.FreeSlots[:n-1]
		l.Slots[slot] = rec
	} else {
		slot = len(l.Slots)
		l.Slots = append(l.Slots, rec)
	}

	l.Count++
	return slot, nil
}

// MarkDone completes the record. Completing it twice is not an error.
func (l *List) MarkDone(id model.ID) error {
	i, err := l.index(id)
	if err != nil {
		return err
	}
	l.Slots[i].Completed = true
	return nil
}

// UpdateContent replaces the content of a live record in place.
func (l *List) UpdateContent(id model.ID, content string) error {
	if len(content) > MaxContentLen {
		return ErrContentTooLong
	}
	i, err := l.index(id)
	if err != nil {
		return err
	}
	l.Slots[i].Content = content
	return nil
}

// Delete scrubs the record's slot and makes it the next one Add reuses.
func (l *List) Delete(id model.ID) error {
	i, err := l.index(id)
	if err != nil {
		return err
	}
	if i > math.MaxUint16 {
		return ErrIndexOOB
	}
	if l.Count == 0 {
		panic("todolist: live count underflow")
	}

	l.Slots[i] = model.Record{}
	l.FreeSlots = append(l.FreeSlots, uint16(i))
	l.Count--
	return nil
}

// Get returns the live record with the given id and its slot.
func (l *List) Get(id model.ID) (model.Record, int, error) {
	i, err := l.index(id)
	if err != nil {
		return model.Record{}, 0, err
	}
	return l.Slots[i], i, nil
}

// Live returns the live records in slot order.
func (l *List) Live() []Entry {
	free := l.freeSet()
	out := make([]Entry, 0, l.Count)
	for i, r := range l.Slots {
		if _, ok := free[i]; ok {
			continue
		}
		out = append(out, Entry{Slot: i, Record: r})
	}
	return out
}

// IsFree reports whether slot i is tombstoned.
func (l *List) IsFree(i int) bool {
	_, ok := l.freeSet()[i]
	return ok
}

// Len is the number of allocated slots.
func (l *List) Len() int { return len(l.Slots) }

// Cap is the number of slots that can still be allocated.
func (l *List) Cap() int { return MaxTodoListLength - len(l.Slots) }

// Validate checks the structural invariants of a list, typically one
// that was just decoded from a region.
func (l *List) Validate() error {
	if len(l.Slots) > MaxTodoListLength {
		return fmt.Errorf("%w: %d slots, max %d", ErrCorrupt, len(l.Slots), MaxTodoListLength)
	}
	seen := make(map[uint16]struct{}, len(l.FreeSlots))
	for _, i := range l.FreeSlots {
		if int(i) >= len(l.Slots) {
			return fmt.Errorf("%w: free slot %d of %d", ErrIndexOOB, i, len(l.Slots))
		}
		if _, dup := seen[i]; dup {
			return fmt.Errorf("%w: free slot %d listed twice", ErrCorrupt, i)
		}
		seen[i] = struct{}{}
	}
	if int(l.Count)+len(l.FreeSlots) != len(l.Slots) {
		return fmt.Errorf("%w: count %d + free %d != slots %d",
			ErrCorrupt, l.Count, len(l.FreeSlots), len(l.Slots))
	}
	for i, r := range l.Slots {
		if len(r.Content) > MaxContentLen {
			return fmt.Errorf("%w: slot %d: %w", ErrCorrupt, i, ErrContentTooLong)
		}
		_, free := seen[uint16(i)]
		if free && !r.IsTombstone() {
			return fmt.Errorf("%w: free slot %d is not scrubbed", ErrCorrupt, i)
		}
		if !free && r.ID.IsZero() {
			return fmt.Errorf("%w: live slot %d has zero id", ErrCorrupt, i)
		}
	}
	return nil
}

// index scans slots for the first live record with id.
func (l *List) index(id model.ID) (int, error) {
	if id.IsZero() {
		return 0, ErrTodoNotFound
	}
	for i, r := range l.Slots {
		if r.ID == id {
			return i, nil
		}
	}
	return 0, ErrTodoNotFound
}

func (l *List) freeSet() map[int]struct{} {
	m := make(map[int]struct{}, len(l.FreeSlots))
	for _, i := range l.FreeSlots {
		m[int(i)] = struct{}{}
	}
	return m
}
