package todolist

import "errors"

var (
	// ErrTodoNotFound is returned when no live record carries the requested id.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrContentTooLong is returned when content exceeds MaxContentLen bytes.
	ErrContentTooLong = errors.New("content too long")

	// ErrListFull is returned when every slot, live or tombstoned, is allocated.
	ErrListFull = errors.New("list is full")

	// ErrIndexOOB signals a free-slot index that does not address a slot.
	ErrIndexOOB = errors.New("index out of bounds")

	// ErrInvalidID is returned for the zero id, which is reserved for tombstones.
	ErrInvalidID = errors.New("invalid todo id")

	// ErrCorrupt is returned by Validate when a decoded list breaks an invariant.
	ErrCorrupt = errors.New("corrupt todo list")
)
