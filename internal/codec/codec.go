package codec

import "github.com/idilsaglam/boundedtodo/internal/todolist"

// Codec turns a record store into the bytes kept in its region and back.
type Codec interface {
	// Encode returns the encoded list; its length never exceeds todolist.MaxSize.
	Encode(*todolist.List) ([]byte, error)

	// Decode parses a list and validates its invariants. Bytes after the
	// encoded list are ignored so a zero-padded region body decodes as is.
	Decode([]byte) (*todolist.List, error)
}
