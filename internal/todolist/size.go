package todolist

import "github.com/idilsaglam/boundedtodo/internal/model"

// Encoded field widths. They mirror internal/codec and are kept here so the
// worst-case size can be computed without encoding anything.
const (
	OwnerSize        = model.IDSize
	CountSize        = 2
	LengthPrefixSize = 4
	SlotIndexSize    = 2
	IDSize           = model.IDSize
	CompletedSize    = 1
)

// RecordMaxSize is the encoded size of a record holding MaxContentLen bytes.
const RecordMaxSize = IDSize + LengthPrefixSize + MaxContentLen + CompletedSize

// MaxSize is the encoded size of a full list: every slot allocated, every
// slot on the free list and every record at maximum content length. A
// region reserved with MaxSize bytes can hold any reachable list.
func MaxSize() int {
	return OwnerSize + CountSize +
		LengthPrefixSize + MaxTodoListLength*SlotIndexSize +
		LengthPrefixSize + MaxTodoListLength*RecordMaxSize
}

// EncodedSize is the number of bytes l encodes to.
func EncodedSize(l *List) int {
	n := OwnerSize + CountSize +
		LengthPrefixSize + len(l.FreeSlots)*SlotIndexSize +
		LengthPrefixSize
	for _, r := range l.Slots {
		n += IDSize + LengthPrefixSize + len(r.Content) + CompletedSize
	}
	return n
}

// Fits reports whether l still fits a region of MaxSize bytes.
func Fits(l *List) bool {
	return EncodedSize(l) <= MaxSize()
}
