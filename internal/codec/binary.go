package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/idilsaglam/boundedtodo/internal/model"
	"github.com/idilsaglam/boundedtodo/internal/todolist"
)

var (
	ErrTruncated = errors.New("codec: truncated input")
	ErrBadBool   = errors.New("codec: invalid bool byte")
	ErrTooLarge  = errors.New("codec: encoded list exceeds max size")
)

var _ Codec = (*Binary)(nil)

// Binary is the default codec.
//
// Layout, little endian, u32 length prefixes:
//
//	owner[32] | count u16 | n u32 | n × slot u16 | m u32 | m × record
//	record: id[32] | len u32 | content | completed u8
type Binary struct{}

func NewBinary() *Binary {
	return &Binary{}
}

func (Binary) Encode(l *todolist.List) ([]byte, error) {
	size := todolist.EncodedSize(l)
	if size > todolist.MaxSize() {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, size, todolist.MaxSize())
	}
	buf := make([]byte, 0, size)
	buf = append(buf, l.Owner[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, l.Count)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(l.FreeSlots)))
	for _, i := range l.FreeSlots {
		buf = binary.LittleEndian.AppendUint16(buf, i)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(l.Slots)))
	for _, r := range l.Slots {
		buf = append(buf, r.ID[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(r.Content)))
		buf = append(buf, r.Content...)
		if r.Completed {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	return buf, nil
}

func (Binary) Decode(data []byte) (*todolist.List, error) {
	d := decoder{buf: data}
	l := &todolist.List{}

	d.id(&l.Owner)
	l.Count = d.u16()

	n := d.length(todolist.MaxTodoListLength)
	l.FreeSlots = make([]uint16, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		l.FreeSlots = append(l.FreeSlots, d.u16())
	}

	m := d.length(todolist.MaxTodoListLength)
	l.Slots = make([]model.Record, 0, m)
	for i := 0; i < m && d.err == nil; i++ {
		var r model.Record
		d.id(&r.ID)
		r.Content = d.str(todolist.MaxContentLen)
		r.Completed = d.bool()
		l.Slots = append(l.Slots, r)
	}
	if d.err != nil {
		return nil, d.err
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return l, nil
}

// decoder reads sequentially and keeps the first error.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if len(d.buf)-d.off < n {
		d.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, d.off, len(d.buf)-d.off)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) id(dst *model.ID) {
	if b := d.take(model.IDSize); b != nil {
		copy(dst[:], b)
	}
}

func (d *decoder) u16() uint16 {
	if b := d.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (d *decoder) u32() uint32 {
	if b := d.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

// length reads a u32 prefix bounded by limit.
func (d *decoder) length(limit int) int {
	n := d.u32()
	if d.err == nil && n > uint32(limit) {
		d.err = fmt.Errorf("%w: length %d exceeds %d", todolist.ErrCorrupt, n, limit)
		return 0
	}
	return int(n)
}

func (d *decoder) str(limit int) string {
	n := d.length(limit)
	if b := d.take(n); b != nil {
		return string(b)
	}
	return ""
}

func (d *decoder) bool() bool {
	b := d.take(1)
	if b == nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	}
	d.err = fmt.Errorf("%w: %#x at offset %d", ErrBadBool, b[0], d.off-1)
	return false
}
