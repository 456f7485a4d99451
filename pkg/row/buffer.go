// Package row is a minimal HybridRow row buffer: header, presence bitmask,
// fixed, variable and top-level sparse fields.
package row

import (
	"encoding/binary"
	"fmt"

	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/schema"
)

// Version is the row format version byte that starts every row.
type Version byte

// V1 is the only row format version.
const V1 Version = 0x81

// HeaderSize is the version byte plus the little-endian schema id.
const HeaderSize = 5

// Header is the decoded row header.
type Header struct {
	Version  Version
	SchemaID schema.SchemaID
}

// Buffer holds one row:
//
//	[header][bitmask][fixed columns][variable columns][sparse fields]
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	buf      []byte
	length   int
	resizer  Resizer
	layout   *layout.Layout
	resolver layout.Resolver
}

// New returns an empty buffer with the given initial capacity. A nil resizer
// means DefaultResizer.
func New(capacity int, resizer Resizer) *Buffer {
	if resizer == nil {
		resizer = DefaultResizer
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{buf: make([]byte, capacity), resizer: resizer}
}

// InitLayout starts a new empty row of layout l. Every presence bit starts
// cleared and every fixed column zeroed.
func (b *Buffer) InitLayout(v Version, l *layout.Layout, resolver layout.Resolver) error {
	if l == nil {
		return fmt.Errorf("row: nil layout")
	}
	b.length = 0
	size := HeaderSize + l.Size()
	if err := b.ensure(size); err != nil {
		return err
	}
	clear(b.buf[:size])
	b.buf[0] = byte(v)
	binary.LittleEndian.PutUint32(b.buf[1:HeaderSize], uint32(l.SchemaID()))
	b.length = size
	b.layout = l
	b.resolver = resolver
	return nil
}

// ReadFrom loads an existing row, resolving its layout from the schema id in
// its header. data is copied.
func (b *Buffer) ReadFrom(data []byte, v Version, resolver layout.Resolver) error {
	if len(data) < HeaderSize {
		return InvalidRow
	}
	if Version(data[0]) != v {
		return fmt.Errorf("row: unsupported version 0x%02x: %w", data[0], InvalidRow)
	}
	id := schema.SchemaID(binary.LittleEndian.Uint32(data[1:HeaderSize]))
	l, err := resolver.Resolve(id)
	if err != nil {
		return fmt.Errorf("row: failed to resolve schema %d: %w", id, err)
	}
	if len(data) < HeaderSize+l.Size() {
		return fmt.Errorf("row: %d bytes is short of layout %s: %w", len(data), l.Name(), InvalidRow)
	}
	b.length = 0
	if err := b.ensure(len(data)); err != nil {
		return err
	}
	copy(b.buf, data)
	b.length = len(data)
	b.layout = l
	b.resolver = resolver
	return nil
}

// Reset empties the buffer, keeping its memory.
func (b *Buffer) Reset() {
	b.length = 0
	b.layout = nil
	b.resolver = nil
}

// Bytes returns the row. The slice aliases the buffer until the next write.
func (b *Buffer) Bytes() []byte { return b.buf[:b.length] }

func (b *Buffer) Length() int               { return b.length }
func (b *Buffer) Layout() *layout.Layout    { return b.layout }
func (b *Buffer) Resolver() layout.Resolver { return b.resolver }

func (b *Buffer) Header() Header {
	if b.length < HeaderSize {
		return Header{}
	}
	return Header{
		Version:  Version(b.buf[0]),
		SchemaID: schema.SchemaID(binary.LittleEndian.Uint32(b.buf[1:HeaderSize])),
	}
}

// RootCursor returns a cursor over the row's top-level scope.
func (b *Buffer) RootCursor() *Cursor {
	return &Cursor{layout: b.layout, scope: layout.UDT}
}

func (b *Buffer) ensure(n int) error {
	if n <= len(b.buf) {
		return nil
	}
	grown := b.resizer.Resize(n, b.buf[:b.length])
	if len(grown) < n {
		return InsufficientBuffer
	}
	b.buf = grown
	return nil
}

// splice replaces oldLen bytes at off with data, moving the tail.
func (b *Buffer) splice(off, oldLen int, data []byte) error {
	newLen := b.length - oldLen + len(data)
	if err := b.ensure(newLen); err != nil {
		return err
	}
	copy(b.buf[off+len(data):newLen], b.buf[off+oldLen:b.length])
	copy(b.buf[off:], data)
	b.length = newLen
	return nil
}

func (b *Buffer) isSet(bit layout.Bit) bool {
	if bit.IsInvalid() {
		return true
	}
	return b.buf[HeaderSize+bit.Offset()]&bit.Mask() != 0
}

func (b *Buffer) setBit(bit layout.Bit, on bool) {
	if bit.IsInvalid() {
		return
	}
	i := HeaderSize + bit.Offset()
	if on {
		b.buf[i] |= bit.Mask()
	} else {
		b.buf[i] &^= bit.Mask()
	}
}

func (b *Buffer) checkColumn(col *layout.Column, storage schema.StorageKind) error {
	if b.layout == nil {
		return InvalidRow
	}
	if col == nil || col.Storage() != storage {
		return TypeConstraint
	}
	if c, ok := b.layout.TryFind(col.FullPath()); !ok || c != col {
		return NotFound
	}
	return nil
}

// WriteFixed sets a fixed column and marks it present. Fixed utf8 and
// binary values must be exactly the column's size.
func (b *Buffer) WriteFixed(col *layout.Column, value any) error {
	if err := b.checkColumn(col, schema.StorageFixed); err != nil {
		return err
	}
	t := col.Type()
	off := HeaderSize + col.Offset()

	switch t.Code() {
	case layout.CodeNull:
		if value != nil {
			return TypeMismatch
		}
	case layout.CodeBoolean:
		x, ok := value.(bool)
		if !ok {
			return TypeMismatch
		}
		b.setBit(col.BoolBit(), x)
	case layout.CodeUtf8, layout.CodeBinary:
		var data []byte
		switch x := value.(type) {
		case string:
			if t.Code() != layout.CodeUtf8 {
				return TypeMismatch
			}
			data = []byte(x)
		case []byte:
			if t.Code() != layout.CodeBinary {
				return TypeMismatch
			}
			data = x
		default:
			return TypeMismatch
		}
		if len(data) > col.Size() {
			return TooBig
		}
		if len(data) != col.Size() {
			return TypeConstraint
		}
		copy(b.buf[off:off+col.Size()], data)
	default:
		if err := putFixed(b.buf[off:off+t.Size()], t, value); err != nil {
			return err
		}
	}
	b.setBit(col.NullBit(), true)
	return nil
}

// ReadFixed returns a fixed column's value, or NotFound when its presence
// bit is clear.
func (b *Buffer) ReadFixed(col *layout.Column) (any, error) {
	if err := b.checkColumn(col, schema.StorageFixed); err != nil {
		return nil, err
	}
	if !b.isSet(col.NullBit()) {
		return nil, NotFound
	}
	t := col.Type()
	off := HeaderSize + col.Offset()

	switch t.Code() {
	case layout.CodeNull:
		return nil, nil
	case layout.CodeBoolean:
		return b.isSet(col.BoolBit()), nil
	case layout.CodeUtf8:
		return string(b.buf[off : off+col.Size()]), nil
	case layout.CodeBinary:
		return append([]byte(nil), b.buf[off:off+col.Size()]...), nil
	default:
		return getFixed(b.buf[off:off+t.Size()], t)
	}
}

// DeleteFixed clears a fixed column's presence bit and zeroes its bytes.
// Non-nullable columns cannot be deleted.
func (b *Buffer) DeleteFixed(col *layout.Column) error {
	if err := b.checkColumn(col, schema.StorageFixed); err != nil {
		return err
	}
	if col.NullBit().IsInvalid() {
		return TypeConstraint
	}
	b.setBit(col.NullBit(), false)
	b.setBit(col.BoolBit(), false)
	off := HeaderSize + col.Offset()
	size := col.Type().Size()
	if !col.Type().IsFixed() {
		size = col.Size()
	}
	clear(b.buf[off : off+size])
	return nil
}
