package layout

import (
	"fmt"

	"github.com/ssargent/hybridrow/pkg/schema"
)

// Bit addresses one bit of a row's presence bitmask.
type Bit int

// InvalidBit marks a column without a presence or bool bit.
const InvalidBit Bit = -1

func (b Bit) IsInvalid() bool { return b == InvalidBit }

// Offset returns the byte holding the bit, relative to the bitmask start.
func (b Bit) Offset() int { return int(b) / 8 }

// Mask returns the bit's mask within its byte.
func (b Bit) Mask() byte { return 1 << (uint(b) % 8) }

type bitAllocator struct {
	next int
}

func (a *bitAllocator) allocate() Bit {
	b := Bit(a.next)
	a.next++
	return b
}

func (a *bitAllocator) numBytes() int {
	return (a.next + 7) / 8
}

// Column is one compiled column of a layout.
type Column struct {
	path     string
	fullPath string
	typ      *Type
	typeArgs TypeArgumentList
	storage  schema.StorageKind
	parent   *Column
	index    int
	offset   int
	nullBit  Bit
	boolBit  Bit
	size     int
}

func newColumn(path string, t *Type, args TypeArgumentList, storage schema.StorageKind, parent *Column, index, offset int, nullBit, boolBit Bit, size int) *Column {
	return &Column{
		path:     path,
		fullPath: fullPath(parent, path),
		typ:      t,
		typeArgs: args,
		storage:  storage,
		parent:   parent,
		index:    index,
		offset:   offset,
		nullBit:  nullBit,
		boolBit:  boolBit,
		size:     size,
	}
}

func fullPath(parent *Column, path string) string {
	if parent == nil {
		return path
	}
	switch parent.typ.Code().ClearImmutableBit() {
	case CodeObjectScope, CodeSchema:
		return parent.fullPath + "." + path
	default:
		return parent.fullPath + "[]" + path
	}
}

// Path is the column's own name within its scope.
func (c *Column) Path() string { return c.path }

// FullPath is the dotted path from the row root.
func (c *Column) FullPath() string { return c.fullPath }

func (c *Column) Type() *Type                 { return c.typ }
func (c *Column) TypeArgs() TypeArgumentList  { return c.typeArgs }
func (c *Column) Storage() schema.StorageKind { return c.storage }
func (c *Column) Parent() *Column             { return c.parent }

// Index is the column's ordinal within its storage class. Variable column
// indexes continue after the fixed columns.
func (c *Column) Index() int { return c.index }

// Offset is the byte offset of a fixed column from the end of the row
// header. It is -1 for sparse columns.
func (c *Column) Offset() int { return c.offset }

// NullBit is the presence bit, or InvalidBit for non-nullable and sparse
// columns.
func (c *Column) NullBit() Bit { return c.nullBit }

// BoolBit holds the value of a fixed bool column.
func (c *Column) BoolBit() Bit { return c.boolBit }

// Size is the declared maximum length, or the reserved length of a fixed
// utf8/binary column.
func (c *Column) Size() int { return c.size }

func (c *Column) String() string {
	return fmt.Sprintf("%s: %s%s @%s:%d:%d:%d:%d:%d",
		c.fullPath, c.typ.Name(), c.typeArgs, c.storage, c.index, c.offset, c.nullBit, c.boolBit, c.size)
}
