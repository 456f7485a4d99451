package row

import (
	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/schema"
)

// Cursor addresses one scope of a row. Only the root scope is addressable
// by this buffer; nested scopes are stored but not navigated.
type Cursor struct {
	layout *layout.Layout
	scope  *layout.Type
}

// IsRoot reports whether the cursor addresses the row's top-level scope.
func (c *Cursor) IsRoot() bool {
	return c.scope.Code().ClearImmutableBit() == layout.CodeSchema
}

func (c *Cursor) Layout() *layout.Layout { return c.layout }
func (c *Cursor) Scope() *layout.Type    { return c.scope }

// Find returns the column named path within the cursor's scope.
func (c *Cursor) Find(path string) (*layout.Column, bool) {
	if c.layout == nil {
		return nil, false
	}
	col, ok := c.layout.TryFind(path)
	if !ok || col.Parent() != nil {
		return nil, false
	}
	return col, true
}

// WriteColumn writes value to a top-level column of any storage class.
func (b *Buffer) WriteColumn(c *Cursor, col *layout.Column, value any) error {
	switch col.Storage() {
	case schema.StorageFixed:
		return b.WriteFixed(col, value)
	case schema.StorageVariable:
		return b.WriteVariable(col, value)
	default:
		return b.WriteSparse(c, col.Path(), col.Type(), value)
	}
}

// ReadColumn reads a top-level column of any storage class. Absent values
// are NotFound.
func (b *Buffer) ReadColumn(c *Cursor, col *layout.Column) (any, error) {
	switch col.Storage() {
	case schema.StorageFixed:
		return b.ReadFixed(col)
	case schema.StorageVariable:
		return b.ReadVariable(col)
	default:
		f, err := b.ReadSparse(c, col.Path())
		if err != nil {
			return nil, err
		}
		return f.Value, nil
	}
}

// Serializer writes and reads values of type T at a cursor. isRoot is true
// when the value is the whole row rather than a nested field.
type Serializer[T any] interface {
	Write(b *Buffer, c *Cursor, isRoot bool, typeArgs layout.TypeArgumentList, value T) error
	Read(b *Buffer, c *Cursor, isRoot bool) (T, error)
}
