package row

import (
	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/schema"
)

func (b *Buffer) variableStart() int {
	return HeaderSize + b.layout.Size()
}

// variableOffset returns where col's value starts, or would be inserted.
// Only present variable columns occupy bytes, in index order.
func (b *Buffer) variableOffset(col *layout.Column) (int, error) {
	off := b.variableStart()
	for _, c := range b.layout.VariableColumns() {
		if c == col {
			return off, nil
		}
		if !b.isSet(c.NullBit()) {
			continue
		}
		_, n, err := readValue(b.buf[off:b.length], c.Type())
		if err != nil {
			return 0, err
		}
		off += n
	}
	return off, nil
}

// sparseStart returns the offset of the first sparse field.
func (b *Buffer) sparseStart() (int, error) {
	return b.variableOffset(nil)
}

// WriteVariable sets a variable column, growing or shrinking the row in
// place. Values longer than a declared maximum length are TooBig.
func (b *Buffer) WriteVariable(col *layout.Column, value any) error {
	if err := b.checkColumn(col, schema.StorageVariable); err != nil {
		return err
	}
	data, err := appendValue(nil, col.Type(), value)
	if err != nil {
		return err
	}
	if col.Size() > 0 && payloadLen(value) > col.Size() {
		return TooBig
	}

	off, err := b.variableOffset(col)
	if err != nil {
		return err
	}
	oldLen := 0
	if b.isSet(col.NullBit()) {
		_, oldLen, err = readValue(b.buf[off:b.length], col.Type())
		if err != nil {
			return err
		}
	}
	if err := b.splice(off, oldLen, data); err != nil {
		return err
	}
	b.setBit(col.NullBit(), true)
	return nil
}

// ReadVariable returns a variable column's value, or NotFound when it is
// absent.
func (b *Buffer) ReadVariable(col *layout.Column) (any, error) {
	if err := b.checkColumn(col, schema.StorageVariable); err != nil {
		return nil, err
	}
	if !b.isSet(col.NullBit()) {
		return nil, NotFound
	}
	off, err := b.variableOffset(col)
	if err != nil {
		return nil, err
	}
	v, _, err := readValue(b.buf[off:b.length], col.Type())
	return v, err
}

// DeleteVariable removes a variable column's bytes and clears its presence
// bit. Deleting an absent column is a no-op.
func (b *Buffer) DeleteVariable(col *layout.Column) error {
	if err := b.checkColumn(col, schema.StorageVariable); err != nil {
		return err
	}
	if !b.isSet(col.NullBit()) {
		return nil
	}
	off, err := b.variableOffset(col)
	if err != nil {
		return err
	}
	_, n, err := readValue(b.buf[off:b.length], col.Type())
	if err != nil {
		return err
	}
	if err := b.splice(off, n, nil); err != nil {
		return err
	}
	b.setBit(col.NullBit(), false)
	return nil
}

func payloadLen(v any) int {
	switch x := v.(type) {
	case string:
		return len(x)
	case []byte:
		return len(x)
	}
	return 0
}
