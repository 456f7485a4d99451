package row

import (
	"encoding/binary"

	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/schema"
)

// SparseField is one decoded field of a sparse scope.
type SparseField struct {
	Path  string
	Type  *layout.Type
	Value any
}

// appendSparsePath writes a path as its token when the layout has one, else
// as a length-prefixed string whose prefix is offset past the token space.
func appendSparsePath(dst []byte, l *layout.Layout, path string) []byte {
	if tok, ok := l.Token(path); ok {
		return binary.AppendUvarint(dst, tok)
	}
	dst = binary.AppendUvarint(dst, l.NumTokens()+uint64(len(path)))
	return append(dst, path...)
}

func readSparsePath(src []byte, l *layout.Layout) (string, int, error) {
	v, n := binary.Uvarint(src)
	if n <= 0 || v == 0 {
		return "", 0, InvalidRow
	}
	if v < l.NumTokens() {
		path, ok := l.TokenPath(v)
		if !ok {
			return "", 0, InvalidRow
		}
		return path, n, nil
	}
	size := v - l.NumTokens()
	if size > uint64(len(src)-n) {
		return "", 0, InvalidRow
	}
	return string(src[n : n+int(size)]), n + int(size), nil
}

func appendSparseField(dst []byte, l *layout.Layout, path string, t *layout.Type, value any) ([]byte, error) {
	code := t.Code()
	if t.IsBool() {
		x, ok := value.(bool)
		if !ok {
			return dst, TypeMismatch
		}
		if !x {
			code = layout.CodeBooleanFalse
		}
	}
	dst = append(dst, byte(code))
	dst = appendSparsePath(dst, l, path)
	return appendValue(dst, t, value)
}

// readSparseField decodes the field at the front of src and returns its
// encoded length.
func readSparseField(src []byte, l *layout.Layout) (SparseField, int, error) {
	if len(src) == 0 {
		return SparseField{}, 0, InvalidRow
	}
	code := layout.Code(src[0])
	path, n, err := readSparsePath(src[1:], l)
	if err != nil {
		return SparseField{}, 0, err
	}
	n++

	switch code {
	case layout.CodeBooleanFalse:
		return SparseField{Path: path, Type: layout.Boolean, Value: false}, n, nil
	case layout.CodeBoolean:
		return SparseField{Path: path, Type: layout.Boolean, Value: true}, n, nil
	}
	t, ok := layout.FromCode(code)
	if !ok {
		return SparseField{}, 0, InvalidRow
	}
	if t.IsScope() {
		return SparseField{}, 0, TypeConstraint
	}
	v, m, err := readValue(src[n:], t)
	if err != nil {
		return SparseField{}, 0, err
	}
	return SparseField{Path: path, Type: t, Value: v}, n + m, nil
}

// findSparse locates the field named path. It returns the field's bounds, or
// the end of the scope when the field is absent.
func (b *Buffer) findSparse(path string) (start, end int, found bool, err error) {
	off, err := b.sparseStart()
	if err != nil {
		return 0, 0, false, err
	}
	for off < b.length {
		f, n, err := readSparseField(b.buf[off:b.length], b.layout)
		if err != nil {
			return 0, 0, false, err
		}
		if f.Path == path {
			return off, off + n, true, nil
		}
		off += n
	}
	return b.length, b.length, false, nil
}

func (b *Buffer) checkScope(c *Cursor) error {
	if b.layout == nil || c == nil || c.layout != b.layout {
		return InvalidRow
	}
	if !c.IsRoot() {
		return TypeConstraint
	}
	return nil
}

func (b *Buffer) checkSparse(c *Cursor, path string, t *layout.Type) error {
	if err := b.checkScope(c); err != nil {
		return err
	}
	if path == "" {
		return NotFound
	}
	if t == nil {
		return nil
	}
	if t.IsScope() {
		return TypeConstraint
	}
	if col, ok := b.layout.TryFind(path); ok {
		if col.Storage() != schema.StorageSparse || col.Type() != t {
			return TypeConstraint
		}
	}
	return nil
}

// WriteSparse sets the sparse field path of the cursor's scope, replacing
// any existing value. Paths outside the layout are written by name.
func (b *Buffer) WriteSparse(c *Cursor, path string, t *layout.Type, value any) error {
	if err := b.checkSparse(c, path, t); err != nil {
		return err
	}
	data, err := appendSparseField(nil, b.layout, path, t, value)
	if err != nil {
		return err
	}
	start, end, _, err := b.findSparse(path)
	if err != nil {
		return err
	}
	return b.splice(start, end-start, data)
}

// ReadSparse returns the sparse field path, or NotFound.
func (b *Buffer) ReadSparse(c *Cursor, path string) (SparseField, error) {
	if err := b.checkSparse(c, path, nil); err != nil {
		return SparseField{}, err
	}
	start, end, found, err := b.findSparse(path)
	if err != nil {
		return SparseField{}, err
	}
	if !found {
		return SparseField{}, NotFound
	}
	f, _, err := readSparseField(b.buf[start:end], b.layout)
	return f, err
}

// DeleteSparse removes the sparse field path. Deleting an absent field is a
// no-op.
func (b *Buffer) DeleteSparse(c *Cursor, path string) error {
	if err := b.checkSparse(c, path, nil); err != nil {
		return err
	}
	start, end, found, err := b.findSparse(path)
	if err != nil || !found {
		return err
	}
	return b.splice(start, end-start, nil)
}

// SparseFields decodes every field of the cursor's scope in row order.
func (b *Buffer) SparseFields(c *Cursor) ([]SparseField, error) {
	if err := b.checkScope(c); err != nil {
		return nil, err
	}
	off, err := b.sparseStart()
	if err != nil {
		return nil, err
	}
	var fields []SparseField
	for off < b.length {
		f, n, err := readSparseField(b.buf[off:b.length], b.layout)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		off += n
	}
	return fields, nil
}
