package layout

import (
	"github.com/ssargent/hybridrow/pkg/schema"
)

// Builder accumulates columns for one schema. A builder is single use:
// call Build once after adding every column.
type Builder struct {
	name     string
	schemaID schema.SchemaID

	bits bitAllocator

	fixedColumns []*Column
	fixedCount   int
	fixedSize    int

	varColumns []*Column
	varCount   int

	sparseColumns []*Column
	sparseCount   int

	scope []*Column

	// columns is every column in declaration order.
	columns []*Column
}

// NewBuilder starts a layout for the named schema.
func NewBuilder(name string, id schema.SchemaID) *Builder {
	return &Builder{name: name, schemaID: id}
}

func (b *Builder) parent() *Column {
	if len(b.scope) == 0 {
		return nil
	}
	return b.scope[len(b.scope)-1]
}

// AddFixedColumn adds a fixed-offset column. Null columns take only a
// presence bit and bool columns take a value bit; everything else reserves
// Size bytes, or length bytes for utf8/binary.
func (b *Builder) AddFixedColumn(path string, t *Type, nullable bool, length int) {
	if length < 0 {
		panic("layout: negative fixed column length")
	}
	if t.IsVarint() {
		panic("layout: varint types cannot be fixed")
	}

	var col *Column
	switch {
	case t.IsNull():
		if !nullable {
			panic("layout: null columns must be nullable")
		}
		col = newColumn(path, t, TypeArgumentList{}, schema.StorageFixed, b.parent(), b.fixedCount, 0, b.bits.allocate(), InvalidBit, 0)
	case t.IsBool():
		nullBit := InvalidBit
		if nullable {
			nullBit = b.bits.allocate()
		}
		col = newColumn(path, t, TypeArgumentList{}, schema.StorageFixed, b.parent(), b.fixedCount, 0, nullBit, b.bits.allocate(), 0)
	default:
		nullBit := InvalidBit
		if nullable {
			nullBit = b.bits.allocate()
		}
		size := t.Size()
		if !t.IsFixed() {
			size = length
		}
		col = newColumn(path, t, TypeArgumentList{}, schema.StorageFixed, b.parent(), b.fixedCount, b.fixedSize, nullBit, InvalidBit, size)
		b.fixedSize += size
	}

	b.fixedCount++
	b.fixedColumns = append(b.fixedColumns, col)
	b.columns = append(b.columns, col)
}

// AddVariableColumn adds a length-prefixed column. Variable columns are
// always nullable.
func (b *Builder) AddVariableColumn(path string, t *Type, length int) {
	if length < 0 {
		panic("layout: negative variable column length")
	}
	if !t.AllowVariable() {
		panic("layout: type " + t.Name() + " cannot be variable")
	}
	col := newColumn(path, t, TypeArgumentList{}, schema.StorageVariable, b.parent(), b.varCount, 0, b.bits.allocate(), InvalidBit, length)
	b.varCount++
	b.varColumns = append(b.varColumns, col)
	b.columns = append(b.columns, col)
}

// AddSparseColumn adds a named column stored in the row's sparse region.
func (b *Builder) AddSparseColumn(path string, t *Type) {
	b.addSparse(path, t, TypeArgumentList{})
}

// AddObjectScope adds a sparse object column and makes it the parent of
// the columns added until EndObjectScope.
func (b *Builder) AddObjectScope(path string, t *Type) {
	col := b.addSparse(path, t, TypeArgumentList{})
	b.scope = append(b.scope, col)
}

// EndObjectScope closes the innermost object scope.
func (b *Builder) EndObjectScope() {
	if len(b.scope) == 0 {
		panic("layout: EndObjectScope without an open scope")
	}
	b.scope = b.scope[:len(b.scope)-1]
}

// AddTypedScope adds a sparse scope column whose contents are described
// entirely by its type arguments.
func (b *Builder) AddTypedScope(path string, t *Type, args TypeArgumentList) {
	b.addSparse(path, t, args)
}

func (b *Builder) addSparse(path string, t *Type, args TypeArgumentList) *Column {
	col := newColumn(path, t, args, schema.StorageSparse, b.parent(), b.sparseCount, -1, InvalidBit, InvalidBit, 0)
	b.sparseCount++
	b.sparseColumns = append(b.sparseColumns, col)
	b.columns = append(b.columns, col)
	return col
}

// Build freezes the builder into a Layout. Fixed offsets are shifted past
// the presence bitmask and variable indexes past the fixed columns.
func (b *Builder) Build() *Layout {
	if len(b.scope) != 0 {
		panic("layout: Build with an open object scope")
	}

	fixedDelta := b.bits.numBytes()
	for _, c := range b.fixedColumns {
		c.offset += fixedDelta
	}
	for _, c := range b.varColumns {
		c.index += b.fixedCount
	}

	return newLayout(b.name, b.schemaID, fixedDelta, fixedDelta+b.fixedSize, b.columns)
}
