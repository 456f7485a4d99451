package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/hybridrow/pkg/schema"
)

func buildSample() *Layout {
	b := NewBuilder("Sample", 7)
	b.AddFixedColumn("a", Int32, true, 0)
	b.AddFixedColumn("flag", Boolean, false, 0)
	b.AddFixedColumn("n", Null, true, 0)
	b.AddFixedColumn("code", Utf8, false, 3)
	b.AddVariableColumn("v", Utf8, 10)
	b.AddSparseColumn("s", Int64)
	b.AddObjectScope("o", Object)
	b.AddSparseColumn("inner", Utf8)
	b.EndObjectScope()
	b.AddTypedScope("arr", TypedArray, NewTypeArgumentList(TypeArgument{Type: Utf8}))
	return b.Build()
}

func TestBuilderLayout(t *testing.T) {
	l := buildSample()

	assert.Equal(t, "Sample", l.Name())
	assert.Equal(t, schema.SchemaID(7), l.SchemaID())
	assert.Equal(t, 1, l.NumBitmaskBytes())
	assert.Equal(t, 8, l.Size())
	assert.Equal(t, 4, l.NumFixed())
	assert.Equal(t, 1, l.NumVariable())
	assert.Equal(t, 4, l.NumSparse())
	assert.Len(t, l.Columns(), 9)

	tests := []struct {
		path    string
		storage schema.StorageKind
		index   int
		offset  int
		nullBit Bit
		boolBit Bit
		size    int
	}{
		{"a", schema.StorageFixed, 0, 1, 0, InvalidBit, 4},
		{"flag", schema.StorageFixed, 1, 1, InvalidBit, 1, 0},
		{"n", schema.StorageFixed, 2, 1, 2, InvalidBit, 0},
		{"code", schema.StorageFixed, 3, 5, InvalidBit, InvalidBit, 3},
		{"v", schema.StorageVariable, 4, 0, 3, InvalidBit, 10},
		{"s", schema.StorageSparse, 0, -1, InvalidBit, InvalidBit, 0},
		{"o", schema.StorageSparse, 1, -1, InvalidBit, InvalidBit, 0},
		{"o.inner", schema.StorageSparse, 2, -1, InvalidBit, InvalidBit, 0},
		{"arr", schema.StorageSparse, 3, -1, InvalidBit, InvalidBit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c, ok := l.TryFind(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.path, c.FullPath())
			assert.Equal(t, tt.storage, c.Storage())
			assert.Equal(t, tt.index, c.Index())
			assert.Equal(t, tt.offset, c.Offset())
			assert.Equal(t, tt.nullBit, c.NullBit())
			assert.Equal(t, tt.boolBit, c.BoolBit())
			assert.Equal(t, tt.size, c.Size())
		})
	}

	inner, _ := l.TryFind("o.inner")
	assert.Equal(t, "inner", inner.Path())
	require.NotNil(t, inner.Parent())
	assert.Equal(t, "o", inner.Parent().Path())

	_, ok := l.TryFind("inner")
	assert.False(t, ok)

	a, _ := l.TryFind("a")
	assert.Equal(t, "a: int32 @fixed:0:1:0:-1:4", a.String())
	arr, _ := l.TryFind("arr")
	assert.Equal(t, "arr: array_t<utf8> @sparse:3:-1:-1:-1:0", arr.String())

	assert.Contains(t, l.String(), "\tName: Sample\n")
	assert.Contains(t, l.String(), "\t\to.inner: utf8 @sparse:2:-1:-1:-1:0\n")
}

func TestLayoutTokens(t *testing.T) {
	l := buildSample()

	for i, path := range []string{"s", "o", "inner", "arr"} {
		token, ok := l.Token(path)
		require.True(t, ok, path)
		assert.Equal(t, uint64(i+1), token)

		back, ok := l.TokenPath(token)
		require.True(t, ok)
		assert.Equal(t, path, back)
	}
	assert.Equal(t, uint64(5), l.NumTokens())

	_, ok := l.Token("a")
	assert.False(t, ok)
	_, ok = l.TokenPath(0)
	assert.False(t, ok)
	_, ok = l.TokenPath(5)
	assert.False(t, ok)
}

func TestBitmaskGrowth(t *testing.T) {
	b := NewBuilder("Bits", 1)
	for i := 0; i < 9; i++ {
		b.AddFixedColumn(string(rune('a'+i)), Int8, true, 0)
	}
	l := b.Build()

	assert.Equal(t, 2, l.NumBitmaskBytes())
	assert.Equal(t, 2+9, l.Size())

	last, ok := l.TryFind("i")
	require.True(t, ok)
	assert.Equal(t, Bit(8), last.NullBit())
	assert.Equal(t, 1, last.NullBit().Offset())
	assert.Equal(t, byte(1), last.NullBit().Mask())
	assert.Equal(t, 10, last.Offset())
}

func TestEmptyLayout(t *testing.T) {
	l := NewBuilder("Empty", 2).Build()
	assert.Equal(t, 0, l.Size())
	assert.Equal(t, 0, l.NumBitmaskBytes())
	assert.Equal(t, uint64(1), l.NumTokens())
	assert.Empty(t, l.Columns())
}

func TestFullPathSeparators(t *testing.T) {
	b := NewBuilder("Paths", 1)
	b.AddObjectScope("u", UDT)
	b.AddSparseColumn("x", Int32)
	b.EndObjectScope()
	b.AddObjectScope("t", ImmutableTypedTuple)
	b.AddSparseColumn("y", Int32)
	b.EndObjectScope()
	b.AddObjectScope("io", ImmutableObject)
	b.AddSparseColumn("z", Int32)
	b.EndObjectScope()
	l := b.Build()

	for _, path := range []string{"u.x", "t[]y", "io.z"} {
		_, ok := l.TryFind(path)
		assert.True(t, ok, path)
	}
}

func TestBuilderPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(b *Builder)
	}{
		{"negative fixed length", func(b *Builder) { b.AddFixedColumn("a", Utf8, true, -1) }},
		{"fixed varint", func(b *Builder) { b.AddFixedColumn("a", VarInt, true, 0) }},
		{"non-nullable null", func(b *Builder) { b.AddFixedColumn("a", Null, false, 0) }},
		{"negative variable length", func(b *Builder) { b.AddVariableColumn("a", Utf8, -1) }},
		{"variable int32", func(b *Builder) { b.AddVariableColumn("a", Int32, 0) }},
		{"unbalanced end", func(b *Builder) { b.EndObjectScope() }},
		{"open scope", func(b *Builder) {
			b.AddObjectScope("o", Object)
			b.Build()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, func() { tt.fn(NewBuilder("P", 1)) })
		})
	}
}

func TestTypeArgumentList(t *testing.T) {
	nullableUtf8 := NewTypeArgumentList(TypeArgument{Type: Nullable, Args: NewTypeArgumentList(TypeArgument{Type: Utf8})})
	same := NewTypeArgumentList(TypeArgument{Type: Nullable, Args: NewTypeArgumentList(TypeArgument{Type: Utf8})})
	other := NewTypeArgumentList(TypeArgument{Type: Nullable, Args: NewTypeArgumentList(TypeArgument{Type: Binary})})
	pair := NewTypeArgumentList(TypeArgument{Type: Int32}, TypeArgument{Type: Utf8})

	assert.Equal(t, "<nullable<utf8>>", nullableUtf8.String())
	assert.Equal(t, "<int32, utf8>", pair.String())
	assert.Equal(t, "<5>", SchemaArgument(5).String())
	assert.Equal(t, "", TypeArgumentList{}.String())

	assert.True(t, nullableUtf8.Equal(same))
	assert.False(t, nullableUtf8.Equal(other))
	assert.False(t, nullableUtf8.Equal(pair))
	assert.True(t, SchemaArgument(5).Equal(SchemaArgument(5)))
	assert.False(t, SchemaArgument(5).Equal(SchemaArgument(6)))

	assert.Equal(t, 2, pair.Len())
	assert.Same(t, Utf8, pair.At(1).Type)
	assert.Equal(t, schema.SchemaID(5), SchemaArgument(5).SchemaID())

	args := pair.Args()
	args[0] = TypeArgument{Type: Int64}
	assert.Same(t, Int32, pair.At(0).Type)
}

func TestTypeCodes(t *testing.T) {
	assert.Equal(t, CodeObjectScope, CodeImmutableObjectScope.ClearImmutableBit())
	assert.Equal(t, CodeSchema, CodeImmutableSchema.ClearImmutableBit())
	assert.Equal(t, CodeTypedArrayScope, CodeTypedArrayScope.ClearImmutableBit())

	got, ok := FromCode(CodeTagged2Scope)
	require.True(t, ok)
	assert.Same(t, Tagged2, got)
	_, ok = FromCode(Code(99))
	assert.False(t, ok)

	assert.Equal(t, "utf8", CodeUtf8.String())
	assert.Equal(t, "Code(99)", Code(99).String())

	assert.True(t, ImmutableMap.IsImmutable())
	assert.False(t, Map.IsImmutable())
	assert.False(t, Int32.IsImmutable())
	assert.True(t, VarUInt.IsVarint())
	assert.True(t, Utf8.AllowVariable())
	assert.False(t, Guid.AllowVariable())
	assert.Equal(t, 16, Guid.Size())
	assert.Equal(t, 12, MongoDbObjectID.Size())

	assert.Same(t, ImmutableSet, Pick(true, Set, ImmutableSet))
	assert.Same(t, Set, Pick(false, Set, ImmutableSet))
}

func TestStaticResolver(t *testing.T) {
	a := NewBuilder("A", 1).Build()
	b := NewBuilder("B", 2).Build()
	r := NewStaticResolver(a, b)

	got, err := r.Resolve(2)
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = r.Resolve(3)
	assert.Error(t, err)
}
