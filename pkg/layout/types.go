package layout

import "fmt"

// Code is the one-byte physical type code written into rows.
type Code byte

const (
	CodeInvalid         Code = 0
	CodeNull            Code = 1
	CodeBooleanFalse    Code = 2
	CodeBoolean         Code = 3
	CodeInt8            Code = 5
	CodeInt16           Code = 6
	CodeInt32           Code = 7
	CodeInt64           Code = 8
	CodeUInt8           Code = 9
	CodeUInt16          Code = 10
	CodeUInt32          Code = 11
	CodeUInt64          Code = 12
	CodeVarInt          Code = 13
	CodeVarUInt         Code = 14
	CodeFloat32         Code = 15
	CodeFloat64         Code = 16
	CodeDecimal         Code = 17
	CodeDateTime        Code = 18
	CodeGuid            Code = 19
	CodeUtf8            Code = 20
	CodeBinary          Code = 21
	CodeFloat128        Code = 22
	CodeUnixDateTime    Code = 23
	CodeMongoDbObjectID Code = 24

	CodeObjectScope              Code = 30
	CodeImmutableObjectScope     Code = 31
	CodeArrayScope               Code = 32
	CodeImmutableArrayScope      Code = 33
	CodeTypedArrayScope          Code = 34
	CodeImmutableTypedArrayScope Code = 35
	CodeTupleScope               Code = 36
	CodeImmutableTupleScope      Code = 37
	CodeTypedTupleScope          Code = 38
	CodeImmutableTypedTupleScope Code = 39
	CodeMapScope                 Code = 40
	CodeImmutableMapScope        Code = 41
	CodeTypedMapScope            Code = 42
	CodeImmutableTypedMapScope   Code = 43
	CodeSetScope                 Code = 44
	CodeImmutableSetScope        Code = 45
	CodeTypedSetScope            Code = 46
	CodeImmutableTypedSetScope   Code = 47
	CodeNullableScope            Code = 48
	CodeImmutableNullableScope   Code = 49
	CodeTaggedScope              Code = 50
	CodeImmutableTaggedScope     Code = 51
	CodeTagged2Scope             Code = 52
	CodeImmutableTagged2Scope    Code = 53

	CodeSchema          Code = 68
	CodeImmutableSchema Code = 69
	CodeEndScope        Code = 70
)

const immutableBit Code = 1

// ClearImmutableBit maps an immutable scope code to its mutable twin. It is
// only meaningful for scope codes.
func (c Code) ClearImmutableBit() Code {
	return c &^ immutableBit
}

func (c Code) String() string {
	if t, ok := byCode[c]; ok {
		return t.name
	}
	return fmt.Sprintf("Code(%d)", byte(c))
}

type class uint8

const (
	classFixed class = iota
	classVariable
	classScope
	classEnd
)

// Type is a physical type descriptor. Types are singletons: compare them by
// pointer or by Code.
type Type struct {
	code      Code
	name      string
	size      int
	class     class
	varint    bool
	immutable bool
}

func (t *Type) Code() Code        { return t.code }
func (t *Type) Name() string      { return t.name }
func (t *Type) String() string    { return t.name }
func (t *Type) IsImmutable() bool { return t.immutable }
func (t *Type) IsScope() bool     { return t.class == classScope }
func (t *Type) IsVarint() bool    { return t.varint }
func (t *Type) IsBool() bool      { return t.code == CodeBoolean }
func (t *Type) IsNull() bool      { return t.code == CodeNull }

// Size is the number of bytes a fixed value occupies. Bool and null occupy
// only bits.
func (t *Type) Size() int { return t.size }

// IsFixed reports whether values have a statically known size.
func (t *Type) IsFixed() bool { return t.class == classFixed }

// AllowVariable reports whether the type may be stored in a variable column.
func (t *Type) AllowVariable() bool { return t.class == classVariable }

func primitive(code Code, name string, size int) *Type {
	return register(&Type{code: code, name: name, size: size, class: classFixed})
}

func variable(code Code, name string, varint bool) *Type {
	return register(&Type{code: code, name: name, class: classVariable, varint: varint})
}

func scope(code Code, name string) *Type {
	return register(&Type{code: code, name: name, class: classScope, immutable: code&immutableBit != 0})
}

var byCode = map[Code]*Type{}

func register(t *Type) *Type {
	byCode[t.code] = t
	return t
}

// FromCode returns the type literal for a code.
func FromCode(c Code) (*Type, bool) {
	t, ok := byCode[c]
	return t, ok
}

// Type literals.
var (
	Null            = primitive(CodeNull, "null", 0)
	Boolean         = primitive(CodeBoolean, "bool", 0)
	Int8            = primitive(CodeInt8, "int8", 1)
	Int16           = primitive(CodeInt16, "int16", 2)
	Int32           = primitive(CodeInt32, "int32", 4)
	Int64           = primitive(CodeInt64, "int64", 8)
	UInt8           = primitive(CodeUInt8, "uint8", 1)
	UInt16          = primitive(CodeUInt16, "uint16", 2)
	UInt32          = primitive(CodeUInt32, "uint32", 4)
	UInt64          = primitive(CodeUInt64, "uint64", 8)
	Float32         = primitive(CodeFloat32, "float32", 4)
	Float64         = primitive(CodeFloat64, "float64", 8)
	Float128        = primitive(CodeFloat128, "float128", 16)
	Decimal         = primitive(CodeDecimal, "decimal", 16)
	DateTime        = primitive(CodeDateTime, "datetime", 8)
	UnixDateTime    = primitive(CodeUnixDateTime, "unixdatetime", 8)
	Guid            = primitive(CodeGuid, "guid", 16)
	MongoDbObjectID = primitive(CodeMongoDbObjectID, "mongodbobjectid", 12)

	VarInt  = variable(CodeVarInt, "varint", true)
	VarUInt = variable(CodeVarUInt, "varuint", true)
	Utf8    = variable(CodeUtf8, "utf8", false)
	Binary  = variable(CodeBinary, "binary", false)

	Object              = scope(CodeObjectScope, "object")
	ImmutableObject     = scope(CodeImmutableObjectScope, "im_object")
	Array               = scope(CodeArrayScope, "array")
	ImmutableArray      = scope(CodeImmutableArrayScope, "im_array")
	TypedArray          = scope(CodeTypedArrayScope, "array_t")
	ImmutableTypedArray = scope(CodeImmutableTypedArrayScope, "im_array_t")
	Tuple               = scope(CodeTupleScope, "tuple")
	ImmutableTuple      = scope(CodeImmutableTupleScope, "im_tuple")
	TypedTuple          = scope(CodeTypedTupleScope, "tuple_t")
	ImmutableTypedTuple = scope(CodeImmutableTypedTupleScope, "im_tuple_t")
	Map                 = scope(CodeMapScope, "map")
	ImmutableMap        = scope(CodeImmutableMapScope, "im_map")
	TypedMap            = scope(CodeTypedMapScope, "map_t")
	ImmutableTypedMap   = scope(CodeImmutableTypedMapScope, "im_map_t")
	Set                 = scope(CodeSetScope, "set")
	ImmutableSet        = scope(CodeImmutableSetScope, "im_set")
	TypedSet            = scope(CodeTypedSetScope, "set_t")
	ImmutableTypedSet   = scope(CodeImmutableTypedSetScope, "im_set_t")
	Nullable            = scope(CodeNullableScope, "nullable")
	ImmutableNullable   = scope(CodeImmutableNullableScope, "im_nullable")
	Tagged              = scope(CodeTaggedScope, "tagged_t")
	ImmutableTagged     = scope(CodeImmutableTaggedScope, "im_tagged_t")
	Tagged2             = scope(CodeTagged2Scope, "tagged2_t")
	ImmutableTagged2    = scope(CodeImmutableTagged2Scope, "im_tagged2_t")
	UDT                 = scope(CodeSchema, "udt")
	ImmutableUDT        = scope(CodeImmutableSchema, "im_udt")

	EndScope = register(&Type{code: CodeEndScope, name: "end", class: classEnd})
)

// Pick returns immutable when the flag is set, else mutable.
func Pick(immutableFlag bool, mutable, immutable *Type) *Type {
	if immutableFlag {
		return immutable
	}
	return mutable
}
