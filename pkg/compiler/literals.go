package compiler

import (
	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/schema"
)

// primitives maps every primitive kind except enum to its physical literal.
var primitives = map[schema.TypeKind]*layout.Type{
	schema.TypeKindNull:            layout.Null,
	schema.TypeKindBoolean:         layout.Boolean,
	schema.TypeKindInt8:            layout.Int8,
	schema.TypeKindInt16:           layout.Int16,
	schema.TypeKindInt32:           layout.Int32,
	schema.TypeKindInt64:           layout.Int64,
	schema.TypeKindUInt8:           layout.UInt8,
	schema.TypeKindUInt16:          layout.UInt16,
	schema.TypeKindUInt32:          layout.UInt32,
	schema.TypeKindUInt64:          layout.UInt64,
	schema.TypeKindVarInt:          layout.VarInt,
	schema.TypeKindVarUInt:         layout.VarUInt,
	schema.TypeKindFloat32:         layout.Float32,
	schema.TypeKindFloat64:         layout.Float64,
	schema.TypeKindFloat128:        layout.Float128,
	schema.TypeKindDecimal:         layout.Decimal,
	schema.TypeKindDateTime:        layout.DateTime,
	schema.TypeKindUnixDateTime:    layout.UnixDateTime,
	schema.TypeKindGuid:            layout.Guid,
	schema.TypeKindMongoDbObjectID: layout.MongoDbObjectID,
	schema.TypeKindUtf8:            layout.Utf8,
	schema.TypeKindBinary:          layout.Binary,
}

var kindsByCode = func() map[layout.Code]schema.TypeKind {
	m := make(map[layout.Code]schema.TypeKind, len(primitives))
	for k, t := range primitives {
		m[t.Code()] = k
	}
	return m
}()

// PrimitiveType returns the physical literal of a primitive kind.
func PrimitiveType(kind schema.TypeKind) (*layout.Type, bool) {
	t, ok := primitives[kind]
	return t, ok
}

// KindOf inverts PrimitiveType.
func KindOf(t *layout.Type) (schema.TypeKind, bool) {
	if t == nil {
		return schema.TypeKindInvalid, false
	}
	k, ok := kindsByCode[t.Code()]
	return k, ok
}
