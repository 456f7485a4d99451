package schema

import (
	"fmt"
	"strings"
)

// SchemaID is the numeric identity of a schema within a namespace.
type SchemaID int32

// InvalidSchemaID is the zero id. It never identifies a real schema.
const InvalidSchemaID SchemaID = 0

func (id SchemaID) String() string {
	return fmt.Sprintf("%d", int32(id))
}

// TypeKind is the logical kind of a property type.
type TypeKind uint8

const (
	TypeKindInvalid TypeKind = iota
	TypeKindNull
	TypeKindBoolean
	TypeKindInt8
	TypeKindInt16
	TypeKindInt32
	TypeKindInt64
	TypeKindUInt8
	TypeKindUInt16
	TypeKindUInt32
	TypeKindUInt64
	TypeKindVarInt
	TypeKindVarUInt
	TypeKindFloat32
	TypeKindFloat64
	TypeKindFloat128
	TypeKindDecimal
	TypeKindDateTime
	TypeKindUnixDateTime
	TypeKindGuid
	TypeKindMongoDbObjectID
	TypeKindUtf8
	TypeKindBinary
	TypeKindObject
	TypeKindArray
	TypeKindSet
	TypeKindMap
	TypeKindTuple
	TypeKindTagged
	TypeKindSchema
	TypeKindAny
	TypeKindEnum
)

var typeKindNames = map[TypeKind]string{
	TypeKindInvalid:         "invalid",
	TypeKindNull:            "null",
	TypeKindBoolean:         "bool",
	TypeKindInt8:            "int8",
	TypeKindInt16:           "int16",
	TypeKindInt32:           "int32",
	TypeKindInt64:           "int64",
	TypeKindUInt8:           "uint8",
	TypeKindUInt16:          "uint16",
	TypeKindUInt32:          "uint32",
	TypeKindUInt64:          "uint64",
	TypeKindVarInt:          "varint",
	TypeKindVarUInt:         "varuint",
	TypeKindFloat32:         "float32",
	TypeKindFloat64:         "float64",
	TypeKindFloat128:        "float128",
	TypeKindDecimal:         "decimal",
	TypeKindDateTime:        "datetime",
	TypeKindUnixDateTime:    "unixdatetime",
	TypeKindGuid:            "guid",
	TypeKindMongoDbObjectID: "mongodbobjectid",
	TypeKindUtf8:            "utf8",
	TypeKindBinary:          "binary",
	TypeKindObject:          "object",
	TypeKindArray:           "array",
	TypeKindSet:             "set",
	TypeKindMap:             "map",
	TypeKindTuple:           "tuple",
	TypeKindTagged:          "tagged",
	TypeKindSchema:          "schema",
	TypeKindAny:             "any",
	TypeKindEnum:            "enum",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TypeKind(%d)", uint8(k))
}

// IsInteger reports whether k is one of the integer kinds an enum may be based on.
func (k TypeKind) IsInteger() bool {
	switch k {
	case TypeKindInt8, TypeKindInt16, TypeKindInt32, TypeKindInt64,
		TypeKindUInt8, TypeKindUInt16, TypeKindUInt32, TypeKindUInt64,
		TypeKindVarInt, TypeKindVarUInt:
		return true
	}
	return false
}

// ParseTypeKind parses the SDL spelling of a type kind.
func ParseTypeKind(s string) (TypeKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range typeKindNames {
		if name == s && k != TypeKindInvalid {
			return k, nil
		}
	}
	return TypeKindInvalid, fmt.Errorf("unknown type kind %q", s)
}

// StorageKind is where a primitive column lives in a row.
type StorageKind uint8

const (
	StorageSparse StorageKind = iota
	StorageFixed
	StorageVariable
)

func (s StorageKind) String() string {
	switch s {
	case StorageSparse:
		return "sparse"
	case StorageFixed:
		return "fixed"
	case StorageVariable:
		return "variable"
	}
	return fmt.Sprintf("StorageKind(%d)", uint8(s))
}

// ParseStorageKind parses the SDL spelling of a storage kind. The empty
// string means sparse.
func ParseStorageKind(s string) (StorageKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sparse":
		return StorageSparse, nil
	case "fixed":
		return StorageFixed, nil
	case "variable":
		return StorageVariable, nil
	}
	return StorageSparse, fmt.Errorf("unknown storage kind %q", s)
}

// AllowEmptyKind controls how empty values are canonicalized on write.
type AllowEmptyKind uint8

const (
	AllowEmptyNone AllowEmptyKind = iota
	AllowEmptyEmptyAsNull
	AllowEmptyNullAsEmpty
	AllowEmptyBoth
)

func (a AllowEmptyKind) String() string {
	switch a {
	case AllowEmptyNone:
		return "none"
	case AllowEmptyEmptyAsNull:
		return "emptyAsNull"
	case AllowEmptyNullAsEmpty:
		return "nullAsEmpty"
	case AllowEmptyBoth:
		return "both"
	}
	return fmt.Sprintf("AllowEmptyKind(%d)", uint8(a))
}

// ParseAllowEmptyKind parses the SDL spelling of an empty-value policy.
func ParseAllowEmptyKind(s string) (AllowEmptyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AllowEmptyNone, nil
	case "emptyasnull":
		return AllowEmptyEmptyAsNull, nil
	case "nullasempty":
		return AllowEmptyNullAsEmpty, nil
	case "both":
		return AllowEmptyBoth, nil
	}
	return AllowEmptyNone, fmt.Errorf("unknown allow-empty policy %q", s)
}

// LanguageVersion gates which schema features are legal.
type LanguageVersion uint8

const (
	VersionUnspecified LanguageVersion = iota
	V1
	V2
)

func (v LanguageVersion) String() string {
	switch v {
	case VersionUnspecified:
		return ""
	case V1:
		return "v1"
	case V2:
		return "v2"
	}
	return fmt.Sprintf("LanguageVersion(%d)", uint8(v))
}

// ParseLanguageVersion parses "v1" or "v2". The empty string is unspecified.
func ParseLanguageVersion(s string) (LanguageVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return VersionUnspecified, nil
	case "v1":
		return V1, nil
	case "v2":
		return V2, nil
	}
	return VersionUnspecified, fmt.Errorf("unknown schema language version %q", s)
}

// SortDirection orders a primary sort key.
type SortDirection uint8

const (
	SortAscending SortDirection = iota
	SortDescending
)

func (d SortDirection) String() string {
	if d == SortDescending {
		return "desc"
	}
	return "asc"
}

// ParseSortDirection parses "asc" or "desc". The empty string is ascending.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	}
	return SortAscending, fmt.Errorf("unknown sort direction %q", s)
}
