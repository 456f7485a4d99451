package schema

// PropertyType is the logical type of a property. It is a closed set: the
// only implementations are the *...PropertyType types in this package.
type PropertyType interface {
	// TypeKind returns the logical kind of the type.
	TypeKind() TypeKind
	// IsNullable reports whether a value of this type may be absent.
	IsNullable() bool
	// APIType returns the opaque api annotation.
	APIType() string

	propertyType()
}

// ScopeType is implemented by every property type that nests other values.
type ScopeType interface {
	PropertyType
	IsImmutable() bool
}

// TypeBase holds the fields every property type carries.
type TypeBase struct {
	Nullable bool
	API      string
}

func (b *TypeBase) IsNullable() bool { return b.Nullable }
func (b *TypeBase) APIType() string  { return b.API }
func (b *TypeBase) propertyType()    {}

// ScopeBase holds the fields every scope type carries. Immutable scopes
// cannot have their child elements mutated in place.
type ScopeBase struct {
	TypeBase
	Immutable bool
}

func (b *ScopeBase) IsImmutable() bool { return b.Immutable }

// PrimitivePropertyType is a scalar, or an enum alias of an integer kind.
type PrimitivePropertyType struct {
	TypeBase
	Kind    TypeKind
	Storage StorageKind
	// Length is the maximum length for utf8/binary columns. For fixed storage
	// it is the exact reserved length.
	Length int
	// Enum names the EnumSchema when Kind is TypeKindEnum.
	Enum string
	// RowBufferSize marks the field that holds the serialized row size.
	RowBufferSize bool
}

func (p *PrimitivePropertyType) TypeKind() TypeKind { return p.Kind }

// ObjectPropertyType is a nested set of named properties.
type ObjectPropertyType struct {
	ScopeBase
	Properties []*Property
}

func (*ObjectPropertyType) TypeKind() TypeKind { return TypeKindObject }

// ArrayPropertyType is an ordered list. A nil Items means untyped.
type ArrayPropertyType struct {
	ScopeBase
	Items PropertyType
}

func (*ArrayPropertyType) TypeKind() TypeKind { return TypeKindArray }

// SetPropertyType is an unordered collection of unique items.
type SetPropertyType struct {
	ScopeBase
	Items PropertyType
}

func (*SetPropertyType) TypeKind() TypeKind { return TypeKindSet }

// MapPropertyType is a key/value collection. Keys and Values are set
// together or not at all.
type MapPropertyType struct {
	ScopeBase
	Keys   PropertyType
	Values PropertyType
}

func (*MapPropertyType) TypeKind() TypeKind { return TypeKindMap }

// TuplePropertyType is a fixed ordered list of item types.
type TuplePropertyType struct {
	ScopeBase
	Items []PropertyType
}

func (*TuplePropertyType) TypeKind() TypeKind { return TypeKindTuple }

// TaggedPropertyType is one or two items preceded by an implicit uint8 tag.
type TaggedPropertyType struct {
	ScopeBase
	Items []PropertyType
}

func (*TaggedPropertyType) TypeKind() TypeKind { return TypeKindTagged }

// UdtPropertyType nests another schema of the namespace as a sub-row. When
// SchemaID is set it is authoritative; Name is then only a cross-check.
type UdtPropertyType struct {
	ScopeBase
	Name     string
	SchemaID SchemaID
}

func (*UdtPropertyType) TypeKind() TypeKind { return TypeKindSchema }

// Property is a named column of a schema or object.
type Property struct {
	Path         string
	PropertyType PropertyType
	AllowEmpty   AllowEmptyKind
	Comment      string
	APIName      string
}

// SchemaOptions are per-schema flags.
type SchemaOptions struct {
	DisallowUnschematized        bool
	EnablePropertyLevelTimestamp bool
	DisableSystemPrefix          bool
	Abstract                     bool
}

type PartitionKey struct {
	Path string
}

type PrimarySortKey struct {
	Path      string
	Direction SortDirection
}

type StaticKey struct {
	Path string
}

// Schema describes one row shape.
type Schema struct {
	Name     string
	SchemaID SchemaID
	// Type is always TypeKindSchema for a well formed schema.
	Type    TypeKind
	Version LanguageVersion
	Comment string

	BaseName     string
	BaseSchemaID SchemaID

	Options       SchemaOptions
	Properties    []*Property
	PartitionKeys []PartitionKey
	PrimaryKeys   []PrimarySortKey
	StaticKeys    []StaticKey
}

// HasBase reports whether the schema inherits from another schema.
func (s *Schema) HasBase() bool {
	return s.BaseName != "" || s.BaseSchemaID != InvalidSchemaID
}

// EffectiveVersion is the schema's own version if set, else the namespace's,
// else V1.
func (s *Schema) EffectiveVersion(ns *Namespace) LanguageVersion {
	if s.Version != VersionUnspecified {
		return s.Version
	}
	if ns != nil && ns.Version != VersionUnspecified {
		return ns.Version
	}
	return V1
}

type EnumValue struct {
	Name    string
	Value   int64
	Comment string
}

// EnumSchema is a named integer type. Values are metadata only: an enum
// encodes exactly as its base type.
type EnumSchema struct {
	Name    string
	Type    TypeKind
	API     string
	Comment string
	Values  []EnumValue
}

// NewPrimitive returns a nullable primitive type with the given storage.
func NewPrimitive(kind TypeKind, storage StorageKind) *PrimitivePropertyType {
	return &PrimitivePropertyType{
		TypeBase: TypeBase{Nullable: true},
		Kind:     kind,
		Storage:  storage,
	}
}

// NewProperty is shorthand for a property with the default empty policy.
func NewProperty(path string, t PropertyType) *Property {
	return &Property{Path: path, PropertyType: t}
}
