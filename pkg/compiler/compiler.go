package compiler

import (
	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/schema"
)

// BasePropertyName is the synthetic column that embeds a base schema.
const BasePropertyName = "__base"

// Compile turns a schema of ns into its physical layout. Columns are emitted
// in declaration order with the base schema, if any, first.
//
// s must be a schema-typed, named member of ns (by identity); anything else
// is a programming error and panics. Every other failure is returned as a
// *CompilationError and no partial layout is produced.
func Compile(ns *schema.Namespace, s *schema.Schema) (*layout.Layout, error) {
	if ns == nil || s == nil {
		panic("compiler: nil namespace or schema")
	}
	if s.Type != schema.TypeKindSchema {
		panic("compiler: schema " + s.Name + " is not of type schema")
	}
	if s.Name == "" {
		panic("compiler: schema has no name")
	}
	idx := ns.Index()
	if !idx.Contains(s) {
		panic("compiler: schema " + s.Name + " is not a member of namespace " + ns.Name)
	}

	v := s.EffectiveVersion(ns)
	b := layout.NewBuilder(s.Name, s.SchemaID)

	props := s.Properties
	if s.HasBase() {
		base, err := resolveSchemaRef(idx, s.BaseName, s.BaseSchemaID, errCannotResolveBase, errAmbiguousBase)
		if err != nil {
			return nil, err
		}
		embed := &schema.Property{
			Path: BasePropertyName,
			PropertyType: &schema.UdtPropertyType{
				ScopeBase: schema.ScopeBase{TypeBase: schema.TypeBase{Nullable: true}, Immutable: true},
				Name:      base.Name,
				SchemaID:  base.SchemaID,
			},
		}
		props = append([]*schema.Property{embed}, props...)
	}

	if err := addProperties(v, idx, b, layout.CodeSchema, props); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// CompileNamespace compiles every schema of ns in declaration order.
func CompileNamespace(ns *schema.Namespace) ([]*layout.Layout, error) {
	layouts := make([]*layout.Layout, 0, len(ns.Schemas))
	for _, s := range ns.Schemas {
		l, err := Compile(ns, s)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	return layouts, nil
}

func addProperties(v schema.LanguageVersion, idx *schema.Index, b *layout.Builder, scope layout.Code, props []*schema.Property) error {
	for _, p := range props {
		if p.PropertyType == nil {
			return errUnknownPropertyKind(nil)
		}
		t, args, err := Resolve(v, idx, p.PropertyType)
		if err != nil {
			return err
		}

		switch t.Code().ClearImmutableBit() {
		case layout.CodeObjectScope:
			if !p.PropertyType.IsNullable() {
				return errNonNullableScope(p.Path)
			}
			obj := p.PropertyType.(*schema.ObjectPropertyType)
			b.AddObjectScope(p.Path, t)
			if err := addProperties(v, idx, b, t.Code(), obj.Properties); err != nil {
				return err
			}
			b.EndObjectScope()

		case layout.CodeArrayScope,
			layout.CodeTypedArrayScope,
			layout.CodeSetScope,
			layout.CodeTypedSetScope,
			layout.CodeMapScope,
			layout.CodeTypedMapScope,
			layout.CodeTupleScope,
			layout.CodeTypedTupleScope,
			layout.CodeTaggedScope,
			layout.CodeTagged2Scope,
			layout.CodeSchema:
			if !p.PropertyType.IsNullable() {
				return errNonNullableScope(p.Path)
			}
			b.AddTypedScope(p.Path, t, args)

		case layout.CodeNullableScope:
			return errNullableColumn(p.Path)

		default:
			pp, ok := p.PropertyType.(*schema.PrimitivePropertyType)
			if !ok || t.IsScope() {
				return errUnknownLayoutType(t)
			}
			if err := addPrimitive(b, scope, p.Path, pp, t); err != nil {
				return err
			}
		}
	}
	return nil
}

func addPrimitive(b *layout.Builder, scope layout.Code, path string, pp *schema.PrimitivePropertyType, t *layout.Type) error {
	switch pp.Storage {
	case schema.StorageFixed:
		if scope.ClearImmutableBit() != layout.CodeSchema {
			return errFixedInSparseScope(path)
		}
		if t.IsNull() && !pp.Nullable {
			return errNonNullableNull(path)
		}
		if t.IsVarint() {
			return errFixedVarint(path, t)
		}
		b.AddFixedColumn(path, t, pp.Nullable, pp.Length)

	case schema.StorageVariable:
		if pp.Kind == schema.TypeKindEnum {
			return errEnumVariable(path)
		}
		if scope.ClearImmutableBit() != layout.CodeSchema {
			return errVariableInSparseScope(path)
		}
		if !pp.Nullable {
			return errNonNullableVariable(path)
		}
		if !t.AllowVariable() {
			return errNotVariable(path, t)
		}
		b.AddVariableColumn(path, t, pp.Length)

	case schema.StorageSparse:
		if !pp.Nullable {
			return errNonNullableSparse(path)
		}
		b.AddSparseColumn(path, t)

	default:
		return errUnknownStorage(pp.Storage)
	}
	return nil
}
