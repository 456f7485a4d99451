package compiler

import (
	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/schema"
)

const (
	minTaggedArgs = 1
	maxTaggedArgs = 2
)

// Resolve maps a logical property type to its physical type and type
// arguments. Object types resolve to a bare scope; their properties are
// compiled separately. Resolve has no side effects.
func Resolve(v schema.LanguageVersion, idx *schema.Index, pt schema.PropertyType) (*layout.Type, layout.TypeArgumentList, error) {
	switch t := pt.(type) {
	case *schema.PrimitivePropertyType:
		return resolvePrimitive(v, idx, t)

	case *schema.ObjectPropertyType:
		return layout.Pick(t.Immutable, layout.Object, layout.ImmutableObject), layout.TypeArgumentList{}, nil

	case *schema.ArrayPropertyType:
		if t.Items == nil || t.Items.TypeKind() == schema.TypeKindAny {
			return layout.Pick(t.Immutable, layout.Array, layout.ImmutableArray), layout.TypeArgumentList{}, nil
		}
		item, err := resolveItem(v, idx, t.Items)
		if err != nil {
			return nil, layout.TypeArgumentList{}, err
		}
		return layout.Pick(t.Immutable, layout.TypedArray, layout.ImmutableTypedArray), layout.NewTypeArgumentList(item), nil

	case *schema.SetPropertyType:
		if t.Items == nil || t.Items.TypeKind() == schema.TypeKindAny {
			return nil, layout.TypeArgumentList{}, errUntypedSet()
		}
		item, err := resolveItem(v, idx, t.Items)
		if err != nil {
			return nil, layout.TypeArgumentList{}, err
		}
		return layout.Pick(t.Immutable, layout.TypedSet, layout.ImmutableTypedSet), layout.NewTypeArgumentList(item), nil

	case *schema.MapPropertyType:
		if t.Keys == nil || t.Values == nil ||
			t.Keys.TypeKind() == schema.TypeKindAny || t.Values.TypeKind() == schema.TypeKindAny {
			return nil, layout.TypeArgumentList{}, errUntypedMap()
		}
		key, err := resolveItem(v, idx, t.Keys)
		if err != nil {
			return nil, layout.TypeArgumentList{}, err
		}
		value, err := resolveItem(v, idx, t.Values)
		if err != nil {
			return nil, layout.TypeArgumentList{}, err
		}
		return layout.Pick(t.Immutable, layout.TypedMap, layout.ImmutableTypedMap), layout.NewTypeArgumentList(key, value), nil

	case *schema.TuplePropertyType:
		args, err := resolveItems(v, idx, t.Items, nil)
		if err != nil {
			return nil, layout.TypeArgumentList{}, err
		}
		return layout.Pick(t.Immutable, layout.TypedTuple, layout.ImmutableTypedTuple), layout.NewTypeArgumentList(args...), nil

	case *schema.TaggedPropertyType:
		if len(t.Items) < minTaggedArgs || len(t.Items) > maxTaggedArgs {
			return nil, layout.TypeArgumentList{}, errTaggedArity(len(t.Items))
		}
		args, err := resolveItems(v, idx, t.Items, []layout.TypeArgument{{Type: layout.UInt8}})
		if err != nil {
			return nil, layout.TypeArgumentList{}, err
		}
		if len(t.Items) == 1 {
			return layout.Pick(t.Immutable, layout.Tagged, layout.ImmutableTagged), layout.NewTypeArgumentList(args...), nil
		}
		return layout.Pick(t.Immutable, layout.Tagged2, layout.ImmutableTagged2), layout.NewTypeArgumentList(args...), nil

	case *schema.UdtPropertyType:
		target, err := resolveSchemaRef(idx, t.Name, t.SchemaID, errCannotResolveSchema, errAmbiguousSchema)
		if err != nil {
			return nil, layout.TypeArgumentList{}, err
		}
		return layout.Pick(t.Immutable, layout.UDT, layout.ImmutableUDT), layout.SchemaArgument(target.SchemaID), nil
	}

	if pt == nil {
		return nil, layout.TypeArgumentList{}, errUnknownPropertyKind(pt)
	}
	return nil, layout.TypeArgumentList{}, errUnknownTypeKind(pt.TypeKind())
}

func resolvePrimitive(v schema.LanguageVersion, idx *schema.Index, p *schema.PrimitivePropertyType) (*layout.Type, layout.TypeArgumentList, error) {
	kind := p.Kind
	if kind == schema.TypeKindEnum {
		if v < schema.V2 {
			return nil, layout.TypeArgumentList{}, errEnumVersion(p.Enum, v)
		}
		e, ok := idx.EnumByName(p.Enum)
		if !ok {
			return nil, layout.TypeArgumentList{}, errCannotResolveEnum(p.Enum)
		}
		if !e.Type.IsInteger() {
			return nil, layout.TypeArgumentList{}, errEnumBaseType(e.Name, e.Type)
		}
		kind = e.Type
	}
	t, ok := PrimitiveType(kind)
	if !ok {
		return nil, layout.TypeArgumentList{}, errUnknownTypeKind(kind)
	}
	return t, layout.TypeArgumentList{}, nil
}

// resolveItem resolves an element type of a collection. Nullable elements
// are wrapped in exactly one nullable scope.
func resolveItem(v schema.LanguageVersion, idx *schema.Index, item schema.PropertyType) (layout.TypeArgument, error) {
	t, args, err := Resolve(v, idx, item)
	if err != nil {
		return layout.TypeArgument{}, err
	}
	arg := layout.TypeArgument{Type: t, Args: args}
	if item.IsNullable() {
		wrapper := layout.Pick(t.IsImmutable(), layout.Nullable, layout.ImmutableNullable)
		return layout.TypeArgument{Type: wrapper, Args: layout.NewTypeArgumentList(arg)}, nil
	}
	return arg, nil
}

func resolveItems(v schema.LanguageVersion, idx *schema.Index, items []schema.PropertyType, prefix []layout.TypeArgument) ([]layout.TypeArgument, error) {
	args := make([]layout.TypeArgument, 0, len(prefix)+len(items))
	args = append(args, prefix...)
	for _, it := range items {
		arg, err := resolveItem(v, idx, it)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// resolveSchemaRef applies the reference rule shared by UDTs and base
// schemas: a set id is authoritative, otherwise the name is looked up. A name
// given alongside an id must agree with the schema the id finds.
func resolveSchemaRef(
	idx *schema.Index,
	name string,
	id schema.SchemaID,
	notFound, ambiguous func(string, schema.SchemaID) *CompilationError,
) (*schema.Schema, error) {
	var (
		s  *schema.Schema
		ok bool
	)
	if id != schema.InvalidSchemaID {
		s, ok = idx.SchemaByID(id)
	} else {
		s, ok = idx.SchemaByName(name)
	}
	if !ok {
		return nil, notFound(name, id)
	}
	if name != "" && s.Name != name {
		return nil, ambiguous(name, id)
	}
	return s, nil
}
