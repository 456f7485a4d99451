package schema

import "fmt"

// ValidationError reports a structural problem in a namespace.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Validate checks the namespace-wide invariants the compiler relies on:
// unique schema ids and names, unique enum names, unique property paths per
// scope, integer enum bases and at most one row-size field per schema.
// Tuple arity is not checked.
func Validate(ns *Namespace) error {
	if ns == nil {
		return invalidf("namespace is nil")
	}

	ids := make(map[SchemaID]string, len(ns.Schemas))
	names := make(map[string]struct{}, len(ns.Schemas))
	for _, s := range ns.Schemas {
		if s == nil {
			return invalidf("namespace %q contains a nil schema", ns.Name)
		}
		if s.Name == "" {
			return invalidf("schema %d has no name", s.SchemaID)
		}
		if s.SchemaID == InvalidSchemaID {
			return invalidf("schema %q has no id", s.Name)
		}
		if s.Type != TypeKindSchema {
			return invalidf("schema %q has type %s, expected schema", s.Name, s.Type)
		}
		if other, ok := ids[s.SchemaID]; ok {
			return invalidf("duplicate schema id %d: %q and %q", s.SchemaID, other, s.Name)
		}
		ids[s.SchemaID] = s.Name
		if _, ok := names[s.Name]; ok {
			return invalidf("duplicate schema name %q", s.Name)
		}
		names[s.Name] = struct{}{}
	}

	enums := make(map[string]struct{}, len(ns.Enums))
	for _, e := range ns.Enums {
		if e == nil || e.Name == "" {
			return invalidf("namespace %q contains an unnamed enum", ns.Name)
		}
		if _, ok := enums[e.Name]; ok {
			return invalidf("duplicate enum name %q", e.Name)
		}
		enums[e.Name] = struct{}{}
		if !e.Type.IsInteger() {
			return invalidf("enum %q must have an integer base type, found %s", e.Name, e.Type)
		}
		values := make(map[string]struct{}, len(e.Values))
		for _, v := range e.Values {
			if _, ok := values[v.Name]; ok {
				return invalidf("enum %q has duplicate value %q", e.Name, v.Name)
			}
			values[v.Name] = struct{}{}
		}
	}

	for _, s := range ns.Schemas {
		rowSize := 0
		if err := validateProperties(s.Name, s.Properties, &rowSize); err != nil {
			return err
		}
		if rowSize > 1 {
			return invalidf("schema %q declares %d row buffer size fields, at most one is allowed", s.Name, rowSize)
		}
	}
	return nil
}

func validateProperties(scope string, props []*Property, rowSize *int) error {
	paths := make(map[string]struct{}, len(props))
	for _, p := range props {
		if p == nil || p.Path == "" {
			return invalidf("%s: property has no path", scope)
		}
		if _, ok := paths[p.Path]; ok {
			return invalidf("%s: duplicate property path %q", scope, p.Path)
		}
		paths[p.Path] = struct{}{}
		if p.PropertyType == nil {
			return invalidf("%s.%s: property has no type", scope, p.Path)
		}
		if err := validateType(scope+"."+p.Path, p.PropertyType, rowSize); err != nil {
			return err
		}
	}
	return nil
}

func validateType(path string, pt PropertyType, rowSize *int) error {
	switch t := pt.(type) {
	case *PrimitivePropertyType:
		if t.RowBufferSize {
			*rowSize++
		}
		if t.Kind == TypeKindEnum && t.Enum == "" {
			return invalidf("%s: enum property has no enum name", path)
		}
	case *ObjectPropertyType:
		return validateProperties(path, t.Properties, rowSize)
	case *ArrayPropertyType:
		return validateItem(path, t.Items)
	case *SetPropertyType:
		return validateItem(path, t.Items)
	case *MapPropertyType:
		if err := validateItem(path, t.Keys); err != nil {
			return err
		}
		return validateItem(path, t.Values)
	case *TuplePropertyType:
		return validateItems(path, t.Items)
	case *TaggedPropertyType:
		return validateItems(path, t.Items)
	}
	return nil
}

// Row size fields only count at the schema's own level, so items are checked
// against a throwaway counter.
func validateItem(path string, item PropertyType) error {
	if item == nil {
		return nil
	}
	var ignored int
	return validateType(path+"[]", item, &ignored)
}

func validateItems(path string, items []PropertyType) error {
	for i, it := range items {
		if it == nil {
			return invalidf("%s: item %d has no type", path, i)
		}
		if err := validateItem(path, it); err != nil {
			return err
		}
	}
	return nil
}
