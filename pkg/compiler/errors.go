package compiler

import (
	"fmt"

	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/schema"
)

// CompilationError is the single failure type of layout compilation. The
// message text is stable and shared with other implementations of the
// format; callers may compare it verbatim.
type CompilationError struct {
	Message string
}

func (e *CompilationError) Error() string {
	return e.Message
}

func compileErrorf(format string, args ...any) *CompilationError {
	return &CompilationError{Message: fmt.Sprintf(format, args...)}
}

func errCannotResolveSchema(name string, id schema.SchemaID) *CompilationError {
	return compileErrorf("Cannot resolve schema reference '%s:%d'", name, id)
}

func errAmbiguousSchema(name string, id schema.SchemaID) *CompilationError {
	return compileErrorf("Ambiguous schema reference: '%s:%d'", name, id)
}

func errCannotResolveBase(name string, id schema.SchemaID) *CompilationError {
	return compileErrorf("Cannot resolve base schema reference '%s:%d'", name, id)
}

func errAmbiguousBase(name string, id schema.SchemaID) *CompilationError {
	return compileErrorf("Ambiguous base schema reference: '%s:%d'", name, id)
}

func errCannotResolveEnum(name string) *CompilationError {
	return compileErrorf("Cannot resolve enum schema reference '%s'", name)
}

func errEnumBaseType(name string, kind schema.TypeKind) *CompilationError {
	return compileErrorf("Enum schema '%s' has a non-integer base type: %s", name, kind)
}

func errEnumVersion(name string, v schema.LanguageVersion) *CompilationError {
	return compileErrorf("Enums require schema language version v2 or later, found %s: '%s'", v, name)
}

func errNonNullableScope(path string) *CompilationError {
	return compileErrorf("Non-nullable sparse scopes are not supported: '%s'", path)
}

func errNullableColumn(path string) *CompilationError {
	return compileErrorf("Nullables cannot be explicitly declared as columns: '%s'", path)
}

func errFixedInSparseScope(path string) *CompilationError {
	return compileErrorf("Cannot have fixed storage within a sparse scope: '%s'", path)
}

func errVariableInSparseScope(path string) *CompilationError {
	return compileErrorf("Cannot have variable storage within a sparse scope: '%s'", path)
}

func errEnumVariable(path string) *CompilationError {
	return compileErrorf("Enums cannot have variable storage: '%s'", path)
}

func errNonNullableNull(path string) *CompilationError {
	return compileErrorf("Non-nullable null columns are not supported: '%s'", path)
}

func errNonNullableVariable(path string) *CompilationError {
	return compileErrorf("Non-nullable variable columns are not supported: '%s'", path)
}

func errNonNullableSparse(path string) *CompilationError {
	return compileErrorf("Non-nullable sparse columns are not supported: '%s'", path)
}

func errFixedVarint(path string, t *layout.Type) *CompilationError {
	return compileErrorf("Type %s cannot have fixed storage: '%s'", t.Name(), path)
}

func errNotVariable(path string, t *layout.Type) *CompilationError {
	return compileErrorf("Type %s cannot have variable storage: '%s'", t.Name(), path)
}

func errUnknownStorage(storage schema.StorageKind) *CompilationError {
	return compileErrorf("Unknown storage specification: %d", uint8(storage))
}

func errUnknownTypeKind(kind schema.TypeKind) *CompilationError {
	return compileErrorf("Unknown property type: %d", uint8(kind))
}

func errUnknownLayoutType(t *layout.Type) *CompilationError {
	return compileErrorf("Unknown property type: %s", t.Name())
}

func errUnknownPropertyKind(pt schema.PropertyType) *CompilationError {
	return compileErrorf("Unknown property kind: %T", pt)
}

func errTaggedArity(n int) *CompilationError {
	return compileErrorf("Invalid number of arguments in Tagged: %d <= %d <= %d", minTaggedArgs, n, maxTaggedArgs)
}

func errUntypedSet() *CompilationError {
	return compileErrorf("Untyped sets are not supported")
}

func errUntypedMap() *CompilationError {
	return compileErrorf("Untyped maps are not supported: both keys and values must be typed")
}
