package layout

import (
	"strings"

	"github.com/ssargent/hybridrow/pkg/schema"
)

// TypeArgument is a physical type together with its own type arguments.
type TypeArgument struct {
	Type *Type
	Args TypeArgumentList
}

func (a TypeArgument) String() string {
	if a.Type == nil {
		return ""
	}
	return a.Type.Name() + a.Args.String()
}

// TypeArgumentList parameterizes a scope type. UDTs carry a schema id
// instead of a list.
type TypeArgumentList struct {
	args     []TypeArgument
	schemaID schema.SchemaID
}

// NewTypeArgumentList returns an ordered list of arguments.
func NewTypeArgumentList(args ...TypeArgument) TypeArgumentList {
	return TypeArgumentList{args: args}
}

// SchemaArgument returns the argument list of a UDT referencing id.
func SchemaArgument(id schema.SchemaID) TypeArgumentList {
	return TypeArgumentList{schemaID: id}
}

func (l TypeArgumentList) Len() int                  { return len(l.args) }
func (l TypeArgumentList) At(i int) TypeArgument     { return l.args[i] }
func (l TypeArgumentList) SchemaID() schema.SchemaID { return l.schemaID }

// Args returns a copy of the arguments.
func (l TypeArgumentList) Args() []TypeArgument {
	return append([]TypeArgument(nil), l.args...)
}

// Equal compares two lists structurally.
func (l TypeArgumentList) Equal(o TypeArgumentList) bool {
	if l.schemaID != o.schemaID || len(l.args) != len(o.args) {
		return false
	}
	for i := range l.args {
		if l.args[i].Type != o.args[i].Type || !l.args[i].Args.Equal(o.args[i].Args) {
			return false
		}
	}
	return true
}

func (l TypeArgumentList) String() string {
	if l.schemaID != schema.InvalidSchemaID {
		return "<" + l.schemaID.String() + ">"
	}
	if len(l.args) == 0 {
		return ""
	}
	parts := make([]string, len(l.args))
	for i, a := range l.args {
		parts[i] = a.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
