package layout

import (
	"fmt"
	"strings"

	"github.com/ssargent/hybridrow/pkg/schema"
)

// Layout is the compiled physical column plan of one schema. A layout is
// immutable and safe for concurrent use.
type Layout struct {
	name            string
	schemaID        schema.SchemaID
	numBitmaskBytes int
	size            int

	columns  []*Column
	pathMap  map[string]*Column
	fixed    []*Column
	variable []*Column
	sparse   []*Column

	tokens     map[string]uint64
	tokenNames []string
}

func newLayout(name string, id schema.SchemaID, numBitmaskBytes, size int, columns []*Column) *Layout {
	l := &Layout{
		name:            name,
		schemaID:        id,
		numBitmaskBytes: numBitmaskBytes,
		size:            size,
		columns:         columns,
		pathMap:         make(map[string]*Column, len(columns)),
		tokens:          make(map[string]uint64),
		tokenNames:      []string{""},
	}
	for _, c := range columns {
		l.pathMap[c.fullPath] = c
		switch c.storage {
		case schema.StorageFixed:
			l.fixed = append(l.fixed, c)
		case schema.StorageVariable:
			l.variable = append(l.variable, c)
		default:
			l.sparse = append(l.sparse, c)
			if _, ok := l.tokens[c.path]; !ok {
				l.tokens[c.path] = uint64(len(l.tokenNames))
				l.tokenNames = append(l.tokenNames, c.path)
			}
		}
	}
	return l
}

func (l *Layout) Name() string              { return l.name }
func (l *Layout) SchemaID() schema.SchemaID { return l.schemaID }

// Size is the number of bytes reserved after the row header: the presence
// bitmask followed by every fixed column.
func (l *Layout) Size() int { return l.size }

func (l *Layout) NumBitmaskBytes() int { return l.numBitmaskBytes }
func (l *Layout) NumFixed() int        { return len(l.fixed) }
func (l *Layout) NumVariable() int     { return len(l.variable) }
func (l *Layout) NumSparse() int       { return len(l.sparse) }

// Columns returns every column in declaration order.
func (l *Layout) Columns() []*Column {
	return append([]*Column(nil), l.columns...)
}

// FixedColumns returns the fixed columns in offset order.
func (l *Layout) FixedColumns() []*Column {
	return append([]*Column(nil), l.fixed...)
}

// VariableColumns returns the variable columns in index order.
func (l *Layout) VariableColumns() []*Column {
	return append([]*Column(nil), l.variable...)
}

// SparseColumns returns the sparse columns in declaration order.
func (l *Layout) SparseColumns() []*Column {
	return append([]*Column(nil), l.sparse...)
}

// TryFind looks a column up by its full path.
func (l *Layout) TryFind(path string) (*Column, bool) {
	c, ok := l.pathMap[path]
	return c, ok
}

// Token returns the path token of a sparse column name. Tokens start at 1.
func (l *Layout) Token(path string) (uint64, bool) {
	t, ok := l.tokens[path]
	return t, ok
}

// TokenPath is the inverse of Token.
func (l *Layout) TokenPath(token uint64) (string, bool) {
	if token == 0 || token >= uint64(len(l.tokenNames)) {
		return "", false
	}
	return l.tokenNames[token], true
}

// NumTokens is one more than the largest token, so that token 0 stays
// reserved.
func (l *Layout) NumTokens() uint64 {
	return uint64(len(l.tokenNames))
}

func (l *Layout) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Layout:\n")
	fmt.Fprintf(&sb, "\tName: %s\n", l.name)
	fmt.Fprintf(&sb, "\tId: %d\n", l.schemaID)
	fmt.Fprintf(&sb, "\tSize: %d\n", l.size)
	fmt.Fprintf(&sb, "\tBitmask: %d\n", l.numBitmaskBytes)
	fmt.Fprintf(&sb, "\tColumns:\n")
	for _, c := range l.columns {
		fmt.Fprintf(&sb, "\t\t%s\n", c)
	}
	return sb.String()
}

// Resolver maps schema ids to compiled layouts.
type Resolver interface {
	Resolve(id schema.SchemaID) (*Layout, error)
}

// StaticResolver resolves from a fixed set of layouts.
type StaticResolver struct {
	layouts map[schema.SchemaID]*Layout
}

// NewStaticResolver indexes layouts by schema id.
func NewStaticResolver(layouts ...*Layout) *StaticResolver {
	r := &StaticResolver{layouts: make(map[schema.SchemaID]*Layout, len(layouts))}
	for _, l := range layouts {
		r.layouts[l.schemaID] = l
	}
	return r
}

func (r *StaticResolver) Resolve(id schema.SchemaID) (*Layout, error) {
	l, ok := r.layouts[id]
	if !ok {
		return nil, fmt.Errorf("no layout for schema id %d", id)
	}
	return l, nil
}
