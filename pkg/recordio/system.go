package recordio

import (
	_ "embed"
	"fmt"

	"github.com/ssargent/hybridrow/pkg/compiler"
	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/schema"
)

// Schema ids of the system namespace.
const (
	SegmentSchemaID     schema.SchemaID = 2147473648
	RecordSchemaID      schema.SchemaID = 2147473649
	EmptySchemaSchemaID schema.SchemaID = 2147473650
)

//go:embed system.json
var systemSDL []byte

var (
	systemNamespace *schema.Namespace
	systemResolver  *layout.StaticResolver
	segmentLayout   *layout.Layout
	recordLayout    *layout.Layout
)

func init() {
	ns, err := loadSystemNamespace(systemSDL)
	if err != nil {
		panic(err)
	}
	layouts, err := compiler.CompileNamespace(ns)
	if err != nil {
		panic(fmt.Sprintf("recordio: failed to compile system namespace: %v", err))
	}
	systemNamespace = ns
	systemResolver = layout.NewStaticResolver(layouts...)
	segmentLayout = mustResolve(SegmentSchemaID)
	recordLayout = mustResolve(RecordSchemaID)
}

func loadSystemNamespace(data []byte) (*schema.Namespace, error) {
	ns, err := schema.ParseNamespace(data)
	if err != nil {
		return nil, fmt.Errorf("recordio: failed to parse system namespace: %w", err)
	}
	if err := schema.Validate(ns); err != nil {
		return nil, fmt.Errorf("recordio: invalid system namespace: %w", err)
	}
	return ns, nil
}

func mustResolve(id schema.SchemaID) *layout.Layout {
	l, err := systemResolver.Resolve(id)
	if err != nil {
		panic(err)
	}
	return l
}

// SystemNamespace returns the namespace holding the Segment, Record and
// EmptySchema schemas. It must not be modified.
func SystemNamespace() *schema.Namespace { return systemNamespace }

// SystemResolver resolves the system schema ids to their layouts.
func SystemResolver() layout.Resolver { return systemResolver }
