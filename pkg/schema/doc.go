// Package schema is the logical data model of a HybridRow namespace.
//
// A Namespace holds Schemas and EnumSchemas that reference each other by name
// or by numeric id. Each Schema lists Properties whose PropertyType is one of
// a closed set of variants:
//
//	*PrimitivePropertyType  scalars and enum aliases, with a StorageKind
//	*ObjectPropertyType     nested named properties
//	*ArrayPropertyType      ordered items, optionally typed
//	*SetPropertyType        unique items
//	*MapPropertyType        typed keys and values
//	*TuplePropertyType      a fixed ordered list of item types
//	*TaggedPropertyType     one or two items behind an implicit uint8 tag
//	*UdtPropertyType        a reference to another schema of the namespace
//
// Namespaces are read from the schema description language (SDL) with
// ParseNamespace, which accepts YAML or JSON, and written back with
// MarshalSDL. Once built a namespace is read-only and may be shared freely.
package schema
