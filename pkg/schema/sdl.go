package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// The SDL is the textual form of a namespace. It is read as YAML, which also
// accepts the canonical JSON produced by MarshalSDL.

type namespaceDoc struct {
	Name    string       `yaml:"name" json:"name"`
	Version string       `yaml:"version,omitempty" json:"version,omitempty"`
	Comment string       `yaml:"comment,omitempty" json:"comment,omitempty"`
	Schemas []*schemaDoc `yaml:"schemas,omitempty" json:"schemas,omitempty"`
	Enums   []*enumDoc   `yaml:"enums,omitempty" json:"enums,omitempty"`
}

type schemaDoc struct {
	Name          string         `yaml:"name" json:"name"`
	ID            int32          `yaml:"id" json:"id"`
	Type          string         `yaml:"type,omitempty" json:"type,omitempty"`
	Version       string         `yaml:"version,omitempty" json:"version,omitempty"`
	Comment       string         `yaml:"comment,omitempty" json:"comment,omitempty"`
	BaseName      string         `yaml:"baseName,omitempty" json:"baseName,omitempty"`
	BaseSchemaID  int32          `yaml:"baseSchemaId,omitempty" json:"baseSchemaId,omitempty"`
	Options       *optionsDoc    `yaml:"options,omitempty" json:"options,omitempty"`
	Properties    []*propertyDoc `yaml:"properties,omitempty" json:"properties,omitempty"`
	PartitionKeys []keyDoc       `yaml:"partitionKeys,omitempty" json:"partitionKeys,omitempty"`
	PrimaryKeys   []keyDoc       `yaml:"primaryKeys,omitempty" json:"primaryKeys,omitempty"`
	StaticKeys    []keyDoc       `yaml:"staticKeys,omitempty" json:"staticKeys,omitempty"`
}

type optionsDoc struct {
	DisallowUnschematized        bool `yaml:"disallowUnschematized,omitempty" json:"disallowUnschematized,omitempty"`
	EnablePropertyLevelTimestamp bool `yaml:"enablePropertyLevelTimestamp,omitempty" json:"enablePropertyLevelTimestamp,omitempty"`
	DisableSystemPrefix          bool `yaml:"disableSystemPrefix,omitempty" json:"disableSystemPrefix,omitempty"`
	Abstract                     bool `yaml:"abstract,omitempty" json:"abstract,omitempty"`
}

type keyDoc struct {
	Path      string `yaml:"path" json:"path"`
	Direction string `yaml:"direction,omitempty" json:"direction,omitempty"`
}

type propertyDoc struct {
	Path       string   `yaml:"path" json:"path"`
	Comment    string   `yaml:"comment,omitempty" json:"comment,omitempty"`
	APIName    string   `yaml:"apiname,omitempty" json:"apiname,omitempty"`
	AllowEmpty string   `yaml:"allowEmpty,omitempty" json:"allowEmpty,omitempty"`
	Type       *typeDoc `yaml:"type" json:"type"`
}

type typeDoc struct {
	Type          string         `yaml:"type" json:"type"`
	Nullable      *bool          `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	APIType       string         `yaml:"apitype,omitempty" json:"apitype,omitempty"`
	Immutable     bool           `yaml:"immutable,omitempty" json:"immutable,omitempty"`
	Storage       string         `yaml:"storage,omitempty" json:"storage,omitempty"`
	Length        int            `yaml:"length,omitempty" json:"length,omitempty"`
	Enum          string         `yaml:"enum,omitempty" json:"enum,omitempty"`
	RowBufferSize bool           `yaml:"rowBufferSize,omitempty" json:"rowBufferSize,omitempty"`
	Items         *itemsDoc      `yaml:"items,omitempty" json:"items,omitempty"`
	Keys          *typeDoc       `yaml:"keys,omitempty" json:"keys,omitempty"`
	Values        *typeDoc       `yaml:"values,omitempty" json:"values,omitempty"`
	Properties    []*propertyDoc `yaml:"properties,omitempty" json:"properties,omitempty"`
	Name          string         `yaml:"name,omitempty" json:"name,omitempty"`
	ID            int32          `yaml:"id,omitempty" json:"id,omitempty"`
}

// itemsDoc is a single type for arrays and sets, or a list for tuples and
// tagged unions.
type itemsDoc struct {
	one  *typeDoc
	many []*typeDoc
}

func (d *itemsDoc) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		d.many = []*typeDoc{}
		return n.Decode(&d.many)
	}
	d.one = &typeDoc{}
	return n.Decode(d.one)
}

func (d *itemsDoc) MarshalJSON() ([]byte, error) {
	if d.many != nil {
		return json.Marshal(d.many)
	}
	return json.Marshal(d.one)
}

func (d *itemsDoc) list() []*typeDoc {
	if d == nil {
		return nil
	}
	if d.many != nil {
		return d.many
	}
	if d.one != nil {
		return []*typeDoc{d.one}
	}
	return nil
}

type enumDoc struct {
	Name    string         `yaml:"name" json:"name"`
	Type    string         `yaml:"type" json:"type"`
	APIType string         `yaml:"apitype,omitempty" json:"apitype,omitempty"`
	Comment string         `yaml:"comment,omitempty" json:"comment,omitempty"`
	Values  []enumValueDoc `yaml:"values,omitempty" json:"values,omitempty"`
}

type enumValueDoc struct {
	Name    string `yaml:"name" json:"name"`
	Value   int64  `yaml:"value" json:"value"`
	Comment string `yaml:"comment,omitempty" json:"comment,omitempty"`
}

// ParseNamespace decodes an SDL document (YAML or JSON).
func ParseNamespace(data []byte) (*Namespace, error) {
	var doc namespaceDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema document: %w", err)
	}
	return doc.toModel()
}

// LoadNamespace reads and decodes an SDL file.
func LoadNamespace(path string) (*Namespace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return ParseNamespace(data)
}

// MarshalSDL encodes the namespace as canonical JSON.
func (ns *Namespace) MarshalSDL() ([]byte, error) {
	doc, err := namespaceToDoc(ns)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func (d *namespaceDoc) toModel() (*Namespace, error) {
	version, err := ParseLanguageVersion(d.Version)
	if err != nil {
		return nil, fmt.Errorf("namespace %q: %w", d.Name, err)
	}
	ns := &Namespace{Name: d.Name, Version: version, Comment: d.Comment}
	for _, sd := range d.Schemas {
		if sd == nil {
			continue
		}
		s, err := sd.toModel()
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", sd.Name, err)
		}
		ns.Schemas = append(ns.Schemas, s)
	}
	for _, ed := range d.Enums {
		if ed == nil {
			continue
		}
		kind, err := ParseTypeKind(ed.Type)
		if err != nil {
			return nil, fmt.Errorf("enum %q: %w", ed.Name, err)
		}
		e := &EnumSchema{Name: ed.Name, Type: kind, API: ed.APIType, Comment: ed.Comment}
		for _, v := range ed.Values {
			e.Values = append(e.Values, EnumValue{Name: v.Name, Value: v.Value, Comment: v.Comment})
		}
		ns.Enums = append(ns.Enums, e)
	}
	return ns, nil
}

func (d *schemaDoc) toModel() (*Schema, error) {
	kind := TypeKindSchema
	if d.Type != "" {
		var err error
		if kind, err = ParseTypeKind(d.Type); err != nil {
			return nil, err
		}
	}
	version, err := ParseLanguageVersion(d.Version)
	if err != nil {
		return nil, err
	}
	s := &Schema{
		Name:         d.Name,
		SchemaID:     SchemaID(d.ID),
		Type:         kind,
		Version:      version,
		Comment:      d.Comment,
		BaseName:     d.BaseName,
		BaseSchemaID: SchemaID(d.BaseSchemaID),
	}
	if d.Options != nil {
		s.Options = SchemaOptions{
			DisallowUnschematized:        d.Options.DisallowUnschematized,
			EnablePropertyLevelTimestamp: d.Options.EnablePropertyLevelTimestamp,
			DisableSystemPrefix:          d.Options.DisableSystemPrefix,
			Abstract:                     d.Options.Abstract,
		}
	}
	if s.Properties, err = propertiesToModel(d.Properties); err != nil {
		return nil, err
	}
	for _, k := range d.PartitionKeys {
		s.PartitionKeys = append(s.PartitionKeys, PartitionKey{Path: k.Path})
	}
	for _, k := range d.PrimaryKeys {
		dir, err := ParseSortDirection(k.Direction)
		if err != nil {
			return nil, fmt.Errorf("primary key %q: %w", k.Path, err)
		}
		s.PrimaryKeys = append(s.PrimaryKeys, PrimarySortKey{Path: k.Path, Direction: dir})
	}
	for _, k := range d.StaticKeys {
		s.StaticKeys = append(s.StaticKeys, StaticKey{Path: k.Path})
	}
	return s, nil
}

func propertiesToModel(docs []*propertyDoc) ([]*Property, error) {
	var props []*Property
	for _, pd := range docs {
		if pd == nil {
			continue
		}
		if pd.Type == nil {
			return nil, fmt.Errorf("property %q: missing type", pd.Path)
		}
		allowEmpty, err := ParseAllowEmptyKind(pd.AllowEmpty)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", pd.Path, err)
		}
		pt, err := pd.Type.toModel()
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", pd.Path, err)
		}
		props = append(props, &Property{
			Path:         pd.Path,
			PropertyType: pt,
			AllowEmpty:   allowEmpty,
			Comment:      pd.Comment,
			APIName:      pd.APIName,
		})
	}
	return props, nil
}

func (d *typeDoc) toModel() (PropertyType, error) {
	kind, err := ParseTypeKind(d.Type)
	if err != nil {
		return nil, err
	}
	base := TypeBase{Nullable: d.Nullable == nil || *d.Nullable, API: d.APIType}
	scope := ScopeBase{TypeBase: base, Immutable: d.Immutable}

	switch kind {
	case TypeKindObject:
		props, err := propertiesToModel(d.Properties)
		if err != nil {
			return nil, err
		}
		return &ObjectPropertyType{ScopeBase: scope, Properties: props}, nil
	case TypeKindArray, TypeKindSet:
		var items PropertyType
		if d.Items != nil {
			if d.Items.many != nil {
				return nil, fmt.Errorf("%s items must be a single type", kind)
			}
			if d.Items.one != nil {
				if items, err = d.Items.one.toModel(); err != nil {
					return nil, err
				}
			}
		}
		if kind == TypeKindSet {
			return &SetPropertyType{ScopeBase: scope, Items: items}, nil
		}
		return &ArrayPropertyType{ScopeBase: scope, Items: items}, nil
	case TypeKindMap:
		m := &MapPropertyType{ScopeBase: scope}
		if d.Keys != nil {
			if m.Keys, err = d.Keys.toModel(); err != nil {
				return nil, err
			}
		}
		if d.Values != nil {
			if m.Values, err = d.Values.toModel(); err != nil {
				return nil, err
			}
		}
		return m, nil
	case TypeKindTuple, TypeKindTagged:
		items := []PropertyType{}
		for _, id := range d.Items.list() {
			it, err := id.toModel()
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		if kind == TypeKindTagged {
			return &TaggedPropertyType{ScopeBase: scope, Items: items}, nil
		}
		return &TuplePropertyType{ScopeBase: scope, Items: items}, nil
	case TypeKindSchema:
		return &UdtPropertyType{ScopeBase: scope, Name: d.Name, SchemaID: SchemaID(d.ID)}, nil
	}

	storage, err := ParseStorageKind(d.Storage)
	if err != nil {
		return nil, err
	}
	return &PrimitivePropertyType{
		TypeBase:      base,
		Kind:          kind,
		Storage:       storage,
		Length:        d.Length,
		Enum:          d.Enum,
		RowBufferSize: d.RowBufferSize,
	}, nil
}

func namespaceToDoc(ns *Namespace) (*namespaceDoc, error) {
	doc := &namespaceDoc{Name: ns.Name, Version: ns.Version.String(), Comment: ns.Comment}
	for _, s := range ns.Schemas {
		sd := &schemaDoc{
			Name:         s.Name,
			ID:           int32(s.SchemaID),
			Type:         s.Type.String(),
			Version:      s.Version.String(),
			Comment:      s.Comment,
			BaseName:     s.BaseName,
			BaseSchemaID: int32(s.BaseSchemaID),
		}
		if s.Options != (SchemaOptions{}) {
			sd.Options = &optionsDoc{
				DisallowUnschematized:        s.Options.DisallowUnschematized,
				EnablePropertyLevelTimestamp: s.Options.EnablePropertyLevelTimestamp,
				DisableSystemPrefix:          s.Options.DisableSystemPrefix,
				Abstract:                     s.Options.Abstract,
			}
		}
		props, err := propertiesToDoc(s.Properties)
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", s.Name, err)
		}
		sd.Properties = props
		for _, k := range s.PartitionKeys {
			sd.PartitionKeys = append(sd.PartitionKeys, keyDoc{Path: k.Path})
		}
		for _, k := range s.PrimaryKeys {
			sd.PrimaryKeys = append(sd.PrimaryKeys, keyDoc{Path: k.Path, Direction: k.Direction.String()})
		}
		for _, k := range s.StaticKeys {
			sd.StaticKeys = append(sd.StaticKeys, keyDoc{Path: k.Path})
		}
		doc.Schemas = append(doc.Schemas, sd)
	}
	for _, e := range ns.Enums {
		ed := &enumDoc{Name: e.Name, Type: e.Type.String(), APIType: e.API, Comment: e.Comment}
		for _, v := range e.Values {
			ed.Values = append(ed.Values, enumValueDoc{Name: v.Name, Value: v.Value, Comment: v.Comment})
		}
		doc.Enums = append(doc.Enums, ed)
	}
	return doc, nil
}

func propertiesToDoc(props []*Property) ([]*propertyDoc, error) {
	var docs []*propertyDoc
	for _, p := range props {
		td, err := typeToDoc(p.PropertyType)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Path, err)
		}
		pd := &propertyDoc{Path: p.Path, Comment: p.Comment, APIName: p.APIName, Type: td}
		if p.AllowEmpty != AllowEmptyNone {
			pd.AllowEmpty = p.AllowEmpty.String()
		}
		docs = append(docs, pd)
	}
	return docs, nil
}

func typeToDoc(pt PropertyType) (*typeDoc, error) {
	if pt == nil {
		return nil, fmt.Errorf("missing type")
	}
	d := &typeDoc{Type: pt.TypeKind().String(), APIType: pt.APIType()}
	if !pt.IsNullable() {
		nullable := false
		d.Nullable = &nullable
	}
	if st, ok := pt.(ScopeType); ok {
		d.Immutable = st.IsImmutable()
	}

	var err error
	switch t := pt.(type) {
	case *PrimitivePropertyType:
		if t.Storage != StorageSparse {
			d.Storage = t.Storage.String()
		}
		d.Length = t.Length
		d.Enum = t.Enum
		d.RowBufferSize = t.RowBufferSize
	case *ObjectPropertyType:
		d.Properties, err = propertiesToDoc(t.Properties)
	case *ArrayPropertyType:
		d.Items, err = singleItemToDoc(t.Items)
	case *SetPropertyType:
		d.Items, err = singleItemToDoc(t.Items)
	case *MapPropertyType:
		if t.Keys != nil {
			if d.Keys, err = typeToDoc(t.Keys); err != nil {
				return nil, err
			}
		}
		if t.Values != nil {
			d.Values, err = typeToDoc(t.Values)
		}
	case *TuplePropertyType:
		d.Items, err = listToDoc(t.Items)
	case *TaggedPropertyType:
		d.Items, err = listToDoc(t.Items)
	case *UdtPropertyType:
		d.Name = t.Name
		d.ID = int32(t.SchemaID)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func singleItemToDoc(item PropertyType) (*itemsDoc, error) {
	if item == nil {
		return nil, nil
	}
	td, err := typeToDoc(item)
	if err != nil {
		return nil, err
	}
	return &itemsDoc{one: td}, nil
}

func listToDoc(items []PropertyType) (*itemsDoc, error) {
	docs := make([]*typeDoc, 0, len(items))
	for _, it := range items {
		td, err := typeToDoc(it)
		if err != nil {
			return nil, err
		}
		docs = append(docs, td)
	}
	return &itemsDoc{many: docs}, nil
}
