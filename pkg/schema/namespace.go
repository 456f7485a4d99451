package schema

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Namespace is a named collection of schemas and enums that may reference
// each other. A namespace must not be modified once it has been indexed or
// compiled.
type Namespace struct {
	Name    string
	Version LanguageVersion
	Comment string
	Schemas []*Schema
	Enums   []*EnumSchema

	indexOnce sync.Once
	index     *Index

	fingerprintOnce sync.Once
	fingerprint     uint64
	fingerprintErr  error
}

// Index is a read-only lookup table over a namespace. When names repeat, the
// first declaration wins.
type Index struct {
	byID    map[SchemaID]*Schema
	byName  map[string]*Schema
	enums   map[string]*EnumSchema
	members map[*Schema]struct{}
}

// NewIndex builds the lookup tables for ns.
func NewIndex(ns *Namespace) *Index {
	idx := &Index{
		byID:    make(map[SchemaID]*Schema, len(ns.Schemas)),
		byName:  make(map[string]*Schema, len(ns.Schemas)),
		enums:   make(map[string]*EnumSchema, len(ns.Enums)),
		members: make(map[*Schema]struct{}, len(ns.Schemas)),
	}
	for _, s := range ns.Schemas {
		if s == nil {
			continue
		}
		idx.members[s] = struct{}{}
		if _, ok := idx.byID[s.SchemaID]; !ok {
			idx.byID[s.SchemaID] = s
		}
		if _, ok := idx.byName[s.Name]; !ok {
			idx.byName[s.Name] = s
		}
	}
	for _, e := range ns.Enums {
		if e == nil {
			continue
		}
		if _, ok := idx.enums[e.Name]; !ok {
			idx.enums[e.Name] = e
		}
	}
	return idx
}

// Index returns the namespace's lookup table, building it on first use.
func (ns *Namespace) Index() *Index {
	ns.indexOnce.Do(func() {
		ns.index = NewIndex(ns)
	})
	return ns.index
}

// Fingerprint is an xxhash of the canonical SDL. Two namespaces with the same
// fingerprint compile to the same layouts.
func (ns *Namespace) Fingerprint() (uint64, error) {
	ns.fingerprintOnce.Do(func() {
		sdl, err := ns.MarshalSDL()
		if err != nil {
			ns.fingerprintErr = err
			return
		}
		ns.fingerprint = xxhash.Sum64(sdl)
	})
	return ns.fingerprint, ns.fingerprintErr
}

// SchemaByID looks a schema up by id.
func (x *Index) SchemaByID(id SchemaID) (*Schema, bool) {
	s, ok := x.byID[id]
	return s, ok
}

// SchemaByName looks a schema up by name.
func (x *Index) SchemaByName(name string) (*Schema, bool) {
	s, ok := x.byName[name]
	return s, ok
}

// EnumByName looks an enum up by name.
func (x *Index) EnumByName(name string) (*EnumSchema, bool) {
	e, ok := x.enums[name]
	return e, ok
}

// Contains reports whether s is one of the namespace's schemas. This is an
// identity check, not a name check.
func (x *Index) Contains(s *Schema) bool {
	_, ok := x.members[s]
	return ok
}
