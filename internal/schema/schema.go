package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Mapper describes how one field is indexed.
type Mapper interface {
	// FieldName returns the field the mapper is bound to.
	FieldName() string
	// Type returns the mapper type name, e.g. "bitemporal".
	Type() string
}

// Schema is an immutable set of field mappers keyed by field name.
type Schema struct {
	mappers map[string]Mapper
}

// New builds a schema from mappers. Field names must be non-blank and unique.
func New(mappers ...Mapper) (*Schema, error) {
	s := &Schema{mappers: make(map[string]Mapper, len(mappers))}
	for _, m := range mappers {
		if m == nil {
			return nil, fmt.Errorf("nil mapper")
		}
		name := m.FieldName()
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("mapper of type %q has a blank field name", m.Type())
		}
		if _, dup := s.mappers[name]; dup {
			return nil, fmt.Errorf("duplicate mapper for field %q", name)
		}
		s.mappers[name] = m
	}
	return s, nil
}

// MustNew is New that panics on error. For tests and static schemas.
func MustNew(mappers ...Mapper) *Schema {
	s, err := New(mappers...)
	if err != nil {
		panic(err)
	}
	return s
}

// Mapper returns the mapper for field, if any.
func (s *Schema) Mapper(field string) (Mapper, bool) {
	if s == nil {
		return nil, false
	}
	m, ok := s.mappers[field]
	return m, ok
}

// Fields returns the mapped field names in sorted order.
func (s *Schema) Fields() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.mappers))
	for name := range s.mappers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Bitemporal returns the bi-temporal mapper for field.
//
// The second result is false when the field is unmapped or when its mapper
// is not bi-temporal.
func (s *Schema) Bitemporal(field string) (*BitemporalMapper, bool) {
	m, ok := s.Mapper(field)
	if !ok {
		return nil, false
	}
	bm, ok := m.(*BitemporalMapper)
	return bm, ok
}
