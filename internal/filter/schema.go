package filter

import (
	"fmt"

	"github.com/fleetyard/fleetdash/internal/value"
)

// DefaultPageSize is the page size a store starts with unless the schema
// overrides it.
const DefaultPageSize = 25

// Key names one field of domain D. Keys are handed out by Schema.Field, so a
// key of one domain cannot be used with another domain's store.
type Key[D any] struct {
	group string
	field string
}

// Group returns the group name.
func (k Key[D]) Group() string { return k.group }

// Field returns the field name.
func (k Key[D]) Field() string { return k.field }

// IsZero reports whether k is the zero key.
func (k Key[D]) IsZero() bool { return k.group == "" && k.field == "" }

func (k Key[D]) String() string { return k.group + "." + k.field }

// Schema declares the fields, defaults and counting rules of domain D.
// Declare everything at package initialisation; stores copy what they need.
type Schema[D any] struct {
	name      string
	version   int
	pageSize  int
	defaults  FilterSet
	keys      []Key[D]
	combined  map[string][]string
	prePinned []Key[D]
}

// NewSchema starts a schema for the named domain at the given version.
func NewSchema[D any](name string, version int) *Schema[D] {
	return &Schema[D]{
		name:     name,
		version:  version,
		pageSize: DefaultPageSize,
		defaults: FilterSet{},
		combined: map[string][]string{},
	}
}

// Field declares group.field with its default and returns its key.
// Declaring the same field twice panics.
func (s *Schema[D]) Field(group, field string, def value.Value) Key[D] {
	if group == "" || field == "" {
		panic(fmt.Sprintf("filter: %s: empty group or field name", s.name))
	}
	if _, ok := s.defaults[group][field]; ok {
		panic(fmt.Sprintf("filter: %s: field %s.%s declared twice", s.name, group, field))
	}
	if s.defaults[group] == nil {
		s.defaults[group] = Group{}
	}
	s.defaults[group][field] = def
	k := Key[D]{group: group, field: field}
	s.keys = append(s.keys, k)
	return k
}

// CombineCount makes the given fields count as a single filter. All keys must
// belong to the same group.
func (s *Schema[D]) CombineCount(keys ...Key[D]) *Schema[D] {
	if len(keys) == 0 {
		return s
	}
	group := keys[0].group
	for _, k := range keys {
		if k.group != group {
			panic(fmt.Sprintf("filter: %s: combined fields span groups %s and %s", s.name, group, k.group))
		}
		s.combined[group] = append(s.combined[group], k.field)
	}
	return s
}

// PrePin lists fields that start on the filter bar.
func (s *Schema[D]) PrePin(keys ...Key[D]) *Schema[D] {
	s.prePinned = append(s.prePinned, keys...)
	return s
}

// WithPageSize overrides the initial page size.
func (s *Schema[D]) WithPageSize(n int) *Schema[D] {
	if n > 0 {
		s.pageSize = n
	}
	return s
}

// Name returns the domain name.
func (s *Schema[D]) Name() string { return s.name }

// Version returns the persisted-shape version.
func (s *Schema[D]) Version() int { return s.version }

// Defaults returns a copy of the default filter set.
func (s *Schema[D]) Defaults() FilterSet { return s.defaults.Clone() }

// Keys returns the declared keys in declaration order.
func (s *Schema[D]) Keys() []Key[D] {
	out := make([]Key[D], len(s.keys))
	copy(out, s.keys)
	return out
}

// Lookup resolves a declared field by name.
func (s *Schema[D]) Lookup(group, field string) (Key[D], bool) {
	if _, ok := s.defaults[group][field]; !ok {
		return Key[D]{}, false
	}
	return Key[D]{group: group, field: field}, true
}

// Default returns the default value of k, nil when k is not declared.
func (s *Schema[D]) Default(k Key[D]) value.Value {
	return s.defaults.Get(k.group, k.field)
}

// Combined returns the fields of group that share one count.
func (s *Schema[D]) Combined(group string) []string {
	return s.combined[group]
}

// rawKey builds a key without checking the declaration. Only the string-keyed
// Controller methods use it.
func (s *Schema[D]) rawKey(group, field string) Key[D] {
	return Key[D]{group: group, field: field}
}
