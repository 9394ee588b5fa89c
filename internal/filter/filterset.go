// Package filter holds the per-domain filter state: committed and staged filter
// sets, recently used values, pinned fields and pagination.
package filter

import (
	"github.com/fleetyard/fleetdash/internal/value"
)

// DisplayGroup holds presentation settings (sort order and the like). It is
// never counted as an active filter.
const DisplayGroup = "display"

// Group maps field names to values.
type Group map[string]value.Value

// FilterSet maps group names to groups.
type FilterSet map[string]Group

// Get returns the value of group.field, nil when absent.
func (fs FilterSet) Get(group, field string) value.Value {
	return fs[group][field]
}

// Clone returns a deep copy.
func (fs FilterSet) Clone() FilterSet {
	if fs == nil {
		return nil
	}
	out := make(FilterSet, len(fs))
	for g, fields := range fs {
		cp := make(Group, len(fields))
		for f, v := range fields {
			cp[f] = value.Clone(v)
		}
		out[g] = cp
	}
	return out
}

// Equal reports structural equality of two filter sets.
func (fs FilterSet) Equal(other FilterSet) bool {
	return value.Equal(fs.Value(), other.Value())
}

// Value returns the set as an object of objects.
func (fs FilterSet) Value() value.Object {
	out := make(value.Object, len(fs))
	for g, fields := range fs {
		obj := make(value.Object, len(fields))
		for f, v := range fields {
			obj[f] = value.Clone(v)
		}
		out[g] = obj
	}
	return out
}

// FromValue rebuilds a FilterSet from an object of objects. Members that are
// not objects are skipped.
func FromValue(v value.Value) FilterSet {
	obj, ok := v.(value.Object)
	if !ok {
		return FilterSet{}
	}
	out := make(FilterSet, len(obj))
	for g, gv := range obj {
		fields, ok := gv.(value.Object)
		if !ok {
			continue
		}
		grp := make(Group, len(fields))
		for f, fv := range fields {
			grp[f] = value.Clone(fv)
		}
		out[g] = grp
	}
	return out
}

// conform returns a copy of fs reshaped to exactly the groups and fields of
// defaults. Missing fields take their default, extra fields are dropped.
func conform(fs, defaults FilterSet) FilterSet {
	out := make(FilterSet, len(defaults))
	for g, fields := range defaults {
		grp := make(Group, len(fields))
		for f, def := range fields {
			if v, ok := fs[g][f]; ok {
				grp[f] = value.Clone(v)
			} else {
				grp[f] = value.Clone(def)
			}
		}
		out[g] = grp
	}
	return out
}

// emptied derives the cleared shape of defaults: array fields become empty
// arrays, everything else becomes null.
func emptied(defaults FilterSet) FilterSet {
	out := make(FilterSet, len(defaults))
	for g, fields := range defaults {
		grp := make(Group, len(fields))
		for f, def := range fields {
			if _, ok := def.(value.Array); ok {
				grp[f] = value.Array{}
			} else {
				grp[f] = value.Null{}
			}
		}
		out[g] = grp
	}
	return out
}
