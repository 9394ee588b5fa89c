package filter

import (
	"github.com/fleetyard/fleetdash/internal/value"
)

// Counts is the number of active filters per group and in total.
type Counts struct {
	Total  int            `json:"total"`
	Groups map[string]int `json:"groups"`
}

// IsNonEmpty reports whether v carries a filter value at all.
func IsNonEmpty(v value.Value) bool {
	switch v := v.(type) {
	case value.Array:
		return len(v) > 0
	case value.Bool:
		return true
	case value.Number:
		return v > 0
	case value.String:
		return len(v) > 0
	case value.Object:
		return len(v) > 0
	case value.Date:
		return !v.IsZero()
	default:
		return false
	}
}

// IsActive reports whether v is non-empty and differs from its default.
func IsActive(v, def value.Value) bool {
	return IsNonEmpty(v) && !value.Equal(v, def)
}

// fieldCount is the badge count of a single field: the element count for an
// active array, 1 for any other active value.
func fieldCount(v, def value.Value) int {
	if !IsActive(v, def) {
		return 0
	}
	if arr, ok := v.(value.Array); ok {
		return len(arr)
	}
	return 1
}

// countFilters computes group and total counts of fs against defaults.
// Combined fields add at most one to their group; every other active field
// adds one regardless of how many elements it holds.
func countFilters(fs, defaults FilterSet, combined map[string][]string) Counts {
	counts := Counts{Groups: make(map[string]int, len(defaults))}
	for group, fields := range defaults {
		if group == DisplayGroup {
			continue
		}
		inCombo := make(map[string]bool, len(combined[group]))
		for _, f := range combined[group] {
			inCombo[f] = true
		}

		n := 0
		comboActive := false
		for field, def := range fields {
			active := IsActive(fs.Get(group, field), def)
			if inCombo[field] {
				comboActive = comboActive || active
				continue
			}
			if active {
				n++
			}
		}
		if comboActive {
			n++
		}
		counts.Groups[group] = n
		counts.Total += n
	}
	return counts
}
