package valerr

import (
	"strconv"
	"strings"
)

// LocItem is one step of an error location: a mapping key or a sequence index.
type LocItem struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a location step naming a mapping key or field.
func Key(k string) LocItem { return LocItem{key: k} }

// Index returns a location step naming a sequence position.
func Index(i int) LocItem { return LocItem{index: i, isIndex: true} }

// IsIndex reports whether the item is a sequence index.
func (l LocItem) IsIndex() bool { return l.isIndex }

// Value returns the item as a string or an int.
func (l LocItem) Value() any {
	if l.isIndex {
		return l.index
	}
	return l.key
}

func (l LocItem) String() string {
	if l.isIndex {
		return strconv.Itoa(l.index)
	}
	return l.key
}

// Location is an error path, outermost item first.
type Location []LocItem

// String joins the items with dots, e.g. "items.0.name".
func (loc Location) String() string {
	parts := make([]string, len(loc))
	for i, item := range loc {
		parts[i] = item.String()
	}
	return strings.Join(parts, ".")
}

// Values returns the items as a slice of strings and ints.
func (loc Location) Values() []any {
	out := make([]any, len(loc))
	for i, item := range loc {
		out[i] = item.Value()
	}
	return out
}
