package pantry

import (
	"cmp"
	"strings"
)

// CompareFunc is a three-way comparison over items: negative when a
// orders before b, positive when after, zero when equivalent. Every
// comparator must be pure and total, and must only ever report zero
// for items sharing a normalized name, so the tree's duplicate notion
// agrees with the catalog's.
type CompareFunc func(a, b *Item) int

// Ordering identifies one of the built-in comparison strategies.
type Ordering string

const (
	// OrderByName sorts by lowercased name, then priority, then
	// creation sequence.
	OrderByName Ordering = "name"

	// OrderByPriority sorts by priority (most urgent first), then
	// lowercased name, then creation sequence.
	OrderByPriority Ordering = "priority"
)

// Valid reports whether o names a known ordering.
func (o Ordering) Valid() bool {
	return o == OrderByName || o == OrderByPriority
}

// Comparator resolves the ordering to its comparison function.
// Unknown orderings fall back to OrderByName.
func (o Ordering) Comparator() CompareFunc {
	if o == OrderByPriority {
		return compareByPriority
	}
	return compareByName
}

func compareByName(a, b *Item) int {
	if c := strings.Compare(a.Key(), b.Key()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.priority, b.priority); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

func compareByPriority(a, b *Item) int {
	if c := cmp.Compare(a.priority, b.priority); c != 0 {
		return c
	}
	if c := strings.Compare(a.Key(), b.Key()); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}
