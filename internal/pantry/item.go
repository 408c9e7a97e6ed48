// Package pantry contains the core list model: immutable items, the
// swappable ordering strategies, the binary search tree derived from
// them, and the catalog that acts as the source of truth for which
// items exist.
package pantry

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// Priority bounds. 1 is the most urgent rank, DefaultPriority the
// least. Anything outside the range silently falls back to the default.
const (
	MinPriority     = 1
	DefaultPriority = 3
)

// seqCounter hands out creation sequence numbers. Strictly monotonic
// so two items created back to back always compare consistently, even
// when every other field ties.
var seqCounter atomic.Uint64

// Item is a single pantry entry. Immutable after creation; removal
// happens by identity, never by mutation.
type Item struct {
	name     string // display name, trimmed
	priority int    // urgency rank, MinPriority..DefaultPriority
	seq      uint64 // creation sequence, final tie-breaker
}

// NewItem creates an item from raw user input. The name is trimmed of
// surrounding whitespace; the priority is parsed leniently, falling
// back to DefaultPriority when absent, non-numeric, or out of range.
func NewItem(rawName, rawPriority string) *Item {
	return &Item{
		name:     strings.TrimSpace(rawName),
		priority: parsePriority(rawPriority),
		seq:      seqCounter.Add(1),
	}
}

// parsePriority interprets raw input as a rank. Invalid input is not
// an error: the item simply lands on the lowest rank.
func parsePriority(raw string) int {
	p, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || p < MinPriority || p > DefaultPriority {
		return DefaultPriority
	}
	return p
}

// Name returns the item's display name.
func (i *Item) Name() string {
	return i.name
}

// Priority returns the item's urgency rank.
func (i *Item) Priority() int {
	return i.priority
}

// Seq returns the item's creation sequence number.
func (i *Item) Seq() uint64 {
	return i.seq
}

// Key returns the normalized identity used by the catalog. Names are
// case-insensitively unique, so the key is the lowercased name.
func (i *Item) Key() string {
	return strings.ToLower(i.name)
}

// NormalizeKey maps a raw name to the identity key an item created
// from it would have.
func NormalizeKey(rawName string) string {
	return strings.ToLower(strings.TrimSpace(rawName))
}
