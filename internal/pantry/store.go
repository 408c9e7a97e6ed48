package pantry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/tbracken/pantree/internal/log"
	"github.com/tbracken/pantree/internal/pubsub"
)

// TraversalKind selects one of the three canonical walks.
type TraversalKind string

const (
	TraverseInOrder   TraversalKind = "in-order"
	TraversePreOrder  TraversalKind = "pre-order"
	TraversePostOrder TraversalKind = "post-order"
)

// Next cycles through the traversal kinds, for the UI toggle.
func (k TraversalKind) Next() TraversalKind {
	switch k {
	case TraverseInOrder:
		return TraversePreOrder
	case TraversePreOrder:
		return TraversePostOrder
	default:
		return TraverseInOrder
	}
}

// Change describes a store mutation published to subscribers. Item is
// set for created/deleted events; Ordering always carries the active
// ordering after the change.
type Change struct {
	Item     *Item
	Ordering Ordering
}

// Store couples the catalog and the tree and keeps them consistent
// under every operation: mutations land in both structures or in
// neither. It is the only surface the presentation layer talks to.
// Single-threaded by contract; there is no internal locking.
type Store struct {
	catalog  *Catalog
	tree     *Tree
	ordering Ordering
	broker   *pubsub.Broker[Change]
	tracer   trace.Tracer
}

// NewStore creates an empty store. Invalid orderings fall back to
// OrderByName.
func NewStore(ord Ordering) *Store {
	if !ord.Valid() {
		ord = OrderByName
	}
	return &Store{
		catalog:  NewCatalog(),
		tree:     NewTree(ord.Comparator()),
		ordering: ord,
		broker:   pubsub.NewBroker[Change](),
		tracer:   noop.NewTracerProvider().Tracer("pantry"),
	}
}

// SetTracer installs the tracer used to annotate mutations. A nil
// tracer keeps the current one.
func (s *Store) SetTracer(tracer trace.Tracer) {
	if tracer != nil {
		s.tracer = tracer
	}
}

// Events exposes the change broker for subscribers.
func (s *Store) Events() *pubsub.Broker[Change] {
	return s.broker
}

// Close shuts down the change broker.
func (s *Store) Close() {
	s.broker.Close()
}

// Add creates an item from raw input and registers it in the catalog
// and the tree together. Returns ErrEmptyName when the trimmed name is
// empty and ErrDuplicateName when the identity is already taken (case
// insensitively). On failure nothing changes.
func (s *Store) Add(rawName, rawPriority string) (*Item, error) {
	_, span := s.tracer.Start(context.Background(), "store.add",
		trace.WithAttributes(attribute.String("item.name", strings.TrimSpace(rawName))))
	defer span.End()

	item := NewItem(rawName, rawPriority)
	if item.Name() == "" {
		return nil, ErrEmptyName
	}
	if err := s.catalog.Put(item); err != nil {
		return nil, err
	}
	if !s.tree.Insert(item) {
		// Comparator-equivalence found a duplicate the catalog missed.
		// Cannot happen while both share the same identity notion, but
		// back out the catalog entry rather than let them disagree.
		_, _ = s.catalog.Remove(item.Key())
		return nil, ErrDuplicateName
	}

	log.Debug(log.CatStore, "item added",
		"name", item.Name(), "priority", item.Priority(), "seq", item.Seq())
	s.broker.Publish(pubsub.CreatedEvent, Change{Item: item, Ordering: s.ordering})
	return item, nil
}

// Search looks up the named item. The catalog answers existence; the
// registered instance is then confirmed reachable through the tree.
func (s *Store) Search(name string) (*Item, bool) {
	item, ok := s.catalog.Get(NormalizeKey(name))
	if !ok {
		return nil, false
	}
	return item, s.tree.Contains(item)
}

// Delete removes the named item from both structures. Returns false
// when no such item exists; this is a normal result, not an error.
// The name is free for re-use afterwards.
func (s *Store) Delete(name string) bool {
	_, span := s.tracer.Start(context.Background(), "store.delete",
		trace.WithAttributes(attribute.String("item.name", strings.TrimSpace(name))))
	defer span.End()

	item, err := s.catalog.Remove(NormalizeKey(name))
	if err != nil {
		return false
	}
	s.tree.Delete(item)

	log.Debug(log.CatStore, "item deleted", "name", item.Name())
	s.broker.Publish(pubsub.DeletedEvent, Change{Item: item, Ordering: s.ordering})
	return true
}

// SetOrdering swaps the active strategy and rebuilds the tree from the
// catalog's value set. The old tree is discarded wholesale; this is
// the only supported way to change ordering safely.
func (s *Store) SetOrdering(ord Ordering) error {
	if !ord.Valid() {
		return ErrUnknownOrdering
	}
	if ord == s.ordering {
		return nil
	}

	_, span := s.tracer.Start(context.Background(), "store.reorder",
		trace.WithAttributes(attribute.String("ordering", string(ord))))
	defer span.End()

	s.ordering = ord
	s.tree = Rebuild(ord.Comparator(), s.catalog.Items())

	log.Info(log.CatTree, "tree rebuilt", "ordering", ord, "items", s.tree.Len())
	s.broker.Publish(pubsub.UpdatedEvent, Change{Ordering: ord})
	return nil
}

// Ordering returns the active ordering.
func (s *Store) Ordering() Ordering {
	return s.ordering
}

// Len returns the number of items.
func (s *Store) Len() int {
	return s.catalog.Len()
}

// Traverse materializes the requested walk over the current tree.
func (s *Store) Traverse(kind TraversalKind) []*Item {
	switch kind {
	case TraversePreOrder:
		return s.tree.PreOrder()
	case TraversePostOrder:
		return s.tree.PostOrder()
	default:
		return s.tree.InOrder()
	}
}

// Dump renders the diagnostic tree sketch.
func (s *Store) Dump() string {
	return s.tree.Sketch()
}
