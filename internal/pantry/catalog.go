package pantry

import "errors"

// Catalog errors
var (
	ErrNotFound        = errors.New("item not found")
	ErrDuplicateName   = errors.New("an item with that name already exists")
	ErrEmptyName       = errors.New("item name cannot be empty")
	ErrUnknownOrdering = errors.New("unknown ordering")
)

// Catalog maps normalized identity keys to items, one entry per
// distinct item. It is the source of truth for existence and the
// enumeration used when the tree is rebuilt under a new ordering.
type Catalog struct {
	items map[string]*Item
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{items: make(map[string]*Item)}
}

// Put registers item under its identity key. Fails with
// ErrDuplicateName when the key is already taken, leaving the catalog
// unchanged.
func (c *Catalog) Put(item *Item) error {
	key := item.Key()
	if _, ok := c.items[key]; ok {
		return ErrDuplicateName
	}
	c.items[key] = item
	return nil
}

// Remove deletes the mapping for key and returns the removed item.
// The caller is responsible for also removing it from the tree.
func (c *Catalog) Remove(key string) (*Item, error) {
	item, ok := c.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	delete(c.items, key)
	return item, nil
}

// Get returns the item registered under key.
func (c *Catalog) Get(key string) (*Item, bool) {
	item, ok := c.items[key]
	return item, ok
}

// Has reports whether key is registered.
func (c *Catalog) Has(key string) bool {
	_, ok := c.items[key]
	return ok
}

// Items returns the current value set. Iteration order is
// unspecified; rebuild correctness does not depend on it.
func (c *Catalog) Items() []*Item {
	out := make([]*Item, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	return out
}

// Len returns the number of registered items.
func (c *Catalog) Len() int {
	return len(c.items)
}
