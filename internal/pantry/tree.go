package pantry

import (
	"fmt"
	"strings"
)

// node is one slot in the tree. A node exclusively owns its children;
// subtrees are never shared and there are no parent pointers.
type node struct {
	item        *Item
	left, right *node
}

// Tree is an unbalanced binary search tree over items, shaped by a
// swappable comparator. It is a derived, order-dependent view; the
// catalog remains the source of truth for which items exist.
type Tree struct {
	root    *node
	compare CompareFunc
	size    int
}

// NewTree creates an empty tree ordered by compare.
func NewTree(compare CompareFunc) *Tree {
	return &Tree{compare: compare}
}

// Rebuild creates a fresh tree bound to compare and inserts every item
// in the given order. Insertion order affects the final shape but never
// the in-order sequence.
func Rebuild(compare CompareFunc, items []*Item) *Tree {
	t := NewTree(compare)
	for _, item := range items {
		t.Insert(item)
	}
	return t
}

// Insert places item at the first empty slot reached by comparator
// descent. Returns false without touching the tree when an existing
// node compares equivalent.
func (t *Tree) Insert(item *Item) bool {
	if t.root == nil {
		t.root = &node{item: item}
		t.size++
		return true
	}
	cur := t.root
	for {
		switch c := t.compare(item, cur.item); {
		case c == 0:
			return false
		case c < 0:
			if cur.left == nil {
				cur.left = &node{item: item}
				t.size++
				return true
			}
			cur = cur.left
		default:
			if cur.right == nil {
				cur.right = &node{item: item}
				t.size++
				return true
			}
			cur = cur.right
		}
	}
}

// Contains reports whether a node equivalent to item is reachable.
func (t *Tree) Contains(item *Item) bool {
	cur := t.root
	for cur != nil {
		c := t.compare(item, cur.item)
		if c == 0 {
			return true
		}
		if c < 0 {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return false
}

// Delete removes the node equivalent to item, if any. Absence is a
// no-op, not an error.
func (t *Tree) Delete(item *Item) {
	var removed bool
	t.root, removed = t.remove(t.root, item)
	if removed {
		t.size--
	}
}

// remove deletes from the subtree rooted at n and returns its new
// root. A node with two children takes on its in-order successor's
// item (the leftmost node of the right subtree), then the successor is
// deleted from the right subtree, where it has at most one child.
func (t *Tree) remove(n *node, item *Item) (*node, bool) {
	if n == nil {
		return nil, false
	}
	var removed bool
	switch c := t.compare(item, n.item); {
	case c < 0:
		n.left, removed = t.remove(n.left, item)
		return n, removed
	case c > 0:
		n.right, removed = t.remove(n.right, item)
		return n, removed
	}

	switch {
	case n.left == nil && n.right == nil:
		return nil, true
	case n.left == nil:
		return n.right, true
	case n.right == nil:
		return n.left, true
	}

	succ := n.right
	for succ.left != nil {
		succ = succ.left
	}
	n.item = succ.item
	n.right, _ = t.remove(n.right, succ.item)
	return n, true
}

// SetCompare swaps the active comparator without reshaping the tree.
// Existing parent/child placements may violate the new order; callers
// wanting a consistent tree must Rebuild from the catalog.
func (t *Tree) SetCompare(compare CompareFunc) {
	t.compare = compare
}

// Len returns the number of items in the tree.
func (t *Tree) Len() int {
	return t.size
}

// InOrder returns every item in ascending order under the active
// comparator.
func (t *Tree) InOrder() []*Item {
	out := make([]*Item, 0, t.size)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		walk(n.left)
		out = append(out, n.item)
		walk(n.right)
	}
	walk(t.root)
	return out
}

// PreOrder returns items root-first: node, then left subtree, then
// right subtree. Useful for structural dumps.
func (t *Tree) PreOrder() []*Item {
	out := make([]*Item, 0, t.size)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		out = append(out, n.item)
		walk(n.left)
		walk(n.right)
	}
	walk(t.root)
	return out
}

// PostOrder returns items children-first: left subtree, right subtree,
// then node.
func (t *Tree) PostOrder() []*Item {
	out := make([]*Item, 0, t.size)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		walk(n.left)
		walk(n.right)
		out = append(out, n.item)
	}
	walk(t.root)
	return out
}

// Sketch renders a pre-order diagnostic dump, one node per line with
// branch guides and indentation proportional to depth. Purely
// informational, never authoritative state.
func (t *Tree) Sketch() string {
	if t.root == nil {
		return "(empty)"
	}
	var sb strings.Builder
	sketchNode(&sb, t.root, "", "")
	return strings.TrimRight(sb.String(), "\n")
}

func sketchNode(sb *strings.Builder, n *node, branch, cont string) {
	sb.WriteString(branch)
	fmt.Fprintf(sb, "%s [P%d]\n", n.item.Name(), n.item.Priority())

	children := make([]*node, 0, 2)
	if n.left != nil {
		children = append(children, n.left)
	}
	if n.right != nil {
		children = append(children, n.right)
	}
	for i, child := range children {
		if i == len(children)-1 {
			sketchNode(sb, child, cont+"└─ ", cont+"   ")
		} else {
			sketchNode(sb, child, cont+"├─ ", cont+"│  ")
		}
	}
}
