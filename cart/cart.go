package cart

import (
	"fmt"

	"github.com/sdabuk/marytts/feature"
)

/*
CART is a classification tree over encoded feature vectors. It owns
the root node of a fully wired tree and the dictionary its decision
nodes were built against, and exposes the read surface a unit
selection search uses: classification, leaf enumeration, aggregate
data collection and Wagon serialization.
*/
type CART struct {
	root       Node
	dictionary *feature.Dictionary
}

/*
New takes the root node of a fully wired tree and the dictionary it
was built against, marks the node as the tree root and runs the
bottom-up data-count aggregation pass over the whole tree. The
returned tree is read-only and safe for concurrent use.
*/
func New(root Node, d *feature.Dictionary) *CART {
	c := &CART{root, d}
	if root != nil {
		root.markRoot()
		c.Aggregate()
	}
	return c
}

// Root returns the root node of the tree.
func (c *CART) Root() Node {
	return c.root
}

// Dictionary returns the dictionary the tree was built against.
func (c *CART) Dictionary() *feature.Dictionary {
	return c.dictionary
}

/*
DataCount returns the total number of payload items in the leaves of
the tree.
*/
func (c *CART) DataCount() int {
	if c.root == nil {
		return 0
	}
	return c.root.DataCount()
}

/*
Aggregate recomputes every decision node's cached data count with one
post-order pass over the tree. New runs it once on construction; it
only needs to be run again after structural edits, and must never run
concurrently with them or with readers.
*/
func (c *CART) Aggregate() {
	if dn, ok := c.root.(*DecisionNode); ok {
		dn.aggregate()
	}
}

/*
Classify routes the given vector from the root through the decision
nodes' rules down to a leaf and returns it. It returns an error
wrapping ErrNoLeaf if routing reaches an absent child slot.
*/
func (c *CART) Classify(v *feature.Vector) (*LeafNode, error) {
	n := c.root
	for n != nil {
		dn, ok := n.(*DecisionNode)
		if !ok {
			return n.(*LeafNode), nil
		}
		n = dn.SelectChild(v)
	}
	return nil, fmt.Errorf("classifying vector of unit %d: %w", v.UnitIndex(), ErrNoLeaf)
}

/*
Leaves returns every leaf of the tree exactly once, in left-to-right
order consistent with the children slices of the decision nodes.
*/
func (c *CART) Leaves() []*LeafNode {
	var l *LeafNode
	switch root := c.root.(type) {
	case *LeafNode:
		return []*LeafNode{root}
	case *DecisionNode:
		l = root.NextLeaf(0)
	}
	var leaves []*LeafNode
	for ; l != nil; l = l.NextLeaf() {
		leaves = append(leaves, l)
	}
	return leaves
}

/*
CollectData collects the payload items of every leaf at or below the
given node into one contiguous Payload, in leaf order. The payload
kind is the kind of the first leaf found below the node; if the tree
holds no leaf at all, CollectData returns nil and no error.

An error wrapping ErrMixedLeafKinds is returned if leaves of both
payload kinds coexist below the node; that only happens on a
structurally corrupted tree.
*/
func CollectData(n Node) (*Payload, error) {
	var first *LeafNode
	switch node := n.(type) {
	case *LeafNode:
		first = node
	case *DecisionNode:
		first = node.NextLeaf(0)
	}
	if first == nil {
		return nil, nil
	}
	p := &Payload{}
	if first.Kind() == UnitIndexLeaf {
		p.Units = make([]int, n.DataCount())
	} else {
		p.Vectors = make([]*feature.Vector, n.DataCount())
	}
	if _, err := n.fillData(p, 0); err != nil {
		return nil, err
	}
	return p, nil
}

/*
CollectData collects the payload items of every leaf of the tree, in
leaf order. See the package-level CollectData.
*/
func (c *CART) CollectData() (*Payload, error) {
	if c.root == nil {
		return nil, nil
	}
	return CollectData(c.root)
}
