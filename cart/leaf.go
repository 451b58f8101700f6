package cart

import (
	"fmt"

	"github.com/sdabuk/marytts/feature"
)

/*
LeafKind identifies the payload a leaf node holds. The set of kinds is
closed, and all leaves of a well-formed tree hold the same kind.
*/
type LeafKind int

const (
	// UnitIndexLeaf holds the indexes of candidate speech units.
	UnitIndexLeaf LeafKind = iota
	// VectorLeaf holds the feature vectors of candidate speech units.
	VectorLeaf
)

/*
LeafNode is a terminal node of a classification tree holding the
partitioned candidate data of the leaf: either unit indexes or feature
vectors. The payload is fixed at construction.
*/
type LeafNode struct {
	baseNode
	kind    LeafKind
	units   []int
	vectors []*feature.Vector
}

/*
NewUnitLeaf takes a slice of unit indexes and returns a leaf node
holding a copy of them, in the given order.
*/
func NewUnitLeaf(units []int) *LeafNode {
	us := make([]int, len(units))
	copy(us, units)
	return &LeafNode{kind: UnitIndexLeaf, units: us}
}

/*
NewVectorLeaf takes a slice of feature vectors and returns a leaf node
holding a copy of it, in the given order.
*/
func NewVectorLeaf(vectors []*feature.Vector) *LeafNode {
	vs := make([]*feature.Vector, len(vectors))
	copy(vs, vectors)
	return &LeafNode{kind: VectorLeaf, vectors: vs}
}

// Kind returns the payload kind of the leaf.
func (l *LeafNode) Kind() LeafKind {
	return l.kind
}

// DataCount returns the number of payload items the leaf holds.
func (l *LeafNode) DataCount() int {
	if l.kind == UnitIndexLeaf {
		return len(l.units)
	}
	return len(l.vectors)
}

/*
Units returns the unit indexes of a unit-index leaf, or nil for a
vector leaf. Callers must not modify the returned slice.
*/
func (l *LeafNode) Units() []int {
	return l.units
}

/*
Vectors returns the feature vectors of a vector leaf, or nil for a
unit-index leaf. Callers must not modify the returned slice.
*/
func (l *LeafNode) Vectors() []*feature.Vector {
	return l.vectors
}

/*
NextLeaf returns the leaf following this one in the left-to-right leaf
order of the tree, or nil if this is the last one.
*/
func (l *LeafNode) NextLeaf() *LeafNode {
	if l.parent == nil {
		return nil
	}
	return l.parent.NextLeaf(l.nodeIndex + 1)
}

func (l *LeafNode) fillData(p *Payload, pos int) (int, error) {
	switch l.kind {
	case UnitIndexLeaf:
		if p.Units == nil {
			return pos, fmt.Errorf("filling unit indexes into a vector payload: %w", ErrMixedLeafKinds)
		}
		if pos+len(l.units) > len(p.Units) {
			return pos, fmt.Errorf("filling %d unit indexes at position %d exceeds the aggregated count %d", len(l.units), pos, len(p.Units))
		}
		copy(p.Units[pos:], l.units)
		return pos + len(l.units), nil
	case VectorLeaf:
		if p.Vectors == nil {
			return pos, fmt.Errorf("filling vectors into a unit-index payload: %w", ErrMixedLeafKinds)
		}
		if pos+len(l.vectors) > len(p.Vectors) {
			return pos, fmt.Errorf("filling %d vectors at position %d exceeds the aggregated count %d", len(l.vectors), pos, len(p.Vectors))
		}
		copy(p.Vectors[pos:], l.vectors)
		return pos + len(l.vectors), nil
	}
	return pos, fmt.Errorf("leaf with unknown payload kind %d", l.kind)
}
