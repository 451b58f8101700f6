/*
Package cart implements classification trees (CARTs) over encoded
feature vectors: decision nodes routing a query vector to one of a
fixed set of children, leaf nodes holding the partitioned unit data,
a bottom-up data-count aggregation pass, ordered whole-tree leaf
enumeration, aggregate data collection and the nested-text Wagon
serialization format.

Trees are wired single-threaded, node by node, aggregated exactly once
and read-only from then on: classification, enumeration, collection and
serialization are safe for concurrent use.
*/
package cart

import (
	"io"

	"github.com/sdabuk/marytts/feature"
)

// NodeError represents an error on a tree node operation.
type NodeError string

func (e NodeError) Error() string {
	return string(e)
}

/*
ErrCapacityExceeded is the error returned by AppendChild when every
child slot of the decision node has already been assigned.
*/
const ErrCapacityExceeded = NodeError("no free child slot left on decision node")

/*
ErrIndexOutOfRange is the error returned by ReplaceChild when the
given index does not address a child slot of the decision node.
*/
const ErrIndexOutOfRange = NodeError("child index out of range")

/*
ErrMixedLeafKinds is the error returned by CollectData when leaves
with unit-index payloads and leaves with vector payloads coexist below
the same node. A well-formed tree holds one payload kind only, so this
error indicates structural corruption and is not recoverable.
*/
const ErrMixedLeafKinds = NodeError("leaves of different payload kinds below one node")

/*
ErrNoLeaf is the error returned by Classify when routing a vector
reaches an absent child slot before reaching a leaf.
*/
const ErrNoLeaf = NodeError("no leaf reachable for the vector")

/*
Node is a node of a classification tree: either a *DecisionNode or a
*LeafNode.

Its NodeIndex method returns the position of the node among its
parent's children; the value is meaningless for the root.

Its Parent method returns the decision node owning this node as a
back-reference, or nil for the root.

Its DataCount method returns the total number of payload items in the
leaves at or below the node. For decision nodes the value is only
valid after the aggregation pass.

Its WriteWagon method writes the node's subtree in Wagon format onto
the given writer, appending the given extension after the subtree's
final token.
*/
type Node interface {
	Parent() *DecisionNode
	NodeIndex() int
	IsRoot() bool
	DataCount() int
	WriteWagon(w io.Writer, extension string) error

	setParent(parent *DecisionNode, index int)
	markRoot()
	fillData(p *Payload, pos int) (int, error)
}

// baseNode carries the identity every node has within its parent.
type baseNode struct {
	parent    *DecisionNode
	nodeIndex int
	isRoot    bool
}

// Parent returns the decision node owning this node, or nil for the root.
func (b *baseNode) Parent() *DecisionNode {
	return b.parent
}

// NodeIndex returns the position of the node among its parent's
// children. The value is meaningless for the root.
func (b *baseNode) NodeIndex() int {
	return b.nodeIndex
}

// IsRoot reports whether the node is the root of its tree.
func (b *baseNode) IsRoot() bool {
	return b.isRoot
}

func (b *baseNode) setParent(parent *DecisionNode, index int) {
	b.parent = parent
	b.nodeIndex = index
	b.isRoot = false
}

func (b *baseNode) markRoot() {
	b.parent = nil
	b.isRoot = true
}

/*
Payload is the aggregate data collected from the leaves below a node:
either unit indexes or feature vectors, never both. Exactly one of the
two fields is non-nil.
*/
type Payload struct {
	Units   []int
	Vectors []*feature.Vector
}

// Len returns the number of items in the payload.
func (p *Payload) Len() int {
	if p.Units != nil {
		return len(p.Units)
	}
	return len(p.Vectors)
}
