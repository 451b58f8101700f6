package cart

import (
	"fmt"
	"strconv"

	"github.com/sdabuk/marytts/feature"
)

/*
DecisionKind identifies the rule a decision node applies to select one
of its children for a query vector. The set of kinds is closed.
*/
type DecisionKind int

const (
	// EqualsByte compares a byte feature value against a stored code:
	// child 0 on equality, child 1 otherwise.
	EqualsByte DecisionKind = iota
	// EqualsShort compares a short feature value against a stored
	// code: child 0 on equality, child 1 otherwise.
	EqualsShort
	// LessThanFloat compares a continuous feature value against a
	// stored threshold: child 0 if the value is below it, child 1
	// otherwise.
	LessThanFloat
	// IndexByte uses the byte feature value itself as the child index.
	IndexByte
	// IndexShort uses the short feature value itself as the child
	// index.
	IndexShort
)

/*
DecisionNode is an inner node of a classification tree. It tests one
feature of a query vector and routes the vector to one of a fixed
number of children according to its kind.

The child slice is sized at construction and never grows; children are
assigned append-only with AppendChild until every slot is filled.
*/
type DecisionNode struct {
	baseNode
	kind         DecisionKind
	featureIndex int
	featureName  string
	children     []Node
	nextFree     int
	dataCount    int
	byteValue    byte
	shortValue   uint16
	threshold    float32
}

/*
NewEqualsByteNode takes a dictionary, the name of a byte-valued feature
and one of its value strings and returns a two-child decision node
routing vectors whose feature equals the value to child 0 and all
others to child 1, or an error if the feature is not defined as
byte-valued or the value is unknown.
*/
func NewEqualsByteNode(d *feature.Dictionary, featureName, value string) (*DecisionNode, error) {
	n, err := newDecisionNode(d, featureName, EqualsByte, 2)
	if err != nil {
		return nil, err
	}
	n.byteValue, err = d.EncodeByte(featureName, value)
	if err != nil {
		return nil, err
	}
	return n, nil
}

/*
NewEqualsShortNode takes a dictionary, the name of a short-valued
feature and one of its value strings and returns a two-child decision
node routing vectors whose feature equals the value to child 0 and all
others to child 1, or an error if the feature is not defined as
short-valued or the value is unknown.
*/
func NewEqualsShortNode(d *feature.Dictionary, featureName, value string) (*DecisionNode, error) {
	n, err := newDecisionNode(d, featureName, EqualsShort, 2)
	if err != nil {
		return nil, err
	}
	n.shortValue, err = d.EncodeShort(featureName, value)
	if err != nil {
		return nil, err
	}
	return n, nil
}

/*
NewLessThanNode takes a dictionary, the name of a continuous feature
and a threshold and returns a two-child decision node routing vectors
whose feature value is strictly below the threshold to child 0 and all
others, the threshold itself included, to child 1. An error is
returned if the feature is not defined as continuous.
*/
func NewLessThanNode(d *feature.Dictionary, featureName string, threshold float32) (*DecisionNode, error) {
	f, err := d.ByName(featureName)
	if err != nil {
		return nil, err
	}
	if f.Kind() != feature.ContinuousKind {
		return nil, fmt.Errorf("feature %s is not continuous", featureName)
	}
	n, err := newDecisionNode(d, featureName, LessThanFloat, 2)
	if err != nil {
		return nil, err
	}
	n.threshold = threshold
	return n, nil
}

/*
NewIndexByteNode takes a dictionary and the name of a byte-valued
feature and returns a multiway decision node with one child per value
code of the feature, dispatching vectors directly by their code. An
error is returned if the feature is not defined as byte-valued.

The dictionary's encoding contract guarantees every code is a valid
child index, so SelectChild does not re-validate it.
*/
func NewIndexByteNode(d *feature.Dictionary, featureName string) (*DecisionNode, error) {
	if err := checkKind(d, featureName, feature.ByteKind); err != nil {
		return nil, err
	}
	numValues, err := d.NumValues(featureName)
	if err != nil {
		return nil, err
	}
	return newDecisionNode(d, featureName, IndexByte, numValues)
}

/*
NewIndexShortNode takes a dictionary and the name of a short-valued
feature and returns a multiway decision node with one child per value
code of the feature, dispatching vectors directly by their code. An
error is returned if the feature is not defined as short-valued.
*/
func NewIndexShortNode(d *feature.Dictionary, featureName string) (*DecisionNode, error) {
	if err := checkKind(d, featureName, feature.ShortKind); err != nil {
		return nil, err
	}
	numValues, err := d.NumValues(featureName)
	if err != nil {
		return nil, err
	}
	return newDecisionNode(d, featureName, IndexShort, numValues)
}

/*
NewIndexByteNodeAt is NewIndexByteNode taking the global feature index
instead of the feature name.
*/
func NewIndexByteNodeAt(d *feature.Dictionary, featureIndex int) (*DecisionNode, error) {
	name, err := d.Name(featureIndex)
	if err != nil {
		return nil, err
	}
	return NewIndexByteNode(d, name)
}

/*
NewIndexShortNodeAt is NewIndexShortNode taking the global feature
index instead of the feature name.
*/
func NewIndexShortNodeAt(d *feature.Dictionary, featureIndex int) (*DecisionNode, error) {
	name, err := d.Name(featureIndex)
	if err != nil {
		return nil, err
	}
	return NewIndexShortNode(d, name)
}

func newDecisionNode(d *feature.Dictionary, featureName string, kind DecisionKind, numChildren int) (*DecisionNode, error) {
	index, err := d.Index(featureName)
	if err != nil {
		return nil, err
	}
	return &DecisionNode{
		kind:         kind,
		featureIndex: index,
		featureName:  featureName,
		children:     make([]Node, numChildren),
	}, nil
}

func checkKind(d *feature.Dictionary, featureName string, k feature.Kind) error {
	f, err := d.ByName(featureName)
	if err != nil {
		return err
	}
	if f.Kind() != k {
		return fmt.Errorf("feature %s is not %v-valued", featureName, k)
	}
	return nil
}

// Kind returns the decision kind of the node.
func (dn *DecisionNode) Kind() DecisionKind {
	return dn.kind
}

// FeatureName returns the name of the feature the node tests.
func (dn *DecisionNode) FeatureName() string {
	return dn.featureName
}

// FeatureIndex returns the global index of the feature the node tests.
func (dn *DecisionNode) FeatureIndex() int {
	return dn.featureIndex
}

// NumChildren returns the fixed child count of the node.
func (dn *DecisionNode) NumChildren() int {
	return len(dn.children)
}

// ByteValue returns the stored byte code of an equals-byte node.
func (dn *DecisionNode) ByteValue() byte {
	return dn.byteValue
}

// ShortValue returns the stored short code of an equals-short node.
func (dn *DecisionNode) ShortValue() uint16 {
	return dn.shortValue
}

// Threshold returns the stored threshold of a less-than node.
func (dn *DecisionNode) Threshold() float32 {
	return dn.threshold
}

/*
DataCount returns the total number of payload items in the leaves
below the node. The value is only valid after the aggregation pass.
*/
func (dn *DecisionNode) DataCount() int {
	return dn.dataCount
}

/*
AppendChild assigns the given node, which may be nil for an absent
child, into the next free child slot, setting the node's parent
back-reference and node index. It returns an error wrapping
ErrCapacityExceeded if every slot has already been assigned.
*/
func (dn *DecisionNode) AppendChild(n Node) error {
	if dn.nextFree >= len(dn.children) {
		return fmt.Errorf("cannot append child %d to decision node on %s with only %d children: %w",
			dn.nextFree+1, dn.featureName, len(dn.children), ErrCapacityExceeded)
	}
	dn.children[dn.nextFree] = n
	if n != nil {
		n.setParent(dn, dn.nextFree)
	}
	dn.nextFree++
	return nil
}

/*
Child returns the child at the given index, or nil if the index is
outside the child slot range. The nil return for an out-of-range index
is a normal outcome, not an error: leaf enumeration relies on it to
detect node exhaustion.
*/
func (dn *DecisionNode) Child(index int) Node {
	if index < 0 || index >= len(dn.children) {
		return nil
	}
	return dn.children[index]
}

/*
ReplaceChild overwrites the child slot at the given index with the
given node, which may be nil, setting the node's parent back-reference
and node index. It returns an error wrapping ErrIndexOutOfRange if the
index does not address a slot.
*/
func (dn *DecisionNode) ReplaceChild(n Node, index int) error {
	if index < 0 || index >= len(dn.children) {
		return fmt.Errorf("cannot replace child %d of decision node on %s, child indexes go from 0 to %d: %w",
			index, dn.featureName, len(dn.children)-1, ErrIndexOutOfRange)
	}
	dn.children[index] = n
	if n != nil {
		n.setParent(dn, index)
	}
	return nil
}

/*
SelectChild reads the tested feature of the given vector and returns
the child the node's rule routes it to. For the multiway kinds the
feature code indexes the children directly; the dictionary guarantees
it is in range.
*/
func (dn *DecisionNode) SelectChild(v *feature.Vector) Node {
	switch dn.kind {
	case EqualsByte:
		if v.ByteValue(dn.featureIndex) == dn.byteValue {
			return dn.children[0]
		}
		return dn.children[1]
	case EqualsShort:
		if v.ShortValue(dn.featureIndex) == dn.shortValue {
			return dn.children[0]
		}
		return dn.children[1]
	case LessThanFloat:
		if v.ContinuousValue(dn.featureIndex) < dn.threshold {
			return dn.children[0]
		}
		return dn.children[1]
	case IndexByte:
		return dn.children[v.ByteValue(dn.featureIndex)]
	case IndexShort:
		return dn.children[v.ShortValue(dn.featureIndex)]
	}
	return nil
}

/*
Definition returns the human-readable definition of the decision the
node makes, as embedded in the Wagon serialization of the tree. The
string closes the paren pair its serialization opens.
*/
func (dn *DecisionNode) Definition() string {
	switch dn.kind {
	case EqualsByte:
		return fmt.Sprintf("%s is %d)", dn.featureName, dn.byteValue)
	case EqualsShort:
		return fmt.Sprintf("%s is %d)", dn.featureName, dn.shortValue)
	case LessThanFloat:
		return fmt.Sprintf("%s < %s)", dn.featureName, strconv.FormatFloat(float64(dn.threshold), 'g', -1, 32))
	case IndexByte:
		return fmt.Sprintf("%s isByteOf %d)", dn.featureName, len(dn.children))
	case IndexShort:
		return fmt.Sprintf("%s isShortOf %d)", dn.featureName, len(dn.children))
	}
	return ""
}

/*
NextLeaf returns the next leaf of the tree in left-to-right order, at
or after the child slot with the given index, backtracking through the
parent chain when the node is exhausted. It returns nil when no leaf
remains in the whole tree.

Starting at slot 0 of the root and repeatedly continuing from each
returned leaf's parent at the leaf's node index plus one visits every
leaf of the tree exactly once.
*/
func (dn *DecisionNode) NextLeaf(start int) *LeafNode {
	if start < 0 || start >= len(dn.children) {
		// this node is exhausted, continue on the parent with the
		// slot right of ours
		if dn.parent == nil {
			return nil
		}
		return dn.parent.NextLeaf(dn.nodeIndex + 1)
	}
	switch child := dn.children[start].(type) {
	case *LeafNode:
		return child
	case *DecisionNode:
		return child.NextLeaf(0)
	}
	// absent child slot, try the next sibling slot
	return dn.NextLeaf(start + 1)
}

/*
aggregate recomputes the cached data count of the node and every
decision node below it, post-order: absent children contribute 0, leaf
children their item count, decision children their freshly aggregated
count.
*/
func (dn *DecisionNode) aggregate() {
	dn.dataCount = 0
	for _, child := range dn.children {
		if child == nil {
			continue
		}
		if d, ok := child.(*DecisionNode); ok {
			d.aggregate()
		}
		dn.dataCount += child.DataCount()
	}
}

func (dn *DecisionNode) fillData(p *Payload, pos int) (int, error) {
	for _, child := range dn.children {
		if child == nil {
			continue
		}
		var err error
		pos, err = child.fillData(p, pos)
		if err != nil {
			return pos, err
		}
	}
	return pos, nil
}
