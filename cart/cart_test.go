package cart_test

import (
	"testing"

	"github.com/sdabuk/marytts/cart"
	"github.com/sdabuk/marytts/feature"
	"github.com/stretchr/testify/require"
)

/*
testTree builds the tree

	duration < 10 ┬ vowel_type is e ┬ units 1 2
	              │                 └ units 3
	              └ units 4 5

over testDictionary and returns it along with its leaves in
left-to-right order.
*/
func testTree(t *testing.T) (*cart.CART, []*cart.LeafNode) {
	t.Helper()
	d := testDictionary(t)
	root, err := cart.NewLessThanNode(d, "duration", 10.0)
	require.NoError(t, err)
	inner, err := cart.NewEqualsByteNode(d, "vowel_type", "e")
	require.NoError(t, err)
	leaves := []*cart.LeafNode{
		cart.NewUnitLeaf([]int{1, 2}),
		cart.NewUnitLeaf([]int{3}),
		cart.NewUnitLeaf([]int{4, 5}),
	}
	require.NoError(t, inner.AppendChild(leaves[0]))
	require.NoError(t, inner.AppendChild(leaves[1]))
	require.NoError(t, root.AppendChild(inner))
	require.NoError(t, root.AppendChild(leaves[2]))
	return cart.New(root, d), leaves
}

func TestNewAggregatesDataCounts(t *testing.T) {
	tree, _ := testTree(t)
	require.Equal(t, 5, tree.DataCount())

	root := tree.Root().(*cart.DecisionNode)
	require.Equal(t, 5, root.DataCount())
	inner := root.Child(0).(*cart.DecisionNode)
	require.Equal(t, 3, inner.DataCount())
}

func TestNewMarksRoot(t *testing.T) {
	tree, _ := testTree(t)
	require.True(t, tree.Root().IsRoot())
	require.Nil(t, tree.Root().Parent())
	inner := tree.Root().(*cart.DecisionNode).Child(0)
	require.False(t, inner.IsRoot())
	require.Same(t, tree.Root(), inner.Parent())
}

func TestAggregateSkipsAbsentChildren(t *testing.T) {
	d := testDictionary(t)
	root, err := cart.NewIndexByteNode(d, "vowel_type")
	require.NoError(t, err)
	require.NoError(t, root.AppendChild(cart.NewUnitLeaf([]int{1})))
	require.NoError(t, root.AppendChild(nil))
	require.NoError(t, root.AppendChild(cart.NewUnitLeaf([]int{2, 3})))
	require.NoError(t, root.AppendChild(nil))

	tree := cart.New(root, d)
	require.Equal(t, 3, tree.DataCount())
}

func TestClassify(t *testing.T) {
	tree, leaves := testTree(t)

	// short vowel e goes through the inner node's match branch
	leaf, err := tree.Classify(testVector(1, 0, 0, 5.0))
	require.NoError(t, err)
	require.Same(t, leaves[0], leaf)

	// short vowel other than e
	leaf, err = tree.Classify(testVector(2, 0, 0, 5.0))
	require.NoError(t, err)
	require.Same(t, leaves[1], leaf)

	// the threshold itself routes away from the short branch
	leaf, err = tree.Classify(testVector(1, 0, 0, 10.0))
	require.NoError(t, err)
	require.Same(t, leaves[2], leaf)
}

func TestClassifyAbsentChildIsAnError(t *testing.T) {
	d := testDictionary(t)
	root, err := cart.NewEqualsByteNode(d, "vowel_type", "a")
	require.NoError(t, err)
	require.NoError(t, root.AppendChild(cart.NewUnitLeaf([]int{1})))
	require.NoError(t, root.AppendChild(nil))
	tree := cart.New(root, d)

	_, err = tree.Classify(testVector(3, 0, 0, 0))
	require.ErrorIs(t, err, cart.ErrNoLeaf)
}

func TestLeavesEnumeratesInOrder(t *testing.T) {
	tree, leaves := testTree(t)
	got := tree.Leaves()
	require.Len(t, got, len(leaves))
	for i, l := range leaves {
		require.Same(t, l, got[i])
	}
}

func TestLeavesSkipsAbsentChildren(t *testing.T) {
	d := testDictionary(t)
	root, err := cart.NewIndexByteNode(d, "vowel_type")
	require.NoError(t, err)
	first := cart.NewUnitLeaf([]int{1})
	second := cart.NewUnitLeaf([]int{2})
	require.NoError(t, root.AppendChild(nil))
	require.NoError(t, root.AppendChild(first))
	require.NoError(t, root.AppendChild(nil))
	require.NoError(t, root.AppendChild(second))
	tree := cart.New(root, d)

	got := tree.Leaves()
	require.Len(t, got, 2)
	require.Same(t, first, got[0])
	require.Same(t, second, got[1])
}

func TestLeavesOnLeafRoot(t *testing.T) {
	d := testDictionary(t)
	leaf := cart.NewUnitLeaf([]int{1, 2})
	tree := cart.New(leaf, d)
	require.Equal(t, 2, tree.DataCount())

	got := tree.Leaves()
	require.Len(t, got, 1)
	require.Same(t, leaf, got[0])
}

func TestCollectDataConcatenatesLeafPayloads(t *testing.T) {
	tree, _ := testTree(t)
	p, err := tree.CollectData()
	require.NoError(t, err)
	require.Equal(t, tree.DataCount(), p.Len())
	require.Equal(t, []int{1, 2, 3, 4, 5}, p.Units)
	require.Nil(t, p.Vectors)
}

func TestCollectDataOnSubtree(t *testing.T) {
	tree, _ := testTree(t)
	inner := tree.Root().(*cart.DecisionNode).Child(0)
	p, err := cart.CollectData(inner)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, p.Units)
}

func TestCollectDataOnVectorLeaves(t *testing.T) {
	d := testDictionary(t)
	v1 := feature.NewVector(1, []byte{0, 0}, []uint16{0}, []float32{1})
	v2 := feature.NewVector(2, []byte{1, 0}, []uint16{1}, []float32{2})
	root, err := cart.NewEqualsByteNode(d, "vowel_type", "a")
	require.NoError(t, err)
	require.NoError(t, root.AppendChild(cart.NewVectorLeaf([]*feature.Vector{v1})))
	require.NoError(t, root.AppendChild(cart.NewVectorLeaf([]*feature.Vector{v2})))
	tree := cart.New(root, d)

	p, err := tree.CollectData()
	require.NoError(t, err)
	require.Nil(t, p.Units)
	require.Len(t, p.Vectors, 2)
	require.Same(t, v1, p.Vectors[0])
	require.Same(t, v2, p.Vectors[1])
}

func TestCollectDataRejectsMixedLeafKinds(t *testing.T) {
	d := testDictionary(t)
	root, err := cart.NewEqualsByteNode(d, "vowel_type", "a")
	require.NoError(t, err)
	require.NoError(t, root.AppendChild(cart.NewUnitLeaf([]int{1})))
	v := feature.NewVector(2, []byte{0, 0}, []uint16{0}, []float32{0})
	require.NoError(t, root.AppendChild(cart.NewVectorLeaf([]*feature.Vector{v})))
	tree := cart.New(root, d)

	_, err = tree.CollectData()
	require.ErrorIs(t, err, cart.ErrMixedLeafKinds)
}

func TestCollectDataOnEmptyTree(t *testing.T) {
	d := testDictionary(t)
	root, err := cart.NewEqualsByteNode(d, "vowel_type", "a")
	require.NoError(t, err)
	require.NoError(t, root.AppendChild(nil))
	require.NoError(t, root.AppendChild(nil))
	tree := cart.New(root, d)

	p, err := tree.CollectData()
	require.NoError(t, err)
	require.Nil(t, p)
}
