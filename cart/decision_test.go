package cart_test

import (
	"testing"

	"github.com/sdabuk/marytts/cart"
	"github.com/sdabuk/marytts/feature"
	"github.com/stretchr/testify/require"
)

func testDictionary(t *testing.T) *feature.Dictionary {
	t.Helper()
	vowel, err := feature.NewByteFeature("vowel_type", []string{"a", "e", "i", "o"})
	require.NoError(t, err)
	stressed, err := feature.NewByteFeature("stressed", []string{"0", "1"})
	require.NoError(t, err)
	phone, err := feature.NewShortFeature("phone_id", []string{"p", "t", "k", "s", "m", "n"})
	require.NoError(t, err)
	duration := feature.NewContinuousFeature("duration")
	d, err := feature.NewDictionary(vowel, stressed, phone, duration)
	require.NoError(t, err)
	return d
}

// testVector builds a vector over testDictionary's feature layout:
// vowel_type and stressed are byte features, phone_id a short one and
// duration a continuous one.
func testVector(vowel, stressed byte, phone uint16, duration float32) *feature.Vector {
	return feature.NewVector(0, []byte{vowel, stressed}, []uint16{phone}, []float32{duration})
}

func TestEqualsByteNodeSelectsChild(t *testing.T) {
	d := testDictionary(t)
	n, err := cart.NewEqualsByteNode(d, "vowel_type", "e")
	require.NoError(t, err)
	match := cart.NewUnitLeaf([]int{1})
	rest := cart.NewUnitLeaf([]int{2})
	require.NoError(t, n.AppendChild(match))
	require.NoError(t, n.AppendChild(rest))

	require.Equal(t, cart.Node(match), n.SelectChild(testVector(1, 0, 0, 0)))
	require.Equal(t, cart.Node(rest), n.SelectChild(testVector(2, 0, 0, 0)))
}

func TestEqualsByteNodeRejectsBadFeatures(t *testing.T) {
	d := testDictionary(t)
	_, err := cart.NewEqualsByteNode(d, "pitch", "e")
	require.Error(t, err)
	_, err = cart.NewEqualsByteNode(d, "vowel_type", "u")
	require.Error(t, err)
	_, err = cart.NewEqualsByteNode(d, "phone_id", "p")
	require.Error(t, err)
}

func TestEqualsShortNodeSelectsChild(t *testing.T) {
	d := testDictionary(t)
	n, err := cart.NewEqualsShortNode(d, "phone_id", "k")
	require.NoError(t, err)
	match := cart.NewUnitLeaf([]int{1})
	rest := cart.NewUnitLeaf([]int{2})
	require.NoError(t, n.AppendChild(match))
	require.NoError(t, n.AppendChild(rest))

	require.Equal(t, cart.Node(match), n.SelectChild(testVector(0, 0, 2, 0)))
	require.Equal(t, cart.Node(rest), n.SelectChild(testVector(0, 0, 3, 0)))
}

func TestLessThanNodeSelectsChild(t *testing.T) {
	d := testDictionary(t)
	n, err := cart.NewLessThanNode(d, "duration", 10.0)
	require.NoError(t, err)
	below := cart.NewUnitLeaf([]int{1, 2})
	atOrAbove := cart.NewUnitLeaf([]int{3})
	require.NoError(t, n.AppendChild(below))
	require.NoError(t, n.AppendChild(atOrAbove))

	require.Equal(t, cart.Node(below), n.SelectChild(testVector(0, 0, 0, 5.0)))
	// the threshold itself routes to child 1
	require.Equal(t, cart.Node(atOrAbove), n.SelectChild(testVector(0, 0, 0, 10.0)))
	require.Equal(t, cart.Node(atOrAbove), n.SelectChild(testVector(0, 0, 0, 10.5)))
}

func TestLessThanNodeRequiresContinuousFeature(t *testing.T) {
	d := testDictionary(t)
	_, err := cart.NewLessThanNode(d, "vowel_type", 1.0)
	require.Error(t, err)
}

func TestIndexByteNodeDispatchesByCode(t *testing.T) {
	d := testDictionary(t)
	n, err := cart.NewIndexByteNode(d, "vowel_type")
	require.NoError(t, err)
	require.Equal(t, 4, n.NumChildren())
	leaves := make([]*cart.LeafNode, 4)
	for i := range leaves {
		leaves[i] = cart.NewUnitLeaf([]int{i + 1})
		require.NoError(t, n.AppendChild(leaves[i]))
	}

	selected := n.SelectChild(testVector(2, 0, 0, 0))
	require.Equal(t, cart.Node(leaves[2]), selected)
	require.Equal(t, []int{3}, selected.(*cart.LeafNode).Units())
}

func TestIndexShortNodeDispatchesByCode(t *testing.T) {
	d := testDictionary(t)
	n, err := cart.NewIndexShortNode(d, "phone_id")
	require.NoError(t, err)
	require.Equal(t, 6, n.NumChildren())
	leaves := make([]*cart.LeafNode, 6)
	for i := range leaves {
		leaves[i] = cart.NewUnitLeaf([]int{i * 10})
		require.NoError(t, n.AppendChild(leaves[i]))
	}

	require.Equal(t, cart.Node(leaves[4]), n.SelectChild(testVector(0, 0, 4, 0)))
}

func TestIndexNodeConstructorsCheckFeatureKind(t *testing.T) {
	d := testDictionary(t)
	_, err := cart.NewIndexByteNode(d, "phone_id")
	require.Error(t, err)
	_, err = cart.NewIndexShortNode(d, "vowel_type")
	require.Error(t, err)
	_, err = cart.NewIndexByteNode(d, "duration")
	require.Error(t, err)
}

func TestIndexNodeConstructorsByFeatureIndex(t *testing.T) {
	d := testDictionary(t)
	vowelIndex, err := d.Index("vowel_type")
	require.NoError(t, err)
	n, err := cart.NewIndexByteNodeAt(d, vowelIndex)
	require.NoError(t, err)
	require.Equal(t, "vowel_type", n.FeatureName())
	require.Equal(t, vowelIndex, n.FeatureIndex())

	phoneIndex, err := d.Index("phone_id")
	require.NoError(t, err)
	sn, err := cart.NewIndexShortNodeAt(d, phoneIndex)
	require.NoError(t, err)
	require.Equal(t, 6, sn.NumChildren())

	_, err = cart.NewIndexByteNodeAt(d, 42)
	require.Error(t, err)
}

func TestAppendChildEnforcesCapacity(t *testing.T) {
	d := testDictionary(t)
	n, err := cart.NewEqualsByteNode(d, "vowel_type", "a")
	require.NoError(t, err)
	first := cart.NewUnitLeaf([]int{1})
	second := cart.NewUnitLeaf([]int{2})
	require.NoError(t, n.AppendChild(first))
	require.NoError(t, n.AppendChild(second))

	err = n.AppendChild(cart.NewUnitLeaf([]int{3}))
	require.ErrorIs(t, err, cart.ErrCapacityExceeded)

	// the accepted children are untouched by the failed append
	require.Equal(t, cart.Node(first), n.Child(0))
	require.Equal(t, cart.Node(second), n.Child(1))
}

func TestAppendChildAcceptsAbsentChildren(t *testing.T) {
	d := testDictionary(t)
	n, err := cart.NewEqualsByteNode(d, "vowel_type", "a")
	require.NoError(t, err)
	require.NoError(t, n.AppendChild(nil))
	require.NoError(t, n.AppendChild(cart.NewUnitLeaf([]int{1})))
	require.Nil(t, n.Child(0))
	require.NotNil(t, n.Child(1))
}

func TestChildToleratesOutOfRangeIndexes(t *testing.T) {
	d := testDictionary(t)
	n, err := cart.NewEqualsByteNode(d, "vowel_type", "a")
	require.NoError(t, err)
	require.Nil(t, n.Child(-1))
	require.Nil(t, n.Child(2))
}

func TestReplaceChild(t *testing.T) {
	d := testDictionary(t)
	n, err := cart.NewEqualsByteNode(d, "vowel_type", "a")
	require.NoError(t, err)
	require.NoError(t, n.AppendChild(cart.NewUnitLeaf([]int{1})))
	require.NoError(t, n.AppendChild(cart.NewUnitLeaf([]int{2})))

	replacement := cart.NewUnitLeaf([]int{7, 8})
	require.NoError(t, n.ReplaceChild(replacement, 1))
	require.Equal(t, cart.Node(replacement), n.Child(1))
	require.Same(t, n, replacement.Parent())
	require.Equal(t, 1, replacement.NodeIndex())

	require.ErrorIs(t, n.ReplaceChild(replacement, 2), cart.ErrIndexOutOfRange)
	require.ErrorIs(t, n.ReplaceChild(replacement, -1), cart.ErrIndexOutOfRange)
}

func TestDecisionNodeDefinitions(t *testing.T) {
	d := testDictionary(t)

	eb, err := cart.NewEqualsByteNode(d, "vowel_type", "i")
	require.NoError(t, err)
	require.Equal(t, "vowel_type is 2)", eb.Definition())

	es, err := cart.NewEqualsShortNode(d, "phone_id", "s")
	require.NoError(t, err)
	require.Equal(t, "phone_id is 3)", es.Definition())

	lt, err := cart.NewLessThanNode(d, "duration", 10.0)
	require.NoError(t, err)
	require.Equal(t, "duration < 10)", lt.Definition())

	lt2, err := cart.NewLessThanNode(d, "duration", 0.35)
	require.NoError(t, err)
	require.Equal(t, "duration < 0.35)", lt2.Definition())

	ib, err := cart.NewIndexByteNode(d, "vowel_type")
	require.NoError(t, err)
	require.Equal(t, "vowel_type isByteOf 4)", ib.Definition())

	is, err := cart.NewIndexShortNode(d, "phone_id")
	require.NoError(t, err)
	require.Equal(t, "phone_id isShortOf 6)", is.Definition())
}
