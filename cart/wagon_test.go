package cart_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/sdabuk/marytts/cart"
	"github.com/stretchr/testify/require"
)

func wagonText(t *testing.T, tree *cart.CART) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, tree.WriteWagon(&sb))
	return sb.String()
}

func requireBalanced(t *testing.T, text string) {
	t.Helper()
	depth := 0
	for _, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
		require.GreaterOrEqual(t, depth, 0, "unbalanced wagon text: %s", text)
	}
	require.Equal(t, 0, depth, "unbalanced wagon text: %s", text)
}

func TestWriteWagon(t *testing.T) {
	tree, _ := testTree(t)
	text := wagonText(t, tree)
	require.Equal(t, "((duration < 10) ((vowel_type is 1) ((1 2) 0) ((3) 0)) ((4 5) 0))", text)
	requireBalanced(t, text)
}

func TestWriteWagonIsByteStable(t *testing.T) {
	first, _ := testTree(t)
	second, _ := testTree(t)
	require.Equal(t, wagonText(t, first), wagonText(t, second))
}

func TestWriteWagonAppendsExtensionAfterFinalParen(t *testing.T) {
	tree, _ := testTree(t)
	var sb strings.Builder
	require.NoError(t, tree.Root().WriteWagon(&sb, ";; end"))
	text := sb.String()
	require.Equal(t, wagonText(t, tree)+";; end", text)
	require.True(t, strings.HasSuffix(text, ");; end"))
}

func TestWriteWagonAbsentLastChild(t *testing.T) {
	d := testDictionary(t)
	root, err := cart.NewEqualsByteNode(d, "vowel_type", "e")
	require.NoError(t, err)
	require.NoError(t, root.AppendChild(cart.NewUnitLeaf([]int{7})))
	require.NoError(t, root.AppendChild(nil))
	tree := cart.New(root, d)

	text := wagonText(t, tree)
	require.Equal(t, "((vowel_type is 1) ((7) 0) ((() 0)))", text)
	requireBalanced(t, text)
}

func TestWriteWagonAbsentInnerChildren(t *testing.T) {
	d := testDictionary(t)
	root, err := cart.NewIndexByteNode(d, "vowel_type")
	require.NoError(t, err)
	require.NoError(t, root.AppendChild(nil))
	require.NoError(t, root.AppendChild(cart.NewUnitLeaf([]int{1})))
	require.NoError(t, root.AppendChild(nil))
	require.NoError(t, root.AppendChild(cart.NewUnitLeaf([]int{2})))
	tree := cart.New(root, d)

	text := wagonText(t, tree)
	require.Equal(t, "((vowel_type isByteOf 4) ((() 0)) ((1) 0) ((() 0)) ((2) 0))", text)
	requireBalanced(t, text)
}

func TestWriteWagonLeafRoot(t *testing.T) {
	d := testDictionary(t)
	tree := cart.New(cart.NewUnitLeaf([]int{1, 2}), d)
	require.Equal(t, "((1 2) 0)", wagonText(t, tree))

	empty := cart.New(cart.NewUnitLeaf(nil), d)
	text := wagonText(t, empty)
	require.Equal(t, "(() 0)", text)
	requireBalanced(t, text)
}

func TestWriteWagonWithoutRoot(t *testing.T) {
	tree := cart.New(nil, testDictionary(t))
	var sb strings.Builder
	require.Error(t, tree.WriteWagon(&sb))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriteWagonReportsWriteFaults(t *testing.T) {
	tree, _ := testTree(t)
	require.Error(t, tree.WriteWagon(failingWriter{}))
}

func TestStringMatchesWriteWagon(t *testing.T) {
	tree, _ := testTree(t)
	require.Equal(t, wagonText(t, tree), tree.String())
}
