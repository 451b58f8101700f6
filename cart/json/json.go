/*
Package json provides a codec that serializes classification trees to
JSON documents and parses them back, resolving feature names and value
codes against a feature dictionary.
*/
package json

import (
	"encoding/json"
	"fmt"

	"github.com/sdabuk/marytts/cart"
	"github.com/sdabuk/marytts/feature"
)

const (
	kindEqualsByte  = "equalsByte"
	kindEqualsShort = "equalsShort"
	kindLessThan    = "lessThan"
	kindIndexByte   = "indexByte"
	kindIndexShort  = "indexShort"
	kindUnits       = "units"
	kindVectors     = "vectors"
)

/*
Codec encodes trees into slices of bytes with JSON documents and
decodes them back to trees. Decision-node feature names and value
codes are resolved against the dictionary the codec is built with, so
a tree decodes against the same dictionary it was encoded against.
*/
type Codec struct {
	dictionary *feature.Dictionary
}

// NewCodec takes a feature dictionary and returns a Codec resolving
// features against it.
func NewCodec(d *feature.Dictionary) *Codec {
	return &Codec{d}
}

type jsonTree struct {
	Root *jsonNode `json:"root"`
}

type jsonNode struct {
	Kind      string        `json:"kind"`
	Feature   string        `json:"feature,omitempty"`
	Value     string        `json:"value,omitempty"`
	Threshold float32       `json:"threshold,omitempty"`
	Children  []*jsonNode   `json:"children,omitempty"`
	Units     []int         `json:"units,omitempty"`
	Vectors   []*jsonVector `json:"vectors,omitempty"`
}

type jsonVector struct {
	Unit       int       `json:"unit"`
	Bytes      []int     `json:"bytes"`
	Shorts     []int     `json:"shorts"`
	Continuous []float32 `json:"continuous"`
}

/*
Encode takes a tree and returns a slice of bytes with the tree encoded
as a JSON document, or an error if a node cannot be encoded.
*/
func (c *Codec) Encode(t *cart.CART) ([]byte, error) {
	root, err := c.encodeNode(t.Root())
	if err != nil {
		return nil, fmt.Errorf("encoding tree: %v", err)
	}
	return json.Marshal(&jsonTree{Root: root})
}

/*
Decode takes a slice of bytes with a JSON document encoding a tree and
returns the tree rebuilt against the codec's dictionary, with its
aggregation pass already run, or an error if the document cannot be
parsed or refers to features or values the dictionary does not define.
*/
func (c *Codec) Decode(data []byte) (*cart.CART, error) {
	jt := &jsonTree{}
	if err := json.Unmarshal(data, jt); err != nil {
		return nil, fmt.Errorf("decoding tree: %v", err)
	}
	if jt.Root == nil {
		return nil, fmt.Errorf("decoding tree: no root node available")
	}
	root, err := c.decodeNode(jt.Root)
	if err != nil {
		return nil, fmt.Errorf("decoding tree: %v", err)
	}
	return cart.New(root, c.dictionary), nil
}

func (c *Codec) encodeNode(n cart.Node) (*jsonNode, error) {
	switch node := n.(type) {
	case *cart.LeafNode:
		return c.encodeLeaf(node), nil
	case *cart.DecisionNode:
		return c.encodeDecision(node)
	}
	return nil, fmt.Errorf("cannot encode node of type %T", n)
}

func (c *Codec) encodeLeaf(l *cart.LeafNode) *jsonNode {
	if l.Kind() == cart.UnitIndexLeaf {
		units := l.Units()
		if units == nil {
			units = []int{}
		}
		return &jsonNode{Kind: kindUnits, Units: units}
	}
	vectors := []*jsonVector{}
	for _, v := range l.Vectors() {
		vectors = append(vectors, encodeVector(v))
	}
	return &jsonNode{Kind: kindVectors, Vectors: vectors}
}

func (c *Codec) encodeDecision(dn *cart.DecisionNode) (*jsonNode, error) {
	jn := &jsonNode{Feature: dn.FeatureName()}
	switch dn.Kind() {
	case cart.EqualsByte:
		jn.Kind = kindEqualsByte
		value, err := c.dictionary.DecodeValue(dn.FeatureIndex(), int(dn.ByteValue()))
		if err != nil {
			return nil, err
		}
		jn.Value = value
	case cart.EqualsShort:
		jn.Kind = kindEqualsShort
		value, err := c.dictionary.DecodeValue(dn.FeatureIndex(), int(dn.ShortValue()))
		if err != nil {
			return nil, err
		}
		jn.Value = value
	case cart.LessThanFloat:
		jn.Kind = kindLessThan
		jn.Threshold = dn.Threshold()
	case cart.IndexByte:
		jn.Kind = kindIndexByte
	case cart.IndexShort:
		jn.Kind = kindIndexShort
	}
	jn.Children = make([]*jsonNode, dn.NumChildren())
	for i := 0; i < dn.NumChildren(); i++ {
		child := dn.Child(i)
		if child == nil {
			continue
		}
		jc, err := c.encodeNode(child)
		if err != nil {
			return nil, err
		}
		jn.Children[i] = jc
	}
	return jn, nil
}

func (c *Codec) decodeNode(jn *jsonNode) (cart.Node, error) {
	switch jn.Kind {
	case kindUnits:
		return cart.NewUnitLeaf(jn.Units), nil
	case kindVectors:
		vectors := make([]*feature.Vector, 0, len(jn.Vectors))
		for _, jv := range jn.Vectors {
			vectors = append(vectors, decodeVector(jv))
		}
		return cart.NewVectorLeaf(vectors), nil
	}
	dn, err := c.decodeDecision(jn)
	if err != nil {
		return nil, err
	}
	if len(jn.Children) != dn.NumChildren() {
		return nil, fmt.Errorf("decision node on %s expects %d children, got %d", jn.Feature, dn.NumChildren(), len(jn.Children))
	}
	for _, jc := range jn.Children {
		if jc == nil {
			if err := dn.AppendChild(nil); err != nil {
				return nil, err
			}
			continue
		}
		child, err := c.decodeNode(jc)
		if err != nil {
			return nil, err
		}
		if err := dn.AppendChild(child); err != nil {
			return nil, err
		}
	}
	return dn, nil
}

func (c *Codec) decodeDecision(jn *jsonNode) (*cart.DecisionNode, error) {
	switch jn.Kind {
	case kindEqualsByte:
		return cart.NewEqualsByteNode(c.dictionary, jn.Feature, jn.Value)
	case kindEqualsShort:
		return cart.NewEqualsShortNode(c.dictionary, jn.Feature, jn.Value)
	case kindLessThan:
		return cart.NewLessThanNode(c.dictionary, jn.Feature, jn.Threshold)
	case kindIndexByte:
		return cart.NewIndexByteNode(c.dictionary, jn.Feature)
	case kindIndexShort:
		return cart.NewIndexShortNode(c.dictionary, jn.Feature)
	}
	return nil, fmt.Errorf("unknown node kind %q", jn.Kind)
}

func encodeVector(v *feature.Vector) *jsonVector {
	jv := &jsonVector{
		Unit:       v.UnitIndex(),
		Bytes:      []int{},
		Shorts:     []int{},
		Continuous: []float32{},
	}
	for i := 0; i < v.NumByteValues(); i++ {
		jv.Bytes = append(jv.Bytes, int(v.ByteValue(i)))
	}
	for i := 0; i < v.NumShortValues(); i++ {
		jv.Shorts = append(jv.Shorts, int(v.ShortValue(v.NumByteValues()+i)))
	}
	for i := 0; i < v.NumContinuousValues(); i++ {
		jv.Continuous = append(jv.Continuous, v.ContinuousValue(v.NumByteValues()+v.NumShortValues()+i))
	}
	return jv
}

func decodeVector(jv *jsonVector) *feature.Vector {
	bytes := make([]byte, len(jv.Bytes))
	for i, b := range jv.Bytes {
		bytes[i] = byte(b)
	}
	shorts := make([]uint16, len(jv.Shorts))
	for i, s := range jv.Shorts {
		shorts[i] = uint16(s)
	}
	return feature.NewVector(jv.Unit, bytes, shorts, jv.Continuous)
}
