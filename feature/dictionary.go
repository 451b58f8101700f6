package feature

import (
	"fmt"
	"strconv"
	"strings"
)

/*
Dictionary holds the closed set of features a tree and its vectors are
defined over, and assigns every feature a stable global index.

Features are ordered byte-valued first, then short-valued, then
continuous, and the global index of a feature is its position in that
order. Encoded vectors lay out their values in the same order, so the
same index addresses a feature here and its value in a Vector.
*/
type Dictionary struct {
	features      []Feature
	indexes       map[string]int
	numByte       int
	numShort      int
	numContinuous int
}

/*
NewDictionary takes a slice of features and returns a Dictionary over
them, or an error if two features share a name.

The given order is preserved within each kind, but kinds are reordered
byte, short, continuous to match the vector encoding layout.
*/
func NewDictionary(features ...Feature) (*Dictionary, error) {
	d := &Dictionary{indexes: make(map[string]int)}
	for _, f := range features {
		if f.Kind() == ByteKind {
			d.features = append(d.features, f)
		}
	}
	d.numByte = len(d.features)
	for _, f := range features {
		if f.Kind() == ShortKind {
			d.features = append(d.features, f)
		}
	}
	d.numShort = len(d.features) - d.numByte
	for _, f := range features {
		if f.Kind() == ContinuousKind {
			d.features = append(d.features, f)
		}
	}
	d.numContinuous = len(d.features) - d.numByte - d.numShort
	for i, f := range d.features {
		if _, taken := d.indexes[f.Name()]; taken {
			return nil, fmt.Errorf("duplicate feature name %s", f.Name())
		}
		d.indexes[f.Name()] = i
	}
	return d, nil
}

// NumFeatures returns the total number of features in the dictionary.
func (d *Dictionary) NumFeatures() int {
	return len(d.features)
}

// NumByteFeatures returns the number of byte-valued features.
func (d *Dictionary) NumByteFeatures() int {
	return d.numByte
}

// NumShortFeatures returns the number of short-valued features.
func (d *Dictionary) NumShortFeatures() int {
	return d.numShort
}

// NumContinuousFeatures returns the number of continuous features.
func (d *Dictionary) NumContinuousFeatures() int {
	return d.numContinuous
}

/*
Index takes a feature name and returns its global index, or an error if
the dictionary does not define the feature.
*/
func (d *Dictionary) Index(name string) (int, error) {
	i, ok := d.indexes[name]
	if !ok {
		return 0, fmt.Errorf("feature %s not defined in dictionary", name)
	}
	return i, nil
}

/*
Name takes a global feature index and returns the name of the feature at
that index, or an error if the index is out of range.
*/
func (d *Dictionary) Name(index int) (string, error) {
	f, err := d.FeatureAt(index)
	if err != nil {
		return "", err
	}
	return f.Name(), nil
}

/*
FeatureAt takes a global feature index and returns the feature at that
index, or an error if the index is out of range.
*/
func (d *Dictionary) FeatureAt(index int) (Feature, error) {
	if index < 0 || index >= len(d.features) {
		return nil, fmt.Errorf("feature index %d out of range [0, %d)", index, len(d.features))
	}
	return d.features[index], nil
}

/*
ByName takes a feature name and returns the feature defined under it, or
an error if the dictionary does not define the feature.
*/
func (d *Dictionary) ByName(name string) (Feature, error) {
	i, err := d.Index(name)
	if err != nil {
		return nil, err
	}
	return d.features[i], nil
}

/*
NumValues takes the name of a discrete feature and returns the number of
distinct codes its values encode to, or an error if the feature is not
defined or is continuous. The returned count is the child count of a
multiway decision on the feature.
*/
func (d *Dictionary) NumValues(name string) (int, error) {
	f, err := d.ByName(name)
	if err != nil {
		return 0, err
	}
	switch ft := f.(type) {
	case *ByteFeature:
		return len(ft.Values()), nil
	case *ShortFeature:
		return len(ft.Values()), nil
	}
	return 0, fmt.Errorf("feature %s is continuous and has no value codes", name)
}

/*
EncodeByte takes the name of a byte-valued feature and one of its value
strings and returns the byte code of the value, or an error if the
feature is not byte-valued or the value is not among its declared ones.
*/
func (d *Dictionary) EncodeByte(name, value string) (byte, error) {
	f, err := d.ByName(name)
	if err != nil {
		return 0, err
	}
	bf, ok := f.(*ByteFeature)
	if !ok {
		return 0, fmt.Errorf("feature %s is not byte-valued", name)
	}
	for i, v := range bf.Values() {
		if v == value {
			return byte(i), nil
		}
	}
	return 0, fmt.Errorf("feature %s has no value %s", name, value)
}

/*
EncodeShort takes the name of a short-valued feature and one of its
value strings and returns the 16-bit code of the value, or an error if
the feature is not short-valued or the value is not among its declared
ones.
*/
func (d *Dictionary) EncodeShort(name, value string) (uint16, error) {
	f, err := d.ByName(name)
	if err != nil {
		return 0, err
	}
	sf, ok := f.(*ShortFeature)
	if !ok {
		return 0, fmt.Errorf("feature %s is not short-valued", name)
	}
	for i, v := range sf.Values() {
		if v == value {
			return uint16(i), nil
		}
	}
	return 0, fmt.Errorf("feature %s has no value %s", name, value)
}

/*
DecodeValue takes a global feature index and a code and returns the
value string the code stands for, or an error if the index is out of
range, the feature is continuous or the code is out of range.
*/
func (d *Dictionary) DecodeValue(index, code int) (string, error) {
	f, err := d.FeatureAt(index)
	if err != nil {
		return "", err
	}
	var values []string
	switch ft := f.(type) {
	case *ByteFeature:
		values = ft.Values()
	case *ShortFeature:
		values = ft.Values()
	default:
		return "", fmt.Errorf("feature %s is continuous and has no value codes", f.Name())
	}
	if code < 0 || code >= len(values) {
		return "", fmt.Errorf("feature %s has no code %d", f.Name(), code)
	}
	return values[code], nil
}

/*
ParseVector takes a unit index and a line with one whitespace-separated
value per feature, in dictionary order, and returns the encoded Vector,
or an error if the number of values does not match the dictionary or a
value cannot be encoded.
*/
func (d *Dictionary) ParseVector(unitIndex int, line string) (*Vector, error) {
	tokens := strings.Fields(line)
	if len(tokens) != len(d.features) {
		return nil, fmt.Errorf("parsing vector for unit %d: got %d values, dictionary defines %d features", unitIndex, len(tokens), len(d.features))
	}
	bytes := make([]byte, 0, d.numByte)
	shorts := make([]uint16, 0, d.numShort)
	continuous := make([]float32, 0, d.numContinuous)
	for i, f := range d.features {
		switch f.Kind() {
		case ByteKind:
			code, err := d.EncodeByte(f.Name(), tokens[i])
			if err != nil {
				return nil, fmt.Errorf("parsing vector for unit %d: %v", unitIndex, err)
			}
			bytes = append(bytes, code)
		case ShortKind:
			code, err := d.EncodeShort(f.Name(), tokens[i])
			if err != nil {
				return nil, fmt.Errorf("parsing vector for unit %d: %v", unitIndex, err)
			}
			shorts = append(shorts, code)
		case ContinuousKind:
			v, err := strconv.ParseFloat(tokens[i], 32)
			if err != nil {
				return nil, fmt.Errorf("parsing vector for unit %d: feature %s: %v", unitIndex, f.Name(), err)
			}
			continuous = append(continuous, float32(v))
		}
	}
	return NewVector(unitIndex, bytes, shorts, continuous), nil
}
