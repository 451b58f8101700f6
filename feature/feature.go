/*
Package feature provides the feature dictionary and feature vectors
consumed by classification trees: named features with a declared numeric
kind, a stable name-to-index mapping, and typed accessors over encoded
feature vectors.
*/
package feature

import "fmt"

/*
Kind identifies the numeric representation of a feature's values
in an encoded vector.
*/
type Kind int

const (
	// ByteKind is a discrete feature whose values are encoded as bytes.
	ByteKind Kind = iota
	// ShortKind is a discrete feature whose values are encoded as
	// 16-bit codes, for features with more values than a byte can hold.
	ShortKind
	// ContinuousKind is a feature with float values.
	ContinuousKind
)

func (k Kind) String() string {
	switch k {
	case ByteKind:
		return "byte"
	case ShortKind:
		return "short"
	case ContinuousKind:
		return "continuous"
	}
	return fmt.Sprintf("unknown kind %d", int(k))
}

/*
Feature represents a property of a speech unit that can be tested by a
classification tree.

Its Name method returns the name of the feature.

Its Kind method returns the numeric kind its values are encoded with.
*/
type Feature interface {
	Name() string
	Kind() Kind
}

/*
ByteFeature represents a discrete feature whose values are encoded
as byte codes. The code of a value is its position in the ordered
value list.
*/
type ByteFeature struct {
	name   string
	values []string
}

/*
ShortFeature represents a discrete feature whose values are encoded
as 16-bit codes. The code of a value is its position in the ordered
value list.
*/
type ShortFeature struct {
	name   string
	values []string
}

/*
ContinuousFeature represents a feature that takes float values.
*/
type ContinuousFeature struct {
	name string
}

/*
NewByteFeature takes a name string and an ordered slice of value strings
and returns a byte-valued discrete feature, or an error if the value
list does not fit in a byte code.
*/
func NewByteFeature(name string, values []string) (*ByteFeature, error) {
	if len(values) > 256 {
		return nil, fmt.Errorf("feature %s has %d values, too many for byte codes", name, len(values))
	}
	vs := make([]string, len(values))
	copy(vs, values)
	return &ByteFeature{name, vs}, nil
}

/*
NewShortFeature takes a name string and an ordered slice of value strings
and returns a short-valued discrete feature, or an error if the value
list does not fit in a 16-bit code.
*/
func NewShortFeature(name string, values []string) (*ShortFeature, error) {
	if len(values) > 65536 {
		return nil, fmt.Errorf("feature %s has %d values, too many for short codes", name, len(values))
	}
	vs := make([]string, len(values))
	copy(vs, values)
	return &ShortFeature{name, vs}, nil
}

/*
NewContinuousFeature takes a name string and returns a continuous
feature with the given name.
*/
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

// Name returns the name of the feature.
func (bf *ByteFeature) Name() string {
	return bf.name
}

// Kind returns ByteKind.
func (bf *ByteFeature) Kind() Kind {
	return ByteKind
}

/*
Values returns the ordered value strings of the feature. The byte code
of a value is its position in the returned slice.
*/
func (bf *ByteFeature) Values() []string {
	return bf.values
}

func (bf *ByteFeature) String() string {
	return bf.name
}

// Name returns the name of the feature.
func (sf *ShortFeature) Name() string {
	return sf.name
}

// Kind returns ShortKind.
func (sf *ShortFeature) Kind() Kind {
	return ShortKind
}

/*
Values returns the ordered value strings of the feature. The short code
of a value is its position in the returned slice.
*/
func (sf *ShortFeature) Values() []string {
	return sf.values
}

func (sf *ShortFeature) String() string {
	return sf.name
}

// Name returns the name of the feature.
func (cf *ContinuousFeature) Name() string {
	return cf.name
}

// Kind returns ContinuousKind.
func (cf *ContinuousFeature) Kind() Kind {
	return ContinuousKind
}

func (cf *ContinuousFeature) String() string {
	return cf.name
}
