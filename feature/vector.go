package feature

import "fmt"

/*
Vector is the encoded feature vector of one speech unit: its byte,
short and continuous feature values laid out in dictionary order, plus
the index of the unit it describes.

All accessors take the global feature index assigned by the Dictionary
the vector was encoded against; the vector subtracts the section
offsets itself. Vectors are immutable once built.
*/
type Vector struct {
	unitIndex  int
	bytes      []byte
	shorts     []uint16
	continuous []float32
}

/*
NewVector takes a unit index and the three encoded value sections in
dictionary order and returns a Vector over copies of them.
*/
func NewVector(unitIndex int, bytes []byte, shorts []uint16, continuous []float32) *Vector {
	bs := make([]byte, len(bytes))
	copy(bs, bytes)
	ss := make([]uint16, len(shorts))
	copy(ss, shorts)
	cs := make([]float32, len(continuous))
	copy(cs, continuous)
	return &Vector{unitIndex, bs, ss, cs}
}

// UnitIndex returns the index of the unit the vector describes.
func (v *Vector) UnitIndex() int {
	return v.unitIndex
}

// NumByteValues returns the number of byte feature values in the vector.
func (v *Vector) NumByteValues() int {
	return len(v.bytes)
}

// NumShortValues returns the number of short feature values in the vector.
func (v *Vector) NumShortValues() int {
	return len(v.shorts)
}

// NumContinuousValues returns the number of continuous feature values
// in the vector.
func (v *Vector) NumContinuousValues() int {
	return len(v.continuous)
}

/*
ByteValue takes the global index of a byte-valued feature and returns
the byte code the vector holds for it. It panics if the index does not
address a byte feature of the vector; indexes come from the dictionary
the vector was encoded against, so a mismatch is a programming error.
*/
func (v *Vector) ByteValue(index int) byte {
	if index < 0 || index >= len(v.bytes) {
		panic(fmt.Sprintf("feature index %d does not address a byte value of a %d-byte vector", index, len(v.bytes)))
	}
	return v.bytes[index]
}

/*
ShortValue takes the global index of a short-valued feature and returns
the 16-bit code the vector holds for it. It panics if the index does
not address a short feature of the vector.
*/
func (v *Vector) ShortValue(index int) uint16 {
	i := index - len(v.bytes)
	if i < 0 || i >= len(v.shorts) {
		panic(fmt.Sprintf("feature index %d does not address a short value of the vector", index))
	}
	return v.shorts[i]
}

/*
ContinuousValue takes the global index of a continuous feature and
returns the float value the vector holds for it. It panics if the index
does not address a continuous feature of the vector.
*/
func (v *Vector) ContinuousValue(index int) float32 {
	i := index - len(v.bytes) - len(v.shorts)
	if i < 0 || i >= len(v.continuous) {
		panic(fmt.Sprintf("feature index %d does not address a continuous value of the vector", index))
	}
	return v.continuous[i]
}

func (v *Vector) String() string {
	return fmt.Sprintf("unit %d %v %v %v", v.unitIndex, v.bytes, v.shorts, v.continuous)
}
