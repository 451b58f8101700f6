/*
Package featfile reads and writes binary unit feature files: the
feature dictionary layout followed by one fixed-width record with the
encoded feature vector of every unit of a voice database.

Files are written sequentially and read through a memory mapping, so
opening a file does not load its records; vectors are decoded on
demand and kept in a cache.
*/
package featfile

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/edsrzf/mmap-go"
	"github.com/sdabuk/marytts/feature"
	"github.com/sdabuk/marytts/unitdata"
)

const (
	magic   uint32 = 0x4D594654
	version uint32 = 1

	// maxCachedVectors bounds the number of decoded vectors the
	// reader keeps in memory.
	maxCachedVectors = 1 << 16
)

/*
Write takes a feature dictionary and the vectors of every unit, in
unit order, and writes the binary feature file onto the given writer.

It enforces the consistency between the dictionary and the vectors:
every vector must have exactly the dictionary's number of byte, short
and continuous values, and its unit index must equal its position in
the slice. A violation aborts the write with an error.
*/
func Write(w io.Writer, d *feature.Dictionary, vectors []*feature.Vector) error {
	if err := writeHeader(w, d, len(vectors)); err != nil {
		return err
	}
	for i, v := range vectors {
		if v.UnitIndex() != i {
			return fmt.Errorf("inconsistency between vectors and unit order: vector at position %d describes unit %d", i, v.UnitIndex())
		}
		if v.NumByteValues() != d.NumByteFeatures() ||
			v.NumShortValues() != d.NumShortFeatures() ||
			v.NumContinuousValues() != d.NumContinuousFeatures() {
			return fmt.Errorf("vector of unit %d does not match the dictionary layout", i)
		}
		if err := writeVector(w, d, v); err != nil {
			return fmt.Errorf("writing vector of unit %d: %v", i, err)
		}
	}
	return nil
}

/*
WriteFile writes the binary feature file for the given dictionary and
vectors at the given path, then reopens it and verifies that it
declares the right number of units. Any write or verification fault
is returned as an error.
*/
func WriteFile(path string, d *feature.Dictionary, vectors []*feature.Vector) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating feature file %s: %v", path, err)
	}
	bw := bufio.NewWriter(f)
	err = Write(bw, d, vectors)
	if err == nil {
		err = bw.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing feature file %s: %v", path, err)
	}
	r, err := Open(path)
	if err != nil {
		return fmt.Errorf("verifying feature file %s: %v", path, err)
	}
	defer r.Close(context.Background())
	if r.NumUnits() != len(vectors) {
		return fmt.Errorf("verifying feature file %s: read %d units, wrote %d", path, r.NumUnits(), len(vectors))
	}
	return nil
}

/*
Reader provides access to the vectors of a binary unit feature file
through a memory mapping of the file. It implements unitdata.Dataset.
Decoded vectors are cached, so repeated access to the same unit does
not decode its record again.
*/
type Reader struct {
	f           *os.File
	m           mmap.MMap
	dictionary  *feature.Dictionary
	numUnits    int
	dataOffset  int
	recordWidth int
	cache       *ristretto.Cache[int, *feature.Vector]
}

/*
Open memory-maps the binary feature file at the given path, parses its
header and returns a Reader over its records, or an error if the file
cannot be mapped or does not carry a valid header.
*/
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening feature file %s: %v", path, err)
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mapping feature file %s: %v", path, err)
	}
	r := &Reader{f: f, m: m}
	if err := r.parseHeader(); err != nil {
		m.Unmap()
		f.Close()
		return nil, fmt.Errorf("parsing feature file %s: %v", path, err)
	}
	r.cache, err = ristretto.NewCache(&ristretto.Config[int, *feature.Vector]{
		NumCounters: 10 * maxCachedVectors,
		MaxCost:     maxCachedVectors,
		BufferItems: 64,
	})
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, fmt.Errorf("opening feature file %s: building vector cache: %v", path, err)
	}
	return r, nil
}

// Dictionary returns the feature dictionary the file was written with.
func (r *Reader) Dictionary() *feature.Dictionary {
	return r.dictionary
}

// NumUnits returns the number of unit records the file declares.
func (r *Reader) NumUnits() int {
	return r.numUnits
}

// Count returns the number of unit records the file declares.
func (r *Reader) Count(ctx context.Context) (int, error) {
	return r.numUnits, nil
}

/*
VectorAt takes a unit index and returns the vector decoded from the
unit's record, or an error if the index is out of range or the record
is inconsistent with the file's unit order.
*/
func (r *Reader) VectorAt(ctx context.Context, unitIndex int) (*feature.Vector, error) {
	if unitIndex < 0 || unitIndex >= r.numUnits {
		return nil, fmt.Errorf("unit index %d out of range [0, %d)", unitIndex, r.numUnits)
	}
	if v, ok := r.cache.Get(unitIndex); ok {
		return v, nil
	}
	v, err := r.decodeRecord(unitIndex)
	if err != nil {
		return nil, err
	}
	r.cache.Set(unitIndex, v, 1)
	return v, nil
}

// Vectors returns every vector of the file in unit order or an error.
func (r *Reader) Vectors(ctx context.Context) ([]*feature.Vector, error) {
	vectors := make([]*feature.Vector, 0, r.numUnits)
	for i := 0; i < r.numUnits; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := r.VectorAt(ctx, i)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

// Close unmaps and closes the feature file and drops the vector cache.
func (r *Reader) Close(ctx context.Context) error {
	r.cache.Close()
	err := r.m.Unmap()
	if closeErr := r.f.Close(); err == nil {
		err = closeErr
	}
	return err
}

func writeHeader(w io.Writer, d *feature.Dictionary, numUnits int) error {
	for _, v := range []uint32{magic, version} {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	byteFeatures := []feature.Feature{}
	shortFeatures := []feature.Feature{}
	continuousFeatures := []feature.Feature{}
	for i := 0; i < d.NumFeatures(); i++ {
		f, err := d.FeatureAt(i)
		if err != nil {
			return err
		}
		switch f.Kind() {
		case feature.ByteKind:
			byteFeatures = append(byteFeatures, f)
		case feature.ShortKind:
			shortFeatures = append(shortFeatures, f)
		case feature.ContinuousKind:
			continuousFeatures = append(continuousFeatures, f)
		}
	}
	for _, fs := range [][]feature.Feature{byteFeatures, shortFeatures, continuousFeatures} {
		if err := binary.Write(w, binary.BigEndian, uint32(len(fs))); err != nil {
			return err
		}
		for _, f := range fs {
			if err := writeString(w, f.Name()); err != nil {
				return err
			}
			values := featureValues(f)
			if values == nil {
				continue
			}
			if err := binary.Write(w, binary.BigEndian, uint32(len(values))); err != nil {
				return err
			}
			for _, v := range values {
				if err := writeString(w, v); err != nil {
					return err
				}
			}
		}
	}
	return binary.Write(w, binary.BigEndian, uint32(numUnits))
}

func writeVector(w io.Writer, d *feature.Dictionary, v *feature.Vector) error {
	if err := binary.Write(w, binary.BigEndian, uint32(v.UnitIndex())); err != nil {
		return err
	}
	for i := 0; i < d.NumByteFeatures(); i++ {
		if err := binary.Write(w, binary.BigEndian, v.ByteValue(i)); err != nil {
			return err
		}
	}
	for i := 0; i < d.NumShortFeatures(); i++ {
		if err := binary.Write(w, binary.BigEndian, v.ShortValue(d.NumByteFeatures()+i)); err != nil {
			return err
		}
	}
	for i := 0; i < d.NumContinuousFeatures(); i++ {
		value := v.ContinuousValue(d.NumByteFeatures() + d.NumShortFeatures() + i)
		if err := binary.Write(w, binary.BigEndian, math.Float32bits(value)); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string %q too long to encode", s)
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

type headerCursor struct {
	data []byte
	pos  int
}

func (hc *headerCursor) readUint32() (uint32, error) {
	if hc.pos+4 > len(hc.data) {
		return 0, fmt.Errorf("truncated header at offset %d", hc.pos)
	}
	v := binary.BigEndian.Uint32(hc.data[hc.pos:])
	hc.pos += 4
	return v, nil
}

func (hc *headerCursor) readString() (string, error) {
	if hc.pos+2 > len(hc.data) {
		return "", fmt.Errorf("truncated header at offset %d", hc.pos)
	}
	n := int(binary.BigEndian.Uint16(hc.data[hc.pos:]))
	hc.pos += 2
	if hc.pos+n > len(hc.data) {
		return "", fmt.Errorf("truncated header at offset %d", hc.pos)
	}
	s := string(hc.data[hc.pos : hc.pos+n])
	hc.pos += n
	return s, nil
}

func (r *Reader) parseHeader() error {
	hc := &headerCursor{data: r.m}
	m, err := hc.readUint32()
	if err != nil {
		return err
	}
	if m != magic {
		return fmt.Errorf("not a feature file: magic %#x", m)
	}
	v, err := hc.readUint32()
	if err != nil {
		return err
	}
	if v != version {
		return fmt.Errorf("unsupported feature file version %d", v)
	}
	features := []feature.Feature{}
	for kind := 0; kind < 3; kind++ {
		count, err := hc.readUint32()
		if err != nil {
			return err
		}
		for i := 0; i < int(count); i++ {
			name, err := hc.readString()
			if err != nil {
				return err
			}
			f, err := readFeature(hc, feature.Kind(kind), name)
			if err != nil {
				return err
			}
			features = append(features, f)
		}
	}
	r.dictionary, err = feature.NewDictionary(features...)
	if err != nil {
		return err
	}
	numUnits, err := hc.readUint32()
	if err != nil {
		return err
	}
	r.numUnits = int(numUnits)
	r.dataOffset = hc.pos
	r.recordWidth = 4 + r.dictionary.NumByteFeatures() +
		2*r.dictionary.NumShortFeatures() +
		4*r.dictionary.NumContinuousFeatures()
	if r.dataOffset+r.numUnits*r.recordWidth > len(r.m) {
		return fmt.Errorf("file too short for the %d unit records it declares", r.numUnits)
	}
	return nil
}

func readFeature(hc *headerCursor, kind feature.Kind, name string) (feature.Feature, error) {
	if kind == feature.ContinuousKind {
		return feature.NewContinuousFeature(name), nil
	}
	count, err := hc.readUint32()
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		v, err := hc.readString()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if kind == feature.ByteKind {
		return feature.NewByteFeature(name, values)
	}
	return feature.NewShortFeature(name, values)
}

func (r *Reader) decodeRecord(unitIndex int) (*feature.Vector, error) {
	record := r.m[r.dataOffset+unitIndex*r.recordWidth:]
	storedIndex := int(binary.BigEndian.Uint32(record))
	if storedIndex != unitIndex {
		return nil, fmt.Errorf("inconsistent feature file: record %d describes unit %d", unitIndex, storedIndex)
	}
	pos := 4
	bytes := make([]byte, r.dictionary.NumByteFeatures())
	copy(bytes, record[pos:pos+len(bytes)])
	pos += len(bytes)
	shorts := make([]uint16, r.dictionary.NumShortFeatures())
	for i := range shorts {
		shorts[i] = binary.BigEndian.Uint16(record[pos:])
		pos += 2
	}
	continuous := make([]float32, r.dictionary.NumContinuousFeatures())
	for i := range continuous {
		continuous[i] = math.Float32frombits(binary.BigEndian.Uint32(record[pos:]))
		pos += 4
	}
	return feature.NewVector(unitIndex, bytes, shorts, continuous), nil
}

// featureValues returns the declared value strings of a discrete
// feature, or nil for a continuous one.
func featureValues(f feature.Feature) []string {
	switch ft := f.(type) {
	case *feature.ByteFeature:
		return ft.Values()
	case *feature.ShortFeature:
		return ft.Values()
	}
	return nil
}

var _ unitdata.Dataset = (*Reader)(nil)
