/*
Package sqlunits provides an implementation of unitdata.Dataset that
uses an SQL database as backend.

The dataset uses a single units table with one row per speech unit:
the unit index and the three encoded sections of its feature vector as
binary columns. Engine-specific SQL is delegated to an Adapter.
*/
package sqlunits

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sdabuk/marytts/feature"
	"github.com/sdabuk/marytts/unitdata"
)

/*
Adapter is an interface providing the methods needed to implement a
Dataset with a database backend. Implementations translate the
operations into the SQL dialect of their engine.
*/
type Adapter interface {
	// CreateUnitsTable ensures the units table exists.
	CreateUnitsTable() error
	// InsertUnit stores the encoded vector sections of one unit.
	InsertUnit(unitIndex int, bytes, shorts, continuous []byte) error
	// GetUnit returns the encoded vector sections of the unit with
	// the given index, or three nil slices if there is none.
	GetUnit(unitIndex int) (bytes, shorts, continuous []byte, err error)
	// IterateUnits runs the given function on every stored unit in
	// unit-index order, stopping at the first returned error.
	IterateUnits(f func(unitIndex int, bytes, shorts, continuous []byte) error) error
	// CountUnits returns the number of stored units.
	CountUnits() (int, error)
	// Close closes the underlying database.
	Close() error
}

/*
Dataset is a unitdata.Dataset to which unit vectors can also be
written.
*/
type Dataset interface {
	unitdata.Dataset
	Write(ctx context.Context, vectors []*feature.Vector) (int, error)
}

type sqlDataset struct {
	adapter Adapter
}

/*
Open takes an Adapter, ensures the units table exists on its database
and returns a Dataset over it or an error.
*/
func Open(adapter Adapter) (Dataset, error) {
	if err := adapter.CreateUnitsTable(); err != nil {
		return nil, fmt.Errorf("preparing units table: %v", err)
	}
	return &sqlDataset{adapter}, nil
}

func (sd *sqlDataset) Count(ctx context.Context) (int, error) {
	return sd.adapter.CountUnits()
}

func (sd *sqlDataset) VectorAt(ctx context.Context, unitIndex int) (*feature.Vector, error) {
	bytes, shorts, continuous, err := sd.adapter.GetUnit(unitIndex)
	if err != nil {
		return nil, fmt.Errorf("retrieving unit %d: %v", unitIndex, err)
	}
	if bytes == nil && shorts == nil && continuous == nil {
		return nil, nil
	}
	return decodeVector(unitIndex, bytes, shorts, continuous), nil
}

func (sd *sqlDataset) Vectors(ctx context.Context) ([]*feature.Vector, error) {
	vectors := []*feature.Vector{}
	err := sd.adapter.IterateUnits(func(unitIndex int, bytes, shorts, continuous []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		vectors = append(vectors, decodeVector(unitIndex, bytes, shorts, continuous))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("retrieving unit vectors: %v", err)
	}
	return vectors, nil
}

func (sd *sqlDataset) Write(ctx context.Context, vectors []*feature.Vector) (int, error) {
	for i, v := range vectors {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		bytes, shorts, continuous := encodeVector(v)
		if err := sd.adapter.InsertUnit(v.UnitIndex(), bytes, shorts, continuous); err != nil {
			return i, fmt.Errorf("storing unit %d: %v", v.UnitIndex(), err)
		}
	}
	return len(vectors), nil
}

func (sd *sqlDataset) Close(ctx context.Context) error {
	return sd.adapter.Close()
}

func encodeVector(v *feature.Vector) (bytes, shorts, continuous []byte) {
	bytes = make([]byte, v.NumByteValues())
	for i := range bytes {
		bytes[i] = v.ByteValue(i)
	}
	shorts = make([]byte, 2*v.NumShortValues())
	for i := 0; i < v.NumShortValues(); i++ {
		binary.BigEndian.PutUint16(shorts[2*i:], v.ShortValue(v.NumByteValues()+i))
	}
	continuous = make([]byte, 4*v.NumContinuousValues())
	for i := 0; i < v.NumContinuousValues(); i++ {
		value := v.ContinuousValue(v.NumByteValues() + v.NumShortValues() + i)
		binary.BigEndian.PutUint32(continuous[4*i:], math.Float32bits(value))
	}
	return bytes, shorts, continuous
}

func decodeVector(unitIndex int, bytes, shorts, continuous []byte) *feature.Vector {
	ss := make([]uint16, len(shorts)/2)
	for i := range ss {
		ss[i] = binary.BigEndian.Uint16(shorts[2*i:])
	}
	cs := make([]float32, len(continuous)/4)
	for i := range cs {
		cs[i] = math.Float32frombits(binary.BigEndian.Uint32(continuous[4*i:]))
	}
	return feature.NewVector(unitIndex, bytes, ss, cs)
}
