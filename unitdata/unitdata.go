/*
Package unitdata provides access to the per-unit feature vectors of a
voice database, the data classification-tree leaves are populated
from.
*/
package unitdata

import (
	"context"
	"fmt"

	"github.com/sdabuk/marytts/feature"
)

/*
Dataset represents a source of unit feature vectors, one per speech
unit, addressable by unit index.

All its methods take a context that may allow cancelling the operation
(thus forcing the return of an error) if the implementation allows it.
*/
type Dataset interface {
	// Count returns the number of units in the dataset or an error.
	Count(ctx context.Context) (int, error)
	// VectorAt takes a unit index and returns the vector of that
	// unit (or nil if there is none) or an error if the dataset
	// cannot be queried.
	VectorAt(ctx context.Context, unitIndex int) (*feature.Vector, error)
	// Vectors returns every vector of the dataset in unit order or
	// an error.
	Vectors(ctx context.Context) ([]*feature.Vector, error)
	// Close closes the dataset; implementations should free any
	// resources in use before returning.
	Close(ctx context.Context) error
}

type memoryDataset struct {
	vectors []*feature.Vector
}

// NewMemoryDataset returns an implementation of Dataset over the given
// vectors, with the process memory space as underlying backend.
func NewMemoryDataset(vectors []*feature.Vector) Dataset {
	vs := make([]*feature.Vector, len(vectors))
	copy(vs, vectors)
	return &memoryDataset{vs}
}

func (md *memoryDataset) Count(ctx context.Context) (int, error) {
	return len(md.vectors), nil
}

func (md *memoryDataset) VectorAt(ctx context.Context, unitIndex int) (*feature.Vector, error) {
	if unitIndex < 0 || unitIndex >= len(md.vectors) {
		return nil, fmt.Errorf("unit index %d out of range [0, %d)", unitIndex, len(md.vectors))
	}
	return md.vectors[unitIndex], nil
}

func (md *memoryDataset) Vectors(ctx context.Context) ([]*feature.Vector, error) {
	return md.vectors, nil
}

func (md *memoryDataset) Close(ctx context.Context) error {
	return nil
}
