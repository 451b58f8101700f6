/*
Package mongounits provides an implementation of unitdata.Dataset that
uses a MongoDB database as backend.
*/
package mongounits

import (
	"context"
	"fmt"

	"github.com/sdabuk/marytts/feature"
	"github.com/sdabuk/marytts/unitdata"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Dataset is a unitdata.Dataset to which unit vectors can also be
written.
*/
type Dataset interface {
	unitdata.Dataset
	Write(ctx context.Context, vectors []*feature.Vector) (int, error)
}

type mongoDataset struct {
	session *mgo.Session
}

const unitsCollectionName = "units"

type unitDoc struct {
	UnitIndex  int       `bson:"unitindex"`
	Bytes      []byte    `bson:"bytes"`
	Shorts     []int     `bson:"shorts"`
	Continuous []float64 `bson:"continuous"`
}

/*
Open takes a MongoDB database session and returns a Dataset that works
on the default database for that session or an error if it fails to
prepare its indexes.
*/
func Open(ctx context.Context, session *mgo.Session) (Dataset, error) {
	mds := &mongoDataset{session}
	err := mds.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return mds, nil
}

func (mds *mongoDataset) Count(ctx context.Context) (int, error) {
	count, err := mds.units().Count()
	if err != nil {
		return 0, fmt.Errorf("counting units: %v", err)
	}
	return count, nil
}

func (mds *mongoDataset) VectorAt(ctx context.Context, unitIndex int) (*feature.Vector, error) {
	doc := &unitDoc{}
	err := mds.units().Find(bson.M{"unitindex": unitIndex}).One(doc)
	if err == mgo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving unit %d: %v", unitIndex, err)
	}
	return doc.vector(), nil
}

func (mds *mongoDataset) Vectors(ctx context.Context) ([]*feature.Vector, error) {
	docs := []*unitDoc{}
	err := mds.units().Find(nil).Sort("unitindex").All(&docs)
	if err != nil {
		return nil, fmt.Errorf("retrieving unit vectors: %v", err)
	}
	vectors := make([]*feature.Vector, 0, len(docs))
	for _, doc := range docs {
		vectors = append(vectors, doc.vector())
	}
	return vectors, nil
}

func (mds *mongoDataset) Write(ctx context.Context, vectors []*feature.Vector) (int, error) {
	for i, v := range vectors {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		_, err := mds.units().Upsert(bson.M{"unitindex": v.UnitIndex()}, document(v))
		if err != nil {
			return i, fmt.Errorf("storing unit %d: %v", v.UnitIndex(), err)
		}
	}
	return len(vectors), nil
}

func (mds *mongoDataset) Close(ctx context.Context) error {
	mds.session.Close()
	return nil
}

func (mds *mongoDataset) units() *mgo.Collection {
	return mds.session.DB("").C(unitsCollectionName)
}

func (mds *mongoDataset) ensureIndexes() error {
	err := mds.units().EnsureIndex(mgo.Index{
		Key:    []string{"unitindex"},
		Unique: true,
	})
	if err != nil {
		return fmt.Errorf("ensuring units index: %v", err)
	}
	return nil
}

func document(v *feature.Vector) *unitDoc {
	doc := &unitDoc{
		UnitIndex:  v.UnitIndex(),
		Bytes:      make([]byte, v.NumByteValues()),
		Shorts:     make([]int, v.NumShortValues()),
		Continuous: make([]float64, v.NumContinuousValues()),
	}
	for i := range doc.Bytes {
		doc.Bytes[i] = v.ByteValue(i)
	}
	for i := range doc.Shorts {
		doc.Shorts[i] = int(v.ShortValue(v.NumByteValues() + i))
	}
	for i := range doc.Continuous {
		doc.Continuous[i] = float64(v.ContinuousValue(v.NumByteValues() + v.NumShortValues() + i))
	}
	return doc
}

func (doc *unitDoc) vector() *feature.Vector {
	shorts := make([]uint16, len(doc.Shorts))
	for i, s := range doc.Shorts {
		shorts[i] = uint16(s)
	}
	continuous := make([]float32, len(doc.Continuous))
	for i, c := range doc.Continuous {
		continuous[i] = float32(c)
	}
	return feature.NewVector(doc.UnitIndex, doc.Bytes, shorts, continuous)
}
