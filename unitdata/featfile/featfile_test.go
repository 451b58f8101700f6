package featfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sdabuk/marytts/feature"
	"github.com/sdabuk/marytts/unitdata/featfile"
	"github.com/stretchr/testify/require"
)

func testDictionary(t *testing.T) *feature.Dictionary {
	t.Helper()
	vowel, err := feature.NewByteFeature("vowel_type", []string{"a", "e", "i", "o"})
	require.NoError(t, err)
	phone, err := feature.NewShortFeature("phone_id", []string{"p", "t", "k", "s"})
	require.NoError(t, err)
	duration := feature.NewContinuousFeature("duration")
	d, err := feature.NewDictionary(vowel, phone, duration)
	require.NoError(t, err)
	return d
}

func testVectors() []*feature.Vector {
	return []*feature.Vector{
		feature.NewVector(0, []byte{0}, []uint16{0}, []float32{1.5}),
		feature.NewVector(1, []byte{2}, []uint16{3}, []float32{10.25}),
		feature.NewVector(2, []byte{1}, []uint16{1}, []float32{0.125}),
	}
}

func TestWriteFileAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.feats")
	d := testDictionary(t)
	vectors := testVectors()
	require.NoError(t, featfile.WriteFile(path, d, vectors))

	r, err := featfile.Open(path)
	require.NoError(t, err)
	defer r.Close(context.Background())

	require.Equal(t, len(vectors), r.NumUnits())
	count, err := r.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(vectors), count)

	// the dictionary is rebuilt from the header with the same layout
	rd := r.Dictionary()
	require.Equal(t, d.NumFeatures(), rd.NumFeatures())
	for i := 0; i < d.NumFeatures(); i++ {
		name, err := d.Name(i)
		require.NoError(t, err)
		readName, err := rd.Name(i)
		require.NoError(t, err)
		require.Equal(t, name, readName)
	}
	code, err := rd.EncodeByte("vowel_type", "i")
	require.NoError(t, err)
	require.Equal(t, byte(2), code)
}

func TestReaderVectorAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.feats")
	d := testDictionary(t)
	vectors := testVectors()
	require.NoError(t, featfile.WriteFile(path, d, vectors))

	r, err := featfile.Open(path)
	require.NoError(t, err)
	defer r.Close(context.Background())

	ctx := context.Background()
	for i, want := range vectors {
		// twice, so the second access may come from the cache
		for n := 0; n < 2; n++ {
			got, err := r.VectorAt(ctx, i)
			require.NoError(t, err)
			require.Equal(t, want.UnitIndex(), got.UnitIndex())
			require.Equal(t, want.ByteValue(0), got.ByteValue(0))
			require.Equal(t, want.ShortValue(1), got.ShortValue(1))
			require.Equal(t, want.ContinuousValue(2), got.ContinuousValue(2))
		}
	}

	_, err = r.VectorAt(ctx, -1)
	require.Error(t, err)
	_, err = r.VectorAt(ctx, len(vectors))
	require.Error(t, err)
}

func TestReaderVectors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.feats")
	d := testDictionary(t)
	vectors := testVectors()
	require.NoError(t, featfile.WriteFile(path, d, vectors))

	r, err := featfile.Open(path)
	require.NoError(t, err)
	defer r.Close(context.Background())

	got, err := r.Vectors(context.Background())
	require.NoError(t, err)
	require.Len(t, got, len(vectors))
	for i, v := range got {
		require.Equal(t, i, v.UnitIndex())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Vectors(ctx)
	require.Error(t, err)
}

func TestWriteEnforcesUnitOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.feats")
	d := testDictionary(t)
	vectors := []*feature.Vector{
		feature.NewVector(1, []byte{0}, []uint16{0}, []float32{0}),
	}
	require.Error(t, featfile.WriteFile(path, d, vectors))
}

func TestWriteEnforcesDictionaryLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.feats")
	d := testDictionary(t)
	vectors := []*feature.Vector{
		feature.NewVector(0, []byte{0, 0}, []uint16{0}, []float32{0}),
	}
	require.Error(t, featfile.WriteFile(path, d, vectors))
}

func TestOpenRejectsForeignFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.feats")
	require.NoError(t, os.WriteFile(path, []byte("not a feature file at all"), 0644))
	_, err := featfile.Open(path)
	require.Error(t, err)

	_, err = featfile.Open(filepath.Join(t.TempDir(), "missing.feats"))
	require.Error(t, err)
}

func TestWriteFileOnEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.feats")
	d := testDictionary(t)
	require.NoError(t, featfile.WriteFile(path, d, nil))

	r, err := featfile.Open(path)
	require.NoError(t, err)
	defer r.Close(context.Background())
	require.Equal(t, 0, r.NumUnits())
}
