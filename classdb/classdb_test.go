package classdb

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/xuluze/passagemath/catalog"
	"github.com/xuluze/passagemath/isogeny"
)

func computeClass(t *testing.T, label string) *isogeny.Class {
	t.Helper()
	seed, err := catalog.Curve(label)
	require.NoError(t, err)
	cls, err := isogeny.Compute(seed, catalog.Engine())
	require.NoError(t, err)
	return cls
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "classes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	assert := require.New(t)

	s := openStore(t)
	cls := computeClass(t, "11a1")
	assert.NoError(s.Put("11a", cls))

	got, err := s.Get("11a")
	assert.NoError(err)
	assert.Equal(cls.Len(), got.Len())
	assert.Equal(cls.Matrix(true), got.Matrix(true))
	assert.Equal(cls.Matrix(false), got.Matrix(false))
	for i, c := range cls.Curves() {
		assert.True(got.Curve(i).Equal(c))
	}

	// stored classes have no witnesses
	_, err = got.Isogenies(false)
	assert.ErrorIs(err, isogeny.ErrNoWitnesses)

	_, err = s.Get("37a")
	assert.ErrorIs(err, ErrNotFound)
}

func TestImportAndLabels(t *testing.T) {
	assert := require.New(t)

	s := openStore(t)
	err := s.Import(map[string]*isogeny.Class{
		"11a": computeClass(t, "11a1"),
		"15a": computeClass(t, "15a1"),
	})
	assert.NoError(err)

	labels, err := s.Labels()
	assert.NoError(err)
	assert.Equal([]string{"11a", "15a"}, labels)

	got, err := s.Get("15a")
	assert.NoError(err)
	assert.Equal(8, got.Len())
}

func TestVersionMismatch(t *testing.T) {
	assert := require.New(t)

	cls := computeClass(t, "11a1")
	buf, err := encodeRecord("11a", cls)
	assert.NoError(err)

	var rec record
	assert.NoError(cbor.NewDecoder(bytes.NewReader(buf)).Decode(&rec))
	rec.Version = "99.0.0"
	em, err := cbor.CanonicalEncOptions().EncMode()
	assert.NoError(err)
	var tampered bytes.Buffer
	assert.NoError(em.NewEncoder(&tampered).Encode(rec))

	_, err = decodeRecord(tampered.Bytes())
	assert.ErrorIs(err, ErrVersionMismatch)
}

func TestRejectNonRationalCurves(t *testing.T) {
	assert := require.New(t)

	seed, err := catalog.NumberFieldCurve("cm20.0")
	assert.NoError(err)
	cls, err := isogeny.Compute(seed, catalog.NumberFieldEngine())
	assert.NoError(err)

	s := openStore(t)
	assert.Error(s.Put("cm20", cls))
}

func TestMatrixCompressionRoundTrip(t *testing.T) {
	assert := require.New(t)

	m := [][]int64{
		{1, 8, 4},
		{8, 1, 16},
		{4, 16, 1},
	}
	raw, err := compressMatrix(m)
	assert.NoError(err)
	back, err := decompressMatrix(raw, 3)
	assert.NoError(err)
	assert.Equal(m, back)

	_, err = decompressMatrix(raw, 2)
	assert.Error(err)
	_, err = compressMatrix([][]int64{{-1}})
	assert.Error(err)
}
