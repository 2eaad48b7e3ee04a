package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xuluze/passagemath/ec"
)

func TestCurveLookup(t *testing.T) {
	assert := require.New(t)

	c, err := Curve("11a1")
	assert.NoError(err)
	assert.Equal("[0, -1, 1, -10, -20]", c.String())

	_, err = Curve("9999z1")
	assert.ErrorIs(err, ErrUnknownCurve)

	assert.Len(Labels(), 11)
}

func TestLabel(t *testing.T) {
	assert := require.New(t)

	for _, label := range Labels() {
		c, err := Curve(label)
		assert.NoError(err)
		got, err := Label(c)
		assert.NoError(err)
		assert.Equal(label, got)
	}

	// a non-minimal model resolves through its minimal model
	scaled, err := ec.NewWeierstrassFromInts(0, -4, 8, -160, -1280)
	assert.NoError(err)
	got, err := Label(scaled)
	assert.NoError(err)
	assert.Equal("11a1", got)

	outside, err := ec.NewWeierstrassFromInts(0, 0, 1, 0, 0)
	assert.NoError(err)
	_, err = Label(outside)
	assert.ErrorIs(err, ErrUnknownCurve)
}

func TestEngine(t *testing.T) {
	assert := require.New(t)

	eng := Engine()
	c, err := Curve("11a1")
	assert.NoError(err)

	isogs, err := eng.PrimeDegreeIsogenies(c, []int64{5})
	assert.NoError(err)
	assert.Len(isogs, 2)
	for _, phi := range isogs {
		assert.Equal(int64(5), phi.Degree())
		assert.True(phi.Domain().Equal(c))
	}

	isogs, err = eng.PrimeDegreeIsogenies(c, []int64{2, 3})
	assert.NoError(err)
	assert.Empty(isogs)

	// leaf curves see their dual edges
	leaf, err := Curve("15a7")
	assert.NoError(err)
	isogs, err = eng.PrimeDegreeIsogenies(leaf, []int64{2})
	assert.NoError(err)
	assert.Len(isogs, 1)
	assert.True(isogs[0].Codomain().IsIsomorphic(mustCatalog(t, "15a3")))
}

func TestNumberFieldEngine(t *testing.T) {
	assert := require.New(t)

	eng := NumberFieldEngine()
	c, err := NumberFieldCurve("qi.1")
	assert.NoError(err)

	isogs, err := eng.PrimeDegreeIsogenies(c, []int64{2, 3})
	assert.NoError(err)
	assert.Len(isogs, 2)

	// the forward 2-isogeny lands on a non-reduced model
	for _, phi := range isogs {
		if phi.Degree() != 2 {
			continue
		}
		cod := phi.Codomain()
		reduced, err := cod.MinimalModel()
		assert.NoError(err)
		assert.False(cod.Equal(reduced))
		assert.True(cod.IsIsomorphic(reduced))
	}

	_, err = NumberFieldCurve("nope")
	assert.ErrorIs(err, ErrUnknownCurve)

	w, err := ec.NewWeierstrassFromInts(0, -1, 1, -10, -20)
	assert.NoError(err)
	_, err = eng.PrimeDegreeIsogenies(w, nil)
	assert.ErrorIs(err, ErrUnknownCurve)
}

func mustCatalog(t *testing.T, label string) ec.Curve {
	t.Helper()
	c, err := Curve(label)
	require.NoError(t, err)
	return c
}
