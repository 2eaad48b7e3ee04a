package quadform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReducedForms(t *testing.T) {
	assert := require.New(t)

	// class number 3
	forms, err := ReducedForms(-23)
	assert.NoError(err)
	assert.Equal([]Form{{1, 1, 6}, {2, -1, 3}, {2, 1, 3}}, forms)
	for _, f := range forms {
		assert.Equal(int64(-23), f.Discriminant())
		assert.True(f.IsPrimitive())
	}

	// class number 2
	forms, err = ReducedForms(-20)
	assert.NoError(err)
	assert.Equal([]Form{{1, 0, 5}, {2, 2, 3}}, forms)

	// class number 1
	forms, err = ReducedForms(-3)
	assert.NoError(err)
	assert.Equal([]Form{{1, 1, 1}}, forms)

	h, err := ClassNumber(-23)
	assert.NoError(err)
	assert.Equal(int64(3), h)
}

func TestReducedFormsInvalidDiscriminant(t *testing.T) {
	assert := require.New(t)

	for _, d := range []int64{0, 5, -5, -6, 4} {
		_, err := ReducedForms(d)
		assert.ErrorIs(err, ErrInvalidDiscriminant, "%d", d)
	}
}

func TestInverse(t *testing.T) {
	assert := require.New(t)

	assert.Equal(Form{2, -1, 3}, Form{2, 1, 3}.Inverse())
	assert.Equal(Form{2, 1, 3}, Form{2, -1, 3}.Inverse())
	// ambiguous classes are their own inverse
	assert.Equal(Form{2, 2, 3}, Form{2, 2, 3}.Inverse())
	assert.Equal(Form{1, 1, 6}, Form{1, 1, 6}.Inverse())

	assert.True(Form{1, 0, 5}.IsPrincipal())
	assert.False(Form{2, 2, 3}.IsPrincipal())
}

func TestRepresents(t *testing.T) {
	assert := require.New(t)

	f := Form{2, 2, 3} // discriminant -20
	assert.True(f.Represents(2))
	assert.True(f.Represents(3))
	assert.True(f.Represents(7))
	assert.False(f.Represents(1))
	assert.False(f.Represents(5))
	assert.False(f.Represents(-2))

	principal := Form{1, 1, 6} // discriminant -23
	assert.True(principal.Represents(1))
	assert.True(principal.Represents(6))
	assert.True(principal.Represents(23)) // (-1, 2)
	assert.False(principal.Represents(2))
	assert.False(principal.Represents(3))
}

func TestSmallPrimeValue(t *testing.T) {
	assert := require.New(t)

	p, err := Form{2, 1, 3}.SmallPrimeValue()
	assert.NoError(err)
	assert.Equal(int64(2), p)

	p, err = Form{2, 2, 3}.SmallPrimeValue()
	assert.NoError(err)
	assert.Equal(int64(2), p)

	p, err = Form{1, 1, 6}.SmallPrimeValue()
	assert.NoError(err)
	assert.Equal(int64(23), p)

	p, err = Form{1, 0, 5}.SmallPrimeValue()
	assert.NoError(err)
	assert.Equal(int64(5), p)
}

func TestCache(t *testing.T) {
	assert := require.New(t)

	c := NewCache()
	f1, err := c.ReducedForms(-23)
	assert.NoError(err)
	f2, err := c.ReducedForms(-23)
	assert.NoError(err)
	assert.Equal(f1, f2)
	assert.Equal(1, c.Len())

	_, err = c.ReducedForms(-20)
	assert.NoError(err)
	assert.Equal(2, c.Len())

	_, err = c.ReducedForms(7)
	assert.ErrorIs(err, ErrInvalidDiscriminant)
	assert.Equal(2, c.Len())
}
