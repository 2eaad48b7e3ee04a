package isogeny_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/xuluze/passagemath/catalog"
	"github.com/xuluze/passagemath/ec"
	"github.com/xuluze/passagemath/isogeny"
)

func TestReorderByCurves(t *testing.T) {
	assert := require.New(t)

	cls, err := isogeny.Compute(qCurve(t, "11a1"), catalog.Engine())
	assert.NoError(err)

	// label order instead of the canonical invariant order
	relabelled, err := cls.Reorder(isogeny.ByCurves(
		qCurve(t, "11a1"), qCurve(t, "11a2"), qCurve(t, "11a3")))
	assert.NoError(err)
	assert.Equal([]string{"11a1", "11a2", "11a3"}, classLabels(t, relabelled))
	assert.Equal([][]int64{
		{1, 5, 5},
		{5, 1, 25},
		{5, 25, 1},
	}, relabelled.Matrix(true))

	// witnesses follow the permutation
	maps, err := relabelled.Isogenies(false)
	assert.NoError(err)
	assert.NotNil(maps[0][1])
	assert.True(maps[0][1].Domain().Equal(relabelled.Curve(0)))

	// the original class is untouched
	assert.Equal([]string{"11a2", "11a1", "11a3"}, classLabels(t, cls))

	_, err = cls.Reorder(isogeny.ByCurves(qCurve(t, "11a1"), qCurve(t, "11a2")))
	assert.ErrorIs(err, isogeny.ErrInvalidOrdering)
	_, err = cls.Reorder(isogeny.ByCurves(
		qCurve(t, "11a1"), qCurve(t, "11a2"), qCurve(t, "15a1")))
	assert.ErrorIs(err, isogeny.ErrNotInClass)
}

func TestReorderByIndices(t *testing.T) {
	assert := require.New(t)

	cls, err := isogeny.Compute(nfCurve(t, "cm23.0"), catalog.NumberFieldEngine())
	assert.NoError(err)

	swapped, err := cls.Reorder(isogeny.ByIndices(2, 1, 0))
	assert.NoError(err)
	assert.Equal([][]int64{
		{1, 23, 2},
		{23, 1, 2},
		{2, 2, 1},
	}, swapped.Matrix(true))
	qf, err := swapped.QFMatrix()
	assert.NoError(err)
	assert.Equal([][][]int64{
		{{1}, {1, 1, 6}, {2, -1, 3}},
		{{1, 1, 6}, {1}, {2, -1, 3}},
		{{2, -1, 3}, {2, -1, 3}, {1}},
	}, qf)

	for _, bad := range [][]int{{0, 1}, {0, 0, 1}, {0, 1, 3}} {
		_, err := cls.Reorder(isogeny.ByIndices(bad...))
		assert.ErrorIs(err, isogeny.ErrInvalidOrdering, "%v", bad)
	}
}

func TestReorderByInvariants(t *testing.T) {
	assert := require.New(t)

	cls, err := isogeny.Compute(qCurve(t, "15a3"), catalog.Engine())
	assert.NoError(err)

	shuffled, err := cls.Reorder(isogeny.ByIndices(3, 1, 4, 0, 2, 7, 5, 6))
	assert.NoError(err)
	back, err := shuffled.Reorder(isogeny.ByInvariants())
	assert.NoError(err)
	assert.Equal(classLabels(t, cls), classLabels(t, back))
	assert.Equal(cls.Matrix(true), back.Matrix(true))
}

func TestReorderByComparator(t *testing.T) {
	assert := require.New(t)

	cls, err := isogeny.Compute(qCurve(t, "11a1"), catalog.Engine())
	assert.NoError(err)

	reversed, err := cls.Reorder(isogeny.ByComparator(func(a, b ec.Curve) int {
		return -ec.CompareKeys(a.InvariantKey(), b.InvariantKey())
	}))
	assert.NoError(err)
	assert.Equal([]string{"11a3", "11a1", "11a2"}, classLabels(t, reversed))
}

func TestReorderRoundTrip(t *testing.T) {
	cls, err := isogeny.Compute(qCurve(t, "15a3"), catalog.Engine())
	require.NoError(t, err)
	n := cls.Len()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("conjugating by a permutation and its inverse restores the matrix", prop.ForAll(
		func(seed []int) bool {
			perm := permFromRanks(seed)
			inv := make([]int, n)
			for i, p := range perm {
				inv[p] = i
			}
			shuffled, err := cls.Reorder(isogeny.ByIndices(perm...))
			if err != nil {
				return false
			}
			back, err := shuffled.Reorder(isogeny.ByIndices(inv...))
			if err != nil {
				return false
			}
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					if back.Matrix(true)[i][j] != cls.Matrix(true)[i][j] {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(n, gen.IntRange(0, 1<<20)),
	))

	properties.TestingRun(t)
}

// permFromRanks turns arbitrary integer ranks into a permutation by sorting.
func permFromRanks(ranks []int) []int {
	perm := make([]int, len(ranks))
	for i := range perm {
		perm[i] = i
	}
	for i := 1; i < len(perm); i++ {
		for j := i; j > 0 && ranks[perm[j]] < ranks[perm[j-1]]; j-- {
			perm[j], perm[j-1] = perm[j-1], perm[j]
		}
	}
	return perm
}
