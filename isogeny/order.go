package isogeny

import (
	"sort"

	"github.com/xuluze/passagemath/ec"
	"github.com/xuluze/passagemath/internal/matrix"
)

// Ordering selects a permutation of the curves of a class. An ordering
// yields perm with perm[i] the current index of the curve to place at
// position i.
type Ordering interface {
	permutation(c *Class) ([]int, error)
}

// Reorder returns a copy of the class with its curves, matrices and
// witnesses permuted according to the ordering. The original class is
// unchanged.
func (c *Class) Reorder(o Ordering) (*Class, error) {
	perm, err := o.permutation(c)
	if err != nil {
		return nil, err
	}
	n := len(c.curves)
	if len(perm) != n {
		return nil, ErrInvalidOrdering
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return nil, ErrInvalidOrdering
		}
		seen[p] = true
	}

	curves := make([]ec.Curve, n)
	for i, p := range perm {
		curves[i] = c.curves[p]
	}
	out := &Class{
		seed:    c.seed,
		curves:  curves,
		degrees: c.degrees,
		mat:     matrix.Permute(c.mat, perm),
	}
	if c.qfmat != nil {
		qfmat := make([][][]int64, n)
		for i := range qfmat {
			qfmat[i] = make([][]int64, n)
			for j := range qfmat[i] {
				qfmat[i][j] = c.qfmat[perm[i]][perm[j]]
			}
		}
		out.qfmat = qfmat
	}
	if c.maps != nil {
		maps := make([][]ec.Isogeny, n)
		for i := range maps {
			maps[i] = make([]ec.Isogeny, n)
			for j := range maps[i] {
				maps[i][j] = c.maps[perm[i]][perm[j]]
			}
		}
		out.maps = maps
	}
	return out, nil
}

type byInvariants struct{}

// ByInvariants is the canonical order: CM discriminant first for rational CM
// classes, then the flattened a-invariant coefficients. Computed classes are
// already in this order.
func ByInvariants() Ordering { return byInvariants{} }

func (byInvariants) permutation(c *Class) ([]int, error) {
	rationalCM := c.seed.CM().Rational
	perm := make([]int, len(c.curves))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ca, cb := c.curves[perm[a]], c.curves[perm[b]]
		if rationalCM {
			da, db := ca.CM().Discriminant, cb.CM().Discriminant
			if da != db {
				return da > db
			}
		}
		return ec.CompareKeys(ca.InvariantKey(), cb.InvariantKey()) < 0
	})
	return perm, nil
}

type byCurves struct {
	curves []ec.Curve
}

// ByCurves orders the class to match the given list of curves, which must
// contain exactly one curve from each isomorphism class.
func ByCurves(curves ...ec.Curve) Ordering { return byCurves{curves: curves} }

func (o byCurves) permutation(c *Class) ([]int, error) {
	if len(o.curves) != len(c.curves) {
		return nil, ErrInvalidOrdering
	}
	perm := make([]int, len(o.curves))
	for i, e := range o.curves {
		j, err := c.Index(e)
		if err != nil {
			return nil, err
		}
		perm[i] = j
	}
	return perm, nil
}

type byIndices struct {
	perm []int
}

// ByIndices orders the class by an explicit permutation: entry i is the
// current index of the curve to place at position i.
func ByIndices(perm ...int) Ordering { return byIndices{perm: perm} }

func (o byIndices) permutation(*Class) ([]int, error) {
	return append([]int(nil), o.perm...), nil
}

type byComparator struct {
	cmp func(a, b ec.Curve) int
}

// ByComparator orders the class by an external comparison function, for
// example one backed by a curve database with its own labelling.
func ByComparator(cmp func(a, b ec.Curve) int) Ordering { return byComparator{cmp: cmp} }

func (o byComparator) permutation(c *Class) ([]int, error) {
	perm := make([]int, len(c.curves))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return o.cmp(c.curves[perm[a]], c.curves[perm[b]]) < 0
	})
	return perm, nil
}
