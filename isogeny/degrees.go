package isogeny

import (
	"fmt"
	"sort"

	"github.com/xuluze/passagemath/ec"
	"github.com/xuluze/passagemath/internal/arith"
	"github.com/xuluze/passagemath/quadform"
)

// mazurDegrees are the primes that can be the degree of a rational isogeny
// between elliptic curves over the rationals (Mazur, with the three extra
// CM-only degrees at the end).
var mazurDegrees = []int64{2, 3, 5, 7, 11, 13, 17, 19, 37, 43, 67, 163}

// PossibleIsogenyDegrees returns primes l sufficient to generate the isogeny
// class of c: every isogenous curve is reachable by a chain of isogenies
// whose degrees lie in the list.
//
// For CM curves the list comes from the structure of the CM order and its
// class group. Over the rationals the candidates are Mazur's degrees. For
// non-CM curves over larger fields a DegreeOracle must be configured, since
// no unconditional bound is available; otherwise ErrNoDegreeBound is
// returned.
//
// When eng is non-nil every candidate is checked to be an actual isogeny
// degree of c, so the result contains no false entries.
func PossibleIsogenyDegrees(c ec.Curve, eng ec.Engine, opts ...Option) ([]int64, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return possibleDegrees(c, eng, cfg)
}

// IsogenyDegreesCM is the CM branch of PossibleIsogenyDegrees. It returns
// ErrNotCM for curves without complex multiplication.
func IsogenyDegreesCM(c ec.Curve, eng ec.Engine, opts ...Option) ([]int64, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if !c.CM().HasCM {
		return nil, ErrNotCM
	}
	candidates, err := cmDegrees(c, cfg)
	if err != nil {
		return nil, err
	}
	return filterDegrees(c, eng, cfg, candidates)
}

func possibleDegrees(c ec.Curve, eng ec.Engine, cfg *config) ([]int64, error) {
	var candidates []int64
	var err error
	switch {
	case c.CM().HasCM:
		candidates, err = cmDegrees(c, cfg)
		if err != nil {
			return nil, err
		}
	case c.BaseDegree() == 1:
		candidates = append([]int64(nil), mazurDegrees...)
	case cfg.oracle != nil:
		candidates, err = cfg.oracle.ReduciblePrimes(c)
		if err != nil {
			return nil, fmt.Errorf("isogeny: degree oracle: %w", err)
		}
	default:
		return nil, ErrNoDegreeBound
	}
	return filterDegrees(c, eng, cfg, candidates)
}

// filterDegrees applies the configured cheap filter, then verifies each
// remaining candidate against the engine so that only true isogeny degrees
// survive.
func filterDegrees(c ec.Curve, eng ec.Engine, cfg *config, candidates []int64) ([]int64, error) {
	out := make([]int64, 0, len(candidates))
	for _, l := range candidates {
		if cfg.filter != nil && !cfg.filter(l) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	if eng == nil {
		return out, nil
	}
	verified := out[:0]
	for _, l := range out {
		isogs, err := eng.PrimeDegreeIsogenies(c, []int64{l})
		if err != nil {
			return nil, fmt.Errorf("isogeny: probing degree %d: %w", l, err)
		}
		if len(isogs) > 0 {
			verified = append(verified, l)
		}
	}
	return verified, nil
}

// cmDegrees collects the candidate degrees for a CM curve.
//
// Vertical isogenies move between orders of index l in one another. The
// ramified primes of the discriminant, the split primes l with l-1 dividing
// the scaled field degree and the inert primes l with l+1 dividing it cover
// those. Horizontal isogenies stay in the same order and their degrees are
// the values of the quadratic forms of the discriminant, so one small prime
// per class of forms covers the rest. Taking one class per inverse pair is
// enough, since dual isogenies account for the inverses.
func cmDegrees(c ec.Curve, cfg *config) ([]int64, error) {
	cm := c.CM()
	d := cm.Discriminant

	n := int64(c.BaseDegree())
	if !cm.Rational {
		n *= 2
	}
	// extra units of the two special discriminants scale the class number
	// formula
	if d == -4 {
		n *= 2
	}
	if d == -3 {
		n *= 3
	}

	forms, err := cfg.classGroup.ReducedForms(d)
	if err != nil {
		return nil, fmt.Errorf("isogeny: class group of discriminant %d: %w", d, err)
	}
	h := int64(len(forms))
	nOver2h := n / (2 * h)

	set := map[int64]struct{}{2: {}}
	if d == -3 {
		set[3] = struct{}{}
	}

	ramified := arith.PrimeFactors64(arith.OddPart(d))
	if !cm.Rational {
		for _, l := range ramified {
			set[l] = struct{}{}
		}
	} else {
		for _, l := range ramified {
			// upward: the isogenous order has index divided by l
			if valuation64(d, l) > 1 {
				set[l] = struct{}{}
			}
			// downward ramified: class number multiplied by l
			if nOver2h%l == 0 {
				set[l] = struct{}{}
			}
		}
	}

	for _, m := range arith.Divisors(n) {
		// downward split: the suborder has class number (l-1)h
		if l := m + 1; arith.IsPrime64(l) && arith.Kronecker(d, l) == 1 {
			set[l] = struct{}{}
		}
		// downward inert: the suborder has class number (l+1)h
		if l := m - 1; arith.IsPrime64(l) && arith.Kronecker(d, l) == -1 {
			set[l] = struct{}{}
		}
	}

	if cm.Rational {
		taken := make(map[quadform.Form]struct{})
		for _, f := range forms {
			if f.IsPrincipal() {
				continue
			}
			if _, ok := taken[f.Inverse()]; ok {
				continue
			}
			taken[f] = struct{}{}
			p, err := f.SmallPrimeValue()
			if err != nil {
				return nil, fmt.Errorf("isogeny: form %s: %w", f, err)
			}
			set[p] = struct{}{}
		}
	}

	out := make([]int64, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func valuation64(n, p int64) int {
	if n < 0 {
		n = -n
	}
	v := 0
	for n%p == 0 {
		n /= p
		v++
	}
	return v
}
