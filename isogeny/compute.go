package isogeny

import (
	"fmt"
	"sort"

	"github.com/xuluze/passagemath/ec"
	"github.com/xuluze/passagemath/internal/matrix"
	"github.com/xuluze/passagemath/quadform"
)

// transition records one prime-degree isogeny between class members by
// index. phi is nil for the reverse direction of a recorded isogeny, whose
// dual exists but was not materialized.
type transition struct {
	from, to int
	degree   int64
	phi      ec.Isogeny
}

// Compute determines the isogeny class of seed, using eng to produce the
// prime-degree isogenies. The class is explored breadth-first from the seed
// and closed under duals; on return the curves are in canonical order and
// all matrices are computed.
func Compute(seed ec.Curve, eng ec.Engine, opts ...Option) (*Class, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	log := cfg.log.With().Str("curve", seed.String()).Logger()

	base := seed
	if cfg.minimal {
		base, err = seed.MinimalModel()
		if err != nil {
			return nil, fmt.Errorf("isogeny: minimal model of seed: %w", err)
		}
	}

	degs := cfg.reducible
	if degs == nil {
		degs, err = possibleDegrees(base, eng, cfg)
		if err != nil {
			return nil, err
		}
	}
	log.Debug().Ints64("degrees", degs).Msg("possible isogeny degrees")

	curves := []ec.Curve{base}
	var tuples []transition

	addTup := func(t transition) {
		tuples = append(tuples, t)
		rev := transition{from: t.to, to: t.from, degree: t.degree}
		for _, u := range tuples {
			if u.from == rev.from && u.to == rev.to && u.degree == rev.degree && u.phi == nil {
				return
			}
		}
		tuples = append(tuples, rev)
	}

	// first pass: only degrees that actually produce new curves are kept
	// for the closure
	isogs, err := eng.PrimeDegreeIsogenies(base, degs)
	if err != nil {
		return nil, fmt.Errorf("isogeny: isogenies of seed: %w", err)
	}
	var relevant []int64
	for _, phi := range isogs {
		cod, err := representative(phi.Codomain(), cfg)
		if err != nil {
			return nil, err
		}
		if indexOfIsomorphic(curves, cod) >= 0 {
			continue
		}
		phi, err = retarget(phi, curves[0], cod)
		if err != nil {
			return nil, err
		}
		curves = append(curves, cod)
		addTup(transition{from: 0, to: len(curves) - 1, degree: phi.Degree(), phi: phi})
		if !containsInt64(relevant, phi.Degree()) {
			relevant = append(relevant, phi.Degree())
		}
	}
	log.Debug().Ints64("degrees", relevant).Msg("relevant isogeny degrees")

	// close the class, processing each newly found curve in turn
	for i := 1; i < len(curves); i++ {
		isogs, err := eng.PrimeDegreeIsogenies(curves[i], relevant)
		if err != nil {
			return nil, fmt.Errorf("isogeny: isogenies of curve %d: %w", i, err)
		}
		for _, phi := range isogs {
			cod, err := representative(phi.Codomain(), cfg)
			if err != nil {
				return nil, err
			}
			j := indexOfIsomorphic(curves, cod)
			if j < 0 {
				j = len(curves)
				curves = append(curves, cod)
			}
			phi, err = retarget(phi, curves[i], curves[j])
			if err != nil {
				return nil, err
			}
			addTup(transition{from: i, to: j, degree: phi.Degree(), phi: phi})
		}
	}
	n := len(curves)
	log.Debug().Int("curves", n).Msg("isogeny class closed")
	sort.Slice(relevant, func(a, b int) bool { return relevant[a] < relevant[b] })

	// canonical order: CM discriminant first when the class has rational
	// CM, then the flattened coefficients of the a-invariants
	rationalCM := base.CM().Rational
	sorted := append([]ec.Curve(nil), curves...)
	sort.SliceStable(sorted, func(a, b int) bool {
		if rationalCM {
			da, db := sorted[a].CM().Discriminant, sorted[b].CM().Discriminant
			if da != db {
				return da > db
			}
		}
		return ec.CompareKeys(sorted[a].InvariantKey(), sorted[b].InvariantKey()) < 0
	})
	perm := make([]int, n) // old index -> new index
	for old, cur := range curves {
		for ni, s := range sorted {
			if s.Equal(cur) {
				perm[old] = ni
				break
			}
		}
	}

	mat := matrix.Zero(n)
	maps := make([][]ec.Isogeny, n)
	for i := range maps {
		maps[i] = make([]ec.Isogeny, n)
	}
	for _, t := range tuples {
		if t.phi == nil {
			continue
		}
		mat[perm[t.from]][perm[t.to]] = t.degree
		maps[perm[t.from]][perm[t.to]] = t.phi
	}
	filled := matrix.Fill(mat)

	cls := &Class{
		seed:    seed,
		curves:  sorted,
		degrees: relevant,
		mat:     filled,
		maps:    maps,
	}
	if rationalCM {
		if err := cls.applyCMForms(cfg); err != nil {
			return nil, err
		}
	}
	return cls, nil
}

// applyCMForms rewrites the filled matrix of a rational CM class. Between
// two curves with the same CM order the isogeny degrees are exactly the
// values of one class of quadratic forms of the discriminant, so the path
// product in the matrix is replaced by the smallest prime that form
// represents, and the form coefficients are recorded alongside.
func (c *Class) applyCMForms(cfg *config) error {
	n := len(c.curves)
	qfmat := make([][][]int64, n)
	for i := range qfmat {
		qfmat[i] = make([][]int64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case j < i:
				qfmat[i][j] = qfmat[j][i]
				c.mat[i][j] = c.mat[j][i]
			case i == j:
				qfmat[i][j] = []int64{1}
			default:
				d := c.curves[i].CM().Discriminant
				if d != c.curves[j].CM().Discriminant {
					qfmat[i][j] = []int64{c.mat[i][j]}
					continue
				}
				q, err := findForm(cfg, d, c.mat[i][j])
				if err != nil {
					return err
				}
				qfmat[i][j] = q.Coefficients()
				p, err := q.SmallPrimeValue()
				if err != nil {
					return fmt.Errorf("isogeny: form %s: %w", q, err)
				}
				c.mat[i][j] = p
			}
		}
	}
	c.qfmat = qfmat
	return nil
}

// findForm returns a reduced form of discriminant d representing m.
func findForm(cfg *config, d, m int64) (quadform.Form, error) {
	forms, err := cfg.classGroup.ReducedForms(d)
	if err != nil {
		return quadform.Form{}, fmt.Errorf("isogeny: class group of discriminant %d: %w", d, err)
	}
	for _, q := range forms {
		if q.Represents(m) {
			return q, nil
		}
	}
	return quadform.Form{}, fmt.Errorf("isogeny: no form of discriminant %d represents %d", d, m)
}

// representative reduces a codomain to the model that will stand for its
// isomorphism class.
func representative(cod ec.Curve, cfg *config) (ec.Curve, error) {
	if !cfg.minimal {
		return cod, nil
	}
	m, err := cod.MinimalModel()
	if err != nil {
		return nil, fmt.Errorf("isogeny: minimal model of codomain %s: %w", cod, err)
	}
	return m, nil
}

// retarget composes phi with an isomorphism so that its codomain is exactly
// the class representative.
func retarget(phi ec.Isogeny, dom, cod ec.Curve) (ec.Isogeny, error) {
	if phi.Codomain().Equal(cod) && phi.Domain().Equal(dom) {
		return phi, nil
	}
	iso, err := phi.Codomain().IsomorphismTo(cod)
	if err != nil {
		return nil, fmt.Errorf("isogeny: retargeting codomain %s: %w", phi.Codomain(), err)
	}
	return &composedIsogeny{phi: phi, post: iso, dom: dom, cod: cod}, nil
}

// composedIsogeny is an isogeny followed by an isomorphism onto the class
// representative of its codomain.
type composedIsogeny struct {
	phi      ec.Isogeny
	post     ec.Isomorphism
	dom, cod ec.Curve
}

func (c *composedIsogeny) Domain() ec.Curve   { return c.dom }
func (c *composedIsogeny) Codomain() ec.Curve { return c.cod }
func (c *composedIsogeny) Degree() int64      { return c.phi.Degree() }

func (c *composedIsogeny) String() string {
	return fmt.Sprintf("%s composed with %s", c.phi, c.post)
}

func indexOfIsomorphic(curves []ec.Curve, e ec.Curve) int {
	for i, c := range curves {
		if e.IsIsomorphic(c) {
			return i
		}
	}
	return -1
}

func containsInt64(s []int64, v int64) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
