package catalog

import (
	"fmt"
	"math/big"

	"github.com/xuluze/passagemath/ec"
)

// nfCurve is a curve over a number field reduced to its bare class data:
// invariant key, CM order and base field degree. Isogenies between the stub
// curves come from the edge table rather than from kernel computations, so
// the curves carry no coefficients.
type nfCurve struct {
	name    string
	variant int // 0 is the reduced model
	key     []*big.Rat
	cm      ec.CMInfo
	deg     int
}

// nfKey flattens leading a-invariant coordinates into a key of the full
// length 5*deg, padding with zeros.
func nfKey(deg int, vals ...int64) []*big.Rat {
	key := make([]*big.Rat, 5*deg)
	for i := range key {
		key[i] = new(big.Rat)
	}
	for i, v := range vals {
		key[i] = big.NewRat(v, 1)
	}
	return key
}

var nfTable = map[string]*nfCurve{
	// the four curves with j = 0 over the Gaussian rationals; the CM by -3
	// is not defined over the field
	"qi.0": {name: "qi.0", key: nfKey(2, 0, 0, 0, 0, 1), cm: ec.CMInfo{HasCM: true, Discriminant: -3}, deg: 2},
	"qi.1": {name: "qi.1", key: nfKey(2, 0, 0, 0, 0, 2), cm: ec.CMInfo{HasCM: true, Discriminant: -3}, deg: 2},
	"qi.2": {name: "qi.2", key: nfKey(2, 0, 0, 0, 0, 3), cm: ec.CMInfo{HasCM: true, Discriminant: -3}, deg: 2},
	"qi.3": {name: "qi.3", key: nfKey(2, 0, 0, 0, 0, 4), cm: ec.CMInfo{HasCM: true, Discriminant: -3}, deg: 2},

	// a 5-isogenous pair without CM over a quadratic field
	"syn.0": {name: "syn.0", key: nfKey(2, 1, 0, 1, -1, 0), deg: 2},
	"syn.1": {name: "syn.1", key: nfKey(2, 1, 0, 1, 4, -6), deg: 2},

	// rational CM by the order of discriminant -20, class number 2
	"cm20.0": {name: "cm20.0", key: nfKey(4, 0, 0, 0, -5), cm: ec.CMInfo{HasCM: true, Rational: true, Discriminant: -20}, deg: 4},
	"cm20.1": {name: "cm20.1", key: nfKey(4, 0, 0, 0, 10), cm: ec.CMInfo{HasCM: true, Rational: true, Discriminant: -20}, deg: 4},

	// rational CM by the maximal order of discriminant -23, class number 3
	"cm23.0": {name: "cm23.0", key: nfKey(6, 0, -1, 0, 2), cm: ec.CMInfo{HasCM: true, Rational: true, Discriminant: -23}, deg: 6},
	"cm23.1": {name: "cm23.1", key: nfKey(6, 0, -1, 0, 7), cm: ec.CMInfo{HasCM: true, Rational: true, Discriminant: -23}, deg: 6},
	"cm23.2": {name: "cm23.2", key: nfKey(6, 0, -1, 0, 11), cm: ec.CMInfo{HasCM: true, Rational: true, Discriminant: -23}, deg: 6},
}

// nfEdge is a prime-degree isogeny between stub curves and its dual. The
// codomain is served as the given variant in the forward direction, standing
// for an engine that returns a non-reduced model.
type nfEdge struct {
	from, to string
	degree   int64
	variant  int
}

var nfEdgeTable = []nfEdge{
	{from: "qi.0", to: "qi.1", degree: 3},
	{from: "qi.0", to: "qi.3", degree: 2},
	{from: "qi.1", to: "qi.2", degree: 2, variant: 1},
	{from: "qi.2", to: "qi.3", degree: 3},
	{from: "syn.0", to: "syn.1", degree: 5},
	{from: "cm20.0", to: "cm20.1", degree: 2},
	{from: "cm23.0", to: "cm23.1", degree: 2},
	{from: "cm23.0", to: "cm23.2", degree: 3},
}

// NumberFieldCurve returns the stub curve with the given name.
func NumberFieldCurve(name string) (ec.Curve, error) {
	c, ok := nfTable[name]
	if !ok {
		return nil, fmt.Errorf("%w: name %q", ErrUnknownCurve, name)
	}
	return c, nil
}

func (c *nfCurve) InvariantKey() []*big.Rat { return c.key }

func (c *nfCurve) Equal(other ec.Curve) bool {
	o, ok := other.(*nfCurve)
	return ok && o.name == c.name && o.variant == c.variant
}

func (c *nfCurve) IsIsomorphic(other ec.Curve) bool {
	o, ok := other.(*nfCurve)
	return ok && o.name == c.name
}

func (c *nfCurve) IsomorphismTo(other ec.Curve) (ec.Isomorphism, error) {
	if !c.IsIsomorphic(other) {
		return nil, ec.ErrNotIsomorphic
	}
	return &nfIsomorphism{dom: c, cod: other}, nil
}

func (c *nfCurve) MinimalModel() (ec.Curve, error) {
	if c.variant == 0 {
		return c, nil
	}
	return nfTable[c.name], nil
}

func (c *nfCurve) CM() ec.CMInfo   { return c.cm }
func (c *nfCurve) BaseDegree() int { return c.deg }

func (c *nfCurve) String() string {
	if c.variant == 0 {
		return c.name
	}
	return fmt.Sprintf("%s~%d", c.name, c.variant)
}

type nfIsomorphism struct {
	dom, cod ec.Curve
}

func (iso *nfIsomorphism) Domain() ec.Curve   { return iso.dom }
func (iso *nfIsomorphism) Codomain() ec.Curve { return iso.cod }

func (iso *nfIsomorphism) String() string {
	return fmt.Sprintf("isomorphism from %s to %s", iso.dom, iso.cod)
}

// NumberFieldEngine returns an engine serving the stub curves.
func NumberFieldEngine() ec.Engine { return nfEngine{} }

type nfEngine struct{}

func (nfEngine) PrimeDegreeIsogenies(c ec.Curve, degrees []int64) ([]ec.Isogeny, error) {
	nc, ok := c.(*nfCurve)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurve, c)
	}
	var out []ec.Isogeny
	for _, e := range nfEdgeTable {
		var other string
		variant := 0
		switch nc.name {
		case e.from:
			other = e.to
			variant = e.variant
		case e.to:
			other = e.from
		default:
			continue
		}
		if !containsDegree(degrees, e.degree) {
			continue
		}
		cod := ec.Curve(nfTable[other])
		if variant != 0 {
			base := nfTable[other]
			cod = &nfCurve{name: base.name, variant: variant, key: base.key, cm: base.cm, deg: base.deg}
		}
		out = append(out, &tableIsogeny{dom: c, cod: cod, degree: e.degree})
	}
	return out, nil
}
