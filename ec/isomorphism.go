package ec

import (
	"fmt"
	"math/big"
)

// WeierstrassIsomorphism is the change of variables
//
//	x = u^2*x' + r,  y = u^3*y' + s*u^2*x' + t
//
// carrying the domain model onto the codomain model.
type WeierstrassIsomorphism struct {
	dom, cod   *Weierstrass
	U, R, S, T *big.Rat
}

func (iso *WeierstrassIsomorphism) Domain() Curve   { return iso.dom }
func (iso *WeierstrassIsomorphism) Codomain() Curve { return iso.cod }

func (iso *WeierstrassIsomorphism) String() string {
	return fmt.Sprintf("[%s, %s, %s, %s]",
		iso.U.RatString(), iso.R.RatString(), iso.S.RatString(), iso.T.RatString())
}

// IsomorphismTo constructs an isomorphism from w onto other, solving for the
// scaling factor u from the c-invariants and then for r, s, t coefficient by
// coefficient. ErrNotIsomorphic is returned when no rational change of
// variables exists.
func (w *Weierstrass) IsomorphismTo(other Curve) (Isomorphism, error) {
	o, ok := other.(*Weierstrass)
	if !ok {
		return nil, ErrIncompatible
	}

	u2, err := scaleSquared(w, o)
	if err != nil {
		return nil, err
	}
	u, ok := ratSqrt(u2)
	if !ok {
		return nil, ErrNotIsomorphic
	}
	for _, cand := range []*big.Rat{u, new(big.Rat).Neg(u)} {
		if iso := solveRST(w, o, cand); iso != nil {
			return iso, nil
		}
	}
	return nil, ErrNotIsomorphic
}

// scaleSquared returns u^2 for the change of variables from w to o.
func scaleSquared(w, o *Weierstrass) (*big.Rat, error) {
	c4, c6 := w.C4(), w.C6()
	c4o, c6o := o.C4(), o.C6()
	switch {
	case c4.Sign() == 0 && c4o.Sign() == 0:
		// j = 0: u^6 = c6/c6'
		u6 := new(big.Rat).SetFrac(c6, c6o)
		u2, ok := ratCbrt(u6)
		if !ok {
			return nil, ErrNotIsomorphic
		}
		return u2, nil
	case c6.Sign() == 0 && c6o.Sign() == 0:
		// j = 1728: u^4 = c4/c4'
		u4 := new(big.Rat).SetFrac(c4, c4o)
		u2, ok := ratSqrt(u4)
		if !ok {
			return nil, ErrNotIsomorphic
		}
		return u2, nil
	case c4.Sign() != 0 && c6.Sign() != 0 && c4o.Sign() != 0 && c6o.Sign() != 0:
		// u^2 = u^6 / u^4 = (c6 * c4') / (c6' * c4)
		num := new(big.Int).Mul(c6, c4o)
		den := new(big.Int).Mul(c6o, c4)
		return new(big.Rat).SetFrac(num, den), nil
	default:
		return nil, ErrNotIsomorphic
	}
}

// solveRST derives r, s, t for a fixed u from the a1, a2, a3 transformation
// equations and checks the remaining two. Returns nil if the last equations
// do not hold.
func solveRST(w, o *Weierstrass, u *big.Rat) *WeierstrassIsomorphism {
	wa := ratInvariants(w)
	oa := ratInvariants(o)
	a1, a2, a3, a4, a6 := wa[0], wa[1], wa[2], wa[3], wa[4]

	u2 := new(big.Rat).Mul(u, u)
	u3 := new(big.Rat).Mul(u2, u)
	u4 := new(big.Rat).Mul(u2, u2)
	u6 := new(big.Rat).Mul(u4, u2)

	// u*a1' = a1 + 2s
	s := new(big.Rat).Mul(u, oa[0])
	s.Sub(s, a1)
	s.Mul(s, big.NewRat(1, 2))

	// u^2*a2' = a2 - s*a1 + 3r - s^2
	r := new(big.Rat).Mul(u2, oa[1])
	r.Sub(r, a2)
	t := new(big.Rat).Mul(s, a1)
	r.Add(r, t)
	t.Mul(s, s)
	r.Add(r, t)
	r.Mul(r, big.NewRat(1, 3))

	// u^3*a3' = a3 + r*a1 + 2t
	t = new(big.Rat).Mul(u3, oa[2])
	t.Sub(t, a3)
	tmp := new(big.Rat).Mul(r, a1)
	t.Sub(t, tmp)
	t.Mul(t, big.NewRat(1, 2))

	// u^4*a4' = a4 - s*a3 + 2*r*a2 - (t + r*s)*a1 + 3*r^2 - 2*s*t
	lhs := new(big.Rat).Mul(u4, oa[3])
	rhs := new(big.Rat).Set(a4)
	tmp.Mul(s, a3)
	rhs.Sub(rhs, tmp)
	tmp.Mul(r, a2)
	tmp.Mul(tmp, big.NewRat(2, 1))
	rhs.Add(rhs, tmp)
	tmp.Mul(r, s)
	tmp.Add(tmp, t)
	tmp.Mul(tmp, a1)
	rhs.Sub(rhs, tmp)
	tmp.Mul(r, r)
	tmp.Mul(tmp, big.NewRat(3, 1))
	rhs.Add(rhs, tmp)
	tmp.Mul(s, t)
	tmp.Mul(tmp, big.NewRat(2, 1))
	rhs.Sub(rhs, tmp)
	if lhs.Cmp(rhs) != 0 {
		return nil
	}

	// u^6*a6' = a6 + r*a4 + r^2*a2 + r^3 - t*a3 - t^2 - r*t*a1
	lhs.Mul(u6, oa[4])
	rhs.Set(a6)
	tmp.Mul(r, a4)
	rhs.Add(rhs, tmp)
	tmp.Mul(r, r)
	tmp.Mul(tmp, a2)
	rhs.Add(rhs, tmp)
	tmp.Mul(r, r)
	tmp.Mul(tmp, r)
	rhs.Add(rhs, tmp)
	tmp.Mul(t, a3)
	rhs.Sub(rhs, tmp)
	tmp.Mul(t, t)
	rhs.Sub(rhs, tmp)
	tmp.Mul(r, t)
	tmp.Mul(tmp, a1)
	rhs.Sub(rhs, tmp)
	if lhs.Cmp(rhs) != 0 {
		return nil
	}

	return &WeierstrassIsomorphism{dom: w, cod: o, U: u, R: r, S: s, T: t}
}

func ratInvariants(w *Weierstrass) []*big.Rat {
	a := w.AInvariants()
	out := make([]*big.Rat, 5)
	for i, v := range a {
		out[i] = new(big.Rat).SetInt(v)
	}
	return out
}

// ratSqrt returns the positive rational square root of x, if one exists.
func ratSqrt(x *big.Rat) (*big.Rat, bool) {
	if x.Sign() < 0 {
		return nil, false
	}
	num, ok := intSqrt(x.Num())
	if !ok {
		return nil, false
	}
	den, ok := intSqrt(x.Denom())
	if !ok {
		return nil, false
	}
	return new(big.Rat).SetFrac(num, den), true
}

// ratCbrt returns the rational cube root of x, if one exists.
func ratCbrt(x *big.Rat) (*big.Rat, bool) {
	num, ok := intCbrt(x.Num())
	if !ok {
		return nil, false
	}
	den, ok := intCbrt(x.Denom())
	if !ok {
		return nil, false
	}
	return new(big.Rat).SetFrac(num, den), true
}

func intSqrt(x *big.Int) (*big.Int, bool) {
	if x.Sign() < 0 {
		return nil, false
	}
	s := new(big.Int).Sqrt(x)
	check := new(big.Int).Mul(s, s)
	if check.Cmp(x) != 0 {
		return nil, false
	}
	return s, true
}

func intCbrt(x *big.Int) (*big.Int, bool) {
	neg := x.Sign() < 0
	abs := new(big.Int).Abs(x)
	// Newton-free search via binary root extraction
	s := new(big.Int)
	if abs.Sign() != 0 {
		bits := abs.BitLen()/3 + 1
		lo := new(big.Int)
		hi := new(big.Int).Lsh(big.NewInt(1), uint(bits))
		cube := new(big.Int)
		for lo.Cmp(hi) < 0 {
			mid := new(big.Int).Add(lo, hi)
			mid.Rsh(mid, 1)
			cube.Mul(mid, mid)
			cube.Mul(cube, mid)
			if cube.Cmp(abs) < 0 {
				lo.Add(mid, big.NewInt(1))
			} else {
				hi.Set(mid)
			}
		}
		s.Set(lo)
	}
	check := new(big.Int).Mul(s, s)
	check.Mul(check, s)
	if check.Cmp(new(big.Int).Abs(x)) != 0 {
		return nil, false
	}
	if neg {
		s.Neg(s)
	}
	return s, true
}
