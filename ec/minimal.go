package ec

import (
	"fmt"
	"math/big"

	"github.com/xuluze/passagemath/internal/arith"
)

// MinimalModel returns the global minimal model of the curve, computed with
// the Laska-Kraus-Connell algorithm. Two rational curves are isomorphic if
// and only if their minimal models coincide.
func (w *Weierstrass) MinimalModel() (Curve, error) {
	c4, c6, disc := w.C4(), w.C6(), w.Discriminant()

	// u^12 divides gcd(c6^2, disc) for any admissible rescaling by u
	g := new(big.Int).Mul(c6, c6)
	g.GCD(nil, nil, g, new(big.Int).Abs(disc))
	factors, err := arith.Factor(g)
	if err != nil {
		return nil, fmt.Errorf("ec: minimal model: %w", err)
	}

	u := big.NewInt(1)
	for _, f := range factors {
		d := f.E / 12
		if d == 0 {
			continue
		}
		if c4.Sign() != 0 {
			if v := arith.Valuation(c4, f.P) / 4; v < d {
				d = v
			}
		}
		if c6.Sign() != 0 {
			if v := arith.Valuation(c6, f.P) / 6; v < d {
				d = v
			}
		}
		switch {
		case f.P.Cmp(big.NewInt(2)) == 0:
			for d > 0 && !kraus2(shift(c4, f.P, 4*d), shift(c6, f.P, 6*d)) {
				d--
			}
		case f.P.Cmp(big.NewInt(3)) == 0:
			for d > 0 && !kraus3(shift(c6, f.P, 6*d)) {
				d--
			}
		}
		pd := new(big.Int).Exp(f.P, big.NewInt(int64(d)), nil)
		u.Mul(u, pd)
	}

	u4 := new(big.Int).Mul(u, u)
	u4.Mul(u4, u4)
	u6 := new(big.Int).Mul(u4, u)
	u6.Mul(u6, u)
	c4m := new(big.Int).Quo(c4, u4)
	c6m := new(big.Int).Quo(c6, u6)
	return fromC4C6(c4m, c6m)
}

// shift returns x / p^e, which must be exact.
func shift(x, p *big.Int, e int) *big.Int {
	pe := new(big.Int).Exp(p, big.NewInt(int64(e)), nil)
	return new(big.Int).Quo(x, pe)
}

// kraus2 is Kraus's criterion at 2: (c4, c6) arise from an integral model iff
// c6 = -1 mod 4, or c4 = 0 mod 16 and c6 = 0 or 8 mod 32.
func kraus2(c4, c6 *big.Int) bool {
	if mod(c6, 4) == 3 {
		return true
	}
	if mod(c4, 16) != 0 {
		return false
	}
	r := mod(c6, 32)
	return r == 0 || r == 8
}

// kraus3 is Kraus's criterion at 3: v3(c6) must not be exactly 2.
func kraus3(c6 *big.Int) bool {
	if c6.Sign() == 0 {
		return true
	}
	return arith.Valuation(c6, big.NewInt(3)) != 2
}

// fromC4C6 reconstructs the reduced integral model with the given invariants.
// b2 is normalized into (-6, 6].
func fromC4C6(c4, c6 *big.Int) (*Weierstrass, error) {
	b2v := mod(new(big.Int).Neg(c6), 12)
	if b2v > 6 {
		b2v -= 12
	}
	b2 := big.NewInt(b2v)

	// b4 = (b2^2 - c4) / 24
	b4 := new(big.Int).Mul(b2, b2)
	b4.Sub(b4, c4)
	if !divExact(b4, 24) {
		return nil, fmt.Errorf("ec: invariants (%s, %s) do not give an integral model", c4, c6)
	}

	// b6 = (-b2^3 + 36*b2*b4 - c6) / 216
	b6 := new(big.Int).Mul(b2, b2)
	b6.Mul(b6, b2)
	b6.Neg(b6)
	t := new(big.Int).Mul(b2, b4)
	t.Mul(t, big.NewInt(36))
	b6.Add(b6, t)
	b6.Sub(b6, c6)
	if !divExact(b6, 216) {
		return nil, fmt.Errorf("ec: invariants (%s, %s) do not give an integral model", c4, c6)
	}

	a1 := big.NewInt(mod(b2, 2))
	a2 := new(big.Int).Sub(b2, a1)
	a2.Quo(a2, big.NewInt(4))
	a3 := big.NewInt(mod(b6, 2))
	a6 := new(big.Int).Sub(b6, a3)
	a6.Quo(a6, big.NewInt(4))
	a4 := new(big.Int).Mul(a1, a3)
	a4.Sub(b4, a4)
	if !divExact(a4, 2) {
		return nil, fmt.Errorf("ec: invariants (%s, %s) do not give an integral model", c4, c6)
	}
	return NewWeierstrass(a1, a2, a3, a4, a6)
}

// mod returns the least non-negative residue of x modulo m.
func mod(x *big.Int, m int64) int64 {
	return new(big.Int).Mod(x, big.NewInt(m)).Int64()
}

// divExact divides x by m in place and reports whether the division was exact.
func divExact(x *big.Int, m int64) bool {
	q, r := new(big.Int), new(big.Int)
	q.QuoRem(x, big.NewInt(m), r)
	if r.Sign() != 0 {
		return false
	}
	x.Set(q)
	return true
}
