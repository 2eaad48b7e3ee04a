package ec

import (
	"fmt"
	"math/big"
	"strings"
)

// Weierstrass is an integral Weierstrass model
//
//	y^2 + a1*x*y + a3*y = x^3 + a2*x^2 + a4*x + a6
//
// over the rationals. Models are immutable after construction.
type Weierstrass struct {
	a1, a2, a3, a4, a6 *big.Int
}

// NewWeierstrass builds the curve with the given a-invariants. The
// coefficients are copied.
func NewWeierstrass(a1, a2, a3, a4, a6 *big.Int) (*Weierstrass, error) {
	w := &Weierstrass{
		a1: new(big.Int).Set(a1),
		a2: new(big.Int).Set(a2),
		a3: new(big.Int).Set(a3),
		a4: new(big.Int).Set(a4),
		a6: new(big.Int).Set(a6),
	}
	if w.Discriminant().Sign() == 0 {
		return nil, ErrSingular
	}
	return w, nil
}

// NewWeierstrassFromInts builds the curve [a1, a2, a3, a4, a6] from small
// coefficients.
func NewWeierstrassFromInts(a1, a2, a3, a4, a6 int64) (*Weierstrass, error) {
	return NewWeierstrass(
		big.NewInt(a1), big.NewInt(a2), big.NewInt(a3), big.NewInt(a4), big.NewInt(a6))
}

// ParseWeierstrass parses a curve from the bracket notation
// "[a1, a2, a3, a4, a6]".
func ParseWeierstrass(s string) (*Weierstrass, error) {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "[") || !strings.HasSuffix(t, "]") {
		return nil, fmt.Errorf("ec: malformed curve %q", s)
	}
	parts := strings.Split(t[1:len(t)-1], ",")
	if len(parts) != 5 {
		return nil, fmt.Errorf("ec: expected 5 coefficients in %q, got %d", s, len(parts))
	}
	a := make([]*big.Int, 5)
	for i, p := range parts {
		v, ok := new(big.Int).SetString(strings.TrimSpace(p), 10)
		if !ok {
			return nil, fmt.Errorf("ec: bad coefficient %q in %q", p, s)
		}
		a[i] = v
	}
	return NewWeierstrass(a[0], a[1], a[2], a[3], a[4])
}

// AInvariants returns copies of [a1, a2, a3, a4, a6].
func (w *Weierstrass) AInvariants() []*big.Int {
	return []*big.Int{
		new(big.Int).Set(w.a1),
		new(big.Int).Set(w.a2),
		new(big.Int).Set(w.a3),
		new(big.Int).Set(w.a4),
		new(big.Int).Set(w.a6),
	}
}

// B2 returns a1^2 + 4*a2.
func (w *Weierstrass) B2() *big.Int {
	b2 := new(big.Int).Mul(w.a1, w.a1)
	t := new(big.Int).Lsh(w.a2, 2)
	return b2.Add(b2, t)
}

// B4 returns 2*a4 + a1*a3.
func (w *Weierstrass) B4() *big.Int {
	b4 := new(big.Int).Lsh(w.a4, 1)
	t := new(big.Int).Mul(w.a1, w.a3)
	return b4.Add(b4, t)
}

// B6 returns a3^2 + 4*a6.
func (w *Weierstrass) B6() *big.Int {
	b6 := new(big.Int).Mul(w.a3, w.a3)
	t := new(big.Int).Lsh(w.a6, 2)
	return b6.Add(b6, t)
}

// B8 returns a1^2*a6 + 4*a2*a6 - a1*a3*a4 + a2*a3^2 - a4^2.
func (w *Weierstrass) B8() *big.Int {
	b8 := new(big.Int).Mul(w.a1, w.a1)
	b8.Mul(b8, w.a6)
	t := new(big.Int).Mul(w.a2, w.a6)
	t.Lsh(t, 2)
	b8.Add(b8, t)
	t.Mul(w.a1, w.a3)
	t.Mul(t, w.a4)
	b8.Sub(b8, t)
	t.Mul(w.a3, w.a3)
	t.Mul(t, w.a2)
	b8.Add(b8, t)
	t.Mul(w.a4, w.a4)
	return b8.Sub(b8, t)
}

// C4 returns b2^2 - 24*b4.
func (w *Weierstrass) C4() *big.Int {
	b2 := w.B2()
	c4 := new(big.Int).Mul(b2, b2)
	t := new(big.Int).Mul(w.B4(), big.NewInt(24))
	return c4.Sub(c4, t)
}

// C6 returns -b2^3 + 36*b2*b4 - 216*b6.
func (w *Weierstrass) C6() *big.Int {
	b2 := w.B2()
	c6 := new(big.Int).Mul(b2, b2)
	c6.Mul(c6, b2)
	c6.Neg(c6)
	t := new(big.Int).Mul(b2, w.B4())
	t.Mul(t, big.NewInt(36))
	c6.Add(c6, t)
	t.Mul(w.B6(), big.NewInt(216))
	return c6.Sub(c6, t)
}

// Discriminant returns -b2^2*b8 - 8*b4^3 - 27*b6^2 + 9*b2*b4*b6.
func (w *Weierstrass) Discriminant() *big.Int {
	b2, b4, b6, b8 := w.B2(), w.B4(), w.B6(), w.B8()
	d := new(big.Int).Mul(b2, b2)
	d.Mul(d, b8)
	d.Neg(d)
	t := new(big.Int).Mul(b4, b4)
	t.Mul(t, b4)
	t.Lsh(t, 3)
	d.Sub(d, t)
	t.Mul(b6, b6)
	t.Mul(t, big.NewInt(27))
	d.Sub(d, t)
	t.Mul(b2, b4)
	t.Mul(t, b6)
	t.Mul(t, big.NewInt(9))
	return d.Add(d, t)
}

// JInvariant returns c4^3 / discriminant.
func (w *Weierstrass) JInvariant() *big.Rat {
	c4 := w.C4()
	num := new(big.Int).Mul(c4, c4)
	num.Mul(num, c4)
	return new(big.Rat).SetFrac(num, w.Discriminant())
}

// InvariantKey returns the a-invariants as rationals.
func (w *Weierstrass) InvariantKey() []*big.Rat {
	key := make([]*big.Rat, 5)
	for i, a := range []*big.Int{w.a1, w.a2, w.a3, w.a4, w.a6} {
		key[i] = new(big.Rat).SetInt(a)
	}
	return key
}

// Equal reports whether other is the same Weierstrass model.
func (w *Weierstrass) Equal(other Curve) bool {
	o, ok := other.(*Weierstrass)
	if !ok {
		return false
	}
	return w.a1.Cmp(o.a1) == 0 && w.a2.Cmp(o.a2) == 0 && w.a3.Cmp(o.a3) == 0 &&
		w.a4.Cmp(o.a4) == 0 && w.a6.Cmp(o.a6) == 0
}

// IsIsomorphic reports whether other has the same minimal model.
func (w *Weierstrass) IsIsomorphic(other Curve) bool {
	o, ok := other.(*Weierstrass)
	if !ok {
		return false
	}
	wm, err := w.MinimalModel()
	if err != nil {
		return false
	}
	om, err := o.MinimalModel()
	if err != nil {
		return false
	}
	return wm.Equal(om)
}

// CM looks up the complex multiplication discriminant from the j-invariant.
// Over the rationals the CM is never defined over the base field itself.
func (w *Weierstrass) CM() CMInfo {
	d, ok := cmDiscriminant(w.JInvariant())
	if !ok {
		return CMInfo{}
	}
	return CMInfo{HasCM: true, Rational: false, Discriminant: d}
}

// BaseDegree returns 1, the degree of the rationals.
func (w *Weierstrass) BaseDegree() int { return 1 }

func (w *Weierstrass) String() string {
	return fmt.Sprintf("[%s, %s, %s, %s, %s]", w.a1, w.a2, w.a3, w.a4, w.a6)
}
