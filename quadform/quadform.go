// Package quadform implements positive definite integral binary quadratic
// forms a*x^2 + b*x*y + c*y^2 of negative discriminant: enumeration of
// reduced primitive representatives of the class group, representation
// testing, and the smallest represented prime. These classify the possible
// degrees of horizontal isogenies between curves with the same CM order.
package quadform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/xuluze/passagemath/internal/arith"
)

var (
	// ErrInvalidDiscriminant is returned for discriminants that are not
	// negative and congruent to 0 or 1 modulo 4.
	ErrInvalidDiscriminant = errors.New("quadform: discriminant must be negative and 0 or 1 mod 4")
	// ErrNoPrimeValue is returned when no represented prime was found below
	// the search bound.
	ErrNoPrimeValue = errors.New("quadform: no represented prime found below search bound")
)

// Form is the binary quadratic form A*x^2 + B*x*y + C*y^2.
type Form struct {
	A, B, C int64
}

// Discriminant returns B^2 - 4*A*C.
func (f Form) Discriminant() int64 {
	return f.B*f.B - 4*f.A*f.C
}

// IsPrimitive reports whether gcd(A, B, C) = 1.
func (f Form) IsPrimitive() bool {
	return gcd(gcd(abs(f.A), abs(f.B)), abs(f.C)) == 1
}

// IsPrincipal reports whether f is the reduced principal form of its
// discriminant.
func (f Form) IsPrincipal() bool {
	return f.A == 1
}

// Inverse returns the reduced form of the inverse class. For a reduced form
// (a, b, c) this is (a, -b, c), normalized back into the reduced domain.
func (f Form) Inverse() Form {
	if f.B == f.A || f.A == f.C {
		return f
	}
	return Form{f.A, -f.B, f.C}
}

// Coefficients returns [A, B, C].
func (f Form) Coefficients() []int64 {
	return []int64{f.A, f.B, f.C}
}

func (f Form) String() string {
	return fmt.Sprintf("%d*x^2 + %d*x*y + %d*y^2", f.A, f.B, f.C)
}

// Represents reports whether f(x, y) = n has an integer solution, n >= 0.
// The form must be positive definite.
func (f Form) Represents(n int64) bool {
	if n < 0 {
		return false
	}
	if n == 0 {
		return true
	}
	// 4a*f(x,y) = (2ax + by)^2 + |D|y^2, so y^2 <= 4an/|D|
	dAbs := -f.Discriminant()
	for y := int64(0); y*y*dAbs <= 4*f.A*n; y++ {
		for _, yy := range []int64{y, -y} {
			s := 4*f.A*n - dAbs*yy*yy
			t, ok := sqrtExact(s)
			if !ok {
				continue
			}
			for _, tt := range []int64{t, -t} {
				num := tt - f.B*yy
				if num%(2*f.A) == 0 {
					return true
				}
			}
			if yy == 0 {
				break
			}
		}
	}
	return false
}

// smallPrimeBound caps the search in SmallPrimeValue. Every primitive form of
// negative discriminant represents infinitely many primes, so in practice the
// search stops almost immediately.
const smallPrimeBound = 1 << 20

// SmallPrimeValue returns the smallest prime represented by f.
func (f Form) SmallPrimeValue() (int64, error) {
	for bound := int64(1 << 10); bound <= smallPrimeBound; bound <<= 2 {
		for _, p := range arith.PrimesUpTo(bound) {
			if f.Represents(p) {
				return p, nil
			}
		}
	}
	return 0, ErrNoPrimeValue
}

// ReducedForms returns the reduced primitive forms of discriminant d < 0 in
// lexicographic order of coefficients, one per class of the form class
// group. A reduced form satisfies |b| <= a <= c with b >= 0 whenever |b| = a
// or a = c.
func ReducedForms(d int64) ([]Form, error) {
	if d >= 0 || arith.Mod64(d, 4) > 1 {
		return nil, ErrInvalidDiscriminant
	}
	var forms []Form
	for a := int64(1); 3*a*a <= -d; a++ {
		for b := -a + 1; b <= a; b++ {
			if arith.Mod64(b-d, 2) != 0 {
				continue
			}
			num := b*b - d
			if num%(4*a) != 0 {
				continue
			}
			c := num / (4 * a)
			if c < a {
				continue
			}
			if b < 0 && a == c {
				continue
			}
			f := Form{a, b, c}
			if f.IsPrimitive() {
				forms = append(forms, f)
			}
		}
	}
	sort.Slice(forms, func(i, j int) bool {
		if forms[i].A != forms[j].A {
			return forms[i].A < forms[j].A
		}
		if forms[i].B != forms[j].B {
			return forms[i].B < forms[j].B
		}
		return forms[i].C < forms[j].C
	})
	return forms, nil
}

// ClassNumber returns the form class number h(d).
func ClassNumber(d int64) (int64, error) {
	forms, err := ReducedForms(d)
	if err != nil {
		return 0, err
	}
	return int64(len(forms)), nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

// sqrtExact returns the integer square root of s and whether s is a perfect
// square.
func sqrtExact(s int64) (int64, bool) {
	if s < 0 {
		return 0, false
	}
	var lo, hi int64 = 0, 1
	for hi*hi < s && hi < 1<<31 {
		hi <<= 1
	}
	for lo < hi {
		mid := (lo + hi) / 2
		if mid*mid < s {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo*lo == s {
		return lo, true
	}
	return 0, false
}
