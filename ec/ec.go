// Package ec defines the elliptic curve boundary used by the isogeny
// closure: curves up to isomorphism, the morphisms between them, and the
// engine supplying prime-degree isogenies. It also implements integral
// Weierstrass models over the rationals, including minimal models and
// explicit isomorphisms.
//
// Isogeny construction itself (Vélu formulas, kernel polynomials) is out of
// scope: an Engine is an external supplier of prime-degree isogenies, and
// the closure composes whatever it returns.
package ec

import (
	"errors"
	"math/big"
)

var (
	// ErrSingular is returned for Weierstrass coefficients with vanishing
	// discriminant.
	ErrSingular = errors.New("ec: discriminant is zero, curve is singular")
	// ErrNotIsomorphic is returned by IsomorphismTo for curves in different
	// isomorphism classes.
	ErrNotIsomorphic = errors.New("ec: curves are not isomorphic")
	// ErrIncompatible is returned when two curves do not live over the same
	// base field implementation.
	ErrIncompatible = errors.New("ec: curves are not defined over a common base field")
)

// CMInfo describes the complex multiplication of a curve. Rational means the
// extra endomorphisms are defined over the curve's own base field; over the
// rationals this is never the case.
type CMInfo struct {
	HasCM        bool
	Rational     bool
	Discriminant int64
}

// Curve is one elliptic curve model. Implementations must give isomorphic
// models equal invariant keys exactly when their reduced models coincide, so
// that the key defines a canonical order on an isogeny class.
type Curve interface {
	// InvariantKey returns the flattened coefficients of the a-invariants of
	// this model, compared lexicographically to order curves in a class.
	InvariantKey() []*big.Rat

	// Equal reports whether other is the same model, not merely isomorphic.
	Equal(other Curve) bool

	// IsIsomorphic reports whether other is isomorphic to this curve over
	// the base field.
	IsIsomorphic(other Curve) bool

	// IsomorphismTo constructs an isomorphism from this model to other.
	IsomorphismTo(other Curve) (Isomorphism, error)

	// MinimalModel returns the distinguished representative of the
	// isomorphism class of this curve.
	MinimalModel() (Curve, error)

	// CM describes the complex multiplication of the curve.
	CM() CMInfo

	// BaseDegree returns the absolute degree of the base field.
	BaseDegree() int

	String() string
}

// Isogeny is a cyclic isogeny between two curve models. Implementations are
// produced by an Engine and never mutated by the closure.
type Isogeny interface {
	Domain() Curve
	Codomain() Curve
	Degree() int64
	String() string
}

// Isomorphism is an invertible map between two models of the same curve.
type Isomorphism interface {
	Domain() Curve
	Codomain() Curve
	String() string
}

// Engine supplies the isogenies of prime degree out of a curve. degrees
// restricts the answer to the given primes. Engines may return isogenies
// whose codomain is any model; the closure retargets them onto class
// representatives itself.
type Engine interface {
	PrimeDegreeIsogenies(c Curve, degrees []int64) ([]Isogeny, error)
}

// CompareKeys orders invariant keys lexicographically; shorter keys sort
// first on ties.
func CompareKeys(a, b []*big.Rat) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := a[i].Cmp(b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
