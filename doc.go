// Package passagemath computes isogeny classes of elliptic curves.
//
// Starting from a seed curve and a finite set of candidate prime degrees, the
// isogeny package performs a breadth-first closure over prime-degree
// isogenies and produces the complete class: the list of curves up to
// isomorphism, the matrix of minimal cyclic isogeny degrees, and a witness
// isogeny for every discovered edge. Supporting packages provide Weierstrass
// models over the rationals (ec), binary quadratic forms and class-group data
// for curves with complex multiplication (quadform), and a persistent store
// of computed classes (classdb).
package passagemath

import (
	"github.com/blang/semver/v4"
)

// Version of the passagemath module.
var Version = semver.MustParse("0.1.0")
