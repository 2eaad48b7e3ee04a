// Package matrix implements the degree-matrix routines of the isogeny
// closure: the multiplicative shortest-path fill, its inverse, and
// conjugation by a permutation.
package matrix

import (
	"github.com/xuluze/passagemath/internal/arith"
)

// Clone returns a deep copy of m.
func Clone(m [][]int64) [][]int64 {
	out := make([][]int64, len(m))
	for i, row := range m {
		out[i] = make([]int64, len(row))
		copy(out[i], row)
	}
	return out
}

// Zero returns an n by n zero matrix.
func Zero(n int) [][]int64 {
	out := make([][]int64, n)
	for i := range out {
		out[i] = make([]int64, n)
	}
	return out
}

// Fill completes a partial symmetric matrix of prime isogeny degrees into the
// matrix of minimal cyclic isogeny degrees: the diagonal becomes 1, and entry
// (i,j) becomes the minimal product of edge degrees along any path from i to
// j, or stays 0 if the two vertices are not connected. Entries present in
// only one of (i,j), (j,i) are treated as edges in both directions, since
// every isogeny has a dual of the same degree.
func Fill(m [][]int64) [][]int64 {
	n := len(m)
	d := Zero(n)
	for i := 0; i < n; i++ {
		d[i][i] = 1
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			e := m[i][j]
			if m[j][i] != 0 && (e == 0 || m[j][i] < e) {
				e = m[j][i]
			}
			d[i][j] = e
		}
	}
	// Floyd-Warshall with multiplication as path cost
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if d[i][k] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				if d[k][j] == 0 {
					continue
				}
				via := d[i][k] * d[k][j]
				if d[i][j] == 0 || via < d[i][j] {
					d[i][j] = via
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		d[i][i] = 1
	}
	return d
}

// Unfill zeroes every entry of a filled degree matrix that is not prime,
// leaving only the directly discovered prime-degree edges. The diagonal
// becomes 0.
func Unfill(m [][]int64) [][]int64 {
	out := Clone(m)
	for i := range out {
		for j := range out[i] {
			if !arith.IsPrime64(out[i][j]) {
				out[i][j] = 0
			}
		}
	}
	return out
}

// Permute conjugates m by a permutation: the result r satisfies
// r[i][j] = m[perm[i]][perm[j]], i.e. perm maps new indices to old ones.
func Permute(m [][]int64, perm []int) [][]int64 {
	n := len(m)
	out := Zero(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i][j] = m[perm[i]][perm[j]]
		}
	}
	return out
}
