// Package isogeny computes the isogeny class of an elliptic curve: the
// finite list of curves isogenous to it up to isomorphism, the matrix of
// minimal isogeny degrees between them, witness isogenies of prime degree
// and the underlying graph.
//
// The class is closed under duals, so the curves form a connected undirected
// graph whose edges are the prime-degree isogenies. Degrees multiply along
// paths, which determines every matrix entry from the witnesses except
// between curves with the same CM order, where quadratic forms of the CM
// discriminant take over.
package isogeny

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/katalvlaran/lvlath/core"

	"github.com/xuluze/passagemath/ec"
	"github.com/xuluze/passagemath/internal/matrix"
)

var (
	// ErrNotCM is returned by the CM degree search for curves without
	// complex multiplication.
	ErrNotCM = errors.New("isogeny: curve does not have complex multiplication")
	// ErrNoDegreeBound is returned when no bound on the reducible primes is
	// available for the curve.
	ErrNoDegreeBound = errors.New("isogeny: no bound on isogeny degrees known, configure a degree oracle")
	// ErrNotInClass is returned when a curve is not isomorphic to any class
	// member.
	ErrNotInClass = errors.New("isogeny: curve is not in the class")
	// ErrFilledWitnesses is returned when witness isogenies are requested
	// for the filled matrix, whose composite entries have no single witness.
	ErrFilledWitnesses = errors.New("isogeny: witnesses exist only for prime-degree entries, not for the filled matrix")
	// ErrNoWitnesses is returned by classes reconstructed from storage,
	// which carry no isogeny witnesses.
	ErrNoWitnesses = errors.New("isogeny: class carries no witness isogenies")
	// ErrInvalidOrdering is returned by Reorder for orderings that do not
	// describe a permutation of the class.
	ErrInvalidOrdering = errors.New("isogeny: ordering is not a permutation of the class")
)

// Class is the isogeny class of a curve. Curves are stored in a canonical
// order; accessors return internal state that callers must not modify.
type Class struct {
	seed    ec.Curve
	curves  []ec.Curve
	degrees []int64
	mat     [][]int64        // filled degree matrix, CM-adjusted
	maps    [][]ec.Isogeny   // prime-degree witnesses, nil when reconstructed
	qfmat   [][][]int64      // form coefficients per entry, CM classes only

	unfillOnce sync.Once
	unfilled   [][]int64

	graphOnce sync.Once
	graph     *core.Graph
	graphErr  error
}

// NewFromStored rebuilds a class from its stored curves and matrices, for
// example out of a database. The resulting class has no witness isogenies.
func NewFromStored(curves []ec.Curve, mat [][]int64, qfmat [][][]int64) (*Class, error) {
	n := len(curves)
	if n == 0 {
		return nil, fmt.Errorf("isogeny: stored class has no curves")
	}
	if len(mat) != n {
		return nil, fmt.Errorf("isogeny: stored matrix is %dx%d for %d curves", len(mat), len(mat), n)
	}
	for _, row := range mat {
		if len(row) != n {
			return nil, fmt.Errorf("isogeny: stored matrix is not square")
		}
	}
	if qfmat != nil && len(qfmat) != n {
		return nil, fmt.Errorf("isogeny: stored form matrix has %d rows for %d curves", len(qfmat), n)
	}
	return &Class{
		seed:   curves[0],
		curves: append([]ec.Curve(nil), curves...),
		mat:    matrix.Clone(mat),
		qfmat:  qfmat,
	}, nil
}

// Len returns the number of curves in the class.
func (c *Class) Len() int { return len(c.curves) }

// Seed returns the curve the class was computed from.
func (c *Class) Seed() ec.Curve { return c.seed }

// Curves returns the curves of the class in canonical order.
func (c *Class) Curves() []ec.Curve { return c.curves }

// Curve returns the i-th curve of the class.
func (c *Class) Curve(i int) ec.Curve { return c.curves[i] }

// Degrees returns the prime degrees generating the class.
func (c *Class) Degrees() []int64 { return c.degrees }

// Index returns the position of the class member isomorphic to e.
func (c *Class) Index(e ec.Curve) (int, error) {
	for i, cur := range c.curves {
		if cur.Equal(e) {
			return i, nil
		}
	}
	for i, cur := range c.curves {
		if cur.IsIsomorphic(e) {
			return i, nil
		}
	}
	return 0, ErrNotInClass
}

// Contains reports whether e is isomorphic to a member of the class.
func (c *Class) Contains(e ec.Curve) bool {
	_, err := c.Index(e)
	return err == nil
}

// Matrix returns the degree matrix. With fill, entry (i, j) is the minimal
// degree of an isogeny between curves i and j; without, entries of composite
// degree are zeroed so that only the prime-degree edges remain. The returned
// matrix is shared, repeated calls return the same slice.
func (c *Class) Matrix(fill bool) [][]int64 {
	if fill {
		return c.mat
	}
	c.unfillOnce.Do(func() {
		c.unfilled = matrix.Unfill(c.mat)
	})
	return c.unfilled
}

// QFMatrix returns per entry the coefficients of a quadratic form
// representing all isogeny degrees between the two curves: [1] on the
// diagonal, [l] for curves with distinct CM orders and the three
// coefficients of a binary form for curves sharing one. Only classes with
// rational CM carry form data; ErrNotCM is returned otherwise.
func (c *Class) QFMatrix() ([][][]int64, error) {
	if c.qfmat == nil {
		return nil, ErrNotCM
	}
	return c.qfmat, nil
}

// Equal reports whether the two classes consist of the same curves,
// regardless of order.
func (c *Class) Equal(other *Class) bool {
	if other == nil || len(c.curves) != len(other.curves) {
		return false
	}
	for _, cur := range c.curves {
		if !other.Contains(cur) {
			return false
		}
	}
	return true
}

// Isogenies returns the witness isogenies: entry (i, j) holds a prime-degree
// isogeny from curve i to curve j where one was recorded, nil elsewhere. The
// composite entries of the filled matrix have no witnesses, so fill must be
// false.
func (c *Class) Isogenies(fill bool) ([][]ec.Isogeny, error) {
	if fill {
		return nil, ErrFilledWitnesses
	}
	if c.maps == nil {
		return nil, ErrNoWitnesses
	}
	return c.maps, nil
}

// Graph returns the isogeny graph: one vertex per curve labelled by its
// 1-based index, one weighted edge per prime-degree isogeny pair.
func (c *Class) Graph() (*core.Graph, error) {
	c.graphOnce.Do(func() {
		c.graph, c.graphErr = c.buildGraph()
	})
	return c.graph, c.graphErr
}

func (c *Class) buildGraph() (*core.Graph, error) {
	g := core.NewGraph(core.WithWeighted())
	for i := range c.curves {
		if err := g.AddVertex(strconv.Itoa(i + 1)); err != nil {
			return nil, fmt.Errorf("isogeny: graph vertex %d: %w", i+1, err)
		}
	}
	m := c.Matrix(false)
	for i := range m {
		for j := i + 1; j < len(m); j++ {
			if m[i][j] == 0 {
				continue
			}
			if _, err := g.AddEdge(strconv.Itoa(i+1), strconv.Itoa(j+1), m[i][j]); err != nil {
				return nil, fmt.Errorf("isogeny: graph edge %d-%d: %w", i+1, j+1, err)
			}
		}
	}
	return g, nil
}

func (c *Class) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "isogeny class of %s (%d curves):", c.seed, len(c.curves))
	for _, cur := range c.curves {
		b.WriteString("\n  ")
		b.WriteString(cur.String())
	}
	return b.String()
}
