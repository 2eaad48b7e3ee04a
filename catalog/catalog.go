// Package catalog carries a small table of elliptic curves over the
// rationals with known prime-degree isogenies, and stub curves over number
// fields, together with engines serving them. It backs the command line
// tools and the tests; plugging in an engine that computes isogenies from
// scratch replaces it transparently.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/xuluze/passagemath/ec"
)

// ErrUnknownCurve is returned for curves outside the catalog.
var ErrUnknownCurve = errors.New("catalog: curve not in catalog")

// curve labels follow the Cremona convention: conductor, class letter,
// index within the class.
var curveTable = map[string][5]int64{
	"11a1": {0, -1, 1, -10, -20},
	"11a2": {0, -1, 1, -7820, -263580},
	"11a3": {0, -1, 1, 0, 0},
	"15a1": {1, 1, 1, -10, -10},
	"15a2": {1, 1, 1, -135, -660},
	"15a3": {1, 1, 1, -5, 2},
	"15a4": {1, 1, 1, 35, -28},
	"15a5": {1, 1, 1, -2160, -39540},
	"15a6": {1, 1, 1, -110, -880},
	"15a7": {1, 1, 1, 0, 0},
	"15a8": {1, 1, 1, -80, 242},
}

// isogenyEdge is one prime-degree isogeny between labelled curves. Each edge
// stands for the isogeny and its dual.
type isogenyEdge struct {
	from, to string
	degree   int64
}

var edgeTable = []isogenyEdge{
	{"11a1", "11a2", 5},
	{"11a1", "11a3", 5},
	{"15a1", "15a2", 2},
	{"15a1", "15a3", 2},
	{"15a1", "15a4", 2},
	{"15a3", "15a7", 2},
	{"15a3", "15a8", 2},
	{"15a4", "15a5", 2},
	{"15a4", "15a6", 2},
}

// Curve returns the catalog curve with the given Cremona label.
func Curve(label string) (*ec.Weierstrass, error) {
	a, ok := curveTable[label]
	if !ok {
		return nil, fmt.Errorf("%w: label %q", ErrUnknownCurve, label)
	}
	return ec.NewWeierstrassFromInts(a[0], a[1], a[2], a[3], a[4])
}

// Labels returns all catalog labels in sorted order.
func Labels() []string {
	labels := make([]string, 0, len(curveTable))
	for l := range curveTable {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Label returns the catalog label of a rational curve, identified through
// its minimal model.
func Label(c ec.Curve) (string, error) {
	m, err := c.MinimalModel()
	if err != nil {
		return "", err
	}
	for _, label := range Labels() {
		cur, err := Curve(label)
		if err != nil {
			return "", err
		}
		if cur.Equal(m) {
			return label, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCurve, c)
}

// Engine returns an isogeny engine serving the rational curves of the
// catalog.
func Engine() ec.Engine { return qEngine{} }

type qEngine struct{}

func (qEngine) PrimeDegreeIsogenies(c ec.Curve, degrees []int64) ([]ec.Isogeny, error) {
	label, err := Label(c)
	if err != nil {
		return nil, err
	}
	var out []ec.Isogeny
	for _, e := range edgeTable {
		var other string
		switch label {
		case e.from:
			other = e.to
		case e.to:
			other = e.from
		default:
			continue
		}
		if !containsDegree(degrees, e.degree) {
			continue
		}
		cod, err := Curve(other)
		if err != nil {
			return nil, err
		}
		out = append(out, &tableIsogeny{dom: c, cod: cod, degree: e.degree})
	}
	return out, nil
}

// tableIsogeny is an isogeny known to exist from the catalog tables. It
// carries no rational maps.
type tableIsogeny struct {
	dom, cod ec.Curve
	degree   int64
}

func (t *tableIsogeny) Domain() ec.Curve   { return t.dom }
func (t *tableIsogeny) Codomain() ec.Curve { return t.cod }
func (t *tableIsogeny) Degree() int64      { return t.degree }

func (t *tableIsogeny) String() string {
	return fmt.Sprintf("isogeny of degree %d from %s to %s", t.degree, t.dom, t.cod)
}

func containsDegree(degrees []int64, d int64) bool {
	for _, x := range degrees {
		if x == d {
			return true
		}
	}
	return false
}
