package ec

import "math/big"

// cmJTable maps the thirteen rational CM j-invariants to the discriminant of
// the corresponding order in an imaginary quadratic field.
var cmJTable = map[string]int64{
	"0":                   -3,
	"1728":                -4,
	"-3375":               -7,
	"8000":                -8,
	"-32768":              -11,
	"54000":               -12,
	"287496":              -16,
	"-884736":             -19,
	"-12288000":           -27,
	"16581375":            -28,
	"-884736000":          -43,
	"-147197952000":       -67,
	"-262537412640768000": -163,
}

// cmDiscriminant returns the CM order discriminant for a rational j-invariant
// with complex multiplication, or false for the generic case.
func cmDiscriminant(j *big.Rat) (int64, bool) {
	if !j.IsInt() {
		return 0, false
	}
	d, ok := cmJTable[j.Num().String()]
	return d, ok
}
