// Package arith provides the integer arithmetic shared by the quadratic form
// and isogeny packages: primality, sieves, divisor enumeration, Kronecker
// symbols and factorisation of big integers.
package arith

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// PrimesUpTo returns all primes p <= n in increasing order.
func PrimesUpTo(n int64) []int64 {
	if n < 2 {
		return nil
	}
	composite := bitset.New(uint(n + 1))
	var primes []int64
	for p := int64(2); p <= n; p++ {
		if composite.Test(uint(p)) {
			continue
		}
		primes = append(primes, p)
		for q := p * p; q <= n; q += p {
			composite.Set(uint(q))
		}
	}
	return primes
}

// IsPrime64 reports whether n is prime. Exact for all int64 values.
func IsPrime64(n int64) bool {
	if n < 2 {
		return false
	}
	return big.NewInt(n).ProbablyPrime(0)
}

// Mod64 returns the least non-negative residue of a modulo m, m > 0.
func Mod64(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// Kronecker computes the Kronecker symbol (a|n), extending the Jacobi symbol
// to all integers n.
func Kronecker(a, n int64) int {
	if n == 0 {
		if a == 1 || a == -1 {
			return 1
		}
		return 0
	}
	if a%2 == 0 && n%2 == 0 {
		return 0
	}
	k := 1
	// strip twos from n; (a|2) is 0, 1, -1 for a even, a = ±1 mod 8, a = ±3 mod 8
	for n%2 == 0 {
		n /= 2
		switch Mod64(a, 8) {
		case 3, 5:
			k = -k
		}
	}
	if n < 0 {
		n = -n
		if a < 0 {
			k = -k
		}
	}
	a = Mod64(a, n)
	for a != 0 {
		for a%2 == 0 {
			a /= 2
			switch Mod64(n, 8) {
			case 3, 5:
				k = -k
			}
		}
		// quadratic reciprocity, both odd here
		if a%4 == 3 && n%4 == 3 {
			k = -k
		}
		a, n = n%a, a
	}
	if n == 1 {
		return k
	}
	return 0
}

// OddPart returns the largest odd divisor of |n|, n != 0.
func OddPart(n int64) int64 {
	if n < 0 {
		n = -n
	}
	for n%2 == 0 {
		n /= 2
	}
	return n
}

// PrimeFactors64 returns the distinct prime factors of |n| in increasing
// order. n must be non-zero; the factors of 1 are none.
func PrimeFactors64(n int64) []int64 {
	if n < 0 {
		n = -n
	}
	var factors []int64
	for p := int64(2); p*p <= n; p++ {
		if n%p != 0 {
			continue
		}
		factors = append(factors, p)
		for n%p == 0 {
			n /= p
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

// Divisors returns all positive divisors of n > 0 in increasing order.
func Divisors(n int64) []int64 {
	divs := []int64{1}
	for p := int64(2); p*p <= n; p++ {
		if n%p != 0 {
			continue
		}
		e := 0
		for n%p == 0 {
			n /= p
			e++
		}
		cur := len(divs)
		pk := int64(1)
		for i := 0; i < e; i++ {
			pk *= p
			for j := 0; j < cur; j++ {
				divs = append(divs, divs[j]*pk)
			}
		}
	}
	if n > 1 {
		cur := len(divs)
		for j := 0; j < cur; j++ {
			divs = append(divs, divs[j]*n)
		}
	}
	sort.Slice(divs, func(i, j int) bool { return divs[i] < divs[j] })
	return divs
}

// Valuation returns the p-adic valuation of x, x != 0.
func Valuation(x, p *big.Int) int {
	v := 0
	q, r := new(big.Int), new(big.Int)
	cur := new(big.Int).Abs(x)
	for {
		q.QuoRem(cur, p, r)
		if r.Sign() != 0 {
			return v
		}
		cur.Set(q)
		v++
	}
}

// FactorPE is one prime power of a factorisation.
type FactorPE struct {
	P *big.Int
	E int
}

const trialBound = 100000

// Factor returns the prime factorisation of |n|, n != 0, sorted by prime.
// Small factors are found by trial division, the rest by Pollard rho.
func Factor(n *big.Int) ([]FactorPE, error) {
	if n.Sign() == 0 {
		return nil, fmt.Errorf("arith: cannot factor zero")
	}
	rest := new(big.Int).Abs(n)
	exps := make(map[string]*FactorPE)
	add := func(p *big.Int, e int) {
		key := p.String()
		if f, ok := exps[key]; ok {
			f.E += e
			return
		}
		exps[key] = &FactorPE{P: new(big.Int).Set(p), E: e}
	}

	q, r := new(big.Int), new(big.Int)
	for _, sp := range PrimesUpTo(trialBound) {
		p := big.NewInt(sp)
		if p.Cmp(rest) > 0 {
			break
		}
		e := 0
		for {
			q.QuoRem(rest, p, r)
			if r.Sign() != 0 {
				break
			}
			rest.Set(q)
			e++
		}
		if e > 0 {
			add(p, e)
		}
	}

	// split the remaining cofactor
	var split func(m *big.Int)
	split = func(m *big.Int) {
		if m.Cmp(big.NewInt(1)) == 0 {
			return
		}
		if m.ProbablyPrime(20) {
			add(m, 1)
			return
		}
		d := rho(m)
		split(d)
		split(new(big.Int).Quo(m, d))
	}
	split(rest)

	factors := make([]FactorPE, 0, len(exps))
	for _, f := range exps {
		factors = append(factors, *f)
	}
	sort.Slice(factors, func(i, j int) bool { return factors[i].P.Cmp(factors[j].P) < 0 })
	return factors, nil
}

// rho finds a non-trivial factor of an odd composite n with Pollard's rho.
func rho(n *big.Int) *big.Int {
	one := big.NewInt(1)
	for c := int64(1); ; c++ {
		cBig := big.NewInt(c)
		f := func(v *big.Int) *big.Int {
			r := new(big.Int).Mul(v, v)
			r.Add(r, cBig)
			return r.Mod(r, n)
		}
		x, y, d := big.NewInt(2), big.NewInt(2), new(big.Int).Set(one)
		diff := new(big.Int)
		for d.Cmp(one) == 0 {
			x = f(x)
			y = f(f(y))
			diff.Sub(x, y)
			diff.Abs(diff)
			if diff.Sign() == 0 {
				d.Set(n) // cycle exhausted, retry with the next polynomial
				break
			}
			d.GCD(nil, nil, diff, n)
		}
		if d.Cmp(n) != 0 {
			return d
		}
	}
}
