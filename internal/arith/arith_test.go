package arith

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimesUpTo(t *testing.T) {
	assert := require.New(t)

	assert.Nil(PrimesUpTo(1))
	assert.Equal([]int64{2}, PrimesUpTo(2))
	assert.Equal([]int64{2, 3, 5, 7, 11, 13, 17, 19}, PrimesUpTo(20))
}

func TestIsPrime64(t *testing.T) {
	assert := require.New(t)

	for _, p := range []int64{2, 3, 5, 163, 1000003} {
		assert.True(IsPrime64(p), "%d", p)
	}
	for _, n := range []int64{-7, 0, 1, 4, 25, 1000001} {
		assert.False(IsPrime64(n), "%d", n)
	}
}

func TestKronecker(t *testing.T) {
	assert := require.New(t)

	// (-23|.) distinguishes split and inert primes of Q(sqrt(-23))
	assert.Equal(1, Kronecker(-23, 2))
	assert.Equal(1, Kronecker(-23, 3))
	assert.Equal(-1, Kronecker(-23, 5))
	assert.Equal(-1, Kronecker(-23, 7))
	assert.Equal(0, Kronecker(-23, 23))

	assert.Equal(-1, Kronecker(-3, 2))
	assert.Equal(1, Kronecker(-3, 7))
	assert.Equal(0, Kronecker(-20, 2))
	assert.Equal(1, Kronecker(-20, 3))

	// degenerate cases
	assert.Equal(1, Kronecker(1, 0))
	assert.Equal(0, Kronecker(2, 0))
	assert.Equal(0, Kronecker(4, 6))
}

func TestDivisors(t *testing.T) {
	assert := require.New(t)

	assert.Equal([]int64{1}, Divisors(1))
	assert.Equal([]int64{1, 2, 3, 6}, Divisors(6))
	assert.Equal([]int64{1, 2, 3, 4, 6, 12}, Divisors(12))
	assert.Equal([]int64{1, 7, 49}, Divisors(49))
}

func TestOddPart(t *testing.T) {
	assert := require.New(t)

	assert.Equal(int64(23), OddPart(-23))
	assert.Equal(int64(5), OddPart(-20))
	assert.Equal(int64(1), OddPart(16))
}

func TestPrimeFactors64(t *testing.T) {
	assert := require.New(t)

	assert.Nil(PrimeFactors64(1))
	assert.Equal([]int64{2, 5}, PrimeFactors64(-20))
	assert.Equal([]int64{23}, PrimeFactors64(23))
}

func TestValuation(t *testing.T) {
	assert := require.New(t)

	assert.Equal(4, Valuation(big.NewInt(48), big.NewInt(2)))
	assert.Equal(1, Valuation(big.NewInt(48), big.NewInt(3)))
	assert.Equal(0, Valuation(big.NewInt(-7), big.NewInt(2)))
}

func TestFactor(t *testing.T) {
	assert := require.New(t)

	_, err := Factor(big.NewInt(0))
	assert.Error(err)

	fs, err := Factor(big.NewInt(-720))
	assert.NoError(err)
	assert.Len(fs, 3)
	assert.Equal("2", fs[0].P.String())
	assert.Equal(4, fs[0].E)
	assert.Equal("3", fs[1].P.String())
	assert.Equal(2, fs[1].E)
	assert.Equal("5", fs[2].P.String())
	assert.Equal(1, fs[2].E)

	// semiprime beyond the trial division bound exercises Pollard rho
	p, q := big.NewInt(1000003), big.NewInt(1000033)
	n := new(big.Int).Mul(p, q)
	fs, err = Factor(n)
	assert.NoError(err)
	assert.Len(fs, 2)
	assert.Equal(p.String(), fs[0].P.String())
	assert.Equal(q.String(), fs[1].P.String())
}
