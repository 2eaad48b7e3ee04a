package matrix

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// the 2-isogeny tree of the class of conductor 15, curves in canonical order
func tree15a() [][]int64 {
	m := Zero(8)
	edges := [][2]int{{0, 7}, {1, 4}, {2, 7}, {3, 5}, {4, 5}, {4, 7}, {5, 6}}
	for _, e := range edges {
		m[e[0]][e[1]] = 2
		m[e[1]][e[0]] = 2
	}
	return m
}

func TestFill15a(t *testing.T) {
	assert := require.New(t)

	got := Fill(tree15a())
	want := [][]int64{
		{1, 8, 4, 16, 4, 8, 16, 2},
		{8, 1, 8, 8, 2, 4, 8, 4},
		{4, 8, 1, 16, 4, 8, 16, 2},
		{16, 8, 16, 1, 4, 2, 4, 8},
		{4, 2, 4, 4, 1, 2, 4, 2},
		{8, 4, 8, 2, 2, 1, 2, 4},
		{16, 8, 16, 4, 4, 2, 1, 8},
		{2, 4, 2, 8, 2, 4, 8, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fill mismatch (-want +got):\n%s", diff)
	}

	// unfilling recovers exactly the prime edges
	back := Unfill(got)
	if diff := cmp.Diff(tree15a(), back); diff != "" {
		t.Fatalf("unfill mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(int64(0), back[0][0])
}

func TestFillAsymmetricInput(t *testing.T) {
	assert := require.New(t)

	// one-sided edges stand for dual isogenies that were never materialized
	m := Zero(3)
	m[0][1] = 3
	m[2][1] = 2
	got := Fill(m)
	want := [][]int64{
		{1, 3, 6},
		{3, 1, 2},
		{6, 2, 1},
	}
	assert.Equal(want, got)
}

func TestFillDisconnected(t *testing.T) {
	assert := require.New(t)

	m := Zero(3)
	m[0][1] = 5
	got := Fill(m)
	assert.Equal(int64(5), got[0][1])
	assert.Equal(int64(0), got[0][2])
	assert.Equal(int64(0), got[2][1])
	assert.Equal(int64(1), got[2][2])
}

func TestPermute(t *testing.T) {
	assert := require.New(t)

	m := [][]int64{
		{1, 2, 4},
		{2, 1, 8},
		{4, 8, 1},
	}
	perm := []int{2, 0, 1}
	got := Permute(m, perm)
	want := [][]int64{
		{1, 4, 8},
		{4, 1, 2},
		{8, 2, 1},
	}
	assert.Equal(want, got)

	// conjugating back with the inverse permutation restores the original
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	assert.Equal(m, Permute(got, inv))
}
