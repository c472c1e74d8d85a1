// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic test fixtures and utilities for kernels.
//   - Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tae/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing the At/Set materialization path inside kernels.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t testing.TB, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)

	return m
}

// MustFromRows builds a Dense from a rectangular [][]float64 literal.
func MustFromRows(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	require.NotEmpty(t, rows)
	c := len(rows[0])
	buf := make([]float64, 0, len(rows)*c)
	for _, row := range rows {
		require.Len(t, row, c)
		buf = append(buf, row...)
	}
	m, err := matrix.NewDenseFrom(len(rows), c, buf)
	require.NoError(t, err)

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t testing.TB, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// RandomFill fills m with uniform values in [-1,1) from a seeded source.
func RandomFill(t testing.TB, m *matrix.Dense, seed int64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	require.NoError(t, m.Apply(func(_, _ int, _ float64) float64 {
		return 2*rng.Float64() - 1
	}))
}

// RandomSPD returns AᵀA + n·I for a random A, a well-conditioned SPD matrix.
func RandomSPD(t testing.TB, n int, seed int64) *matrix.Dense {
	t.Helper()
	a := MustDense(t, n, n)
	RandomFill(t, a, seed)
	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	ata, err := matrix.Mul(at, a)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, ata.Set(i, i, MustAt(t, ata, i, i)+float64(n)))
	}

	return ata
}

// Identity returns I_n.
func Identity(t testing.TB, n int) *matrix.Dense {
	t.Helper()
	id := MustDense(t, n, n)
	for i := 0; i < n; i++ {
		require.NoError(t, id.Set(i, i, 1))
	}

	return id
}

// RequireClose compares two matrices cell by cell within tol.
func RequireClose(t testing.TB, want, got matrix.Matrix, tol float64) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows(), "rows")
	require.Equal(t, want.Cols(), got.Cols(), "cols")
	for i := 0; i < want.Rows(); i++ {
		for j := 0; j < want.Cols(); j++ {
			require.InDelta(t, MustAt(t, want, i, j), MustAt(t, got, i, j), tol, "cell [%d,%d]", i, j)
		}
	}
}
