// SPDX-License-Identifier: MIT

package linear_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tae/dataset"
)

// gaussian returns a rows×cols matrix of N(0,1) draws with column j scaled by j+1.
func gaussian(rows, cols int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, rng.NormFloat64()*float64(j+1))
		}
	}

	return m
}

// ar1 simulates independent AR(1) processes with the given coefficients and
// mixes them with a fixed rotation, so the slow modes are not axis-aligned.
func ar1(rows int, coeffs []float64, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	d := len(coeffs)
	latent := mat.NewDense(rows, d, nil)
	prev := make([]float64, d)
	for t := 0; t < rows; t++ {
		for j, a := range coeffs {
			prev[j] = a*prev[j] + rng.NormFloat64()
			latent.Set(t, j, prev[j]+3) // non-zero mean
		}
	}
	mix := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			mix.Set(i, j, 1/float64(1+i+j))
		}
		mix.Set(i, i, mix.At(i, i)+1)
	}
	var out mat.Dense
	out.Mul(latent, mix)

	return &out
}

// var1 simulates x_{t+1} = A x_t + ε with N(0,1) noise. A need not be
// symmetric, so the process is generally not reversible.
func var1(rows int, a *mat.Dense, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	d, _ := a.Dims()
	out := mat.NewDense(rows, d, nil)
	x := mat.NewVecDense(d, nil)
	var next mat.VecDense
	for t := 0; t < rows; t++ {
		next.MulVec(a, x)
		for j := 0; j < d; j++ {
			next.SetVec(j, next.AtVec(j)+rng.NormFloat64())
		}
		x.CopyVec(&next)
		out.SetRow(t, x.RawVector().Data)
	}

	return out
}

// loader windows series with lag and batches them.
func loader(t testing.TB, s dataset.Series, lag, batch int) *dataset.Loader {
	t.Helper()
	ds, err := dataset.Build(s, lag)
	require.NoError(t, err)
	l, err := dataset.NewLoader(ds, batch)
	require.NoError(t, err)

	return l
}

// requireMatClose compares two gonum matrices entry-wise.
func requireMatClose(t testing.TB, want, got mat.Matrix, tol float64) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	require.Equal(t, []int{wr, wc}, []int{gr, gc}, "shape")
	require.True(t, mat.EqualApprox(want, got, tol), "want\n%v\ngot\n%v",
		mat.Formatted(want), mat.Formatted(got))
}
