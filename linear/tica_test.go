// SPDX-License-Identifier: MIT

package linear_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tae/dataset"
	"github.com/katalvlaran/tae/linear"
)

var slowModes = []float64{0.95, 0.6, 0.1}

func TestTICA_SymmetrizedCrossCovarianceIsExactlySymmetric(t *testing.T) {
	t.Parallel()

	l := loader(t, dataset.Single(ar1(400, slowModes, 1)), 3, 64)
	tica := linear.NewTICA(linear.WithSymmetrize(true))
	_, _, err := tica.Fit(l, 0, nil)
	require.NoError(t, err)

	_, c01 := tica.Covariances()
	d, _ := c01.Dims()
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			require.Equal(t, c01.At(i, j), c01.At(j, i), "C01[%d,%d]", i, j)
		}
	}
}

func TestTICA_NormalizedInC00Metric(t *testing.T) {
	t.Parallel()

	for _, sym := range []bool{true, false} {
		l := loader(t, dataset.Single(ar1(500, slowModes, 2)), 1, 50)
		tica := linear.NewTICA(linear.WithSymmetrize(sym), linear.WithKineticMap(false))
		_, _, err := tica.Fit(l, 0, nil)
		require.NoError(t, err)

		c00, c01 := tica.Covariances()
		v := tica.Projection()
		var left, gram mat.Dense
		left.Mul(v.T(), c00)
		gram.Mul(&left, v)
		d, _ := gram.Dims()
		for i := 0; i < d; i++ {
			assert.InDelta(t, 1.0, gram.At(i, i), 1e-8, "symmetrize=%v column %d", sym, i)
		}

		vals := tica.Eigenvalues()
		for i := 1; i < len(vals); i++ {
			assert.GreaterOrEqual(t, math.Abs(vals[i-1]), math.Abs(vals[i]))
		}

		requireMatClose(t, mat.NewDiagDense(d, []float64{1, 1, 1}), &gram, 1e-8)

		if sym {

			// C01 v = λ C00 v
			var lhs, rhs mat.Dense
			lhs.Mul(c01, v)
			rhs.Mul(c00, v)
			for j := 0; j < d; j++ {
				for i := 0; i < d; i++ {
					assert.InDelta(t, lhs.At(i, j), vals[j]*rhs.At(i, j), 1e-8)
				}
			}
		}
	}
}

// TestTICA_NonReversibleProcess fits the default estimate on a VAR(1)
// process with a rotating drift matrix, whose Koopman matrix has complex
// eigenvalues.
func TestTICA_NonReversibleProcess(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(3, 3, []float64{
		0.9, 0.3, 0,
		-0.1, 0.7, 0.2,
		0, 0.1, 0.5,
	})
	l := loader(t, dataset.Single(var1(5000, a, 11)), 1, 128)
	tica := linear.NewTICA(linear.WithKineticMap(false))
	trainLoss, _, err := tica.Fit(l, 0, nil)
	require.NoError(t, err)

	c00, c01 := tica.Covariances()
	v := tica.Projection()
	vals := tica.Eigenvalues()
	require.Len(t, vals, 3)
	for i, s := range vals {
		assert.GreaterOrEqual(t, s, 0.0, "value %d", i)
		if i > 0 {
			assert.GreaterOrEqual(t, vals[i-1], s)
		}
	}
	assert.InDelta(t, -(vals[0] + vals[1] + vals[2]), trainLoss, 1e-12)

	// Vᵀ C00 V = I, off-diagonals included.
	var left, gram mat.Dense
	left.Mul(v.T(), c00)
	gram.Mul(&left, v)
	requireMatClose(t, mat.NewDiagDense(3, []float64{1, 1, 1}), &gram, 1e-8)

	// Vᵀ C01 C00⁻¹ C01ᵀ V = diag(σ²).
	var inv, k, kkt, proj mat.Dense
	require.NoError(t, inv.Inverse(c00))
	k.Mul(c01, &inv)
	kkt.Mul(&k, c01.T())
	proj.Mul(v.T(), &kkt)
	var sq mat.Dense
	sq.Mul(&proj, v)
	requireMatClose(t, mat.NewDiagDense(3, []float64{
		vals[0] * vals[0], vals[1] * vals[1], vals[2] * vals[2],
	}), &sq, 1e-8)
}

func TestTICA_RecoversSlowestMode(t *testing.T) {
	t.Parallel()

	l := loader(t, dataset.Single(ar1(4000, slowModes, 3)), 1, 100)
	tica := linear.NewTICA(linear.WithSymmetrize(true))
	trainLoss, _, err := tica.Fit(l, 1, nil)
	require.NoError(t, err)

	vals := tica.Eigenvalues()
	require.Len(t, vals, 1)
	assert.InDelta(t, 0.95, vals[0], 0.05)
	assert.InDelta(t, -vals[0], trainLoss, 1e-12)
}

func TestTICA_KineticMapScalesColumns(t *testing.T) {
	t.Parallel()

	x := ar1(300, slowModes, 4)
	plain := linear.NewTICA(linear.WithKineticMap(false), linear.WithSymmetrize(true))
	scaled := linear.NewTICA(linear.WithKineticMap(true), linear.WithSymmetrize(true))

	l := loader(t, dataset.Single(x), 2, 40)
	lossPlain, testPlain, err := plain.Fit(l, 2, l)
	require.NoError(t, err)
	lossScaled, testScaled, err := scaled.Fit(l, 2, l)
	require.NoError(t, err)
	assert.Equal(t, lossPlain, lossScaled)
	// the test loss is scored on the unscaled columns
	assert.Equal(t, testPlain, testScaled)
	assert.InDelta(t, lossPlain, testPlain, 1e-9)

	v, vk := plain.Projection(), scaled.Projection()
	vals := scaled.Eigenvalues()
	r, c := v.Dims()
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			assert.InDelta(t, v.At(i, j)*vals[j], vk.At(i, j), 1e-12)
		}
	}
}

func TestTICA_MultipleSeriesTransform(t *testing.T) {
	t.Parallel()

	a := ar1(50, []float64{0.9, 0.5, 0.3, 0.1}, 5)
	b := ar1(70, []float64{0.9, 0.5, 0.3, 0.1}, 6)
	s := dataset.Multiple(a, b)

	tica := linear.NewTICA()
	_, testLoss, err := tica.Fit(loader(t, s, 1, 100), 2, nil)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(testLoss))

	out, err := tica.Transform(loader(t, s, 0, 100))
	require.NoError(t, err)
	parts, err := s.Reassemble(out)
	require.NoError(t, err)
	require.Equal(t, []int{50, 70}, parts.Lengths())
	_, c := parts.Part(1).Dims()
	assert.Equal(t, 2, c)
}

func TestTICA_SingularInstantaneousCovariance(t *testing.T) {
	t.Parallel()

	x := ar1(200, []float64{0.9, 0.5}, 7)
	r, _ := x.Dims()
	dup := mat.NewDense(r, 3, nil)
	for i := 0; i < r; i++ {
		dup.Set(i, 0, x.At(i, 0))
		dup.Set(i, 1, x.At(i, 1))
		dup.Set(i, 2, x.At(i, 0)) // exact copy of column 0
	}

	for _, sym := range []bool{true, false} {
		_, _, err := linear.NewTICA(linear.WithSymmetrize(sym)).Fit(loader(t, dataset.Single(dup), 1, 50), 0, nil)
		require.ErrorIs(t, err, linear.ErrSingularCovariance, "symmetrize=%v", sym)
	}
}

func TestTICA_Errors(t *testing.T) {
	t.Parallel()

	tica := linear.NewTICA()
	l := loader(t, dataset.Single(ar1(3, slowModes, 8)), 2, 10) // one pair
	_, _, err := tica.Fit(l, 0, nil)
	require.ErrorIs(t, err, linear.ErrInsufficientData)

	_, err = tica.Transform(l)
	require.ErrorIs(t, err, linear.ErrNotFitted)
	c00, c01 := tica.Covariances()
	assert.Nil(t, c00)
	assert.Nil(t, c01)

	assert.Panics(t, func() { linear.WithEpsilon(0) })
	assert.Panics(t, func() { linear.WithEpsilon(1) })
}
