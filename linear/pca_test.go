// SPDX-License-Identifier: MIT

package linear_test

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/tae/dataset"
	"github.com/katalvlaran/tae/linear"
)

func TestPCA_ShapeAndNaNTestLoss(t *testing.T) {
	t.Parallel()

	x := gaussian(100, 3, 1)
	l := loader(t, dataset.Single(x), 0, 32)

	p := linear.NewPCA()
	trainLoss, testLoss, err := p.Fit(l, 2, nil)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(testLoss))

	vals := p.Eigenvalues()
	require.Len(t, vals, 2)
	assert.GreaterOrEqual(t, vals[0], vals[1])
	assert.InDelta(t, -(vals[0] + vals[1]), trainLoss, 1e-12)

	out, err := p.Transform(l)
	require.NoError(t, err)
	r, c := out.Dims()
	assert.Equal(t, 100, r)
	assert.Equal(t, 2, c)
}

func TestPCA_FullRankRoundTrip(t *testing.T) {
	t.Parallel()

	x := gaussian(80, 4, 2)
	l := loader(t, dataset.Single(x), 0, 16)

	p := linear.NewPCA()
	_, _, err := p.Fit(l, 0, nil)
	require.NoError(t, err)
	y, err := p.Transform(l)
	require.NoError(t, err)

	// x ≈ y·Vᵀ + μ
	var back mat.Dense
	back.Mul(y, p.Projection().T())
	mean := p.Mean()
	rows, cols := back.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			back.Set(i, j, back.At(i, j)+mean[j])
		}
	}
	requireMatClose(t, x, &back, 1e-9)
}

func TestPCA_MatchesGonumCovariance(t *testing.T) {
	t.Parallel()

	x := gaussian(120, 5, 3)
	cov := mat.NewSymDense(5, nil)
	stat.CovarianceMatrix(cov, x, nil)
	var es mat.EigenSym
	require.True(t, es.Factorize(cov, false))
	want := es.Values(nil)
	sort.Sort(sort.Reverse(sort.Float64Slice(want)))

	for _, batch := range []int{1, 7, 120} {
		p := linear.NewPCA()
		_, _, err := p.Fit(loader(t, dataset.Single(x), 0, batch), 0, nil)
		require.NoError(t, err)
		assert.True(t, floats.EqualApprox(want, p.Eigenvalues(), 1e-9), "batch %d: %v vs %v", batch, want, p.Eigenvalues())
	}
}

func TestPCA_TestLossOnTrainingData(t *testing.T) {
	t.Parallel()

	l := loader(t, dataset.Single(gaussian(60, 3, 4)), 0, 10)
	trainLoss, testLoss, err := linear.NewPCA().Fit(l, 2, l)
	require.NoError(t, err)
	assert.InDelta(t, trainLoss, testLoss, 1e-9)
	assert.Less(t, trainLoss, 0.0)
}

// TestPCA_EpsilonReachesEigenSolver loosens the Jacobi tolerance until no
// rotation runs, so the eigenvalues fall back to the covariance diagonal.
func TestPCA_EpsilonReachesEigenSolver(t *testing.T) {
	t.Parallel()

	l := loader(t, dataset.Single(gaussian(200, 3, 9)), 0, 64)
	tight := linear.NewPCA()
	_, _, err := tight.Fit(l, 0, nil)
	require.NoError(t, err)
	loose := linear.NewPCA(linear.WithEpsilon(0.99))
	_, _, err = loose.Fit(l, 0, nil)
	require.NoError(t, err)

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, gaussian(200, 3, 9), nil)
	diag := []float64{cov.At(0, 0), cov.At(1, 1), cov.At(2, 2)}
	sort.Sort(sort.Reverse(sort.Float64Slice(diag)))

	assert.True(t, floats.EqualApprox(diag, loose.Eigenvalues(), 1e-9), "%v vs %v", diag, loose.Eigenvalues())
	assert.False(t, floats.EqualApprox(diag, tight.Eigenvalues(), 1e-9))
}

func TestPCA_Errors(t *testing.T) {
	t.Parallel()

	l := loader(t, dataset.Single(gaussian(20, 3, 5)), 0, 5)
	p := linear.NewPCA()

	_, err := p.Transform(l)
	require.ErrorIs(t, err, linear.ErrNotFitted)

	_, _, err = p.Fit(l, 4, nil)
	require.ErrorIs(t, err, linear.ErrInvalidDim)
	_, _, err = p.Fit(l, -1, nil)
	require.ErrorIs(t, err, linear.ErrInvalidDim)

	wide := loader(t, dataset.Single(gaussian(20, 4, 5)), 0, 5)
	_, _, err = p.Fit(l, 1, wide)
	require.ErrorIs(t, err, linear.ErrShapeMismatch)

	one := loader(t, dataset.Single(gaussian(1, 3, 5)), 0, 5)
	_, _, err = p.Fit(one, 1, nil)
	require.ErrorIs(t, err, linear.ErrInsufficientData)

	_, _, err = p.Fit(l, 1, nil)
	require.NoError(t, err)
	_, err = p.Transform(wide)
	require.ErrorIs(t, err, linear.ErrShapeMismatch)
}
