// SPDX-License-Identifier: MIT

package tae_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/tae"
	"github.com/katalvlaran/tae/ae"
	"github.com/katalvlaran/tae/dataset"
	"github.com/katalvlaran/tae/linear"
)

// walk returns a rows×cols random walk with correlated increments.
func walk(rows, cols int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	m := mat.NewDense(rows, cols, nil)
	prev := make([]float64, cols)
	for i := 0; i < rows; i++ {
		shared := rng.NormFloat64()
		for j := 0; j < cols; j++ {
			prev[j] = 0.9*prev[j] + shared*float64(j+1)/float64(cols) + rng.NormFloat64()
			m.Set(i, j, prev[j])
		}
	}

	return m
}

func shapes(s dataset.Series) [][2]int {
	out := make([][2]int, s.Len())
	for i := range out {
		r, c := s.Part(i).Dims()
		out[i] = [2]int{r, c}
	}

	return out
}

func TestPCA_SingleSeriesScenario(t *testing.T) {
	t.Parallel()

	opts := tae.DefaultPCAOptions()
	opts.Dim = 2
	res, err := tae.PCA(dataset.Single(walk(100, 3, 1)), opts)
	require.NoError(t, err)
	assert.False(t, res.Transformed.IsMultiple())
	assert.Equal(t, [][2]int{{100, 2}}, shapes(res.Transformed))
	assert.True(t, math.IsNaN(res.TestLoss))
	assert.Less(t, res.TrainLoss, 0.0)
}

func TestTICA_MultipleSeriesScenario(t *testing.T) {
	t.Parallel()

	opts := tae.DefaultTICAOptions()
	opts.Dim = 2
	res, err := tae.TICA(dataset.Multiple(walk(50, 4, 2), walk(70, 4, 3)), opts)
	require.NoError(t, err)
	assert.True(t, res.Transformed.IsMultiple())
	assert.Equal(t, [][2]int{{50, 2}, {70, 2}}, shapes(res.Transformed))
}

func TestAE_ValidationScenario(t *testing.T) {
	t.Parallel()

	opts := tae.DefaultAEOptions()
	opts.Dim = 2
	opts.Epochs = 5
	opts.ValidationSplit = 0.2
	opts.Seed = 17

	x := walk(200, 5, 4)
	first, err := tae.AE(dataset.Single(x), opts)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{200, 2}}, shapes(first.Transformed))
	assert.False(t, math.IsNaN(first.TestLoss) || math.IsInf(first.TestLoss, 0))

	second, err := tae.AE(dataset.Single(x), opts)
	require.NoError(t, err)
	assert.True(t, mat.Equal(first.Transformed.Part(0), second.Transformed.Part(0)))
	assert.Equal(t, first.TestLoss, second.TestLoss)
}

func TestWhitenedOutputHasUnitVariance(t *testing.T) {
	t.Parallel()

	opts := tae.DefaultTICAOptions()
	opts.Whiten = true
	opts.Prefetch = 2
	res, err := tae.TICA(dataset.Single(walk(300, 3, 5)), opts)
	require.NoError(t, err)

	out := res.Transformed.Part(0)
	_, c := out.Dims()
	for j := 0; j < c; j++ {
		assert.InDelta(t, 1.0, stat.Variance(mat.Col(nil, j, out), nil), 1e-9)
	}
}

func TestBatchSizeDoesNotChangeLinearFit(t *testing.T) {
	t.Parallel()

	x := walk(150, 4, 6)
	small := tae.DefaultPCAOptions()
	small.BatchSize = 7
	large := tae.DefaultPCAOptions()
	large.BatchSize = 1000

	a, err := tae.PCA(dataset.Single(x), small)
	require.NoError(t, err)
	b, err := tae.PCA(dataset.Single(x), large)
	require.NoError(t, err)
	assert.InDelta(t, a.TrainLoss, b.TrainLoss, 1e-9)
}

// TestTICA_RotatingProcessKeepsDistinctComponents runs the default
// non-reversible TICA on a 2-D process whose drift is a damped rotation.
func TestTICA_RotatingProcessKeepsDistinctComponents(t *testing.T) {
	t.Parallel()

	const rows = 2000
	rng := rand.New(rand.NewSource(9))
	c, s := 0.9*math.Cos(0.5), 0.9*math.Sin(0.5)
	x := mat.NewDense(rows, 2, nil)
	var p, q float64
	for i := 0; i < rows; i++ {
		p, q = c*p-s*q+rng.NormFloat64(), s*p+c*q+rng.NormFloat64()
		x.Set(i, 0, p)
		x.Set(i, 1, q)
	}

	res, err := tae.TICA(dataset.Single(x), tae.DefaultTICAOptions())
	require.NoError(t, err)
	out := res.Transformed.Part(0)
	a, b := mat.Col(nil, 0, out), mat.Col(nil, 1, out)

	maxDiff := 0.0
	for i := range a {
		maxDiff = math.Max(maxDiff, math.Abs(a[i]-b[i]))
	}
	assert.Greater(t, maxDiff, 0.1)
	assert.InDelta(t, 0.0, stat.Correlation(a, b, nil), 0.05)
}

// TestValidationSplitTooSmallForLinearFit holds out a single pair, which the
// linear estimators cannot score but the AE can.
func TestValidationSplitTooSmallForLinearFit(t *testing.T) {
	t.Parallel()

	pca := tae.DefaultPCAOptions()
	pca.ValidationSplit = 0.05 // round(0.05·20) = 1 pair
	_, err := tae.PCA(dataset.Single(walk(20, 3, 10)), pca)
	require.ErrorIs(t, err, dataset.ErrInvalidFraction)
	require.NotErrorIs(t, err, linear.ErrInsufficientData)

	tica := tae.DefaultTICAOptions()
	tica.ValidationSplit = 0.05 // 21 rows, lag 1: 20 pairs
	_, err = tae.TICA(dataset.Single(walk(21, 3, 11)), tica)
	require.ErrorIs(t, err, dataset.ErrInvalidFraction)

	pca.ValidationSplit = 0.1 // two pairs held out
	res, err := tae.PCA(dataset.Single(walk(20, 3, 10)), pca)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(res.TestLoss))

	aeOpts := tae.DefaultAEOptions()
	aeOpts.Dim = 1
	aeOpts.Epochs = 1
	aeOpts.Seed = 3
	aeOpts.ValidationSplit = 0.05
	res, err = tae.AE(dataset.Single(walk(21, 3, 12)), aeOpts)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(res.TestLoss))
}

func TestErrors(t *testing.T) {
	t.Parallel()

	x := walk(40, 3, 7)

	opts := tae.DefaultPCAOptions()
	opts.ValidationSplit = 1.5
	_, err := tae.PCA(dataset.Single(x), opts)
	require.ErrorIs(t, err, dataset.ErrInvalidFraction)

	_, err = tae.TICA(dataset.Multiple(x, walk(40, 4, 8)), tae.DefaultTICAOptions())
	require.ErrorIs(t, err, dataset.ErrShapeMismatch)

	r, _ := x.Dims()
	dup := mat.NewDense(r, 2, nil)
	dup.SetCol(0, mat.Col(nil, 0, x))
	dup.SetCol(1, mat.Col(nil, 0, x))
	_, err = tae.TICA(dataset.Single(dup), tae.DefaultTICAOptions())
	require.ErrorIs(t, err, linear.ErrSingularCovariance)

	aeOpts := tae.DefaultAEOptions()
	_, err = tae.AE(dataset.Single(x), aeOpts) // Dim left at 0
	require.ErrorIs(t, err, ae.ErrDimension)
}
