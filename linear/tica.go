// SPDX-License-Identifier: MIT

package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tae/dataset"
	"github.com/katalvlaran/tae/matrix"
)

const opTICAFit = "TICA.Fit"

// TICA finds the directions of maximal autocorrelation at the loader's lag.
// The reversible estimate solves C01 v = λ C00 v; the non-reversible one
// keeps the leading singular directions of the Koopman matrix in the C00
// metric. Either way the columns satisfy Vᵀ C00 V = I.
type TICA struct {
	projector
	opts Options
	c00  *matrix.Dense
	c01  *matrix.Dense
}

// NewTICA returns an unfitted TICA configured by WithKineticMap,
// WithSymmetrize, WithEpsilon and WithLogger.
func NewTICA(opts ...Option) *TICA {
	return &TICA{opts: gatherOptions(opts...)}
}

// Fit estimates C00 and C01 from the pairs of train and keeps dim components
// (dim == 0 keeps all D).
//
// Implementation:
//   - Stage 1: column sums of both halves. Reversible: μ = (Σx_t + Σx_{t+τ}) / 2N
//     for both halves. Otherwise μ0 = Σx_t / N and μ1 = Σx_{t+τ} / N.
//   - Stage 2: C00, C01 (and C11 when reversible) divided by N−1.
//     Reversible: C00 ← ½(C00 + C11), C01 ← ½(C01 + C01ᵀ).
//   - Stage 3: solveGeneralized; columns sorted by |λ|, Vᵀ C00 V = I.
//     Reversible: λ are eigenvalues. Otherwise λ are the singular values σ ≥ 0.
//   - Stage 4: keep dim columns; trainLoss = −Σ λ_i. The projection is
//     V·diag(λ) with the kinetic map, V otherwise.
//   - Stage 5: testLoss = −trace(Vᵀ C01_test V) with the training means and
//     the unscaled V; NaN when test == nil.
//
// Losses and the kinetic map:
//   - Both losses are computed from the C00-normalized V, never from the
//     scaled projection, so they do not depend on WithKineticMap. With the
//     kinetic map on, Projection() returns V·diag(Eigenvalues()) and
//     trace(Projection()ᵀ C01_test Projection()) differs from −testLoss.
//
// Errors:
//   - ErrSingularCovariance, ErrInvalidDim, ErrInsufficientData, ErrShapeMismatch.
//
// Complexity:
//   - Time O(N·D² + D³), Space O(D² + B·D).
func (t *TICA) Fit(train *dataset.Loader, dim int, test *dataset.Loader) (trainLoss, testLoss float64, err error) {
	if train == nil {
		return 0, 0, fmt.Errorf("%s: nil loader: %w", opTICAFit, dataset.ErrEmptyDataset)
	}
	d := train.Dim()
	if dim, err = checkDim(dim, d); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", opTICAFit, err)
	}
	if test != nil && test.Dim() != d {
		return 0, 0, fmt.Errorf("%s: test width %d, train %d: %w", opTICAFit, test.Dim(), d, ErrShapeMismatch)
	}

	s0, s1, n, err := columnSums(train, true)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", opTICAFit, err)
	}
	m0, m1 := scaled(s0, n), scaled(s1, n)
	if t.opts.symmetrize {
		for i := range m0 {
			m0[i] = (s0[i] + s1[i]) / float64(2*n)
		}
		m1 = m0
	}

	cov, err := t.covariances(train, m0, m1)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", opTICAFit, err)
	}
	vals, vecs, err := solveGeneralized(cov.c00, cov.c01, t.opts.symmetrize, t.opts.eps)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", opTICAFit, err)
	}
	v, err := matrix.LeadingCols(vecs, dim)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", opTICAFit, err)
	}
	vals = vals[:dim]
	trainLoss = negSum(vals)

	testLoss = math.NaN()
	if test != nil {
		tc, err := t.covariances(test, m0, m1)
		if err != nil {
			return 0, 0, fmt.Errorf("%s: test: %w", opTICAFit, err)
		}
		tr, err := projectedTrace(v, tc.c01)
		if err != nil {
			return 0, 0, fmt.Errorf("%s: test: %w", opTICAFit, err)
		}
		testLoss = -tr
	}

	proj := v
	if t.opts.kineticMap {
		proj = v.Clone().(*matrix.Dense)
		if err = proj.Apply(func(_, j int, x float64) float64 { return x * vals[j] }); err != nil {
			return 0, 0, fmt.Errorf("%s: %w", opTICAFit, err)
		}
	}

	t.mean, t.proj, t.vals = m0, proj, vals
	t.c00, t.c01 = cov.c00, cov.c01
	t.opts.logger.Debug("tica fitted",
		"pairs", n, "width", d, "dim", dim, "lag", train.Lag(),
		"kinetic_map", t.opts.kineticMap, "symmetrize", t.opts.symmetrize,
		"train_loss", trainLoss, "test_loss", testLoss)

	return trainLoss, testLoss, nil
}

// covariances runs pass two with the given means and applies the reversible
// folding when symmetrize is on.
func (t *TICA) covariances(l *dataset.Loader, m0, m1 []float64) (*covariances, error) {
	cov, err := crossProducts(l, m0, m1, true, t.opts.symmetrize)
	if err != nil {
		return nil, err
	}
	if t.opts.symmetrize {
		if err = cov.reversible(); err != nil {
			return nil, err
		}
	}

	return cov, nil
}

// Covariances returns copies of the fitted C00 and C01 (nil before Fit).
func (t *TICA) Covariances() (c00, c01 *mat.Dense) {
	if t.c00 == nil {
		return nil, nil
	}
	c00, _ = matrix.ToGonum(t.c00)
	c01, _ = matrix.ToGonum(t.c01)

	return c00, c01
}
