// SPDX-License-Identifier: MIT

package linear

import (
	"fmt"
	"math"

	"github.com/katalvlaran/tae/dataset"
	"github.com/katalvlaran/tae/matrix"
)

const opPCAFit = "PCA.Fit"

// PCA projects onto the leading eigenvectors of the sample covariance.
type PCA struct {
	projector
	opts Options
}

// NewPCA returns an unfitted PCA. WithEpsilon sets the eigen-solver
// tolerance; WithLogger routes diagnostics.
func NewPCA(opts ...Option) *PCA {
	return &PCA{opts: gatherOptions(opts...)}
}

// Fit estimates the covariance of train and keeps the dim leading components
// (dim == 0 keeps all D). The lagged half of every pair is ignored.
//
// Implementation:
//   - Stage 1: column sums over train, μ = Σx / N.
//   - Stage 2: C = Σ (x−μ)ᵀ(x−μ) / (N−1) with matrix.AccumulateCrossProduct.
//   - Stage 3: matrix.EigenSym(C), eigenpairs sorted by decreasing eigenvalue.
//   - Stage 4: V = leading dim columns; trainLoss = −Σ λ_i over the retained ones.
//   - Stage 5: when test != nil, testLoss = −trace(Vᵀ C_test V) with C_test
//     centered on μ; otherwise NaN.
//
// Errors:
//   - ErrInvalidDim, ErrInsufficientData, ErrShapeMismatch (test width ≠ D).
//   - matrix.ErrMatrixEigenFailed (wrapped) if Jacobi does not converge.
//
// Complexity:
//   - Time O(N·D² + D³·sweeps), Space O(D² + B·D).
func (p *PCA) Fit(train *dataset.Loader, dim int, test *dataset.Loader) (trainLoss, testLoss float64, err error) {
	if train == nil {
		return 0, 0, fmt.Errorf("%s: nil loader: %w", opPCAFit, dataset.ErrEmptyDataset)
	}
	d := train.Dim()
	if dim, err = checkDim(dim, d); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", opPCAFit, err)
	}
	if test != nil && test.Dim() != d {
		return 0, 0, fmt.Errorf("%s: test width %d, train %d: %w", opPCAFit, test.Dim(), d, ErrShapeMismatch)
	}

	s0, _, n, err := columnSums(train, false)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", opPCAFit, err)
	}
	mean := scaled(s0, n)
	cov, err := crossProducts(train, mean, mean, false, false)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", opPCAFit, err)
	}

	vals, vecs, err := matrix.EigenSym(cov.c00, false, matrix.WithTolerance(p.opts.eps))
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", opPCAFit, err)
	}
	v, err := matrix.LeadingCols(vecs, dim)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", opPCAFit, err)
	}
	vals = vals[:dim]
	trainLoss = negSum(vals)

	testLoss = math.NaN()
	if test != nil {
		tc, err := crossProducts(test, mean, mean, false, false)
		if err != nil {
			return 0, 0, fmt.Errorf("%s: test: %w", opPCAFit, err)
		}
		tr, err := projectedTrace(v, tc.c00)
		if err != nil {
			return 0, 0, fmt.Errorf("%s: test: %w", opPCAFit, err)
		}
		testLoss = -tr
	}

	p.mean, p.proj, p.vals = mean, v, vals
	p.opts.logger.Debug("pca fitted",
		"samples", n, "width", d, "dim", dim,
		"train_loss", trainLoss, "test_loss", testLoss)

	return trainLoss, testLoss, nil
}
