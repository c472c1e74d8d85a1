// SPDX-License-Identifier: MIT

package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tae/matrix"
)

const opSolve = "solveGeneralized"

// solveGeneralized reduces C01 against the C00 metric and returns D×D
// directions V with Vᵀ C00 V = I.
//
// Implementation:
//   - Stage 1: Cholesky C00 = LLᵀ (gonum); failure or cond(C00) > 1/eps is ErrSingularCovariance.
//   - Stage 2: K = L⁻¹ C01 L⁻ᵀ, the Koopman matrix in whitened coordinates.
//   - Stage 3: symmetric K → matrix.EigenSym (Jacobi, tolerance eps), so
//     C01 v = λ C00 v; otherwise the SVD K = U Σ Wᵀ (gonum) and λ = σ.
//   - Stage 4: v = L⁻ᵀ w for the orthonormal columns w, so Vᵀ C00 V = WᵀW = I.
//
// Returns values sorted by decreasing |λ| and the matching directions.
//
// Notes:
//   - A non-symmetric K may have complex eigenpairs; its left singular
//     vectors are real and orthonormal, and keeping the leading d of them
//     gives the best rank-d approximation of K.
func solveGeneralized(c00, c01 *matrix.Dense, symmetric bool, eps float64) ([]float64, *matrix.Dense, error) {
	d := c00.Rows()
	g00, err := matrix.ToGonum(c00)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opSolve, err)
	}
	g01, err := matrix.ToGonum(c01)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opSolve, err)
	}

	var ch mat.Cholesky
	if ok := ch.Factorize(mat.NewSymDense(d, g00.RawMatrix().Data)); !ok {
		return nil, nil, fmt.Errorf("%s: not positive definite: %w", opSolve, ErrSingularCovariance)
	}
	if cond := ch.Cond(); math.IsNaN(cond) || cond > 1/eps {
		return nil, nil, fmt.Errorf("%s: condition number %.3g exceeds %.3g: %w", opSolve, cond, 1/eps, ErrSingularCovariance)
	}
	var l, lInv mat.TriDense
	ch.LTo(&l)
	if err = lInv.InverseTri(&l); err != nil {
		return nil, nil, fmt.Errorf("%s: %v: %w", opSolve, err, ErrSingularCovariance)
	}

	var tmp, k mat.Dense
	tmp.Mul(&lInv, g01)
	k.Mul(&tmp, lInv.T())

	var (
		vals []float64
		w    *matrix.Dense
	)
	if symmetric {
		kk, err := matrix.FromGonum(&k)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", opSolve, err)
		}
		if vals, w, err = matrix.EigenSym(kk, true, matrix.WithTolerance(eps)); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", opSolve, err)
		}
	} else {
		if vals, w, err = koopmanSVD(&k); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", opSolve, err)
		}
	}

	gw, err := matrix.ToGonum(w)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opSolve, err)
	}
	var v mat.Dense
	v.Mul(lInv.T(), gw)
	out, err := matrix.FromGonum(&v)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opSolve, err)
	}

	return vals, out, nil
}

// koopmanSVD factors a non-symmetric K with gonum's SVD and returns the
// singular values (descending, non-negative) with the left singular vectors.
func koopmanSVD(k *mat.Dense) ([]float64, *matrix.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(k, mat.SVDFull); !ok {
		return nil, nil, ErrDecompositionFailed
	}
	vals := svd.Values(nil)
	var u mat.Dense
	svd.UTo(&u)
	w, err := matrix.FromGonum(&u)
	if err != nil {
		return nil, nil, err
	}

	return vals, w, nil
}
