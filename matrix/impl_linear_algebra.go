// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// element-wise addition, matrix multiplication, transpose,
// scalar scaling and the Jacobi eigen-solver used by the covariance estimators.
// All functions perform strict fail-fast validation and return wrapped sentinels.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd       = "Add"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opEigen     = "Eigen"
	opSortEigen = "SortEigen"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// asDense returns m as *Dense, materializing a copy through At for other types.
// Kernels call it once up front and then run on the flat buffer only.
func asDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	out, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			out.data[i*out.c+j] = v
		}
	}

	return out, nil
}

// Add computes the element-wise sum C = A + B and returns a fresh Dense result.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
//
// Determinism:
//   - Flat 0..n-1 walk; addition order per cell is a+b, so Add(A, Aᵀ) is
//     exactly symmetric.
func Add(a, b Matrix) (*Dense, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opAdd, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opAdd, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opAdd, err)
	}
	res, err := NewDense(a.Rows(), a.Cols())
	if err != nil {
		return nil, matrixErrorf(opAdd, err)
	}

	// Single flat loop 0..n-1.
	for idx := range res.data {
		res.data[idx] = da.data[idx] + db.data[idx]
	}

	return res, nil
}

// Mul performs standard matrix multiplication C = A × B (no aliasing).
//
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: i→k→j with row-major strides, skipping zero A[i,k].
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := da.r, da.c, db.c
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var (
		i, j, k                            int
		av                                 float64
		rowOffsetA, rowOffsetB, rowOffsetR int
	)
	for i = 0; i < aRows; i++ {
		rowOffsetA = i * aCols
		rowOffsetR = i * bCols
		for k = 0; k < aCols; k++ {
			av = da.data[rowOffsetA+k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowOffsetB = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// The original matrix is never mutated. Complexity: O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := dm.r, dm.c
	res, err := NewDense(cols, rows) // dims flipped
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	// data[i*cols + j] → res.data[j*rows + i]
	var i, j, baseSrc int
	for i = 0; i < rows; i++ {
		baseSrc = i * cols
		for j = 0; j < cols; j++ {
			res.data[j*rows+i] = dm.data[baseSrc+j]
		}
	}

	return res, nil
}

// Scale returns a new matrix whose elements are alpha * m[i,j].
// Complexity: O(r*c).
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, matrixErrorf(opScale, ErrNaNInf)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res, err := NewDense(dm.r, dm.c)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for idx, v := range dm.data {
		res.data[idx] = alpha * v
	}

	return res, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via cyclic Jacobi sweeps.
//
// Implementation:
//   - Stage 1: Validate symmetric square input within tol.
//   - Stage 2: Sweep the strict upper triangle in fixed (p,q) order; rotate every
//     pair whose |A[p,q]| exceeds tol, accumulating the rotations into Q.
//   - Stage 3: Stop once max|A[p,q]| < tol; fail if maxSweeps is exhausted first.
//
// Inputs:
//   - m: symmetric Matrix (within tol); n := m.Rows().
//   - tol: absolute off-diagonal threshold (typ. 1e-12·max|A|).
//   - maxSweeps: safety cap on full sweeps.
//
// Returns:
//   - []float64: eigenvalues (diagonal of the rotated matrix), unsorted.
//   - *Dense: Q whose columns are the matching orthonormal eigenvectors.
//
// Errors:
//   - ErrNonSquare, ErrAsymmetry (not symmetric within tol),
//     ErrMatrixEigenFailed (max off-diagonal ≥ tol after maxSweeps).
//
// Determinism:
//   - Fixed pivot order produces stable results.
//
// Complexity:
//   - Time O(maxSweeps · n^3), Space O(n^2).
func Eigen(m Matrix, tol float64, maxSweeps int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	src, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := src.r
	a := src.Clone().(*Dense) // working copy; m is never modified
	q, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	for i := 0; i < n; i++ {
		q.data[i*n+i] = 1.0
	}

	var (
		sweep, i, p, r     int
		app, aqq, apq      float64
		arp, arq, qrp, qrq float64
		theta, t, c, s     float64
	)
	converged := maxOffDiagonal(a) < tol
	for sweep = 0; sweep < maxSweeps && !converged; sweep++ {
		for p = 0; p < n-1; p++ {
			for i = p + 1; i < n; i++ {
				apq = a.data[p*n+i]
				if math.Abs(apq) < tol {
					continue
				}
				app = a.data[p*n+p]
				aqq = a.data[i*n+i]

				// θ = (aqq−app)/(2*apq); t = sign(θ) / (|θ|+√(θ²+1))
				theta = (aqq - app) / (2 * apq)
				t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
				c = 1.0 / math.Sqrt(t*t+1)
				s = t * c

				for r = 0; r < n; r++ {
					if r == p || r == i {
						continue
					}
					arp = a.data[r*n+p]
					arq = a.data[r*n+i]
					a.data[r*n+p] = c*arp - s*arq
					a.data[p*n+r] = a.data[r*n+p]
					a.data[r*n+i] = s*arp + c*arq
					a.data[i*n+r] = a.data[r*n+i]
				}
				a.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
				a.data[i*n+i] = s*s*app + 2*c*s*apq + c*c*aqq
				a.data[p*n+i], a.data[i*n+p] = 0, 0

				for r = 0; r < n; r++ {
					qrp = q.data[r*n+p]
					qrq = q.data[r*n+i]
					q.data[r*n+p] = c*qrp - s*qrq
					q.data[r*n+i] = s*qrp + c*qrq
				}
			}
		}
		converged = maxOffDiagonal(a) < tol
	}
	if !converged {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a.data[i*n+i]
	}

	return eigs, q, nil
}

// maxOffDiagonal returns max_{i<j} |A[i,j]| for a square Dense.
func maxOffDiagonal(a *Dense) float64 {
	var maxOff float64
	n := a.r
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if off := math.Abs(a.data[i*n+j]); off > maxOff {
				maxOff = off
			}
		}
	}

	return maxOff
}

// SortEigen reorders eigenpairs in descending order.
// With byMagnitude the key is |λ|, otherwise λ itself. Ties keep their input
// order (stable), so the result is deterministic. Column j of vecs must
// belong to vals[j]; inputs are not modified.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(vals) != vecs.Cols()).
//
// Complexity: O(n log n + r*n).
func SortEigen(vals []float64, vecs Matrix, byMagnitude bool) ([]float64, *Dense, error) {
	if err := ValidateNotNil(vecs); err != nil {
		return nil, nil, matrixErrorf(opSortEigen, err)
	}
	if err := ValidateVecLen(vals, vecs.Cols()); err != nil {
		return nil, nil, matrixErrorf(opSortEigen, err)
	}
	src, err := asDense(vecs)
	if err != nil {
		return nil, nil, matrixErrorf(opSortEigen, err)
	}

	key := func(v float64) float64 {
		if byMagnitude {
			return math.Abs(v)
		}
		return v
	}
	order := make([]int, len(vals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return key(vals[order[x]]) > key(vals[order[y]])
	})

	sortedVals := make([]float64, len(vals))
	sortedVecs, err := NewDense(src.r, src.c)
	if err != nil {
		return nil, nil, matrixErrorf(opSortEigen, err)
	}
	for dst, from := range order {
		sortedVals[dst] = vals[from]
		for r := 0; r < src.r; r++ {
			sortedVecs.data[r*src.c+dst] = src.data[r*src.c+from]
		}
	}

	return sortedVals, sortedVecs, nil
}
