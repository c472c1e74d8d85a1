// SPDX-License-Identifier: MIT
// Package matrix: public API facades.
//
// Purpose:
//   - Provide thin entry points composed from the canonical kernels.
//   - Avoid any logic duplication; each facade delegates to the kernels.

package matrix

import "math"

const (
	opSymmetrize  = "Symmetrize"
	opTrace       = "Trace"
	opEigenSym    = "EigenSym"
	opLeadingCols = "LeadingCols"
)

// Symmetrize returns (m + mᵀ)/2. Deterministic composition: Transpose → Add → Scale.
// Because Add evaluates m[i,j]+m[j,i] and m[j,i]+m[i,j] with the same operands,
// the result is symmetric bit for bit.
// Complexity: O(rc).
func Symmetrize(m Matrix) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	mt, err := Transpose(m)
	if err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	sum, err := Add(m, mt)
	if err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}

	return Scale(sum, 0.5)
}

// Trace returns Σ_i m[i,i] for a square matrix.
func Trace(m Matrix) (float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opTrace, err)
	}
	var tr float64
	for i := 0; i < m.Rows(); i++ {
		v, err := m.At(i, i)
		if err != nil {
			return 0, matrixErrorf(opTrace, err)
		}
		tr += v
	}

	return tr, nil
}

// EigenSym decomposes a symmetric matrix and returns eigenpairs sorted by
// decreasing eigenvalue.
//
// Implementation:
//   - Stage 1: scale the tolerances by max|A| so convergence is unit-free.
//   - Stage 2: Eigen with the scaled tolerance and the sweep budget.
//   - Stage 3: SortEigen (descending by value, or by |λ| with byMagnitude).
//
// Notes:
//   - Symmetrize inputs coming from numerically noisy accumulations first;
//     EigenSym only tolerates asymmetry up to DefaultSymmetryTol·max|A|.
func EigenSym(m Matrix, byMagnitude bool, opts ...Option) ([]float64, *Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	o := gatherOptions(opts...)
	d, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}

	scale := 0.0
	for _, v := range d.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, matrixErrorf(opEigenSym, ErrNaNInf)
		}
		scale = math.Max(scale, math.Abs(v))
	}
	if scale == 0 {
		scale = 1 // zero matrix: already diagonal
	}
	if err = ValidateSymmetric(d, DefaultSymmetryTol*scale); err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	// Eigen re-validates symmetry with the convergence tolerance, so hand it
	// an exactly symmetric copy.
	sym, err := Symmetrize(d)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}

	vals, vecs, err := Eigen(sym, o.tol*scale, o.sweeps)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}

	return SortEigen(vals, vecs, byMagnitude)
}

// LeadingCols copies the first k columns of m into a new r×k Dense.
func LeadingCols(m Matrix, k int) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opLeadingCols, err)
	}
	if k <= 0 || k > m.Cols() {
		return nil, matrixErrorf(opLeadingCols, ErrDimensionMismatch)
	}
	src, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opLeadingCols, err)
	}
	out, err := NewDense(src.r, k)
	if err != nil {
		return nil, matrixErrorf(opLeadingCols, err)
	}
	for i := 0; i < src.r; i++ {
		copy(out.data[i*k:(i+1)*k], src.data[i*src.c:i*src.c+k])
	}

	return out, nil
}
