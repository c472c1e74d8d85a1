// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Column statistics for two-pass (co)variance estimation over minibatches:
//     pass one sums columns, pass two accumulates centered cross-products.
//   - Keep tight loops centralized here so estimators only compose them.
//
// Exposed API:
//   - AccumulateColumnSums(sums, X)           -> sums += Σ_i X[i,*]
//   - CenterColumnsWith(X, means)             -> X − means (broadcast over rows)
//   - AccumulateCrossProduct(acc, X, Y, mx, my) -> acc += (X−mx)ᵀ(Y−my)
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Summation order follows row order, so results depend only on batch order.

package matrix

const (
	opColumnSums       = "AccumulateColumnSums"
	opCenterColumns    = "CenterColumnsWith"
	opCrossProduct     = "AccumulateCrossProduct"
	opBroadcastSubCols = "broadcastSubCols"
)

// ewBroadcastSubCols computes out[i,j] = X[i,j] - colMeans[j].
// Time: O(r*c). Space: O(r*c). Deterministic i→j loops.
func ewBroadcastSubCols(X *Dense, colMeans []float64) (*Dense, error) {
	r, c := X.r, X.c
	if len(colMeans) != c {
		return nil, matrixErrorf(opBroadcastSubCols, ErrDimensionMismatch)
	}
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf(opBroadcastSubCols, err)
	}
	for i := 0; i < r; i++ {
		base := i * c
		for j := 0; j < c; j++ {
			out.data[base+j] = X.data[base+j] - colMeans[j]
		}
	}

	return out, nil
}

// AccumulateColumnSums adds the column sums of X into sums (len == Cols(X)).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(1).
func AccumulateColumnSums(sums []float64, X Matrix) error {
	if err := ValidateNotNil(X); err != nil {
		return matrixErrorf(opColumnSums, err)
	}
	if err := ValidateVecLen(sums, X.Cols()); err != nil {
		return matrixErrorf(opColumnSums, err)
	}
	d, err := asDense(X)
	if err != nil {
		return matrixErrorf(opColumnSums, err)
	}
	for i := 0; i < d.r; i++ {
		base := i * d.c
		for j := 0; j < d.c; j++ {
			sums[j] += d.data[base+j]
		}
	}

	return nil
}

// CenterColumnsWith returns a centered copy Xc[i,j] = X[i,j] − means[j].
// The means are supplied by the caller (typically from a previous pass), so
// several batches can be centered consistently.
func CenterColumnsWith(X Matrix, means []float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opCenterColumns, err)
	}
	d, err := asDense(X)
	if err != nil {
		return nil, matrixErrorf(opCenterColumns, err)
	}
	out, err := ewBroadcastSubCols(d, means)
	if err != nil {
		return nil, matrixErrorf(opCenterColumns, err)
	}

	return out, nil
}

// AccumulateCrossProduct performs acc += (X − mx)ᵀ (Y − my) in place.
//
// Implementation:
//   - Stage 1: validate X, Y share the row count and acc is Cols(X)×Cols(Y).
//   - Stage 2: center both operands with CenterColumnsWith.
//   - Stage 3: Transpose → Mul, then add the product into acc cell by cell.
//
// Inputs:
//   - acc: running sum of centered cross-products (Cols(X)×Cols(Y)).
//   - X, Y: batch halves with equal row counts (Y may be X itself).
//   - mx, my: column means used for centering.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*cx*cy), Space O(r*(cx+cy) + cx*cy) temporaries.
//
// Notes:
//   - Dividing the final sum by (N−1) yields the unbiased estimate.
func AccumulateCrossProduct(acc *Dense, X, Y Matrix, mx, my []float64) error {
	if err := ValidateNotNil(acc); err != nil {
		return matrixErrorf(opCrossProduct, err)
	}
	if err := ValidateNotNil(X); err != nil {
		return matrixErrorf(opCrossProduct, err)
	}
	if err := ValidateNotNil(Y); err != nil {
		return matrixErrorf(opCrossProduct, err)
	}
	if X.Rows() != Y.Rows() || acc.r != X.Cols() || acc.c != Y.Cols() {
		return matrixErrorf(opCrossProduct, ErrDimensionMismatch)
	}

	xc, err := CenterColumnsWith(X, mx)
	if err != nil {
		return matrixErrorf(opCrossProduct, err)
	}
	yc, err := CenterColumnsWith(Y, my)
	if err != nil {
		return matrixErrorf(opCrossProduct, err)
	}
	xt, err := Transpose(xc)
	if err != nil {
		return matrixErrorf(opCrossProduct, err)
	}
	prod, err := Mul(xt, yc)
	if err != nil {
		return matrixErrorf(opCrossProduct, err)
	}
	for idx, v := range prod.data {
		acc.data[idx] += v
	}

	return nil
}
