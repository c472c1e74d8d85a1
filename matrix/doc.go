// SPDX-License-Identifier: MIT

// Package matrix provides the deterministic dense kernels behind the linear
// estimators: a row-major Dense type, products, transposes, symmetrization,
// a Jacobi eigen-solver for symmetric matrices and the column statistics used
// to accumulate (cross-)covariances batch by batch.
//
// What lives here:
//
//   - Dense, a flat row-major buffer with bounds-checked At/Set.
//   - Add, Mul, Transpose, Scale, Symmetrize and Trace.
//   - Eigen (Jacobi sweeps) and SortEigen (descending reorder of eigenpairs).
//   - AccumulateColumnSums, CenterColumnsWith and AccumulateCrossProduct for two-pass
//     covariance estimation over minibatches.
//   - Interop helpers FromGonum / ToGonum for callers that keep their data in
//     gonum.org/v1/gonum/mat containers.
//
// Determinism:
//
//	Every loop runs in a fixed i→j (or flat 0..n-1) order and no kernel draws
//	random numbers, so identical inputs give bit-identical outputs. This is
//	what makes the symmetrized TICA cross-covariance exactly symmetric.
//
// Errors:
//
//	Kernels never panic on user input. They return the sentinels in errors.go
//	wrapped with the operation tag ("Mul: matrix: dimension mismatch") so
//	callers can match them with errors.Is.
package matrix
