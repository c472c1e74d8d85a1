// SPDX-License-Identifier: MIT

// Package linear implements the two linear estimators of the pipeline:
// principal component analysis (PCA) and time-lagged independent component
// analysis (TICA).
//
// Both estimators stream a dataset.Loader twice. The first pass sums the
// columns of every batch to obtain the mean; the second accumulates centered
// (cross-)products with the matrix kernels. Because fitting always covers the
// full pass, the batch size changes the memory footprint but not the fitted
// values (up to floating-point summation order).
//
//	PCA:  C = Σ (x−μ)ᵀ(x−μ) / (N−1)          →  C v = λ v
//	TICA: C00, C01 from pairs (x_t, x_{t+τ})  →  C01 v = λ C00 v   (reversible)
//	                                          →  SVD of L⁻¹C01L⁻ᵀ  (otherwise)
//
// In both TICA modes the projection columns are orthonormal in the C00
// metric, Vᵀ C00 V = I.
//
// A fitted estimator holds a mean vector and a D×dim projection; Transform
// maps every row x to (x − μ)·P and keeps input order.
//
// Losses:
//
//	The training loss is the negated sum of the retained eigenvalues
//	(singular values for non-reversible TICA), so a better subspace gives a
//	lower loss. The test loss is −trace(Vᵀ C_test V) on held-out pairs
//	centered with the training mean. Without a test loader it is NaN.
package linear
