// SPDX-License-Identifier: MIT

package linear

import "errors"

// Sentinel errors. Match with errors.Is.
var (
	// ErrSingularCovariance is returned when the instantaneous covariance of
	// TICA is not positive definite or its condition number exceeds 1/eps.
	// The estimator does not regularize; ill-conditioning is a hard failure.
	ErrSingularCovariance = errors.New("linear: instantaneous covariance is singular or ill-conditioned")

	// ErrInvalidDim is returned for dim < 0 or dim > D.
	ErrInvalidDim = errors.New("linear: invalid output dimension")

	// ErrInsufficientData is returned when fewer than two samples are available.
	ErrInsufficientData = errors.New("linear: at least two samples are required")

	// ErrNotFitted is returned by Transform before a successful Fit.
	ErrNotFitted = errors.New("linear: estimator is not fitted")

	// ErrShapeMismatch is returned when a loader's width differs from the fitted D.
	ErrShapeMismatch = errors.New("linear: loader width does not match the model")

	// ErrDecompositionFailed is returned when the SVD of a non-symmetric
	// Koopman matrix does not converge.
	ErrDecompositionFailed = errors.New("linear: singular value decomposition failed")
)
