// SPDX-License-Identifier: MIT

package ae

import "errors"

// Sentinel errors. Match with errors.Is.
var (
	// ErrDimension is returned when a batch width differs from the model's
	// input width, or when the input or latent width is not positive.
	ErrDimension = errors.New("ae: dimension mismatch")

	// ErrInvalidConfig is returned by Config validation.
	ErrInvalidConfig = errors.New("ae: invalid config")

	// ErrInvalidEpochs is returned for a non-positive epoch count.
	ErrInvalidEpochs = errors.New("ae: epochs must be >= 1")
)
