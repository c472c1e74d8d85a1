// SPDX-License-Identifier: MIT

package dataset

import "errors"

// Sentinel errors. Match with errors.Is; messages carry the "dataset:" prefix.
var (
	// ErrShapeMismatch indicates series with differing column counts, or an
	// output matrix whose rows or width do not fit the series it is cut into.
	ErrShapeMismatch = errors.New("dataset: shape mismatch")

	// ErrEmptySeries is returned when no trajectory (or a nil one) is supplied.
	ErrEmptySeries = errors.New("dataset: empty series")

	// ErrNegativeLag is returned for lag < 0.
	ErrNegativeLag = errors.New("dataset: lag must be >= 0")

	// ErrInvalidFraction is returned when a split fraction is outside (0,1)
	// or would leave one of the partitions empty.
	ErrInvalidFraction = errors.New("dataset: invalid split fraction")

	// ErrBatchSize is returned for batch sizes below one.
	ErrBatchSize = errors.New("dataset: batch size must be >= 1")

	// ErrEmptyDataset is returned when a loader is built over zero pairs.
	ErrEmptyDataset = errors.New("dataset: dataset has no pairs")

	// ErrOutOfRange is returned by indexed accessors.
	ErrOutOfRange = errors.New("dataset: index out of range")

	// ErrMalformedCSV is returned for ragged or non-numeric CSV input.
	ErrMalformedCSV = errors.New("dataset: malformed csv")
)
