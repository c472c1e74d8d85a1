// SPDX-License-Identifier: MIT

// Package whiten rescales transformed coordinates to unit sample variance.
//
// Policy:
//   - Each column is divided by its sample standard deviation (N−1 normalization).
//   - A column with deviation ≤ MinStdDev (constant output, or fewer than two
//     rows) cannot be rescaled and fails with ErrDegenerateColumn. Nothing is
//     clamped or silently left unscaled.
//   - Columns are not re-centered; linear estimators already emit centered output.
package whiten

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MinStdDev is the smallest standard deviation a column may have.
const MinStdDev = 1e-12

// ErrDegenerateColumn reports a column whose standard deviation is ≤ MinStdDev.
var ErrDegenerateColumn = errors.New("whiten: column has zero variance")

// Columns returns a copy of m with every column scaled to unit variance.
// m is not modified.
//
// Errors:
//   - ErrDegenerateColumn (wrapped with the column index).
func Columns(m *mat.Dense) (*mat.Dense, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("whiten: empty input: %w", ErrDegenerateColumn)
	}
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		sd := stat.StdDev(col, nil)
		if math.IsNaN(sd) || sd <= MinStdDev {
			return nil, fmt.Errorf("whiten: column %d (std %g): %w", j, sd, ErrDegenerateColumn)
		}
		floats.Scale(1/sd, col)
		out.SetCol(j, col)
	}

	return out, nil
}
