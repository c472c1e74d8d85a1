// SPDX-License-Identifier: MIT

package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// ramp returns a T×D trajectory whose entry (t, j) equals base + t*10 + j,
// so every row identifies its source position.
func ramp(t testing.TB, rows, cols int, base float64) *mat.Dense {
	t.Helper()
	require.Positive(t, rows)
	require.Positive(t, cols)
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, base+float64(i)*10+float64(j))
		}
	}

	return m
}
