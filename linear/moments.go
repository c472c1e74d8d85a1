// SPDX-License-Identifier: MIT

package linear

import (
	"fmt"

	"github.com/katalvlaran/tae/dataset"
	"github.com/katalvlaran/tae/matrix"
)

const (
	opColumnSums    = "columnSums"
	opCrossProducts = "crossProducts"
)

// columnSums is pass one: Σ x_t and (when lagged) Σ x_{t+τ} over every batch.
// Returns the number of pairs seen.
func columnSums(l *dataset.Loader, lagged bool) (s0, s1 []float64, n int, err error) {
	d := l.Dim()
	s0 = make([]float64, d)
	if lagged {
		s1 = make([]float64, d)
	}
	for b := range l.All() {
		x0, err := matrix.FromGonum(b.Instant)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("%s: batch %d: %w", opColumnSums, b.Index, err)
		}
		if err = matrix.AccumulateColumnSums(s0, x0); err != nil {
			return nil, nil, 0, fmt.Errorf("%s: %w", opColumnSums, err)
		}
		if lagged {
			x1, err := matrix.FromGonum(b.Lagged)
			if err != nil {
				return nil, nil, 0, fmt.Errorf("%s: batch %d: %w", opColumnSums, b.Index, err)
			}
			if err = matrix.AccumulateColumnSums(s1, x1); err != nil {
				return nil, nil, 0, fmt.Errorf("%s: %w", opColumnSums, err)
			}
		}
		n += b.Rows()
	}

	return s0, s1, n, nil
}

// scaled returns s/n.
func scaled(s []float64, n int) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = v / float64(n)
	}

	return out
}

// covariances holds unbiased (N−1) estimates from pass two.
type covariances struct {
	n   int
	c00 *matrix.Dense // instantaneous
	c01 *matrix.Dense // time-lagged, nil unless requested
	c11 *matrix.Dense // lagged-lagged, nil unless requested
}

// crossProducts is pass two: centered products of every batch, centered with
// m0 (instant half) and m1 (lagged half), divided by N−1 at the end.
//
// Inputs:
//   - lagged: accumulate C01 = Σ (x_t−m0)ᵀ(x_{t+τ}−m1).
//   - withC11: also accumulate C11 = Σ (x_{t+τ}−m1)ᵀ(x_{t+τ}−m1).
//
// Errors:
//   - ErrInsufficientData when the loader holds fewer than two pairs.
func crossProducts(l *dataset.Loader, m0, m1 []float64, lagged, withC11 bool) (*covariances, error) {
	if l.Len() < 2 {
		return nil, fmt.Errorf("%s: %d pairs: %w", opCrossProducts, l.Len(), ErrInsufficientData)
	}
	d := l.Dim()
	acc := func() *matrix.Dense {
		m, _ := matrix.NewDense(d, d) // d ≥ 1 is guaranteed by the loader
		return m
	}
	cov := &covariances{c00: acc()}
	if lagged {
		cov.c01 = acc()
		if withC11 {
			cov.c11 = acc()
		}
	}

	for b := range l.All() {
		x0, err := matrix.FromGonum(b.Instant)
		if err != nil {
			return nil, fmt.Errorf("%s: batch %d: %w", opCrossProducts, b.Index, err)
		}
		if err = matrix.AccumulateCrossProduct(cov.c00, x0, x0, m0, m0); err != nil {
			return nil, fmt.Errorf("%s: %w", opCrossProducts, err)
		}
		if lagged {
			x1, err := matrix.FromGonum(b.Lagged)
			if err != nil {
				return nil, fmt.Errorf("%s: batch %d: %w", opCrossProducts, b.Index, err)
			}
			if err = matrix.AccumulateCrossProduct(cov.c01, x0, x1, m0, m1); err != nil {
				return nil, fmt.Errorf("%s: %w", opCrossProducts, err)
			}
			if withC11 {
				if err = matrix.AccumulateCrossProduct(cov.c11, x1, x1, m1, m1); err != nil {
					return nil, fmt.Errorf("%s: %w", opCrossProducts, err)
				}
			}
		}
		cov.n += b.Rows()
	}

	norm := 1.0 / float64(cov.n-1)
	var err error
	if cov.c00, err = matrix.Scale(cov.c00, norm); err != nil {
		return nil, fmt.Errorf("%s: %w", opCrossProducts, err)
	}
	if cov.c01 != nil {
		if cov.c01, err = matrix.Scale(cov.c01, norm); err != nil {
			return nil, fmt.Errorf("%s: %w", opCrossProducts, err)
		}
	}
	if cov.c11 != nil {
		if cov.c11, err = matrix.Scale(cov.c11, norm); err != nil {
			return nil, fmt.Errorf("%s: %w", opCrossProducts, err)
		}
	}

	return cov, nil
}

// reversible folds C11 into C00 and symmetrizes C01:
// C00 ← ½(C00 + C11), C01 ← ½(C01 + C01ᵀ). The new C01 is symmetric bit for bit.
func (c *covariances) reversible() error {
	sum, err := matrix.Add(c.c00, c.c11)
	if err != nil {
		return err
	}
	if c.c00, err = matrix.Scale(sum, 0.5); err != nil {
		return err
	}
	if c.c01, err = matrix.Symmetrize(c.c01); err != nil {
		return err
	}
	c.c11 = nil

	return nil
}

// projectedTrace returns trace(Vᵀ C V).
func projectedTrace(v, c *matrix.Dense) (float64, error) {
	vt, err := matrix.Transpose(v)
	if err != nil {
		return 0, err
	}
	left, err := matrix.Mul(vt, c)
	if err != nil {
		return 0, err
	}
	inner, err := matrix.Mul(left, v)
	if err != nil {
		return 0, err
	}

	return matrix.Trace(inner)
}
