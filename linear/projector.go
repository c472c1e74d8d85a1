// SPDX-License-Identifier: MIT

package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tae/dataset"
	"github.com/katalvlaran/tae/matrix"
)

const opTransform = "Transform"

// projector is the fitted state shared by PCA and TICA: x ↦ (x − mean)·proj.
type projector struct {
	mean []float64     // length D
	proj *matrix.Dense // D×dim, nil until fitted
	vals []float64     // retained eigenvalues (or singular values), descending
}

// fitted reports whether Fit has succeeded at least once.
func (p *projector) fitted() bool { return p.proj != nil }

// Transform projects the instantaneous half of every pair of l, in loader
// order, into an (N × dim) matrix. Loaders built with lag 0 therefore map
// every observation of the source series.
//
// Errors:
//   - ErrNotFitted before Fit, ErrShapeMismatch when l.Dim() != D.
func (p *projector) Transform(l *dataset.Loader) (*mat.Dense, error) {
	if !p.fitted() {
		return nil, ErrNotFitted
	}
	if l == nil {
		return nil, fmt.Errorf("%s: nil loader: %w", opTransform, dataset.ErrEmptyDataset)
	}
	if l.Dim() != len(p.mean) {
		return nil, fmt.Errorf("%s: width %d, model %d: %w", opTransform, l.Dim(), len(p.mean), ErrShapeMismatch)
	}

	out := mat.NewDense(l.Len(), p.proj.Cols(), nil)
	for b := range l.All() {
		x, err := matrix.FromGonum(b.Instant)
		if err != nil {
			return nil, fmt.Errorf("%s: batch %d: %w", opTransform, b.Index, err)
		}
		xc, err := matrix.CenterColumnsWith(x, p.mean)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opTransform, err)
		}
		y, err := matrix.Mul(xc, p.proj)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opTransform, err)
		}
		for i := 0; i < y.Rows(); i++ {
			row, _ := y.Row(i)
			out.SetRow(b.Offset+i, row)
		}
	}

	return out, nil
}

// Mean returns a copy of the fitted mean (nil before Fit).
func (p *projector) Mean() []float64 {
	if p.mean == nil {
		return nil
	}

	return append([]float64(nil), p.mean...)
}

// Projection returns a copy of the D×dim projection (nil before Fit).
func (p *projector) Projection() *mat.Dense {
	if !p.fitted() {
		return nil
	}
	m, _ := matrix.ToGonum(p.proj)

	return m
}

// Eigenvalues returns the retained eigenvalues in projection column order
// (singular values for non-reversible TICA). With the TICA kinetic map the
// projection columns are already scaled by them, while the losses returned
// by Fit are computed on the unscaled columns.
func (p *projector) Eigenvalues() []float64 {
	return append([]float64(nil), p.vals...)
}

// checkDim resolves dim == 0 to full rank and validates 0 ≤ dim ≤ d.
func checkDim(dim, d int) (int, error) {
	if dim < 0 || dim > d {
		return 0, fmt.Errorf("dim %d for width %d: %w", dim, d, ErrInvalidDim)
	}
	if dim == 0 {
		return d, nil
	}

	return dim, nil
}

// negSum returns −Σ v.
func negSum(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}

	return -s
}
