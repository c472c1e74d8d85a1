// SPDX-License-Identifier: MIT

package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Series is the input container: one trajectory (Single) or an ordered list
// of independent trajectories (Multiple). Every trajectory is a T×D matrix
// with one observation per row; D must agree across trajectories, T may not.
//
// The zero value holds no trajectories and fails Dim with ErrEmptySeries.
type Series struct {
	parts    []*mat.Dense
	multiple bool
}

// Single wraps one trajectory.
func Single(x *mat.Dense) Series {
	return Series{parts: []*mat.Dense{x}}
}

// Multiple wraps several independent trajectories, kept in the given order.
// A Multiple of length one still reassembles into a list of length one.
func Multiple(xs ...*mat.Dense) Series {
	parts := make([]*mat.Dense, len(xs))
	copy(parts, xs)

	return Series{parts: parts, multiple: true}
}

// FromRows copies a rectangular [][]float64 (one row per time step) into a *mat.Dense.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptySeries
	}
	d := len(rows[0])
	buf := make([]float64, 0, len(rows)*d)
	for t, row := range rows {
		if len(row) != d {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", t, len(row), d, ErrShapeMismatch)
		}
		buf = append(buf, row...)
	}

	return mat.NewDense(len(rows), d, buf), nil
}

// IsMultiple reports whether the series was built with Multiple.
func (s Series) IsMultiple() bool { return s.multiple }

// Len returns the number of trajectories.
func (s Series) Len() int { return len(s.parts) }

// Part returns trajectory i (shared, not copied).
func (s Series) Part(i int) *mat.Dense { return s.parts[i] }

// Lengths returns T_i for every trajectory, in order.
func (s Series) Lengths() []int {
	out := make([]int, len(s.parts))
	for i, p := range s.parts {
		if p != nil {
			out[i], _ = p.Dims()
		}
	}

	return out
}

// TotalLen returns Σ T_i.
func (s Series) TotalLen() int {
	n := 0
	for _, t := range s.Lengths() {
		n += t
	}

	return n
}

// Dim returns the shared column count D.
//
// Errors:
//   - ErrEmptySeries when there is no trajectory or one of them is nil.
//   - ErrShapeMismatch when column counts differ.
func (s Series) Dim() (int, error) {
	if len(s.parts) == 0 {
		return 0, ErrEmptySeries
	}
	dim := -1
	for i, p := range s.parts {
		if p == nil || p.IsEmpty() {
			return 0, fmt.Errorf("series %d: %w", i, ErrEmptySeries)
		}
		_, c := p.Dims()
		if dim >= 0 && c != dim {
			return 0, fmt.Errorf("series %d has %d columns, want %d: %w", i, c, dim, ErrShapeMismatch)
		}
		dim = c
	}

	return dim, nil
}

// Reassemble cuts a transformed matrix, whose rows follow the concatenated
// trajectories, back into the shape of s: chunk i has T_i rows. A Single
// series yields a Single result. Chunks are copies, independent of out.
//
// Errors:
//   - ErrShapeMismatch when out.Rows() != Σ T_i.
func (s Series) Reassemble(out *mat.Dense) (Series, error) {
	if out == nil || out.IsEmpty() {
		return Series{}, ErrShapeMismatch
	}
	r, c := out.Dims()
	if r != s.TotalLen() {
		return Series{}, fmt.Errorf("reassemble: %d rows for %d observations: %w", r, s.TotalLen(), ErrShapeMismatch)
	}
	chunks := make([]*mat.Dense, 0, len(s.parts))
	p := 0
	for _, length := range s.Lengths() {
		chunks = append(chunks, mat.DenseCopyOf(out.Slice(p, p+length, 0, c)))
		p += length
	}

	return Series{parts: chunks, multiple: s.multiple}, nil
}
