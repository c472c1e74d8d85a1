// SPDX-License-Identifier: MIT

package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Pair is one sample (x_t, x_{t+lag}) taken from a single trajectory.
// With lag 0 both halves hold the same observation.
type Pair struct {
	Instant []float64
	Lagged  []float64
}

// position addresses the instantaneous half of a pair.
type position struct {
	series int // trajectory index
	t      int // time index of x_t
}

// Dataset is an immutable, indexable list of pairs. It references the
// trajectories it was built from instead of copying them; callers must not
// mutate those matrices while the Dataset is in use.
type Dataset struct {
	parts []*mat.Dense
	lag   int
	dim   int
	pos   []position
}

// Build windows every trajectory of s independently and returns the pairs
// (x_t, x_{t+lag}) for t ∈ [0, T−lag), ordered by series, then by time.
// Trajectories with T ≤ lag contribute nothing, so
// Len() == Σ max(0, T_i − lag).
//
// Errors:
//   - ErrNegativeLag for lag < 0.
//   - ErrEmptySeries, ErrShapeMismatch from Series.Dim.
//
// Complexity:
//   - Time O(Σ T_i), Space O(Σ T_i) positions; observations are not copied.
func Build(s Series, lag int) (*Dataset, error) {
	if lag < 0 {
		return nil, ErrNegativeLag
	}
	dim, err := s.Dim()
	if err != nil {
		return nil, err
	}

	n := 0
	for _, t := range s.Lengths() {
		n += max(0, t-lag)
	}
	pos := make([]position, 0, n)
	for si, t := range s.Lengths() {
		for ti := 0; ti < t-lag; ti++ {
			pos = append(pos, position{series: si, t: ti})
		}
	}

	parts := make([]*mat.Dense, len(s.parts))
	copy(parts, s.parts)

	return &Dataset{parts: parts, lag: lag, dim: dim, pos: pos}, nil
}

// Len returns the number of pairs.
func (d *Dataset) Len() int { return len(d.pos) }

// Dim returns the observation width D.
func (d *Dataset) Dim() int { return d.dim }

// Lag returns the offset between the two halves of every pair.
func (d *Dataset) Lag() int { return d.lag }

// Pair returns copies of both halves of pair i.
func (d *Dataset) Pair(i int) (Pair, error) {
	if i < 0 || i >= len(d.pos) {
		return Pair{}, fmt.Errorf("pair %d of %d: %w", i, len(d.pos), ErrOutOfRange)
	}
	p := d.pos[i]
	src := d.parts[p.series]

	return Pair{
		Instant: mat.Row(nil, p.t, src),
		Lagged:  mat.Row(nil, p.t+d.lag, src),
	}, nil
}

// subset returns a Dataset over the positions idx (in the order given).
func (d *Dataset) subset(idx []int) *Dataset {
	pos := make([]position, len(idx))
	for k, i := range idx {
		pos[k] = d.pos[i]
	}

	return &Dataset{parts: d.parts, lag: d.lag, dim: d.dim, pos: pos}
}

// copyRows writes pairs [lo, hi) into the rows of instant and lagged.
// Both destinations must be (hi−lo)×dim.
func (d *Dataset) copyRows(instant, lagged *mat.Dense, lo, hi int) {
	for k := lo; k < hi; k++ {
		p := d.pos[k]
		src := d.parts[p.series]
		copy(instant.RawRowView(k-lo), src.RawRowView(p.t))
		if lagged != nil {
			copy(lagged.RawRowView(k-lo), src.RawRowView(p.t+d.lag))
		}
	}
}
