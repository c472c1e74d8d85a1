// SPDX-License-Identifier: MIT

package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tae/dataset"
)

func TestBuild_PairCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		lengths []int
		lag     int
		want    int
	}{
		{"single lag 1", []int{10}, 1, 9},
		{"single lag 0", []int{10}, 0, 10},
		{"lag equals length", []int{5}, 5, 0},
		{"lag exceeds one part", []int{3, 8}, 4, 4},
		{"two parts", []int{50, 70}, 3, 114},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parts := make([]*mat.Dense, 0, len(tc.lengths))
			for _, n := range tc.lengths {
				parts = append(parts, ramp(t, n, 2, 0))
			}
			ds, err := dataset.Build(dataset.Multiple(parts...), tc.lag)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ds.Len())
			assert.Equal(t, 2, ds.Dim())
			assert.Equal(t, tc.lag, ds.Lag())
		})
	}
}

func TestBuild_PairsNeverCrossBoundaries(t *testing.T) {
	t.Parallel()

	a := ramp(t, 4, 2, 0)
	b := ramp(t, 3, 2, 1000)
	ds, err := dataset.Build(dataset.Multiple(a, b), 2)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len()) // 2 from a, 1 from b

	want := [][2]float64{{0, 20}, {10, 30}, {1000, 1020}}
	for i, w := range want {
		p, err := ds.Pair(i)
		require.NoError(t, err)
		assert.Equal(t, w[0], p.Instant[0], "pair %d instant", i)
		assert.Equal(t, w[1], p.Lagged[0], "pair %d lagged", i)
	}

	_, err = ds.Pair(3)
	require.ErrorIs(t, err, dataset.ErrOutOfRange)
	_, err = ds.Pair(-1)
	require.ErrorIs(t, err, dataset.ErrOutOfRange)
}

func TestBuild_LagZeroHalvesEqual(t *testing.T) {
	t.Parallel()

	ds, err := dataset.Build(dataset.Single(ramp(t, 6, 3, 0)), 0)
	require.NoError(t, err)
	for i := 0; i < ds.Len(); i++ {
		p, err := ds.Pair(i)
		require.NoError(t, err)
		assert.Equal(t, p.Instant, p.Lagged)
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	_, err := dataset.Build(dataset.Single(ramp(t, 6, 3, 0)), -1)
	require.ErrorIs(t, err, dataset.ErrNegativeLag)

	_, err = dataset.Build(dataset.Multiple(ramp(t, 6, 3, 0), ramp(t, 6, 4, 0)), 1)
	require.ErrorIs(t, err, dataset.ErrShapeMismatch)

	_, err = dataset.Build(dataset.Series{}, 1)
	require.ErrorIs(t, err, dataset.ErrEmptySeries)
}
