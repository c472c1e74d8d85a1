// SPDX-License-Identifier: MIT

package tae_test

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tae"
	"github.com/katalvlaran/tae/dataset"
)

// ExampleTICA reduces two trajectories of a slow oscillation to one coordinate.
func ExampleTICA() {
	traj := func(n int, phase float64) *mat.Dense {
		m := mat.NewDense(n, 2, nil)
		for i := 0; i < n; i++ {
			s := math.Sin(0.05*float64(i) + phase)
			m.Set(i, 0, s+0.1*math.Sin(2.3*float64(i)))
			m.Set(i, 1, s-0.1*math.Sin(2.3*float64(i)))
		}
		return m
	}

	opts := tae.DefaultTICAOptions()
	opts.Dim = 1
	res, err := tae.TICA(dataset.Multiple(traj(80, 0), traj(60, 1)), opts)
	if err != nil {
		panic(err)
	}
	for i := 0; i < res.Transformed.Len(); i++ {
		r, c := res.Transformed.Part(i).Dims()
		fmt.Printf("series %d: %d×%d\n", i, r, c)
	}
	fmt.Println("test loss reported:", !math.IsNaN(res.TestLoss))
	// Output:
	// series 0: 80×1
	// series 1: 60×1
	// test loss reported: false
}
