// SPDX-License-Identifier: MIT

package dataset_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tae/dataset"
)

// ExampleLoader windows two trajectories with lag 1 and walks the batches.
func ExampleLoader() {
	a := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	b := mat.NewDense(3, 1, []float64{10, 11, 12})

	ds, err := dataset.Build(dataset.Multiple(a, b), 1)
	if err != nil {
		panic(err)
	}
	l, err := dataset.NewLoader(ds, 2)
	if err != nil {
		panic(err)
	}
	for batch := range l.All() {
		fmt.Println(mat.Col(nil, 0, batch.Instant), mat.Col(nil, 0, batch.Lagged))
	}
	// Output:
	// [0 1] [1 2]
	// [2 10] [3 11]
	// [11] [12]
}
