// SPDX-License-Identifier: MIT

package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Split partitions d into disjoint validation and training subsets.
//
// Implementation:
//   - Stage 1: validate 0 < fraction < 1.
//   - Stage 2: draw a uniform permutation of [0, N) from rng.
//   - Stage 3: the first round(fraction·N) indices go to validation, the rest to training.
//   - Stage 4: each partition is re-sorted ascending, so its batches follow dataset order.
//
// Behavior highlights:
//   - Not stratified by series; every index lands in exactly one partition.
//   - The assignment is recomputed on each call; nothing is cached on d.
//
// Errors:
//   - ErrInvalidFraction when fraction ∉ (0,1) or either partition would be empty.
//
// Complexity:
//   - Time O(N log N), Space O(N).
func Split(d *Dataset, fraction float64, rng *rand.Rand) (validation, train *Dataset, err error) {
	if math.IsNaN(fraction) || fraction <= 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("fraction %v: %w", fraction, ErrInvalidFraction)
	}
	n := d.Len()
	nVal := int(math.Round(fraction * float64(n)))
	if nVal == 0 || nVal == n {
		return nil, nil, fmt.Errorf("fraction %v of %d pairs leaves an empty partition: %w", fraction, n, ErrInvalidFraction)
	}
	if rng == nil {
		rng = NewRand(0)
	}

	perm := rng.Perm(n)
	valIdx := append([]int(nil), perm[:nVal]...)
	trainIdx := append([]int(nil), perm[nVal:]...)
	sort.Ints(valIdx)
	sort.Ints(trainIdx)

	return d.subset(valIdx), d.subset(trainIdx), nil
}
