// SPDX-License-Identifier: MIT

// Package dataset - RNG utilities shared by the splitter and the autoencoder.
//
// Policy:
//   - seed == 0 ⇒ seeded from the wall clock; every run differs.
//   - seed != 0 ⇒ reproducible stream; identical seeds give identical splits
//     and identical network initialization.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Do not share a *rand.Rand across goroutines.
//   - Use DeriveRand to create independent streams for separate consumers.
package dataset

import (
	"math/rand"
	"time"
)

// NewRand returns a *rand.Rand following the seed policy above.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed and a stream identifier into a new 64-bit seed
// with a SplitMix64-style finalizer, so neighbouring stream ids give
// uncorrelated children.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// DeriveRand creates an independent stream from base and a stream id.
// base.Int63() is consumed once, so repeated derivations with the same id
// still differ. A nil base follows the seed == 0 policy.
func DeriveRand(base *rand.Rand, stream uint64) *rand.Rand {
	if base == nil {
		base = NewRand(0)
	}

	return rand.New(rand.NewSource(deriveSeed(base.Int63(), stream)))
}
