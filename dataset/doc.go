// SPDX-License-Identifier: MIT

// Package dataset turns raw trajectories into the paired samples consumed by
// the estimators, and back.
//
// Pipeline:
//
//	Series ──Build(lag)──▶ Dataset ──Split(f)──▶ (validation, train)
//	                          │
//	                          └──NewLoader(B)──▶ Loader.All() ─▶ Batch ...
//	transformed *mat.Dense ──Series.Reassemble──▶ Series (same shape as input)
//
// Series is a tagged variant: Single wraps one T×D array, Multiple wraps
// independent trajectories sharing D. Everything downstream works on the
// list form, so a single trajectory is just a list of length one.
//
// A Dataset never copies observations; it keeps the series and an ordered
// list of (series, t) positions. Pairs (x_t, x_{t+lag}) are formed inside one
// trajectory only, so no pair straddles a series boundary.
//
// Loader batches are emitted in dataset order on every pass. Transform relies
// on this: output row k belongs to dataset position k, which is what lets
// Reassemble cut the result back into per-series chunks.
package dataset
