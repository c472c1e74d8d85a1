// SPDX-License-Identifier: MIT

package dataset

import (
	"iter"

	"gonum.org/v1/gonum/mat"
)

// DefaultPrefetch is the number of batches assembled ahead of the consumer
// (0 = synchronous assembly on the caller's goroutine).
const DefaultPrefetch = 0

const panicPrefetchInvalid = "dataset: WithPrefetch: n must be >= 0"

// Batch is a contiguous group of pairs in dataset order.
//
// Instant and Lagged are (rows × D) matrices owned by the batch; for lag-0
// datasets they are the same matrix. Consumers must treat them as read-only.
type Batch struct {
	Index   int        // batch number within the pass
	Offset  int        // dataset position of the first row
	Instant *mat.Dense // x_t rows
	Lagged  *mat.Dense // x_{t+lag} rows
}

// Rows returns the number of pairs in the batch.
func (b Batch) Rows() int {
	r, _ := b.Instant.Dims()
	return r
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPrefetch lets a background goroutine assemble up to n batches ahead.
// Emission order is unchanged. Panics when n < 0.
func WithPrefetch(n int) LoaderOption {
	if n < 0 {
		panic(panicPrefetchInvalid)
	}

	return func(l *Loader) { l.prefetch = n }
}

// Loader iterates a Dataset in fixed-size batches.
//
// Contract:
//   - Batch k holds pairs [k·B, min((k+1)·B, N)); only the last may be short.
//   - Every pass (each call of All) yields the same batches in the same order.
//   - The loader is finite and restartable; it never reshuffles.
type Loader struct {
	ds        *Dataset
	batchSize int
	prefetch  int
}

// NewLoader returns a Loader over ds.
//
// Errors:
//   - ErrBatchSize when batchSize < 1.
//   - ErrEmptyDataset when ds is nil or has no pairs.
func NewLoader(ds *Dataset, batchSize int, opts ...LoaderOption) (*Loader, error) {
	if batchSize < 1 {
		return nil, ErrBatchSize
	}
	if ds == nil || ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	l := &Loader{ds: ds, batchSize: batchSize, prefetch: DefaultPrefetch}
	for _, set := range opts {
		set(l)
	}

	return l, nil
}

// Len returns the number of pairs.
func (l *Loader) Len() int { return l.ds.Len() }

// Dim returns the observation width D.
func (l *Loader) Dim() int { return l.ds.Dim() }

// Lag returns the pair offset of the underlying dataset.
func (l *Loader) Lag() int { return l.ds.Lag() }

// BatchSize returns B.
func (l *Loader) BatchSize() int { return l.batchSize }

// NumBatches returns ⌈N / B⌉.
func (l *Loader) NumBatches() int {
	return (l.ds.Len() + l.batchSize - 1) / l.batchSize
}

// Batch assembles batch k. k must be in [0, NumBatches()).
func (l *Loader) Batch(k int) Batch {
	lo := k * l.batchSize
	hi := min(lo+l.batchSize, l.ds.Len())
	instant := mat.NewDense(hi-lo, l.ds.dim, nil)
	lagged := instant
	if l.ds.lag > 0 {
		lagged = mat.NewDense(hi-lo, l.ds.dim, nil)
		l.ds.copyRows(instant, lagged, lo, hi)
	} else {
		l.ds.copyRows(instant, nil, lo, hi)
	}

	return Batch{Index: k, Offset: lo, Instant: instant, Lagged: lagged}
}

// All returns one pass over the batches.
//
// With prefetch > 0 a single producer goroutine assembles batches into a
// buffered channel; because there is exactly one producer, order is the
// same as the synchronous path. Breaking out of the loop stops the producer.
func (l *Loader) All() iter.Seq[Batch] {
	return func(yield func(Batch) bool) {
		n := l.NumBatches()
		if l.prefetch == 0 {
			for k := 0; k < n; k++ {
				if !yield(l.Batch(k)) {
					return
				}
			}
			return
		}

		out := make(chan Batch, l.prefetch)
		done := make(chan struct{})
		defer close(done)
		go func() {
			defer close(out)
			for k := 0; k < n; k++ {
				select {
				case out <- l.Batch(k):
				case <-done:
					return
				}
			}
		}()
		for b := range out {
			if !yield(b) {
				return
			}
		}
	}
}
