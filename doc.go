// SPDX-License-Identifier: MIT

// Package tae reduces the dimensionality of multivariate time series with
// three estimators that share one data pipeline:
//
//   - PCA: directions of maximal variance.
//   - TICA: directions of maximal autocorrelation at a lag τ.
//   - AE: a time-lagged autoencoder whose latent code must predict x_{t+τ}.
//
// Pipeline:
//
//	Series ──Build(lag)──► Dataset ──Split(f)──► train / validation
//	   │                                    │
//	   │                              Loader(batch)
//	   │                                    ▼
//	   └──Build(0)──► Loader ──► Transform ──► [Whiten] ──► Reassemble ──► Series
//
// Every entry point returns the transformed data in the shape of its input
// (one matrix per input trajectory), the training loss and a validation loss
// that is NaN when no validation split was requested.
//
// Subpackages:
//
//	dataset/   series containers, lagged pairs, splitting, batching, CSV I/O
//	matrix/    dense kernels, Jacobi eigen-solver, covariance accumulation
//	linear/    PCA and TICA estimators
//	ae/        the autoencoder network and its trainer
//	whiten/    unit-variance rescaling of the output columns
//
// Quick start:
//
//	out, err := tae.TICA(dataset.Single(x), tae.DefaultTICAOptions())
//	if err != nil { ... }
//	y := out.Transformed.Part(0) // T×D with the slowest modes first
package tae
