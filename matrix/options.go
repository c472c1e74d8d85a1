// SPDX-License-Identifier: MIT

// Package matrix: numeric policy defaults and functional options for the
// eigen-solver facade (EigenSym).
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).

package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
	DefaultValidateNaNInf = true

	// DefaultEigenTol is the absolute off-diagonal threshold for Jacobi convergence,
	// relative to the largest absolute entry of the input (see EigenSym).
	DefaultEigenTol = 1e-12

	// DefaultSweeps bounds Jacobi work in full sweeps; one sweep is n(n-1)/2 rotations.
	DefaultSweeps = 100

	// DefaultSymmetryTol is the absolute asymmetry EigenSym accepts before failing.
	DefaultSymmetryTol = 1e-9
)

const panicTolInvalid = "matrix: WithTolerance: tol must be finite and > 0"

// Option mutates eigen-solver options.
type Option func(*Options)

// Options stores the effective eigen-solver configuration.
type Options struct {
	tol    float64 // relative off-diagonal tolerance
	sweeps int     // sweep budget
}

// WithTolerance sets the relative convergence tolerance of EigenSym.
// Panics when tol is not finite or not positive.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicTolInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// gatherOptions applies user-provided setters on top of defaults (last-writer-wins).
func gatherOptions(user ...Option) Options {
	o := Options{
		tol:    DefaultEigenTol,
		sweeps: DefaultSweeps,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
