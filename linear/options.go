// SPDX-License-Identifier: MIT

package linear

import (
	"log/slog"
	"math"
)

const (
	// DefaultKineticMap scales TICA components by their eigenvalues.
	DefaultKineticMap = true

	// DefaultSymmetrize solves TICA on the raw (non-reversible) C01.
	DefaultSymmetrize = false

	// DefaultEpsilon bounds the accepted condition number of C00 at 1/eps
	// and is the relative Jacobi tolerance of the symmetric eigen-solves.
	DefaultEpsilon = 1e-12
)

const panicEpsilonInvalid = "linear: WithEpsilon: eps must be in (0, 1)"

// Option configures an estimator.
type Option func(*Options)

// Options is the effective estimator configuration.
type Options struct {
	kineticMap bool
	symmetrize bool
	eps        float64
	logger     *slog.Logger
}

// WithKineticMap toggles eigenvalue scaling of TICA components. PCA ignores it.
func WithKineticMap(on bool) Option {
	return func(o *Options) { o.kineticMap = on }
}

// WithSymmetrize toggles the reversible TICA estimate. PCA ignores it.
func WithSymmetrize(on bool) Option {
	return func(o *Options) { o.symmetrize = on }
}

// WithEpsilon sets the conditioning threshold of C00 and the relative
// tolerance handed to matrix.EigenSym. Panics unless 0 < eps < 1.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || eps <= 0 || eps >= 1 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithLogger routes fit diagnostics to l; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

func gatherOptions(user ...Option) Options {
	o := Options{
		kineticMap: DefaultKineticMap,
		symmetrize: DefaultSymmetrize,
		eps:        DefaultEpsilon,
	}
	for _, set := range user {
		set(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}
