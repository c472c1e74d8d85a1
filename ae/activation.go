// SPDX-License-Identifier: MIT

package ae

import (
	"fmt"
	"math"
)

// Activation names accepted by Config.Activation and Config.LatentActivation.
const (
	ActLeakyReLU = "leaky_relu"
	ActReLU      = "relu"
	ActTanh      = "tanh"
	ActSigmoid   = "sigmoid"
	ActELU       = "elu"
	ActIdentity  = "identity"
)

// leakySlope matches the conventional negative slope of leaky ReLU.
const leakySlope = 0.01

// activation is an element-wise nonlinearity; df receives both the input x
// and the output y = f(x) so each derivative can use the cheaper one.
type activation struct {
	name string
	f    func(x float64) float64
	df   func(x, y float64) float64
}

var activations = map[string]activation{
	ActLeakyReLU: {
		name: ActLeakyReLU,
		f: func(x float64) float64 {
			if x > 0 {
				return x
			}
			return leakySlope * x
		},
		df: func(x, _ float64) float64 {
			if x > 0 {
				return 1
			}
			return leakySlope
		},
	},
	ActReLU: {
		name: ActReLU,
		f:    func(x float64) float64 { return math.Max(0, x) },
		df: func(x, _ float64) float64 {
			if x > 0 {
				return 1
			}
			return 0
		},
	},
	ActTanh: {
		name: ActTanh,
		f:    math.Tanh,
		df:   func(_, y float64) float64 { return 1 - y*y },
	},
	ActSigmoid: {
		name: ActSigmoid,
		f:    func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
		df:   func(_, y float64) float64 { return y * (1 - y) },
	},
	ActELU: {
		name: ActELU,
		f: func(x float64) float64 {
			if x > 0 {
				return x
			}
			return math.Expm1(x)
		},
		df: func(x, y float64) float64 {
			if x > 0 {
				return 1
			}
			return y + 1
		},
	},
	ActIdentity: {
		name: ActIdentity,
		f:    func(x float64) float64 { return x },
		df:   func(_, _ float64) float64 { return 1 },
	},
}

func lookupActivation(name string) (activation, error) {
	a, ok := activations[name]
	if !ok {
		return activation{}, fmt.Errorf("unknown activation %q: %w", name, ErrInvalidConfig)
	}

	return a, nil
}
