// SPDX-License-Identifier: MIT

package ae

import "math"

const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8
)

// adam keeps first and second moment estimates for every parameter.
type adam struct {
	lr   float64
	t    int
	m, v [][]float64
}

func newAdam(lr float64, ps []*param) *adam {
	a := &adam{lr: lr, m: make([][]float64, len(ps)), v: make([][]float64, len(ps))}
	for i, p := range ps {
		n := len(p.value.RawMatrix().Data)
		a.m[i] = make([]float64, n)
		a.v[i] = make([]float64, n)
	}

	return a
}

// step applies one bias-corrected update from the current gradients.
func (a *adam) step(ps []*param) {
	a.t++
	c1 := 1 - math.Pow(adamBeta1, float64(a.t))
	c2 := 1 - math.Pow(adamBeta2, float64(a.t))
	for i, p := range ps {
		w := p.value.RawMatrix().Data
		g := p.grad.RawMatrix().Data
		m, v := a.m[i], a.v[i]
		for k := range w {
			m[k] = adamBeta1*m[k] + (1-adamBeta1)*g[k]
			v[k] = adamBeta2*v[k] + (1-adamBeta2)*g[k]*g[k]
			w[k] -= a.lr * (m[k] / c1) / (math.Sqrt(v[k]/c2) + adamEps)
		}
	}
}
