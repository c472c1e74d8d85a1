// SPDX-License-Identifier: MIT

package ae

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	bnMomentum = 0.1
	bnEpsilon  = 1e-5
)

// param is a trainable tensor and the gradient of the last backward pass.
type param struct {
	value *mat.Dense
	grad  *mat.Dense
}

func newParam(r, c int) *param {
	return &param{value: mat.NewDense(r, c, nil), grad: mat.NewDense(r, c, nil)}
}

// layer is one stage of a network. forward caches what backward needs;
// backward overwrites parameter gradients and returns ∂L/∂input.
type layer interface {
	forward(x *mat.Dense, train bool) *mat.Dense
	backward(g *mat.Dense) *mat.Dense
	params() []*param
}

// ---------- affine ----------

// affine computes y = x·W + b.
type affine struct {
	w, b *param // b nil without bias
	x    *mat.Dense
}

// newAffine draws W and b from U(−1/√in, 1/√in).
func newAffine(in, out int, bias bool, rng *rand.Rand) *affine {
	bound := 1 / math.Sqrt(float64(in))
	draw := func(p *param) {
		data := p.value.RawMatrix().Data
		for i := range data {
			data[i] = (2*rng.Float64() - 1) * bound
		}
	}
	l := &affine{w: newParam(in, out)}
	draw(l.w)
	if bias {
		l.b = newParam(1, out)
		draw(l.b)
	}

	return l
}

func (l *affine) forward(x *mat.Dense, _ bool) *mat.Dense {
	l.x = x
	var y mat.Dense
	y.Mul(x, l.w.value)
	if l.b != nil {
		r, _ := y.Dims()
		b := l.b.value.RawRowView(0)
		for i := 0; i < r; i++ {
			floats.Add(y.RawRowView(i), b)
		}
	}

	return &y
}

func (l *affine) backward(g *mat.Dense) *mat.Dense {
	l.w.grad.Mul(l.x.T(), g)
	if l.b != nil {
		gb := l.b.grad.RawRowView(0)
		for i := range gb {
			gb[i] = 0
		}
		r, _ := g.Dims()
		for i := 0; i < r; i++ {
			floats.Add(gb, g.RawRowView(i))
		}
	}
	var gx mat.Dense
	gx.Mul(g, l.w.value.T())

	return &gx
}

func (l *affine) params() []*param {
	if l.b == nil {
		return []*param{l.w}
	}

	return []*param{l.w, l.b}
}

// ---------- batch normalization ----------

// batchNorm normalizes every column with batch statistics during training and
// with exponentially averaged running statistics in evaluation.
type batchNorm struct {
	gamma, beta *param
	runMean     []float64
	runVar      []float64

	xhat   *mat.Dense
	invStd []float64
}

func newBatchNorm(width int) *batchNorm {
	bn := &batchNorm{
		gamma:   newParam(1, width),
		beta:    newParam(1, width),
		runMean: make([]float64, width),
		runVar:  make([]float64, width),
		invStd:  make([]float64, width),
	}
	floats.AddConst(1, bn.gamma.value.RawRowView(0))
	floats.AddConst(1, bn.runVar)

	return bn
}

func (bn *batchNorm) forward(x *mat.Dense, train bool) *mat.Dense {
	r, c := x.Dims()
	mean := bn.runMean
	variance := bn.runVar
	if train {
		mean = make([]float64, c)
		variance = make([]float64, c)
		for i := 0; i < r; i++ {
			floats.Add(mean, x.RawRowView(i))
		}
		floats.Scale(1/float64(r), mean)
		for i := 0; i < r; i++ {
			for j, v := range x.RawRowView(i) {
				d := v - mean[j]
				variance[j] += d * d
			}
		}
		floats.Scale(1/float64(r), variance)

		unbiased := 1.0
		if r > 1 {
			unbiased = float64(r) / float64(r-1)
		}
		for j := 0; j < c; j++ {
			bn.runMean[j] = (1-bnMomentum)*bn.runMean[j] + bnMomentum*mean[j]
			bn.runVar[j] = (1-bnMomentum)*bn.runVar[j] + bnMomentum*variance[j]*unbiased
		}
	}

	for j := 0; j < c; j++ {
		bn.invStd[j] = 1 / math.Sqrt(variance[j]+bnEpsilon)
	}
	gamma, beta := bn.gamma.value.RawRowView(0), bn.beta.value.RawRowView(0)
	xhat := mat.NewDense(r, c, nil)
	y := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		xr, hr, yr := x.RawRowView(i), xhat.RawRowView(i), y.RawRowView(i)
		for j := range xr {
			hr[j] = (xr[j] - mean[j]) * bn.invStd[j]
			yr[j] = gamma[j]*hr[j] + beta[j]
		}
	}
	bn.xhat = xhat

	return y
}

// backward assumes the preceding forward ran in training mode.
func (bn *batchNorm) backward(g *mat.Dense) *mat.Dense {
	r, c := g.Dims()
	gamma := bn.gamma.value.RawRowView(0)
	dGamma, dBeta := bn.gamma.grad.RawRowView(0), bn.beta.grad.RawRowView(0)
	sumDh := make([]float64, c)
	sumDhXh := make([]float64, c)
	for j := 0; j < c; j++ {
		dGamma[j], dBeta[j] = 0, 0
	}
	for i := 0; i < r; i++ {
		gr, hr := g.RawRowView(i), bn.xhat.RawRowView(i)
		for j := range gr {
			dBeta[j] += gr[j]
			dGamma[j] += gr[j] * hr[j]
			dh := gr[j] * gamma[j]
			sumDh[j] += dh
			sumDhXh[j] += dh * hr[j]
		}
	}

	n := float64(r)
	gx := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		gr, hr, out := g.RawRowView(i), bn.xhat.RawRowView(i), gx.RawRowView(i)
		for j := range gr {
			dh := gr[j] * gamma[j]
			out[j] = bn.invStd[j] / n * (n*dh - sumDh[j] - hr[j]*sumDhXh[j])
		}
	}

	return gx
}

func (bn *batchNorm) params() []*param { return []*param{bn.gamma, bn.beta} }

// ---------- element-wise activation ----------

type actLayer struct {
	act  activation
	x, y *mat.Dense
}

func (a *actLayer) forward(x *mat.Dense, _ bool) *mat.Dense {
	var y mat.Dense
	y.Apply(func(_, _ int, v float64) float64 { return a.act.f(v) }, x)
	a.x, a.y = x, &y

	return &y
}

func (a *actLayer) backward(g *mat.Dense) *mat.Dense {
	var gx mat.Dense
	gx.Apply(func(i, j int, v float64) float64 {
		return v * a.act.df(a.x.At(i, j), a.y.At(i, j))
	}, g)

	return &gx
}

func (a *actLayer) params() []*param { return nil }

// ---------- dropout ----------

// dropout zeroes each unit with probability p in training and rescales the
// survivors by 1/(1−p); evaluation passes input through unchanged.
type dropout struct {
	p    float64
	rng  *rand.Rand
	mask *mat.Dense // nil after an evaluation pass
}

func (d *dropout) forward(x *mat.Dense, train bool) *mat.Dense {
	if !train {
		d.mask = nil
		return x
	}
	r, c := x.Dims()
	keep := 1 / (1 - d.p)
	d.mask = mat.NewDense(r, c, nil)
	data := d.mask.RawMatrix().Data
	for i := range data {
		if d.rng.Float64() >= d.p {
			data[i] = keep
		}
	}
	var y mat.Dense
	y.MulElem(x, d.mask)

	return &y
}

func (d *dropout) backward(g *mat.Dense) *mat.Dense {
	if d.mask == nil {
		return g
	}
	var gx mat.Dense
	gx.MulElem(g, d.mask)

	return &gx
}

func (d *dropout) params() []*param { return nil }
