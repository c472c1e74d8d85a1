// SPDX-License-Identifier: MIT

package ae

import (
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// sequential chains layers; backward runs them in reverse.
type sequential []layer

func (s sequential) forward(x *mat.Dense, train bool) *mat.Dense {
	for _, l := range s {
		x = l.forward(x, train)
	}

	return x
}

func (s sequential) backward(g *mat.Dense) *mat.Dense {
	for i := len(s) - 1; i >= 0; i-- {
		g = s[i].backward(g)
	}

	return g
}

func (s sequential) params() []*param {
	var out []*param
	for _, l := range s {
		out = append(out, l.params()...)
	}

	return out
}

// builder appends stages to a sequential according to a Config.
type builder struct {
	cfg     Config
	act     activation
	initRng *rand.Rand
	dropRng *rand.Rand
}

// hidden appends Linear → [BatchNorm] → activation → [Dropout].
func (b *builder) hidden(net sequential, in, out int) sequential {
	net = append(net, newAffine(in, out, b.cfg.Bias, b.initRng))
	if b.cfg.BatchNormalization {
		net = append(net, newBatchNorm(out))
	}
	net = append(net, &actLayer{act: b.act})
	if b.cfg.Dropout > 0 {
		net = append(net, &dropout{p: b.cfg.Dropout, rng: b.dropRng})
	}

	return net
}

// encoder maps inputDim to latentDim through cfg.HiddenSizes.
func (b *builder) encoder(inputDim, latentDim int) (sequential, error) {
	var net sequential
	prev := inputDim
	for _, h := range b.cfg.HiddenSizes {
		net = b.hidden(net, prev, h)
		prev = h
	}
	net = append(net, newAffine(prev, latentDim, b.cfg.Bias, b.initRng))
	if b.cfg.LatentActivation != "" {
		lat, err := lookupActivation(b.cfg.LatentActivation)
		if err != nil {
			return nil, err
		}
		net = append(net, &actLayer{act: lat})
	}

	return net, nil
}

// decoder mirrors the hidden widths back up to inputDim.
func (b *builder) decoder(latentDim, inputDim int) sequential {
	var net sequential
	prev := latentDim
	for _, h := range slices.Backward(b.cfg.HiddenSizes) {
		net = b.hidden(net, prev, h)
		prev = h
	}

	return append(net, newAffine(prev, inputDim, b.cfg.Bias, b.initRng))
}
