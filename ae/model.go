// SPDX-License-Identifier: MIT

package ae

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tae/dataset"
)

const (
	opNew       = "ae.New"
	opFit       = "ae.Fit"
	opTransform = "ae.Transform"
)

// RNG stream ids derived from Config.Seed.
const (
	streamInit uint64 = iota + 1
	streamDropout
)

// Model is a time-lagged autoencoder. It is not safe for concurrent use.
type Model struct {
	cfg       Config
	inputDim  int
	latentDim int
	encoder   sequential
	decoder   sequential
	opt       *adam
	logger    *slog.Logger
}

// New builds and initializes a network for inputDim features and a
// latentDim-wide code.
//
// Errors:
//   - ErrDimension when inputDim < 1 or latentDim < 1.
//   - ErrInvalidConfig from Config.Validate.
func New(inputDim, latentDim int, cfg Config) (*Model, error) {
	if inputDim < 1 || latentDim < 1 {
		return nil, fmt.Errorf("%s: input %d, latent %d: %w", opNew, inputDim, latentDim, ErrDimension)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}
	act, err := lookupActivation(cfg.Activation)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}

	logger := cfg.logger()
	if cfg.Cuda {
		logger.Warn("cuda requested but no accelerator backend is available; training on CPU")
	}

	base := dataset.NewRand(cfg.Seed)
	b := &builder{
		cfg:     cfg,
		act:     act,
		initRng: dataset.DeriveRand(base, streamInit),
		dropRng: dataset.DeriveRand(base, streamDropout),
	}
	enc, err := b.encoder(inputDim, latentDim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}
	dec := b.decoder(latentDim, inputDim)

	m := &Model{
		cfg:       cfg,
		inputDim:  inputDim,
		latentDim: latentDim,
		encoder:   enc,
		decoder:   dec,
		logger:    logger,
	}
	m.opt = newAdam(cfg.LearningRate, m.params())

	return m, nil
}

// InputDim returns D.
func (m *Model) InputDim() int { return m.inputDim }

// LatentDim returns the code width.
func (m *Model) LatentDim() int { return m.latentDim }

func (m *Model) params() []*param {
	return append(m.encoder.params(), m.decoder.params()...)
}

// Fit trains for epochs passes over train.
//
// Implementation:
//   - Per batch: z = encoder(x_t), y = decoder(z), loss = mean((y − x_{t+τ})²),
//     backpropagate through decoder then encoder, one Adam step.
//   - trainLoss is the sample-weighted mean batch loss of the final epoch.
//   - After every epoch the model is evaluated on test (evaluation mode, no
//     updates); testLoss is the final value, NaN when test == nil.
//
// Errors:
//   - ErrInvalidEpochs, ErrDimension (loader width ≠ InputDim).
func (m *Model) Fit(train *dataset.Loader, epochs int, test *dataset.Loader) (trainLoss, testLoss float64, err error) {
	if epochs < 1 {
		return 0, 0, fmt.Errorf("%s: %d: %w", opFit, epochs, ErrInvalidEpochs)
	}
	if err = m.checkLoader(train); err != nil {
		return 0, 0, fmt.Errorf("%s: train: %w", opFit, err)
	}
	if test != nil {
		if err = m.checkLoader(test); err != nil {
			return 0, 0, fmt.Errorf("%s: test: %w", opFit, err)
		}
	}

	testLoss = math.NaN()
	for epoch := 1; epoch <= epochs; epoch++ {
		sum, n := 0.0, 0
		for b := range train.All() {
			loss := m.lossAndGrad(b.Instant, b.Lagged)
			m.opt.step(m.params())
			sum += loss * float64(b.Rows())
			n += b.Rows()
		}
		trainLoss = sum / float64(n)
		if test != nil {
			testLoss = m.Evaluate(test)
		}
		m.logger.Debug("ae epoch",
			"epoch", epoch, "of", epochs,
			"train_loss", trainLoss, "test_loss", testLoss)
	}

	return trainLoss, testLoss, nil
}

// lossAndGrad runs a training-mode forward and backward pass and leaves the
// gradients of every parameter in place. Returns the batch MSE.
func (m *Model) lossAndGrad(x, target *mat.Dense) float64 {
	z := m.encoder.forward(x, true)
	y := m.decoder.forward(z, true)
	loss, g := mse(y, target)
	m.encoder.backward(m.decoder.backward(g))

	return loss
}

// mse returns mean((y − t)²) over all entries and its gradient w.r.t. y.
func mse(y, t *mat.Dense) (float64, *mat.Dense) {
	r, c := y.Dims()
	var diff mat.Dense
	diff.Sub(y, t)
	scale := 1 / float64(r*c)
	loss := mat.Sum(elemSquare(&diff)) * scale
	diff.Scale(2*scale, &diff)

	return loss, &diff
}

func elemSquare(a *mat.Dense) *mat.Dense {
	var sq mat.Dense
	sq.MulElem(a, a)

	return &sq
}

// Evaluate returns the sample-weighted mean reconstruction loss over l in
// evaluation mode. The loader must already match InputDim.
func (m *Model) Evaluate(l *dataset.Loader) float64 {
	sum, n := 0.0, 0
	for b := range l.All() {
		y := m.decoder.forward(m.encoder.forward(b.Instant, false), false)
		loss, _ := mse(y, b.Lagged)
		sum += loss * float64(b.Rows())
		n += b.Rows()
	}

	return sum / float64(n)
}

// Transform encodes the instantaneous half of every pair of l in evaluation
// mode, in loader order, into an (N × LatentDim) matrix.
//
// Errors:
//   - ErrDimension when l.Dim() != InputDim.
func (m *Model) Transform(l *dataset.Loader) (*mat.Dense, error) {
	if err := m.checkLoader(l); err != nil {
		return nil, fmt.Errorf("%s: %w", opTransform, err)
	}
	out := mat.NewDense(l.Len(), m.latentDim, nil)
	for b := range l.All() {
		z := m.encoder.forward(b.Instant, false)
		r, _ := z.Dims()
		out.Slice(b.Offset, b.Offset+r, 0, m.latentDim).(*mat.Dense).Copy(z)
	}

	return out, nil
}

func (m *Model) checkLoader(l *dataset.Loader) error {
	if l == nil {
		return dataset.ErrEmptyDataset
	}
	if l.Dim() != m.inputDim {
		return fmt.Errorf("loader width %d, model %d: %w", l.Dim(), m.inputDim, ErrDimension)
	}

	return nil
}
