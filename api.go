// SPDX-License-Identifier: MIT

package tae

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tae/ae"
	"github.com/katalvlaran/tae/dataset"
	"github.com/katalvlaran/tae/linear"
	"github.com/katalvlaran/tae/whiten"
)

const (
	// DefaultBatchSize is the number of pairs per batch.
	DefaultBatchSize = 100

	// DefaultLag is the pair offset used by TICA and AE.
	DefaultLag = 1

	// DefaultEpochs is the number of AE training passes.
	DefaultEpochs = 50
)

// Pipeline holds the settings shared by every estimator. The YAML keys are
// the ones accepted by run files.
type Pipeline struct {
	// Dim is the output width; 0 keeps all D components (PCA, TICA only).
	Dim int `yaml:"dim"`

	// ValidationSplit is the fraction of pairs held out for the test loss;
	// 0 disables the split and the test loss is NaN.
	ValidationSplit float64 `yaml:"validation_split"`

	BatchSize int  `yaml:"batch_size"`
	Whiten    bool `yaml:"whiten"`

	// Prefetch assembles up to this many batches ahead in a goroutine.
	Prefetch int `yaml:"prefetch"`

	// Seed drives the validation split (and the AE when its own seed is 0).
	Seed int64 `yaml:"seed"`

	Logger *slog.Logger `yaml:"-"`
}

// PCAOptions configures PCA.
type PCAOptions struct {
	Pipeline `yaml:",inline"`
}

// TICAOptions configures TICA.
type TICAOptions struct {
	Pipeline   `yaml:",inline"`
	Lag        int  `yaml:"lag"`
	KineticMap bool `yaml:"kinetic_map"`
	Symmetrize bool `yaml:"symmetrize"`
}

// AEOptions configures the autoencoder. Config.Logger defaults to Logger.
type AEOptions struct {
	Pipeline `yaml:",inline"`
	Lag      int       `yaml:"lag"`
	Epochs   int       `yaml:"n_epochs"`
	Config   ae.Config `yaml:"-"`
}

func defaultPipeline() Pipeline {
	return Pipeline{BatchSize: DefaultBatchSize}
}

// DefaultPCAOptions returns full-rank PCA without split or whitening.
func DefaultPCAOptions() PCAOptions {
	return PCAOptions{Pipeline: defaultPipeline()}
}

// DefaultTICAOptions returns lag 1 with kinetic map scaling and the
// non-reversible estimate.
func DefaultTICAOptions() TICAOptions {
	return TICAOptions{
		Pipeline:   defaultPipeline(),
		Lag:        DefaultLag,
		KineticMap: linear.DefaultKineticMap,
		Symmetrize: linear.DefaultSymmetrize,
	}
}

// DefaultAEOptions returns lag 1, 50 epochs and ae.DefaultConfig. Dim must
// still be set by the caller.
func DefaultAEOptions() AEOptions {
	return AEOptions{
		Pipeline: defaultPipeline(),
		Lag:      DefaultLag,
		Epochs:   DefaultEpochs,
		Config:   ae.DefaultConfig(),
	}
}

// Result is the outcome of one call.
type Result struct {
	// Transformed mirrors the input: one (T_i × dim) matrix per trajectory.
	Transformed dataset.Series
	TrainLoss   float64
	TestLoss    float64 // NaN without a validation split
}

// loaders holds the three passes a call needs.
type loaders struct {
	train     *dataset.Loader
	test      *dataset.Loader // nil without split
	transform *dataset.Loader // lag 0, every observation in input order
}

// Smallest partition each estimator can score: the linear ones need an
// unbiased covariance, the AE only a mean loss.
const (
	minLinearPairs = 2
	minAEPairs     = 1
)

// prepare builds the lagged dataset, the optional split and the lag-0
// transform loader. A split leaving fewer than minPairs pairs on either
// side is rejected with dataset.ErrInvalidFraction.
func prepare(data dataset.Series, lag int, p Pipeline, minPairs int) (*loaders, error) {
	ds, err := dataset.Build(data, lag)
	if err != nil {
		return nil, err
	}
	opts := []dataset.LoaderOption{dataset.WithPrefetch(max(p.Prefetch, 0))}

	var out loaders
	trainDS := ds
	if p.ValidationSplit != 0 {
		var valDS *dataset.Dataset
		if valDS, trainDS, err = dataset.Split(ds, p.ValidationSplit, dataset.NewRand(p.Seed)); err != nil {
			return nil, err
		}
		if valDS.Len() < minPairs || trainDS.Len() < minPairs {
			return nil, fmt.Errorf("validation split %v leaves %d validation and %d training pairs, need %d each: %w",
				p.ValidationSplit, valDS.Len(), trainDS.Len(), minPairs, dataset.ErrInvalidFraction)
		}
		if out.test, err = dataset.NewLoader(valDS, p.BatchSize, opts...); err != nil {
			return nil, fmt.Errorf("validation: %w", err)
		}
	}
	if out.train, err = dataset.NewLoader(trainDS, p.BatchSize, opts...); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	full, err := dataset.Build(data, 0)
	if err != nil {
		return nil, err
	}
	if out.transform, err = dataset.NewLoader(full, p.BatchSize, opts...); err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	return &out, nil
}

// finish whitens (optionally) and cuts out back into the shape of data.
func finish(data dataset.Series, out *mat.Dense, p Pipeline, trainLoss, testLoss float64) (*Result, error) {
	if p.Whiten {
		var err error
		if out, err = whiten.Columns(out); err != nil {
			return nil, err
		}
	}
	s, err := data.Reassemble(out)
	if err != nil {
		return nil, err
	}

	return &Result{Transformed: s, TrainLoss: trainLoss, TestLoss: testLoss}, nil
}

// PCA fits principal components on the (optionally split) observations and
// projects every observation onto the leading opts.Dim of them.
func PCA(data dataset.Series, opts PCAOptions) (*Result, error) {
	l, err := prepare(data, 0, opts.Pipeline, minLinearPairs)
	if err != nil {
		return nil, fmt.Errorf("pca: %w", err)
	}
	est := linear.NewPCA(linear.WithLogger(opts.Logger))
	trainLoss, testLoss, err := est.Fit(l.train, opts.Dim, l.test)
	if err != nil {
		return nil, fmt.Errorf("pca: %w", err)
	}
	out, err := est.Transform(l.transform)
	if err != nil {
		return nil, fmt.Errorf("pca: %w", err)
	}
	res, err := finish(data, out, opts.Pipeline, trainLoss, testLoss)
	if err != nil {
		return nil, fmt.Errorf("pca: %w", err)
	}

	return res, nil
}

// TICA fits time-lagged independent components on pairs (x_t, x_{t+Lag})
// and projects every observation onto the leading opts.Dim of them.
func TICA(data dataset.Series, opts TICAOptions) (*Result, error) {
	l, err := prepare(data, opts.Lag, opts.Pipeline, minLinearPairs)
	if err != nil {
		return nil, fmt.Errorf("tica: %w", err)
	}
	est := linear.NewTICA(
		linear.WithKineticMap(opts.KineticMap),
		linear.WithSymmetrize(opts.Symmetrize),
		linear.WithLogger(opts.Logger),
	)
	trainLoss, testLoss, err := est.Fit(l.train, opts.Dim, l.test)
	if err != nil {
		return nil, fmt.Errorf("tica: %w", err)
	}
	out, err := est.Transform(l.transform)
	if err != nil {
		return nil, fmt.Errorf("tica: %w", err)
	}
	res, err := finish(data, out, opts.Pipeline, trainLoss, testLoss)
	if err != nil {
		return nil, fmt.Errorf("tica: %w", err)
	}

	return res, nil
}

// AE trains a time-lagged autoencoder with an opts.Dim-wide latent code and
// returns the encoded observations.
func AE(data dataset.Series, opts AEOptions) (*Result, error) {
	d, err := data.Dim()
	if err != nil {
		return nil, fmt.Errorf("ae: %w", err)
	}
	cfg := opts.Config
	if cfg.Seed == 0 {
		cfg.Seed = opts.Seed
	}
	if cfg.Logger == nil {
		cfg.Logger = opts.Logger
	}
	model, err := ae.New(d, opts.Dim, cfg)
	if err != nil {
		return nil, fmt.Errorf("ae: %w", err)
	}

	l, err := prepare(data, opts.Lag, opts.Pipeline, minAEPairs)
	if err != nil {
		return nil, fmt.Errorf("ae: %w", err)
	}
	trainLoss, testLoss, err := model.Fit(l.train, opts.Epochs, l.test)
	if err != nil {
		return nil, fmt.Errorf("ae: %w", err)
	}
	out, err := model.Transform(l.transform)
	if err != nil {
		return nil, fmt.Errorf("ae: %w", err)
	}
	res, err := finish(data, out, opts.Pipeline, trainLoss, testLoss)
	if err != nil {
		return nil, fmt.Errorf("ae: %w", err)
	}

	return res, nil
}
