// SPDX-License-Identifier: MIT

package ae

import (
	"fmt"
	"log/slog"
	"math"
)

const (
	// DefaultHiddenSize is the width of the single default hidden layer.
	DefaultHiddenSize = 100

	// DefaultDropout is the dropout probability after every hidden activation.
	DefaultDropout = 0.5

	// DefaultActivation is the hidden-layer nonlinearity.
	DefaultActivation = ActLeakyReLU

	// DefaultLearningRate is Adam's fixed step size.
	DefaultLearningRate = 0.001
)

// Config describes the network and its optimizer. The YAML keys follow the
// names used by run files: hid_size, dropout, activation, lat_activation,
// batch_normalization, bias, lr, cuda, seed.
type Config struct {
	HiddenSizes        []int   `yaml:"hid_size"`
	Dropout            float64 `yaml:"dropout"`
	Activation         string  `yaml:"activation"`
	LatentActivation   string  `yaml:"lat_activation"` // "" applies none
	BatchNormalization bool    `yaml:"batch_normalization"`
	Bias               bool    `yaml:"bias"`
	LearningRate       float64 `yaml:"lr"`
	Cuda               bool    `yaml:"cuda"` // accepted, training always runs on the CPU
	Seed               int64   `yaml:"seed"` // 0 = time-seeded

	Logger *slog.Logger `yaml:"-"` // nil = slog.Default()
}

// DefaultConfig returns the stock configuration: one hidden layer of 100
// units, dropout 0.5, leaky ReLU, no latent activation, no batch
// normalization, biases on, lr 0.001.
func DefaultConfig() Config {
	return Config{
		HiddenSizes:  []int{DefaultHiddenSize},
		Dropout:      DefaultDropout,
		Activation:   DefaultActivation,
		Bias:         true,
		LearningRate: DefaultLearningRate,
	}
}

// Override carries user-supplied values; nil fields keep the base value.
// It decodes from the same YAML keys as Config.
type Override struct {
	HiddenSizes        []int    `yaml:"hid_size"`
	Dropout            *float64 `yaml:"dropout"`
	Activation         *string  `yaml:"activation"`
	LatentActivation   *string  `yaml:"lat_activation"`
	BatchNormalization *bool    `yaml:"batch_normalization"`
	Bias               *bool    `yaml:"bias"`
	LearningRate       *float64 `yaml:"lr"`
	Cuda               *bool    `yaml:"cuda"`
	Seed               *int64   `yaml:"seed"`
}

// Apply returns a copy of c with every non-nil field of o written over it.
func (c Config) Apply(o Override) Config {
	out := c
	out.HiddenSizes = append([]int(nil), c.HiddenSizes...)
	if o.HiddenSizes != nil {
		out.HiddenSizes = append([]int(nil), o.HiddenSizes...)
	}
	if o.Dropout != nil {
		out.Dropout = *o.Dropout
	}
	if o.Activation != nil {
		out.Activation = *o.Activation
	}
	if o.LatentActivation != nil {
		out.LatentActivation = *o.LatentActivation
	}
	if o.BatchNormalization != nil {
		out.BatchNormalization = *o.BatchNormalization
	}
	if o.Bias != nil {
		out.Bias = *o.Bias
	}
	if o.LearningRate != nil {
		out.LearningRate = *o.LearningRate
	}
	if o.Cuda != nil {
		out.Cuda = *o.Cuda
	}
	if o.Seed != nil {
		out.Seed = *o.Seed
	}

	return out
}

// Validate checks widths, rates and activation names.
func (c Config) Validate() error {
	for i, h := range c.HiddenSizes {
		if h < 1 {
			return fmt.Errorf("hid_size[%d] = %d: %w", i, h, ErrInvalidConfig)
		}
	}
	if math.IsNaN(c.Dropout) || c.Dropout < 0 || c.Dropout >= 1 {
		return fmt.Errorf("dropout %v not in [0,1): %w", c.Dropout, ErrInvalidConfig)
	}
	if math.IsNaN(c.LearningRate) || math.IsInf(c.LearningRate, 0) || c.LearningRate <= 0 {
		return fmt.Errorf("lr %v: %w", c.LearningRate, ErrInvalidConfig)
	}
	if _, err := lookupActivation(c.Activation); err != nil {
		return fmt.Errorf("activation: %w", err)
	}
	if c.LatentActivation != "" {
		if _, err := lookupActivation(c.LatentActivation); err != nil {
			return fmt.Errorf("lat_activation: %w", err)
		}
	}

	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return slog.Default()
}
