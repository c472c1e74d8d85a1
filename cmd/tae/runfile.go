// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tae"
	"github.com/katalvlaran/tae/ae"
	"github.com/katalvlaran/tae/dataset"
	"github.com/katalvlaran/tae/linear"
)

// Supported -method values.
const (
	methodPCA  = "pca"
	methodTICA = "tica"
	methodAE   = "ae"
)

// csvSection configures input parsing.
type csvSection struct {
	Header    bool   `yaml:"header"`
	Delimiter string `yaml:"delimiter"`
	SkipRows  int    `yaml:"skip_rows"`
}

// runFile is the YAML document passed with -config. Absent keys keep the
// defaults of the tae package.
//
//	method: tica
//	dim: 2
//	lag: 5
//	validation_split: 0.2
//	ae:
//	  hid_size: [64, 32]
//	  dropout: 0.1
type runFile struct {
	Method string `yaml:"method"`

	tae.Pipeline `yaml:",inline"`

	Lag        int  `yaml:"lag"`
	KineticMap bool `yaml:"kinetic_map"`
	Symmetrize bool `yaml:"symmetrize"`
	Epochs     int  `yaml:"n_epochs"`

	AE  ae.Override `yaml:"ae"`
	CSV csvSection  `yaml:"csv"`
}

func defaultRunFile() runFile {
	ticaDefaults := tae.DefaultTICAOptions()
	return runFile{
		Method:     methodTICA,
		Pipeline:   ticaDefaults.Pipeline,
		Lag:        tae.DefaultLag,
		KineticMap: linear.DefaultKineticMap,
		Symmetrize: linear.DefaultSymmetrize,
		Epochs:     tae.DefaultEpochs,
		CSV:        csvSection{Delimiter: ","},
	}
}

// parseRunFile decodes data over the defaults and validates it.
func parseRunFile(data []byte) (runFile, error) {
	rf := defaultRunFile()
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return runFile{}, fmt.Errorf("run file: invalid YAML: %w", err)
	}
	if err := rf.validate(); err != nil {
		return runFile{}, err
	}

	return rf, nil
}

// parseRunFileAt reads and decodes a run file; an empty path yields the defaults.
func parseRunFileAt(path string) (runFile, error) {
	if path == "" {
		return defaultRunFile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return runFile{}, fmt.Errorf("run file: cannot read %s: %w", path, err)
	}

	return parseRunFile(data)
}

func (rf runFile) validate() error {
	switch rf.Method {
	case methodPCA, methodTICA, methodAE:
	default:
		return fmt.Errorf("run file: unknown method %q", rf.Method)
	}
	if utf8.RuneCountInString(rf.CSV.Delimiter) != 1 {
		return fmt.Errorf("run file: csv.delimiter must be a single character")
	}

	return nil
}

func (rf runFile) csvOptions() *dataset.CSVOptions {
	d, _ := utf8.DecodeRuneInString(rf.CSV.Delimiter)
	return &dataset.CSVOptions{HasHeader: rf.CSV.Header, Delimiter: d, SkipRows: rf.CSV.SkipRows}
}

func (rf runFile) pcaOptions() tae.PCAOptions {
	return tae.PCAOptions{Pipeline: rf.Pipeline}
}

func (rf runFile) ticaOptions() tae.TICAOptions {
	return tae.TICAOptions{
		Pipeline:   rf.Pipeline,
		Lag:        rf.Lag,
		KineticMap: rf.KineticMap,
		Symmetrize: rf.Symmetrize,
	}
}

func (rf runFile) aeOptions() tae.AEOptions {
	return tae.AEOptions{
		Pipeline: rf.Pipeline,
		Lag:      rf.Lag,
		Epochs:   rf.Epochs,
		Config:   ae.DefaultConfig().Apply(rf.AE),
	}
}
