// SPDX-License-Identifier: MIT

// Command tae reduces CSV time series with PCA, TICA or a time-lagged
// autoencoder.
//
// Usage:
//
//	tae [-method pca|tica|ae] [-config run.yaml] [-dim k] [-v] -out out.csv in1.csv [in2.csv ...]
//
// Every input is one trajectory (rows = time steps, columns = features);
// several inputs are treated as independent trajectories of the same system.
// Files ending in .sz are read and written snappy-framed. With one input the
// result goes to -out; with several, input i goes to <out-stem>.<i><ext>.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tae"
	"github.com/katalvlaran/tae/dataset"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "tae:", err)
		os.Exit(1)
	}
}

// run parses args, executes the requested method and writes the outputs.
func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("tae", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		method  = fs.String("method", "", "pca, tica or ae (overrides the run file)")
		config  = fs.String("config", "", "YAML run file")
		out     = fs.String("out", "", "output CSV path")
		dim     = fs.Int("dim", -1, "output dimension (overrides the run file)")
		verbose = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" || fs.NArg() == 0 {
		fs.Usage()
		return errors.New("need -out and at least one input file")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	rf, err := parseRunFileAt(*config)
	if err != nil {
		return err
	}
	if *method != "" {
		rf.Method = *method
	}
	if *dim >= 0 {
		rf.Dim = *dim
	}
	if err = rf.validate(); err != nil {
		return err
	}
	rf.Logger = logger

	inputs := fs.Args()
	parts := make([]*mat.Dense, 0, len(inputs))
	for _, path := range inputs {
		m, err := dataset.LoadCSV(path, rf.csvOptions())
		if err != nil {
			return err
		}
		r, c := m.Dims()
		logger.Debug("loaded trajectory", "path", path, "rows", r, "cols", c)
		parts = append(parts, m)
	}
	data := dataset.Single(parts[0])
	if len(parts) > 1 {
		data = dataset.Multiple(parts...)
	}

	var res *tae.Result
	switch rf.Method {
	case methodPCA:
		res, err = tae.PCA(data, rf.pcaOptions())
	case methodTICA:
		res, err = tae.TICA(data, rf.ticaOptions())
	case methodAE:
		res, err = tae.AE(data, rf.aeOptions())
	}
	if err != nil {
		return err
	}

	for i := 0; i < res.Transformed.Len(); i++ {
		path := outputPath(*out, i, res.Transformed.Len())
		if err = dataset.WriteCSVFile(path, res.Transformed.Part(i)); err != nil {
			return err
		}
		logger.Debug("wrote trajectory", "path", path)
	}
	logger.Info("done",
		"method", rf.Method, "inputs", len(inputs),
		"train_loss", res.TrainLoss, "test_loss", res.TestLoss)

	return nil
}

// outputPath returns out for a single result and <stem>.<i><ext> otherwise,
// keeping a trailing snappy extension last.
func outputPath(out string, i, n int) string {
	if n == 1 {
		return out
	}
	suffix := ""
	base := out
	if strings.HasSuffix(base, dataset.SnappyExt) {
		suffix = dataset.SnappyExt
		base = strings.TrimSuffix(base, dataset.SnappyExt)
	}
	ext := filepath.Ext(base)

	return fmt.Sprintf("%s.%d%s%s", strings.TrimSuffix(base, ext), i, ext, suffix)
}
