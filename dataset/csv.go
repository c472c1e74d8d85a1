// SPDX-License-Identifier: MIT

package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"gonum.org/v1/gonum/mat"
)

// SnappyExt marks snappy-framed files; both loading and writing honour it.
const SnappyExt = ".sz"

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	HasHeader bool // skip the first record
	Delimiter rune // field delimiter (default: ',')
	SkipRows  int  // number of rows to skip before the header/data
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{Delimiter: ','}
}

// LoadCSV loads one trajectory from a CSV file: one row per time step, one
// numeric column per feature. Files ending in SnappyExt are decompressed
// with the snappy framing format on the fly.
func LoadCSV(filename string, opts *CSVOptions) (*mat.Dense, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var r io.Reader = bufio.NewReader(file)
	if strings.HasSuffix(filename, SnappyExt) {
		r = snappy.NewReader(r)
	}
	m, err := LoadCSVFromReader(r, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return m, nil
}

// LoadCSVFromReader loads one trajectory from an io.Reader.
//
// Errors:
//   - ErrMalformedCSV for ragged rows or unparsable numbers.
//   - ErrEmptySeries when no data row is present.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*mat.Dense, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // width is checked below with a clearer error

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}
	if opts.HasHeader {
		if _, err := reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrEmptySeries
			}
			return nil, err
		}
	}

	var (
		buf   []float64
		width = -1
		line  int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if width < 0 {
			width = len(record)
		}
		if len(record) != width {
			return nil, fmt.Errorf("data row %d has %d fields, want %d: %w", line, len(record), width, ErrMalformedCSV)
		}
		for j, field := range record {
			v, perr := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if perr != nil {
				return nil, fmt.Errorf("data row %d field %d %q: %w", line, j, field, ErrMalformedCSV)
			}
			buf = append(buf, v)
		}
	}
	if line == 0 || width == 0 {
		return nil, ErrEmptySeries
	}

	return mat.NewDense(line, width, buf), nil
}

// WriteCSV writes m as CSV, one row per line, using the shortest
// round-trippable float formatting.
func WriteCSV(w io.Writer, m mat.Matrix) error {
	cw := csv.NewWriter(w)
	r, c := m.Dims()
	record := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			record[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// WriteCSVFile writes m to filename, snappy-framed when it ends in SnappyExt.
func WriteCSVFile(filename string, m mat.Matrix) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(filename, SnappyExt) {
		bw := bufio.NewWriter(file)
		if err = WriteCSV(bw, m); err != nil {
			return err
		}
		return bw.Flush()
	}

	sw := snappy.NewBufferedWriter(file)
	if err = WriteCSV(sw, m); err != nil {
		return err
	}

	return sw.Close()
}
