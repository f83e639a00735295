// Package tabular reads header-delimited CSV exports.
//
// The crates.io dumps are plain comma-separated files with a header row.
// This package resolves header names to column indexes once and hands each
// data row to a caller-supplied decode function, in file order. Loading is
// all-or-nothing: the first row that fails to decode aborts the read and no
// partial results are returned.
package tabular

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/searchdex/crateindex/pkg/errors"
)

// Row is one data row together with its position in the file.
// Line is 1-based and counts the header, matching what editors display.
type Row struct {
	Line   int
	Fields []string
	cols   map[string]int
}

// Field returns the value of the named column.
// Returns an error if the column was not present in the header.
func (r *Row) Field(name string) (string, error) {
	i, ok := r.cols[name]
	if !ok {
		return "", errors.New(errors.ErrCodeMalformedRecord, "line %d: missing column %q", r.Line, name)
	}
	return r.Fields[i], nil
}

// ReadFile reads a CSV file and calls decode for every data row in order.
// The first header row names the columns. Any error from decode aborts the
// read and is returned unchanged, so decoders control the error shape.
func ReadFile(path string, decode func(row *Row) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	return Read(f, path, decode)
}

// Read reads CSV data from r. The name is used in error messages only.
func Read(r io.Reader, name string, decode func(row *Row) error) error {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return errors.New(errors.ErrCodeMalformedRecord, "%s: missing header row", name)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "read header of %s", name)
	}

	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[col] = i
	}

	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return errors.Wrap(errors.ErrCodeMalformedRecord, err, "%s: line %d", name, line)
		}

		// ReuseRecord reuses the field slice between reads; the Row must
		// not be retained past the decode call.
		row := Row{Line: line, Fields: record, cols: cols}
		if err := decode(&row); err != nil {
			return err
		}
	}
}
