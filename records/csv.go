// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMissingColumn is returned when a required column is not present.
var ErrMissingColumn = errors.New("missing column")

// Table is the contents of a CSV file.
type Table struct {
	Header  []string
	Records []Record
}

// Require returns an error wrapping ErrMissingColumn if any of the
// specified columns is not in the table's header.
func (t Table) Require(columns ...string) error {
	for _, c := range columns {
		if !slices.Contains(t.Header, c) {
			return fmt.Errorf("%w: %v", ErrMissingColumn, c)
		}
	}
	return nil
}

// Has returns true if the table's header contains the column.
func (t Table) Has(column string) bool {
	return slices.Contains(t.Header, column)
}

// WriteCSV writes the records as CSV. The header is the ordered list of
// the first record's fields, fields missing from subsequent records are
// written as empty values and fields not in the header are ignored.
// Nothing is written for an empty set of records.
func WriteCSV(w io.Writer, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	header := recs[0].Keys()
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, r := range recs {
		for i, k := range header {
			row[i] = r.String(k)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a CSV file with a header row, a leading UTF-8 byte order
// mark is ignored. All values are returned as strings.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, nil
		}
		return Table{}, err
	}
	cr.FieldsPerRecord = len(header)
	tbl := Table{Header: header}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return tbl, err
		}
		var rec Record
		for i, v := range row {
			rec.Set(header[i], v)
		}
		tbl.Records = append(tbl.Records, rec)
	}
	return tbl, nil
}

// ReadFile reads the named CSV file.
func ReadFile(filename string) (Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteFile writes the records as a UTF-8 CSV file, with a leading byte
// order mark, to the named file. The records are written to a temporary
// file in the same directory which is then renamed so that readers never
// observe a partially written file.
func WriteFile(filename string, recs []Record) error {
	dir, base := filepath.Split(filename)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := writeBOMCSV(f, recs); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, filename); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func writeBOMCSV(f *os.File, recs []Record) error {
	tw := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	if err := WriteCSV(tw, recs); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return f.Sync()
}
