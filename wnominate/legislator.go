// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package wnominate provides summary statistics and charts for the
// legislator coordinates produced by W-NOMINATE scaling of roll-call
// votes.
package wnominate

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Score is a floating point value that may be missing, missing values
// (NA or empty) are represented as NaN.
type Score float64

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (s *Score) UnmarshalCSV(v string) error {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "NA") || strings.EqualFold(v, "NaN") {
		*s = Score(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	*s = Score(f)
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (s Score) MarshalCSV() (string, error) {
	if s.Missing() {
		return "NA", nil
	}
	return strconv.FormatFloat(float64(s), 'f', -1, 64), nil
}

// Missing returns true if the score is missing.
func (s Score) Missing() bool {
	return math.IsNaN(float64(s))
}

// Legislator is a single row of W-NOMINATE output. Columns other than
// those below are ignored.
type Legislator struct {
	Name    string `csv:"name"`
	Party   string `csv:"party"`
	Coord1D Score  `csv:"coord1D"`
	Coord2D Score  `csv:"coord2D"`
	GMP     Score  `csv:"GMP"`
	CC      Score  `csv:"CC"`
}

// Read reads legislators from CSV, a leading UTF-8 byte order mark is
// ignored.
func Read(r io.Reader) ([]Legislator, error) {
	var legislators []Legislator
	br := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	if err := gocsv.Unmarshal(br, &legislators); err != nil {
		return nil, err
	}
	return legislators, nil
}

// ReadFile reads legislators from the named CSV file.
func ReadFile(filename string) ([]Legislator, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", filename, err)
	}
	return l, nil
}

// Write writes legislators as CSV.
func Write(w io.Writer, legislators []Legislator) error {
	return gocsv.Marshal(legislators, w)
}
