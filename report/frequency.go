// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package report provides aggregation and summary reporting over sets
// of records.
package report

import (
	"cmp"
	"slices"
	"strings"

	"cloudeng.io/webapi/clients/assembly/records"
)

// Unspecified is the value used for records where a field is missing
// or blank.
const Unspecified = "unspecified"

// Bucket is a single value and its number of occurrences.
type Bucket struct {
	Value string
	Count int
}

// Frequencies is a frequency table ordered by decreasing count, ties
// are ordered by value.
type Frequencies []Bucket

// Count returns the frequency table for the named field. Records where
// the field is missing or blank are counted under Unspecified.
func Count(recs []records.Record, field string) Frequencies {
	counts := map[string]int{}
	for _, r := range recs {
		v := strings.TrimSpace(r.String(field))
		if v == "" {
			v = Unspecified
		}
		counts[v]++
	}
	freq := make(Frequencies, 0, len(counts))
	for v, c := range counts {
		freq = append(freq, Bucket{Value: v, Count: c})
	}
	slices.SortFunc(freq, func(a, b Bucket) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return freq
}

// Top returns the first n buckets.
func (f Frequencies) Top(n int) Frequencies {
	return f[:min(n, len(f))]
}

// Total returns the sum of all counts.
func (f Frequencies) Total() int {
	t := 0
	for _, b := range f {
		t += b.Count
	}
	return t
}

// Get returns the count for value.
func (f Frequencies) Get(value string) int {
	for _, b := range f {
		if b.Value == value {
			return b.Count
		}
	}
	return 0
}

// Distinct returns the number of distinct values, including Unspecified.
func (f Frequencies) Distinct() int {
	return len(f)
}

// Fields returns the field names of the first record.
func Fields(recs []records.Record) []string {
	if len(recs) == 0 {
		return nil
	}
	return recs[0].Keys()
}
