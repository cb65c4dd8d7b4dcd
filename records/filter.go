// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package records

import "slices"

// Filter returns the records for which keep returns true, in their
// original order.
func Filter(recs []Record, keep func(Record) bool) []Record {
	var out []Record
	for _, r := range recs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// FieldIn returns a predicate that is true for records whose named field
// has one of the specified values.
func FieldIn(name string, values ...string) func(Record) bool {
	return func(r Record) bool {
		return slices.Contains(values, r.String(name))
	}
}
