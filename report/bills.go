// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"cloudeng.io/webapi/clients/assembly/records"
	"github.com/jedib0t/go-pretty/v6/table"
)

// BillSummary summarizes a set of bill records.
type BillSummary struct {
	Total      int
	Results    Frequencies // By PROC_RESULT_CD.
	Proposers  Frequencies // By PROPOSER, limited to the top N.
	Committees Frequencies // By COMMITTEE_NM.
	Fields     []string
}

// AnalyzeBills summarizes bill records, topN proposers are included.
func AnalyzeBills(recs []records.Record, topN int) BillSummary {
	return BillSummary{
		Total:      len(recs),
		Results:    Count(recs, "PROC_RESULT_CD"),
		Proposers:  Count(recs, "PROPOSER").Top(topN),
		Committees: Count(recs, "COMMITTEE_NM"),
		Fields:     Fields(recs),
	}
}

// Write writes a human readable report.
func (s BillSummary) Write(w io.Writer, title string, when time.Time) error {
	if _, err := fmt.Fprintf(w, "%v\n%v\nbills: %v\n\n", title, when.Format(time.DateTime), s.Total); err != nil {
		return err
	}
	frequencyTable(w, "bills by result", "PROC_RESULT_CD", s.Results)
	frequencyTable(w, fmt.Sprintf("top %d proposers", len(s.Proposers)), "PROPOSER", s.Proposers)
	frequencyTable(w, "bills by committee", "COMMITTEE_NM", s.Committees)
	fieldsTable(w, s.Fields)
	return nil
}

// FilterSummary describes the result of filtering a set of records on
// the values of a single field.
type FilterSummary struct {
	Field   string
	Targets []string
	Before  Frequencies
	After   Frequencies
	Total   int
	Kept    int
	Removed int
	// RemovedRatio is the fraction of records removed, it is zero for
	// an empty input.
	RemovedRatio float64
}

// SummarizeFilter compares the records before and after filtering on
// field.
func SummarizeFilter(before, after []records.Record, field string, targets []string) FilterSummary {
	s := FilterSummary{
		Field:   field,
		Targets: targets,
		Before:  Count(before, field),
		After:   Count(after, field),
		Total:   len(before),
		Kept:    len(after),
		Removed: len(before) - len(after),
	}
	if s.Total > 0 {
		s.RemovedRatio = float64(s.Removed) / float64(s.Total)
	}
	return s
}

// Write writes a human readable report.
func (s FilterSummary) Write(w io.Writer, title string, when time.Time) error {
	if _, err := fmt.Fprintf(w, "%v\n%v\n%v in: %v\n\n", title, when.Format(time.DateTime), s.Field, strings.Join(s.Targets, ", ")); err != nil {
		return err
	}
	frequencyTable(w, "before filtering", s.Field, s.Before)
	frequencyTable(w, "after filtering", s.Field, s.After)
	t := newTable(w, "summary", nil)
	t.AppendRow(table.Row{"total", s.Total})
	t.AppendRow(table.Row{"kept", s.Kept})
	t.AppendRow(table.Row{"removed", s.Removed})
	t.AppendRow(table.Row{"removed ratio", fmt.Sprintf("%.2f%%", 100*s.RemovedRatio)})
	t.Render()
	return nil
}
