// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"time"

	"cloudeng.io/webapi/clients/assembly/records"
	"github.com/jedib0t/go-pretty/v6/table"
)

// BillVotes is the number of votes recorded for a bill.
type BillVotes struct {
	BillNo   string
	BillName string
	Votes    int
}

// VoteSummary summarizes a set of plenary vote records.
type VoteSummary struct {
	Results        Frequencies // By RESULT_VOTE_MOD.
	Parties        Frequencies // By POLY_NM.
	Bills          int         // Distinct BILL_NO.
	Members        int         // Distinct HG_NM.
	TotalVotes     int
	VotesPerMember float64
	TopBills       []BillVotes
	Fields         []string
}

// AnalyzeVotes summarizes vote records, topN bills by number of votes
// are included.
func AnalyzeVotes(recs []records.Record, topN int) VoteSummary {
	s := VoteSummary{
		Results: Count(recs, "RESULT_VOTE_MOD"),
		Parties: Count(recs, "POLY_NM"),
		Fields:  Fields(recs),
	}
	bills := Count(recs, "BILL_NO")
	s.Bills = bills.Distinct()
	s.Members = Count(recs, "HG_NM").Distinct()
	s.TotalVotes = s.Results.Total()
	if s.Members > 0 {
		s.VotesPerMember = float64(s.TotalVotes) / float64(s.Members)
	}
	names := map[string]string{}
	for _, r := range recs {
		no := r.String("BILL_NO")
		if _, ok := names[no]; !ok {
			names[no] = r.String("BILL_NAME")
		}
	}
	for _, b := range bills.Top(topN) {
		name := names[b.Value]
		if b.Value == Unspecified {
			name = names[""]
		}
		if name == "" {
			name = Unspecified
		}
		s.TopBills = append(s.TopBills, BillVotes{BillNo: b.Value, BillName: name, Votes: b.Count})
	}
	return s
}

func newTable(w io.Writer, title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	if header != nil {
		t.AppendHeader(header)
	}
	return t
}

func frequencyTable(w io.Writer, title, column string, f Frequencies) {
	t := newTable(w, title, table.Row{column, "count"})
	for _, b := range f {
		t.AppendRow(table.Row{b.Value, b.Count})
	}
	t.AppendFooter(table.Row{"total", f.Total()})
	t.Render()
}

func fieldsTable(w io.Writer, fields []string) {
	t := newTable(w, "fields", table.Row{"#", "field"})
	for i, f := range fields {
		t.AppendRow(table.Row{i + 1, f})
	}
	t.Render()
}

// Write writes a human readable report.
func (s VoteSummary) Write(w io.Writer, title string, when time.Time) error {
	if _, err := fmt.Fprintf(w, "%v\n%v\n\n", title, when.Format(time.DateTime)); err != nil {
		return err
	}
	frequencyTable(w, "votes by result", "RESULT_VOTE_MOD", s.Results)
	frequencyTable(w, "votes by party", "POLY_NM", s.Parties)

	t := newTable(w, "totals", nil)
	t.AppendRow(table.Row{"bills", s.Bills})
	t.AppendRow(table.Row{"members", s.Members})
	t.AppendRow(table.Row{"votes", s.TotalVotes})
	if s.Members > 0 {
		t.AppendRow(table.Row{"votes per member", fmt.Sprintf("%.2f", s.VotesPerMember)})
	} else {
		t.AppendRow(table.Row{"votes per member", "n/a"})
	}
	t.Render()

	t = newTable(w, fmt.Sprintf("top %d bills by votes", len(s.TopBills)), table.Row{"BILL_NO", "BILL_NAME", "votes"})
	for _, b := range s.TopBills {
		t.AppendRow(table.Row{b.BillNo, b.BillName, b.Votes})
	}
	t.Render()
	fieldsTable(w, s.Fields)
	return nil
}
