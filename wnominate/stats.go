// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package wnominate

import (
	"fmt"
	"io"
	"math"
	"slices"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/stat"
)

// Moments are the mean and sample standard deviation of a set of values,
// missing values are ignored. Both are NaN if there are no values.
type Moments struct {
	N      int
	Mean   float64
	StdDev float64
}

func moments(values []float64) Moments {
	if len(values) == 0 {
		return Moments{Mean: math.NaN(), StdDev: math.NaN()}
	}
	mean, std := stat.MeanStdDev(values, nil)
	return Moments{N: len(values), Mean: mean, StdDev: std}
}

func column(legislators []Legislator, fn func(Legislator) Score) []float64 {
	var out []float64
	for _, l := range legislators {
		if v := fn(l); !v.Missing() {
			out = append(out, float64(v))
		}
	}
	return out
}

func coord1D(l Legislator) Score { return l.Coord1D }
func coord2D(l Legislator) Score { return l.Coord2D }
func gmp(l Legislator) Score     { return l.GMP }
func cc(l Legislator) Score      { return l.CC }

// PartyStats are the statistics for a single party.
type PartyStats struct {
	Party   string
	Members int
	Coord1D Moments
	Coord2D Moments
	GMP     Moments
	CC      Moments
}

// PartyCount is the number of legislators in a party.
type PartyCount struct {
	Party   string
	Members int
}

// Summary summarizes W-NOMINATE results.
type Summary struct {
	Legislators int
	Selected    int          // Legislators in the selected parties.
	Parties     []PartyCount // All parties, by decreasing size.
	Coord1D     Moments      // For the selected parties.
	Coord2D     Moments      // For the selected parties.
	PerParty    []PartyStats // For the selected parties, in order.
}

// ByParty returns the legislators belonging to the named party.
func ByParty(legislators []Legislator, party string) []Legislator {
	var out []Legislator
	for _, l := range legislators {
		if l.Party == party {
			out = append(out, l)
		}
	}
	return out
}

// Summarize computes the summary statistics for the legislators and the
// selected parties.
func Summarize(legislators []Legislator, parties []Party) Summary {
	s := Summary{Legislators: len(legislators)}
	counts := map[string]int{}
	for _, l := range legislators {
		counts[l.Party]++
	}
	for p, n := range counts {
		s.Parties = append(s.Parties, PartyCount{Party: p, Members: n})
	}
	sort.Slice(s.Parties, func(i, j int) bool {
		if s.Parties[i].Members != s.Parties[j].Members {
			return s.Parties[i].Members > s.Parties[j].Members
		}
		return s.Parties[i].Party < s.Parties[j].Party
	})
	selected := names(parties)
	var filtered []Legislator
	for _, l := range legislators {
		if slices.Contains(selected, l.Party) {
			filtered = append(filtered, l)
		}
	}
	s.Selected = len(filtered)
	s.Coord1D = moments(column(filtered, coord1D))
	s.Coord2D = moments(column(filtered, coord2D))
	for _, p := range parties {
		members := ByParty(legislators, p.Name)
		s.PerParty = append(s.PerParty, PartyStats{
			Party:   p.Name,
			Members: len(members),
			Coord1D: moments(column(members, coord1D)),
			Coord2D: moments(column(members, coord2D)),
			GMP:     moments(column(members, gmp)),
			CC:      moments(column(members, cc)),
		})
	}
	return s
}

// Write writes the summary as a set of tables.
func (s Summary) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "legislators: %v, in selected parties: %v\n", s.Legislators, s.Selected); err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("parties")
	t.AppendHeader(table.Row{"party", "members"})
	for _, p := range s.Parties {
		t.AppendRow(table.Row{p.Party, p.Members})
	}
	t.Render()

	f := func(v float64) string { return fmt.Sprintf("%.4f", v) }
	t = table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("selected parties")
	t.AppendHeader(table.Row{"party", "members", "coord1D mean", "coord1D std", "coord2D mean", "coord2D std", "GMP mean", "CC mean"})
	for _, p := range s.PerParty {
		t.AppendRow(table.Row{p.Party, p.Members, f(p.Coord1D.Mean), f(p.Coord1D.StdDev), f(p.Coord2D.Mean), f(p.Coord2D.StdDev), f(p.GMP.Mean), f(p.CC.Mean)})
	}
	t.AppendFooter(table.Row{"all", s.Selected, f(s.Coord1D.Mean), f(s.Coord1D.StdDev), f(s.Coord2D.Mean), f(s.Coord2D.StdDev), "", ""})
	t.Render()
	return nil
}
