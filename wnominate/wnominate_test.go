// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package wnominate_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloudeng.io/webapi/clients/assembly/wnominate"
	"github.com/google/go-cmp/cmp"
)

const coordinates = "\ufeff\"\",name,party,state,coord1D,coord2D,GMP,CC\n" +
	"1,A,더불어민주당,KR,-0.5,0.1,0.8,0.9\n" +
	"2,B,더불어민주당,KR,-0.7,0.3,0.9,0.95\n" +
	"3,C,국민의힘,KR,0.6,-0.2,0.7,0.85\n" +
	"4,D,국민의힘,KR,0.8,0.0,NA,NA\n" +
	"5,E,정의당,KR,-0.2,0.5,0.6,0.8\n" +
	"6,F,무소속,KR,0.1,0.1,0.5,0.7\n"

func readCoordinates(t *testing.T) []wnominate.Legislator {
	t.Helper()
	legislators, err := wnominate.Read(strings.NewReader(coordinates))
	if err != nil {
		t.Fatal(err)
	}
	return legislators
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRead(t *testing.T) {
	legislators := readCoordinates(t)
	if got, want := len(legislators), 6; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got, want := legislators[0].Name, "A"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := legislators[2].Party, "국민의힘"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := float64(legislators[1].Coord1D), -0.7; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if !legislators[3].GMP.Missing() || !legislators[3].CC.Missing() {
		t.Errorf("NA values should be missing: %v %v", legislators[3].GMP, legislators[3].CC)
	}
	if legislators[3].Coord2D.Missing() {
		t.Errorf("zero value should not be missing")
	}

	var buf bytes.Buffer
	if err := wnominate.Write(&buf, legislators[3:4]); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "name,party,coord1D,coord2D,GMP,CC\nD,국민의힘,0.8,0,NA,NA\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "coords.csv")
	if err := os.WriteFile(filename, []byte(coordinates), 0600); err != nil {
		t.Fatal(err)
	}
	legislators, err := wnominate.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(legislators), 6; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := wnominate.ReadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Errorf("expected an error")
	}
	if _, err := wnominate.Read(strings.NewReader("name,coord1D\nA,x\n")); err == nil {
		t.Errorf("expected an error")
	}
}

func TestSummarize(t *testing.T) {
	s := wnominate.Summarize(readCoordinates(t), wnominate.DefaultParties)
	if got, want := s.Legislators, 6; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := s.Selected, 5; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := s.Parties, []wnominate.PartyCount{
		{Party: "국민의힘", Members: 2},
		{Party: "더불어민주당", Members: 2},
		{Party: "무소속", Members: 1},
		{Party: "정의당", Members: 1},
	}; !cmp.Equal(got, want) {
		t.Errorf("parties: %v", cmp.Diff(got, want))
	}
	if got, want := s.Coord1D.Mean, 0.0; !near(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := s.Coord2D.N, 5; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	if got, want := len(s.PerParty), 3; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	dp, ppp, jp := s.PerParty[0], s.PerParty[1], s.PerParty[2]
	if got, want := dp.Members, 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := dp.Coord1D.Mean, -0.6; !near(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := dp.Coord1D.StdDev, math.Sqrt(0.02); !near(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := dp.CC.Mean, 0.925; !near(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	// Missing values are ignored.
	if got, want := ppp.GMP.N, 1; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := ppp.GMP.Mean, 0.7; !near(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := jp.Members, 1; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	none := wnominate.Summarize(nil, wnominate.DefaultParties)
	if !math.IsNaN(none.Coord1D.Mean) || none.Coord1D.N != 0 {
		t.Errorf("expected NaN mean for no values: %v", none.Coord1D)
	}

	var out strings.Builder
	if err := s.Write(&out); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"legislators: 6, in selected parties: 5", "무소속", "-0.6000", "0.9250"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in %s", want, out.String())
		}
	}
}

func TestTopByCC(t *testing.T) {
	legislators := readCoordinates(t)
	names := func(l []wnominate.Legislator) []string {
		var n []string
		for _, v := range l {
			n = append(n, v.Name)
		}
		return n
	}
	if got, want := names(wnominate.TopByCC(legislators, 3)), []string{"B", "A", "C"}; !cmp.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	ppp := wnominate.ByParty(legislators, "국민의힘")
	if got, want := names(wnominate.TopByCC(ppp, 5)), []string{"C"}; !cmp.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCharts(t *testing.T) {
	legislators := readCoordinates(t)
	charts, err := wnominate.NewCharts(wnominate.WithTopN(2))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	written, err := charts.Save(dir, legislators)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := written, []string{
		filepath.Join(dir, wnominate.DistributionChart),
		filepath.Join(dir, wnominate.BoxPlotChart),
		filepath.Join(dir, wnominate.PerformanceChart),
	}; !cmp.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	for _, filename := range written {
		buf, err := os.ReadFile(filename)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(buf, []byte("\x89PNG")) {
			t.Errorf("%v: not a png file", filename)
		}
	}

	if _, err := wnominate.NewCharts(wnominate.WithFont(filepath.Join(dir, "missing.ttf"))); err == nil {
		t.Errorf("expected an error")
	}
}
