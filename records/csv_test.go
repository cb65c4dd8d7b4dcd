// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package records_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloudeng.io/webapi/clients/assembly/records"
	"github.com/google/go-cmp/cmp"
)

func TestWriteCSV(t *testing.T) {
	recs := []records.Record{
		records.New("BILL_ID", "PRC_A", "HG_NM", "김철수", "RESULT_VOTE_MOD", "찬성"),
		records.New("HG_NM", "이영희", "BILL_ID", "PRC_B", "EXTRA", "ignored"),
		records.New("BILL_ID", "PRC_C", "HG_NM", "박, 민수"),
	}
	var buf bytes.Buffer
	if err := records.WriteCSV(&buf, recs); err != nil {
		t.Fatal(err)
	}
	want := "BILL_ID,HG_NM,RESULT_VOTE_MOD\n" +
		"PRC_A,김철수,찬성\n" +
		"PRC_B,이영희,\n" +
		"PRC_C,\"박, 민수\",\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()
	if err := records.WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.Len(), 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReadCSV(t *testing.T) {
	input := "\ufeffBILL_ID,BILL_NM\nPRC_A,법안 A\nPRC_B,\n"
	tbl, err := records.ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"BILL_ID", "BILL_NM"}, tbl.Header); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if got, want := len(tbl.Records), 2; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got, want := tbl.Records[0].String("BILL_NM"), "법안 A"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if err := tbl.Require("BILL_ID"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := tbl.Require("BILL_ID", "AGE"); !errors.Is(err, records.ErrMissingColumn) {
		t.Errorf("got %v, want %v", err, records.ErrMissingColumn)
	}

	tbl, err = records.ReadCSV(strings.NewReader("BILL_ID\nPRC_A\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := tbl.Header[0], "BILL_ID"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "votes.csv")
	recs := []records.Record{
		records.New("BILL_ID", "PRC_A", "HG_NM", "김철수"),
		records.New("BILL_ID", "PRC_B", "HG_NM", "이영희"),
	}
	if err := records.WriteFile(filename, recs); err != nil {
		t.Fatal(err)
	}
	buf, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf, []byte{0xef, 0xbb, 0xbf}) {
		t.Errorf("missing byte order mark: %q", buf[:min(len(buf), 8)])
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(entries), 1; got != want {
		t.Errorf("got %v, want %v: temporary files left behind", got, want)
	}

	tbl, err := records.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"BILL_ID", "HG_NM"}, tbl.Header); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	var names []string
	for _, r := range tbl.Records {
		names = append(names, r.String("HG_NM"))
	}
	if diff := cmp.Diff([]string{"김철수", "이영희"}, names); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if err := records.WriteFile(filepath.Join(dir, "missing", "x.csv"), recs); err == nil {
		t.Errorf("expected an error for a missing directory")
	}
}
