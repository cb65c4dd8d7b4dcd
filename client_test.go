// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package assembly_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"cloudeng.io/webapi/clients/assembly"
	"cloudeng.io/webapi/clients/assembly/harvest"
	"cloudeng.io/webapi/clients/assembly/operations"
	"cloudeng.io/webapi/clients/assembly/operations/apitokens"
	"cloudeng.io/webapi/clients/assembly/webapitestutil"
	"github.com/google/go-cmp/cmp"
)

func testContext(t *testing.T) context.Context {
	ctx := context.Background()
	tok, err := apitokens.Get(ctx, nil, "literal://test-key")
	if err != nil {
		t.Fatal(err)
	}
	return apitokens.ContextWithToken(ctx, assembly.TokenID, tok)
}

func testClient(url string) *assembly.Client {
	return assembly.NewClient(
		assembly.WithServiceURL(url),
		assembly.WithRetryPolicy(operations.RetryPolicy{Attempts: 3, Delay: time.Millisecond}))
}

func TestFetchAllPagination(t *testing.T) {
	ctx := testContext(t)
	const size = 10
	for _, tc := range []struct {
		full, partial int
	}{
		{0, 0},
		{0, 3},
		{1, 0},
		{1, 7},
		{3, 1},
		{4, 9},
	} {
		handler := &webapitestutil.AssemblyHandler{
			Rows: webapitestutil.GenerateRows(tc.full*size+tc.partial, map[string]any{"BILL_ID": "PRC_A"}),
		}
		srv := webapitestutil.NewServer(handler)
		q := assembly.Query{Service: assembly.VotesService, Age: 21, PageSize: size}
		recs, err := testClient(srv.URL).FetchAll(ctx, q)
		srv.Close()
		if err != nil {
			t.Errorf("%+v: %v", tc, err)
			continue
		}
		if got, want := len(recs), tc.full*size+tc.partial; got != want {
			t.Errorf("%+v: got %v, want %v", tc, got, want)
		}
		if got, want := handler.NumRequests(), tc.full+1; got != want {
			t.Errorf("%+v: got %v, want %v", tc, got, want)
		}
		for i, r := range recs {
			if got, want := r.String("SEQ"), strconv.Itoa(i); got != want {
				t.Errorf("%+v: got %v, want %v", tc, got, want)
				break
			}
		}
	}
}

func TestRequestParameters(t *testing.T) {
	ctx := testContext(t)
	handler := &webapitestutil.AssemblyHandler{}
	srv := webapitestutil.NewServer(handler)
	defer srv.Close()

	if _, err := testClient(srv.URL).FetchAll(ctx, assembly.VotesQuery(21, "PRC_X")); err != nil {
		t.Fatal(err)
	}
	reqs := handler.Requests()
	if got, want := len(reqs), 1; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got, want := reqs[0].Path, "/"+assembly.VotesService; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	want := url.Values{
		"KEY":     {"test-key"},
		"Type":    {"json"},
		"pIndex":  {"1"},
		"pSize":   {"300"},
		"AGE":     {"21"},
		"BILL_ID": {"PRC_X"},
	}
	if diff := cmp.Diff(want, reqs[0].Query()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := testClient(srv.URL).FetchAll(ctx, assembly.BillsQuery(21)); err != nil {
		t.Fatal(err)
	}
	reqs = handler.Requests()
	q := reqs[len(reqs)-1].Query()
	if got, want := q.Get("BILL_KIND"), assembly.BillKindLaw; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := q.Get("pSize"), "100"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTransportFailureRetries(t *testing.T) {
	ctx := testContext(t)
	script := make([]webapitestutil.Scripted, 10)
	for i := range script {
		script[i] = webapitestutil.Scripted{Status: http.StatusInternalServerError}
	}
	handler := &webapitestutil.AssemblyHandler{Script: script}
	srv := webapitestutil.NewServer(handler)
	defer srv.Close()

	q := assembly.Query{Service: assembly.VotesService, PageSize: 10}
	_, err := testClient(srv.URL).FetchPage(ctx, q, assembly.Cursor{Index: 1, Size: 10})
	var fe *assembly.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := fe.Kind, assembly.TransportError; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := fe.Attempts, 3; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := handler.NumRequests(), 3; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMalformedRetried(t *testing.T) {
	ctx := testContext(t)
	handler := &webapitestutil.AssemblyHandler{
		Rows: webapitestutil.GenerateRows(4, nil),
		Script: []webapitestutil.Scripted{
			{Body: "<html>점검중</html>"},
			{Body: `{"unexpected": true}`},
		},
	}
	srv := webapitestutil.NewServer(handler)
	defer srv.Close()

	q := assembly.Query{Service: assembly.VotesService, PageSize: 10}
	recs, err := testClient(srv.URL).FetchAll(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(recs), 4; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := handler.NumRequests(), 3; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestUpstreamErrorNotRetried(t *testing.T) {
	ctx := testContext(t)
	handler := &webapitestutil.AssemblyHandler{
		Rows:    webapitestutil.GenerateRows(5, nil),
		Code:    "ERROR-337",
		Message: "일별 트래픽 제한을 넘은 호출입니다.",
	}
	srv := webapitestutil.NewServer(handler)
	defer srv.Close()

	q := assembly.Query{Service: assembly.VotesService, PageSize: 10}
	recs, err := testClient(srv.URL).FetchAll(ctx, q)
	var fe *assembly.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := fe.Kind, assembly.UpstreamError; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := fe.Code, "ERROR-337"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := fe.Attempts, 1; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := handler.NumRequests(), 1; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := len(recs), 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEmptyPageTerminates(t *testing.T) {
	ctx := testContext(t)
	rows := webapitestutil.GenerateRows(25, nil)
	handler := &webapitestutil.AssemblyHandler{
		RowsFor: func(_ string, q url.Values) []map[string]any {
			if q.Get("pIndex") == "2" {
				return nil
			}
			return rows
		},
	}
	srv := webapitestutil.NewServer(handler)
	defer srv.Close()

	q := assembly.Query{Service: assembly.VotesService, PageSize: 10}
	recs, err := testClient(srv.URL).FetchAll(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(recs), 10; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := handler.NumRequests(), 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMissingCredential(t *testing.T) {
	handler := &webapitestutil.AssemblyHandler{}
	srv := webapitestutil.NewServer(handler)
	defer srv.Close()

	q := assembly.Query{Service: assembly.VotesService, PageSize: 10}
	_, err := testClient(srv.URL).FetchAll(context.Background(), q)
	if !errors.Is(err, apitokens.ErrCredentialUnavailable) {
		t.Errorf("got %v, want %v", err, apitokens.ErrCredentialUnavailable)
	}
	if got, want := handler.NumRequests(), 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVoteFetcher(t *testing.T) {
	ctx := testContext(t)
	handler := &webapitestutil.AssemblyHandler{
		RowsFor: func(_ string, q url.Values) []map[string]any {
			if q.Get("BILL_ID") == "PRC_EMPTY" {
				return nil
			}
			return webapitestutil.GenerateRows(3, map[string]any{"BILL_ID": q.Get("BILL_ID")})
		},
	}
	srv := webapitestutil.NewServer(handler)
	defer srv.Close()

	h := harvest.New(assembly.VoteFetcher{Client: testClient(srv.URL), Age: 21}, harvest.WithPacing(0))
	res := h.Run(ctx, []harvest.Entity{{ID: "PRC_A"}, {ID: "PRC_EMPTY"}, {ID: "PRC_B"}})
	if diff := cmp.Diff(harvest.Counts{Success: 2, Empty: 1}, res.Counts); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if got, want := len(res.Records), 6; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := res.Records[5].String("BILL_ID"), "PRC_B"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
