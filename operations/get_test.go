// Copyright 2023 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package operations_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"cloudeng.io/net/ratecontrol"
	"cloudeng.io/webapi/clients/assembly/operations"
	"cloudeng.io/webapi/clients/assembly/webapitestutil"
	"github.com/google/go-cmp/cmp"
)

type example struct {
	Name  string
	Value int
}

func TestEcho(t *testing.T) {
	ctx := context.Background()

	eg := example{"foo", 42}
	srv := webapitestutil.NewServer(webapitestutil.NewEchoHandler(&eg))
	defer srv.Close()

	ep := operations.NewEndpoint[example]()
	egr, body, err := ep.Get(ctx, srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(eg, egr); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	data, err := json.Marshal(eg)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := body, data; !bytes.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	numRetries := 2
	srv := webapitestutil.NewServer(webapitestutil.NewRetryHandler(numRetries))
	defer srv.Close()

	rc := ratecontrol.New(ratecontrol.WithExponentialBackoff(time.Millisecond, 4))
	ep := operations.NewEndpoint[int](operations.WithRateController(rc, http.StatusTooManyRequests))
	n, _, err := ep.Get(ctx, srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := n, numRetries; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

type queryAuth struct{}

func (queryAuth) key(context.Context) (string, error) {
	return "secret", nil
}

func TestQueryParameterAuth(t *testing.T) {
	ctx := context.Background()
	srv := webapitestutil.NewServer(webapitestutil.NewQueryEchoHandler())
	defer srv.Close()

	ep := operations.NewEndpoint[map[string][]string](
		operations.WithAuth(operations.QueryParameterAuth{
			Parameter: "KEY",
			Key:       queryAuth{}.key,
		}),
		operations.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}))
	params, _, err := ep.Get(ctx, srv.URL+"?Type=json")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string][]string{
		"KEY":  {"secret"},
		"Type": {"json"},
	}
	if diff := cmp.Diff(want, params); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAuthError(t *testing.T) {
	ctx := context.Background()
	srv := webapitestutil.NewServer(webapitestutil.NewQueryEchoHandler())
	defer srv.Close()

	errNoKey := errors.New("no key")
	ep := operations.NewEndpoint[map[string][]string](
		operations.WithAuth(operations.QueryParameterAuth{
			Parameter: "KEY",
			Key:       func(context.Context) (string, error) { return "", errNoKey },
		}))
	_, _, err := ep.Get(ctx, srv.URL)
	if !errors.Is(err, errNoKey) {
		t.Errorf("got %v, want %v", err, errNoKey)
	}
}

func TestRequestError(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := webapitestutil.NewServer(handler)
	defer srv.Close()

	ep := operations.NewEndpoint[example]()
	_, _, err := ep.Get(ctx, srv.URL)
	var operr *operations.Error
	if !errors.As(err, &operr) {
		t.Fatalf("unexpected error type: %T", err)
	}
	if got, want := operr.StatusCode, http.StatusNotFound; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if operr.Completed() {
		t.Errorf("request should not be marked as completed")
	}
}

func TestUnmarshalError(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})
	srv := webapitestutil.NewServer(handler)
	defer srv.Close()

	ep := operations.NewEndpoint[example]()
	_, body, err := ep.Get(ctx, srv.URL)
	var operr *operations.Error
	if !errors.As(err, &operr) {
		t.Fatalf("unexpected error type: %T", err)
	}
	if !operr.Completed() {
		t.Errorf("request should be marked as completed")
	}
	var synerr *json.SyntaxError
	if !errors.As(err, &synerr) {
		t.Errorf("expected a json syntax error, got %v", err)
	}
	if got, want := string(body), "<html>maintenance</html>"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBackoffExhausted(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	srv := webapitestutil.NewServer(handler)
	defer srv.Close()

	rc := ratecontrol.New(ratecontrol.WithExponentialBackoff(time.Millisecond, 3))
	ep := operations.NewEndpoint[example](operations.WithRateController(rc, http.StatusTooManyRequests))

	_, _, err := ep.Get(ctx, srv.URL)
	var operr *operations.Error
	if !errors.As(err, &operr) {
		t.Fatalf("unexpected error type: %T", err)
	}
	if got, want := operr.StatusCode, http.StatusTooManyRequests; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
