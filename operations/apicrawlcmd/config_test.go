// Copyright 2023 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package apicrawlcmd_test

import (
	"testing"
	"time"

	"cloudeng.io/cmdutil/cmdyaml"
	"cloudeng.io/webapi/clients/assembly/operations/apicrawlcmd"
)

const apiCrawlSpec = `
api1:
  retry:
    attempts: 5
    delay: 500ms
  harvest:
    pacing: 250ms
    checkpoint_every: 50
  service:
    something: 1
api2:
  rate_control:
    tick: 1s
    requests_per_tick: 2
  exponential_backoff:
    initial_delay: 60s
    steps: 3
  service:
    else: 2
api3:
  retry:
    attempts: 1
`

type api1 struct {
	Something int `yaml:"something"`
}

type api2 struct {
	Else int `yaml:"else"`
}

func TestAPICrawlConfig(t *testing.T) {
	var crawls apicrawlcmd.Crawls
	if err := cmdyaml.ParseConfigString(apiCrawlSpec, &crawls); err != nil {
		t.Fatal(err)
	}

	if got, want := len(crawls), 3; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	var a1 apicrawlcmd.Crawl[api1]
	if present, err := apicrawlcmd.ParseCrawlConfig(crawls, "api1", &a1); !present || err != nil {
		t.Fatalf("not present: %v, or err: %v", present, err)
	}
	if got, want := a1.Service.Something, 1; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := a1.Harvest.Pacing, 250*time.Millisecond; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := a1.Harvest.CheckpointEvery, 50; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	p := a1.Retry.RetryPolicy()
	if got, want := p.Attempts, 5; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := p.Delay, 500*time.Millisecond; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	var a2 apicrawlcmd.Crawl[api2]
	if present, err := apicrawlcmd.ParseCrawlConfig(crawls, "api2", &a2); !present || err != nil {
		t.Fatalf("not present: %v, or err: %v", present, err)
	}
	if got, want := a2.RateControl.ExponentialBackoff.InitialDelay, time.Second*60; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := a2.RateControl.Rate.RequestsPerTick, 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := a2.Service.Else, 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	p = a2.Retry.RetryPolicy()
	if got, want := p.Attempts, 3; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := p.Delay, 2*time.Second; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	var a3 apicrawlcmd.Crawl[api1]
	if present, err := apicrawlcmd.ParseCrawlConfig(crawls, "api3", &a3); !present || err != nil {
		t.Fatalf("not present: %v, or err: %v", present, err)
	}
	if got, want := a3.Service.Something, 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	if present, err := apicrawlcmd.ParseCrawlConfig(crawls, "missing", &a3); present || err != nil {
		t.Errorf("present: %v, err: %v", present, err)
	}
}
