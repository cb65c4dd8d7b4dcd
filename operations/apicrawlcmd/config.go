// Copyright 2023 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package apicrawlcmd provides support for building command line tools
// that implement API crawls.
package apicrawlcmd

import (
	"fmt"
	"net/http"
	"time"

	"cloudeng.io/net/ratecontrol"
	"cloudeng.io/webapi/clients/assembly/operations"
	"gopkg.in/yaml.v3"
)

// Rate specifies the maximum number of requests per tick.
type Rate struct {
	Tick            time.Duration `yaml:"tick" cmd:"the duration of a tick"`
	RequestsPerTick int           `yaml:"requests_per_tick" cmd:"the number of requests per tick"`
}

// ExponentialBackoff specifies the backoff applied to responses with
// one of the StatusCodes, typically http.StatusTooManyRequests.
type ExponentialBackoff struct {
	InitialDelay time.Duration `yaml:"initial_delay" cmd:"the initial delay between retries for exponential backoff"`
	Steps        int           `yaml:"steps" cmd:"the number of steps of exponential backoff before giving up"`
	StatusCodes  []int         `yaml:"status_codes,flow" cmd:"the status codes that trigger a retry"`
}

// RateControl is the rate control configuration for a crawl.
type RateControl struct {
	Rate               Rate               `yaml:"rate_control" cmd:"the rate control parameters"`
	ExponentialBackoff ExponentialBackoff `yaml:"exponential_backoff" cmd:"the exponential backoff parameters"`
}

// Retry is the bounded, fixed delay retry applied to failed operations.
type Retry struct {
	Attempts int           `yaml:"attempts" cmd:"the total number of attempts per operation"`
	Delay    time.Duration `yaml:"delay" cmd:"the delay between attempts"`
}

// Harvest configures a bulk harvest over a list of entities.
type Harvest struct {
	Pacing          time.Duration `yaml:"pacing" cmd:"the delay between entities"`
	CheckpointEvery int           `yaml:"checkpoint_every" cmd:"the number of processed entities between checkpoints"`
	CheckpointDir   string        `yaml:"checkpoint_dir" cmd:"the directory used to store resumable harvest state"`
	ProgressEvery   int           `yaml:"progress_every" cmd:"the number of processed entities between progress log entries"`
}

// Crawl is a generic type that defines common crawl configuration
// options as well as allowing for service specific ones.
type Crawl[T any] struct {
	RateControl RateControl `yaml:",inline"`
	Retry       Retry       `yaml:"retry" cmd:"retry configuration"`
	Harvest     Harvest     `yaml:"harvest" cmd:"harvest configuration"`
	Service     T           `yaml:"service" cmd:"service specific configuration"`
}

// Crawls represents the configuration of multiple API crawls.
type Crawls map[string]Crawl[yaml.Node]

// ParseCrawlConfig parses an API specific crawl config of the specified
// name. It returns false if there is no such config.
func ParseCrawlConfig[T any](crawls Crawls, name string, service *Crawl[T]) (bool, error) {
	cfg, ok := crawls[name]
	if !ok {
		return false, nil
	}
	service.RateControl = cfg.RateControl
	service.Retry = cfg.Retry
	service.Harvest = cfg.Harvest
	if cfg.Service.Kind == 0 {
		return true, nil
	}
	if err := cfg.Service.Decode(&service.Service); err != nil {
		return true, fmt.Errorf("%v: service: %w", name, err)
	}
	return true, nil
}

// NewRateController creates a new rate controller based on the values
// contained in RateControl.
func (c RateControl) NewRateController() *ratecontrol.Controller {
	opts := []ratecontrol.Option{}
	if c.Rate.Tick > 0 && c.Rate.RequestsPerTick > 0 {
		opts = append(opts, ratecontrol.WithRequestsPerTick(c.Rate.Tick, c.Rate.RequestsPerTick))
	}
	if c.ExponentialBackoff.InitialDelay > 0 {
		opts = append(opts,
			ratecontrol.WithExponentialBackoff(c.ExponentialBackoff.InitialDelay, c.ExponentialBackoff.Steps))
	}
	return ratecontrol.New(opts...)
}

// EndpointOptions returns the operations.Option values implied by the
// rate control configuration. Backoff applies to http.StatusTooManyRequests
// if no status codes are configured.
func (c RateControl) EndpointOptions() []operations.Option {
	codes := c.ExponentialBackoff.StatusCodes
	if len(codes) == 0 {
		codes = []int{http.StatusTooManyRequests}
	}
	return []operations.Option{
		operations.WithRateController(c.NewRateController(), codes...),
	}
}

// RetryPolicy returns the operations.RetryPolicy for the configured
// retry, defaults from operations.DefaultRetryPolicy are used for
// unset values.
func (r Retry) RetryPolicy() operations.RetryPolicy {
	p := operations.DefaultRetryPolicy()
	if r.Attempts > 0 {
		p.Attempts = r.Attempts
	}
	if r.Delay > 0 {
		p.Delay = r.Delay
	}
	return p
}
