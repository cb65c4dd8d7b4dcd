// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package assemblycmd

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"cloudeng.io/cmdutil/cmdyaml"
	"cloudeng.io/webapi/clients/assembly"
	"cloudeng.io/webapi/clients/assembly/harvest"
	"cloudeng.io/webapi/clients/assembly/operations/apicrawlcmd"
)

// CrawlName is the name of the crawl configuration used by these commands.
const CrawlName = "assembly"

// DefaultTokenSpec is the default location of the API key.
const DefaultTokenSpec = "file://api_key.txt"

// DefaultProcResults are the bill processing results retained by the
// filter command.
var DefaultProcResults = []string{"원안가결", "수정가결", "부결"}

// Service is the National Assembly specific configuration.
type Service struct {
	ServiceURL  string   `yaml:"service_url" cmd:"the open API's base URL, defaults to https://open.assembly.go.kr/portal/openapi"`
	Age         int      `yaml:"age" cmd:"the assembly to collect data for, defaults to 21"`
	Token       string   `yaml:"token" cmd:"the API key, eg. file://api_key.txt, env://ASSEMBLY_API_KEY or literal://<key>"`
	OutputDir   string   `yaml:"output_dir" cmd:"the directory that all output files are written to"`
	ProcResults []string `yaml:"proc_results,flow" cmd:"the PROC_RESULT_CD values retained by the filter command"`
	TopN        int      `yaml:"top_n" cmd:"the number of entries in top-N report tables"`
}

// Config is the configuration for the assembly commands.
type Config apicrawlcmd.Crawl[Service]

// DefaultConfig returns the configuration used when no config file, or
// no assembly entry within it, is supplied.
func DefaultConfig() Config {
	var c Config
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	s := &c.Service
	if len(s.ServiceURL) == 0 {
		s.ServiceURL = assembly.DefaultServiceURL
	}
	if s.Age == 0 {
		s.Age = assembly.DefaultAge
	}
	if len(s.Token) == 0 {
		s.Token = DefaultTokenSpec
	}
	if len(s.OutputDir) == 0 {
		s.OutputDir = "data"
	}
	if len(s.ProcResults) == 0 {
		s.ProcResults = slices.Clone(DefaultProcResults)
	}
	if s.TopN == 0 {
		s.TopN = 10
	}
	h := &c.Harvest
	if h.Pacing == 0 {
		h.Pacing = time.Second
	}
	if h.CheckpointEvery == 0 {
		h.CheckpointEvery = harvest.DefaultCheckpointEvery
	}
	if h.ProgressEvery == 0 {
		h.ProgressEvery = 10
	}
	if len(h.CheckpointDir) == 0 {
		h.CheckpointDir = filepath.Join(s.OutputDir, "state")
	}
}

// ParseConfig parses the assembly entry of a YAML crawl configuration,
// unset fields are set to their defaults.
func ParseConfig(crawls apicrawlcmd.Crawls) (Config, error) {
	var c Config
	if _, err := apicrawlcmd.ParseCrawlConfig(crawls, CrawlName, (*apicrawlcmd.Crawl[Service])(&c)); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}

// LoadConfig reads the named YAML configuration file, the default
// configuration is returned for an empty filename.
func LoadConfig(ctx context.Context, filename string) (Config, error) {
	if len(filename) == 0 {
		return DefaultConfig(), nil
	}
	var crawls apicrawlcmd.Crawls
	if err := cmdyaml.ParseConfigFile(ctx, filename, &crawls); err != nil {
		return Config{}, fmt.Errorf("%v: %w", filename, err)
	}
	return ParseConfig(crawls)
}

func (c Config) clientOptions() []assembly.Option {
	return []assembly.Option{
		assembly.WithServiceURL(c.Service.ServiceURL),
		assembly.WithRetryPolicy(c.Retry.RetryPolicy()),
		assembly.WithEndpointOptions(c.RateControl.EndpointOptions()...),
	}
}

func (c Config) output(name string) string {
	return filepath.Join(c.Service.OutputDir, name)
}
