// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package assemblycmd provides support for building command line tools
// that collect bills and plenary votes from the Korean National
// Assembly's open API.
package assemblycmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloudeng.io/errors"
	"cloudeng.io/logging/ctxlog"
	"cloudeng.io/webapi/clients/assembly"
	"cloudeng.io/webapi/clients/assembly/operations/apitokens"
	"cloudeng.io/webapi/clients/assembly/records"
	"cloudeng.io/webapi/clients/assembly/report"
)

// CommonFlags are the flags shared by all commands.
type CommonFlags struct {
	Config  string `subcmd:"config,,'yaml configuration file, the assembly entry is used'"`
	Verbose bool   `subcmd:"verbose,false,'enable debug logging'"`
}

type BillsFlags struct {
	CommonFlags
	Output string `subcmd:"output,,'bills CSV file, defaults to <output_dir>/assembly_bills_<age>_<timestamp>.csv'"`
}

type FilterFlags struct {
	CommonFlags
	Output string `subcmd:"output,,'filtered bills CSV file, defaults to <output_dir>/filtered_bills_<timestamp>.csv'"`
}

// TimestampFormat is used to name output files.
const TimestampFormat = "20060102_150405"

// Command implements the command line operations available for the
// National Assembly open API.
type Command struct {
	Config Config
	// Out receives reports and summaries, it defaults to os.Stdout.
	Out io.Writer
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewCommand returns a new Command using the configuration file named
// in the common flags, if any.
func NewCommand(ctx context.Context, fv CommonFlags) (*Command, error) {
	cfg, err := LoadConfig(ctx, fv.Config)
	if err != nil {
		return nil, err
	}
	return &Command{Config: cfg, Out: os.Stdout, Now: time.Now}, nil
}

func (c *Command) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Command) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// authorize reads the API key and stores it in the returned context. The
// error wraps apitokens.ErrCredentialUnavailable if the key cannot be
// read or is empty.
func (c *Command) authorize(ctx context.Context) (context.Context, error) {
	tok, err := apitokens.Get(ctx, nil, c.Config.Service.Token)
	if err != nil {
		return ctx, err
	}
	ctxlog.Debug(ctx, "assembly: api key", "token", tok.String())
	return apitokens.ContextWithToken(ctx, assembly.TokenID, tok), nil
}

func (c *Command) client() *assembly.Client {
	return assembly.NewClient(c.Config.clientOptions()...)
}

func (c *Command) prepareOutput() error {
	return os.MkdirAll(c.Config.Service.OutputDir, 0755)
}

// writeReport writes a report to the named file and to c.Out.
func (c *Command) writeReport(ctx context.Context, filename string, fn func(io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	var errs errors.M
	errs.Append(fn(io.MultiWriter(f, c.out())))
	errs.Append(f.Close())
	if err := errs.Err(); err != nil {
		return err
	}
	ctxlog.Info(ctx, "assembly: report written", "file", filename)
	return nil
}

// Bills fetches all of the legislative bills for the configured
// assembly and writes them to a CSV file along with an analysis report.
func (c *Command) Bills(ctx context.Context, fv *BillsFlags) error {
	ctx, err := c.authorize(ctx)
	if err != nil {
		return err
	}
	if err := c.prepareOutput(); err != nil {
		return err
	}
	now := c.now()
	ts := now.Format(TimestampFormat)
	age := c.Config.Service.Age
	ctxlog.Info(ctx, "assembly: fetching bills", "age", age)
	bills, fetchErr := c.client().FetchAll(ctx, assembly.BillsQuery(age))
	if len(bills) == 0 {
		if fetchErr == nil {
			ctxlog.Info(ctx, "assembly: no bills found", "age", age)
		}
		return fetchErr
	}
	var errs errors.M
	errs.Append(fetchErr)
	output := fv.Output
	if len(output) == 0 {
		output = c.Config.output(fmt.Sprintf("assembly_bills_%d_%s.csv", age, ts))
	}
	if err := records.WriteFile(output, bills); err != nil {
		errs.Append(err)
		return errs.Err()
	}
	ctxlog.Info(ctx, "assembly: bills written", "file", output, "bills", len(bills))
	summary := report.AnalyzeBills(bills, c.Config.Service.TopN)
	errs.Append(c.writeReport(ctx, c.Config.output("bill_analysis_"+ts+".txt"),
		func(w io.Writer) error {
			return summary.Write(w, fmt.Sprintf("bill analysis: assembly %d", age), now)
		}))
	return errs.Err()
}

// Filter retains the bills in the named CSV file whose PROC_RESULT_CD
// is one of the configured values and writes them to a new CSV file
// along with a report of what was removed.
func (c *Command) Filter(ctx context.Context, fv *FilterFlags, input string) error {
	tbl, err := records.ReadFile(input)
	if err != nil {
		return err
	}
	if err := tbl.Require(assembly.FieldProcResult); err != nil {
		return fmt.Errorf("%v: %w", input, err)
	}
	if err := c.prepareOutput(); err != nil {
		return err
	}
	now := c.now()
	ts := now.Format(TimestampFormat)
	targets := c.Config.Service.ProcResults
	kept := records.Filter(tbl.Records, records.FieldIn(assembly.FieldProcResult, targets...))
	output := fv.Output
	if len(output) == 0 {
		output = c.Config.output("filtered_bills_" + ts + ".csv")
	}
	if err := records.WriteFile(output, kept); err != nil {
		return err
	}
	ctxlog.Info(ctx, "assembly: filtered bills written", "file", output, "before", len(tbl.Records), "after", len(kept))
	summary := report.SummarizeFilter(tbl.Records, kept, assembly.FieldProcResult, targets)
	return c.writeReport(ctx, c.Config.output("filtering_results_"+ts+".txt"),
		func(w io.Writer) error {
			return summary.Write(w, "bill filtering: "+input, now)
		})
}
