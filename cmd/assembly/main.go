// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command assembly collects bills and plenary votes from the Korean
// National Assembly's open API and charts W-NOMINATE results.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloudeng.io/cmdutil/subcmd"
	"cloudeng.io/logging/ctxlog"
	"cloudeng.io/webapi/clients/assembly/assemblycmd"
	"cloudeng.io/webapi/clients/assembly/operations/apitokens"
	"github.com/lmittmann/tint"
)

const spec = `
name: assembly
summary: collect and analyze data from the Korean National Assembly open API.
commands:
  - name: bills
    summary: fetch all of the legislative bills for the configured assembly.
  - name: filter
    summary: retain the bills whose PROC_RESULT_CD is one of the configured values.
    arguments:
      - bills.csv
  - name: votes
    summary: collect the plenary votes for each of the bills in a CSV file
             with a BILL_ID column. Interrupting the collection saves the
             votes collected so far, --resume continues from the last checkpoint.
    arguments:
      - bills.csv
  - name: report
    summary: summarize a previously collected votes CSV file.
    arguments:
      - votes.csv
  - name: plot
    summary: chart W-NOMINATE results for the three main parties.
    arguments:
      - wnominate_results.csv
`

var cmdSet *subcmd.CommandSetYAML

func init() {
	cmdSet = subcmd.MustFromYAML(spec)
	cmdSet.Set("bills").MustRunner(billsCmd, &assemblycmd.BillsFlags{})
	cmdSet.Set("filter").MustRunner(filterCmd, &assemblycmd.FilterFlags{})
	cmdSet.Set("votes").MustRunner(votesCmd, &assemblycmd.VotesFlags{})
	cmdSet.Set("report").MustRunner(reportCmd, &assemblycmd.ReportFlags{})
	cmdSet.Set("plot").MustRunner(plotCmd, &assemblycmd.PlotFlags{})
}

func newCommand(ctx context.Context, fv assemblycmd.CommonFlags) (context.Context, *assemblycmd.Command, error) {
	level := slog.LevelInfo
	if fv.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	ctx = ctxlog.WithLogger(ctx, logger)
	cmd, err := assemblycmd.NewCommand(ctx, fv)
	return ctx, cmd, err
}

func billsCmd(ctx context.Context, values any, _ []string) error {
	fv := values.(*assemblycmd.BillsFlags)
	ctx, cmd, err := newCommand(ctx, fv.CommonFlags)
	if err != nil {
		return err
	}
	return cmd.Bills(ctx, fv)
}

func filterCmd(ctx context.Context, values any, args []string) error {
	fv := values.(*assemblycmd.FilterFlags)
	ctx, cmd, err := newCommand(ctx, fv.CommonFlags)
	if err != nil {
		return err
	}
	return cmd.Filter(ctx, fv, args[0])
}

func votesCmd(ctx context.Context, values any, args []string) error {
	fv := values.(*assemblycmd.VotesFlags)
	ctx, cmd, err := newCommand(ctx, fv.CommonFlags)
	if err != nil {
		return err
	}
	return cmd.Votes(ctx, fv, args[0])
}

func reportCmd(ctx context.Context, values any, args []string) error {
	fv := values.(*assemblycmd.ReportFlags)
	ctx, cmd, err := newCommand(ctx, fv.CommonFlags)
	if err != nil {
		return err
	}
	return cmd.Report(ctx, fv, args[0])
}

func plotCmd(ctx context.Context, values any, args []string) error {
	fv := values.(*assemblycmd.PlotFlags)
	ctx, cmd, err := newCommand(ctx, fv.CommonFlags)
	if err != nil {
		return err
	}
	return cmd.Plot(ctx, fv, args[0])
}

// exitCode returns 2 if the API key is unavailable and 1 for all other
// errors.
func exitCode(err error) int {
	if errors.Is(err, apitokens.ErrCredentialUnavailable) {
		return 2
	}
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmdSet.Dispatch(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "assembly: %v\n", err)
		os.Exit(exitCode(err))
	}
}
