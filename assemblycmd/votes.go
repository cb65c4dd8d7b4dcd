// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package assemblycmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloudeng.io/cmdutil/flags"
	"cloudeng.io/errors"
	"cloudeng.io/file/checkpoint"
	"cloudeng.io/logging/ctxlog"
	"cloudeng.io/webapi/clients/assembly"
	"cloudeng.io/webapi/clients/assembly/harvest"
	"cloudeng.io/webapi/clients/assembly/records"
	"cloudeng.io/webapi/clients/assembly/report"
)

type VotesFlags struct {
	CommonFlags
	Resume   bool               `subcmd:"resume,false,'resume from the most recent checkpoint'"`
	Entities flags.IntRangeSpec `subcmd:"entities,,'range of bills, 1-based and inclusive, to collect votes for, eg. 1-100 or 101-'"`
	Output   string             `subcmd:"output,,'votes CSV file, defaults to <output_dir>/voting_info_<age>_<timestamp>.csv'"`
}

type ReportFlags struct {
	CommonFlags
	Output string `subcmd:"output,,'file to write the report to in addition to stdout'"`
}

// ProgressLogName is the name of the progress log written by the votes
// command.
const ProgressLogName = "voting_collection_progress.txt"

func (c *Command) votesHarvester(ctx context.Context, fv *VotesFlags, op checkpoint.Operation, progress *report.ProgressLog) (*harvest.Harvester, error) {
	cfg := c.Config
	age := cfg.Service.Age
	opts := []harvest.Option{
		harvest.WithPacing(cfg.Harvest.Pacing),
		harvest.WithCheckpoints(cfg.Harvest.CheckpointEvery, harvest.CSVCheckpointer{
			Dir:    cfg.Service.OutputDir,
			Prefix: fmt.Sprintf("voting_info_%d", age),
			State:  op,
		}),
		harvest.WithObservers(LogObserver{}, progress),
	}
	if fv.Resume {
		state, recs, err := harvest.Resume(ctx, op)
		if err != nil {
			return nil, err
		}
		if state.Processed > 0 {
			ctxlog.Info(ctx, "assembly: resuming", "processed", state.Processed, "records", len(recs), "checkpoint", state.File)
			opts = append(opts, harvest.WithResume(state, recs))
		}
	}
	fetcher := assembly.VoteFetcher{Client: c.client(), Age: age}
	return harvest.New(fetcher, opts...), nil
}

// Votes collects the plenary votes for each of the bills in the named
// CSV file, which must have a BILL_ID column. Progress is written to a
// log file and all records collected so far are periodically
// checkpointed so that an interrupted harvest can be resumed. The
// votes are written to a CSV file along with a summary report.
// Cancelling the context stops the harvest after the current bill, the
// votes collected so far are still written.
func (c *Command) Votes(ctx context.Context, fv *VotesFlags, billsFile string) error {
	ctx, err := c.authorize(ctx)
	if err != nil {
		return err
	}
	cfg := c.Config
	entities, err := harvest.LoadEntities(billsFile, assembly.FieldBillID, assembly.FieldBillNm)
	if err != nil {
		return err
	}
	entities = harvest.Select(entities, fv.Entities)
	if err := c.prepareOutput(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Harvest.CheckpointDir, 0700); err != nil {
		return err
	}
	op, err := checkpoint.NewDirectoryOperation(cfg.Harvest.CheckpointDir)
	if err != nil {
		return err
	}
	age := cfg.Service.Age
	progress, err := report.CreateProgressLog(cfg.output(ProgressLogName),
		fmt.Sprintf("vote collection: assembly %d, %v", age, billsFile), cfg.Harvest.ProgressEvery)
	if err != nil {
		return err
	}
	h, err := c.votesHarvester(ctx, fv, op, progress)
	if err != nil {
		progress.Close() //nolint:errcheck
		return err
	}

	res := h.Run(ctx, entities)

	var errs errors.M
	errs.Append(progress.Close())
	if len(res.Records) == 0 {
		ctxlog.Info(ctx, "assembly: no votes collected", "bills", res.Attempted())
	} else {
		errs.Append(c.writeVotes(ctx, fv.Output, res))
	}
	switch {
	case res.Interrupted == nil:
		errs.Append(op.Compact(ctx, ""))
	case ctx.Err() != nil:
		ctxlog.Info(ctx, "assembly: harvest cancelled, use --resume to continue", "processed", res.Attempted(), "bills", res.Total)
	default:
		errs.Append(res.Interrupted)
	}
	return errs.Err()
}

func (c *Command) writeVotes(ctx context.Context, output string, res harvest.Result) error {
	now := c.now()
	ts := now.Format(TimestampFormat)
	age := c.Config.Service.Age
	if len(output) == 0 {
		output = c.Config.output(fmt.Sprintf("voting_info_%d_%s.csv", age, ts))
	}
	if err := records.WriteFile(output, res.Records); err != nil {
		return err
	}
	ctxlog.Info(ctx, "assembly: votes written", "file", output, "records", len(res.Records))
	summary := report.AnalyzeVotes(res.Records, c.Config.Service.TopN)
	return c.writeReport(ctx, c.Config.output("voting_analysis_"+ts+".txt"),
		func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "bills: %v of %v (success: %v, empty: %v, error: %v)\n",
				res.Attempted(), res.Total, res.Counts.Success, res.Counts.Empty, res.Counts.Error); err != nil {
				return err
			}
			return summary.Write(w, fmt.Sprintf("vote analysis: assembly %d", age), now)
		})
}

// Report recomputes the vote summary for a previously written votes
// CSV file.
func (c *Command) Report(ctx context.Context, fv *ReportFlags, votesFile string) error {
	tbl, err := records.ReadFile(votesFile)
	if err != nil {
		return err
	}
	summary := report.AnalyzeVotes(tbl.Records, c.Config.Service.TopN)
	write := func(w io.Writer) error {
		return summary.Write(w, "vote analysis: "+votesFile, c.now())
	}
	if len(fv.Output) == 0 {
		return write(c.out())
	}
	return c.writeReport(ctx, fv.Output, write)
}
