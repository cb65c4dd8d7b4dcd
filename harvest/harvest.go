// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package harvest provides a sequential, paced, bulk harvester that
// fetches the records for each of a list of entities, periodically
// checkpointing the records collected so far.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloudeng.io/webapi/clients/assembly/operations"
	"cloudeng.io/webapi/clients/assembly/records"
)

// ErrPanic is wrapped by Result.Interrupted when a harvest is stopped
// by a panic.
var ErrPanic = errors.New("harvest: panic")

// Entity is a single unit of work, eg. a bill.
type Entity struct {
	ID   string
	Name string
}

// Fetcher fetches all of the records for a single entity. An empty,
// non-nil error free, result indicates that the entity has no records.
type Fetcher interface {
	Fetch(ctx context.Context, e Entity) ([]records.Record, error)
}

// FetcherFunc is an adapter to allow the use of ordinary functions as
// Fetchers.
type FetcherFunc func(ctx context.Context, e Entity) ([]records.Record, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, e Entity) ([]records.Record, error) {
	return f(ctx, e)
}

// Outcome is the classification of a single entity.
type Outcome int

const (
	Success Outcome = iota
	Empty
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Empty:
		return "empty"
	case Failed:
		return "error"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Counts are the number of entities for each outcome.
type Counts struct {
	Success int `json:"success"`
	Empty   int `json:"empty"`
	Error   int `json:"error"`
}

// Total returns the number of entities counted.
func (c Counts) Total() int {
	return c.Success + c.Empty + c.Error
}

func (c *Counts) add(o Outcome) {
	switch o {
	case Success:
		c.Success++
	case Empty:
		c.Empty++
	case Failed:
		c.Error++
	}
}

// Result is the result of a harvest. Records and Counts are always
// valid, even if the harvest was interrupted.
type Result struct {
	Records     []records.Record
	Counts      Counts
	Total       int      // The number of entities to be harvested.
	Checkpoints []string // The names of the checkpoints written.
	// Interrupted is non-nil if the harvest did not process every
	// entity, it is the context's cause or wraps ErrPanic.
	Interrupted error
}

// Attempted returns the number of entities processed.
func (r Result) Attempted() int {
	return r.Counts.Total()
}

// Option represents an option to New.
type Option func(*Harvester)

// WithPacing sets the delay between entities, the default is one second.
func WithPacing(d time.Duration) Option {
	return func(h *Harvester) {
		h.pacing = d
	}
}

// WithCheckpoints enables checkpointing of all records collected after
// every n processed entities.
func WithCheckpoints(every int, c Checkpointer) Option {
	return func(h *Harvester) {
		h.every = every
		h.checkpointer = c
	}
}

// WithObservers adds observers that are notified of harvest events.
func WithObservers(o ...Observer) Option {
	return func(h *Harvester) {
		h.observers = append(h.observers, o...)
	}
}

// WithSleep overrides the function used to wait between entities.
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(h *Harvester) {
		h.sleep = fn
	}
}

// WithResume resumes a harvest from a previously saved State and its
// records, the first state.Processed entities are skipped.
func WithResume(state State, recs []records.Record) Option {
	return func(h *Harvester) {
		h.resume = state
		h.resumed = recs
	}
}

// Harvester processes entities sequentially.
type Harvester struct {
	fetcher      Fetcher
	pacing       time.Duration
	every        int
	checkpointer Checkpointer
	observers    []Observer
	sleep        func(context.Context, time.Duration) error
	resume       State
	resumed      []records.Record
}

// DefaultCheckpointEvery is the default number of entities between
// checkpoints.
const DefaultCheckpointEvery = 100

// New returns a new Harvester.
func New(fetcher Fetcher, opts ...Option) *Harvester {
	h := &Harvester{
		fetcher: fetcher,
		pacing:  time.Second,
		every:   DefaultCheckpointEvery,
		sleep:   operations.Sleep,
	}
	for _, fn := range opts {
		fn(h)
	}
	return h
}

// Run processes the entities in order, one at a time, with the
// configured pacing between them. Cancellation of the context is
// checked between entities, an in-flight fetch is allowed to complete.
// A panic is recovered and treated as an interruption.
func (h *Harvester) Run(ctx context.Context, entities []Entity) Result {
	res := Result{
		Records: append([]records.Record{}, h.resumed...),
		Counts:  h.resume.Counts,
		Total:   len(entities),
	}
	start := min(h.resume.Processed, len(entities))
	h.notify(ctx, Event{Kind: Started, Index: start, Total: len(entities), Counts: res.Counts, Cumulative: len(res.Records)})
	h.loop(ctx, entities, start, &res)
	if res.Interrupted != nil {
		h.notify(ctx, Event{Kind: Interrupted, Index: res.Attempted(), Total: len(entities), Counts: res.Counts, Cumulative: len(res.Records), Err: res.Interrupted})
	}
	h.notify(ctx, Event{Kind: Finished, Index: res.Attempted(), Total: len(entities), Counts: res.Counts, Cumulative: len(res.Records), Err: res.Interrupted})
	return res
}

func (h *Harvester) loop(ctx context.Context, entities []Entity, start int, res *Result) {
	defer func() {
		if r := recover(); r != nil {
			res.Interrupted = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	total := len(entities)
	for i := start; i < total; i++ {
		if ctx.Err() != nil {
			res.Interrupted = context.Cause(ctx)
			return
		}
		entity, processed := entities[i], i+1
		h.notify(ctx, Event{Kind: EntityStarted, Index: processed, Total: total, Entity: entity, Counts: res.Counts, Cumulative: len(res.Records)})
		recs, err := h.fetcher.Fetch(context.WithoutCancel(ctx), entity)
		outcome := Success
		switch {
		case err != nil:
			outcome = Failed
		case len(recs) == 0:
			outcome = Empty
		default:
			res.Records = append(res.Records, recs...)
		}
		res.Counts.add(outcome)
		h.notify(ctx, Event{Kind: EntityDone, Index: processed, Total: total, Entity: entity, Outcome: outcome, Records: len(recs), Cumulative: len(res.Records), Counts: res.Counts, Err: err})
		h.maybeCheckpoint(ctx, processed, total, res)
		if processed == total {
			return
		}
		if err := h.sleep(ctx, h.pacing); err != nil {
			res.Interrupted = context.Cause(ctx)
			if res.Interrupted == nil {
				res.Interrupted = err
			}
			return
		}
	}
}

func (h *Harvester) maybeCheckpoint(ctx context.Context, processed, total int, res *Result) {
	if h.checkpointer == nil || h.every <= 0 || processed%h.every != 0 || len(res.Records) == 0 {
		return
	}
	name, err := h.checkpointer.Checkpoint(ctx, State{
		Processed: processed,
		Counts:    res.Counts,
		Records:   len(res.Records),
	}, res.Records)
	ev := Event{Kind: CheckpointWritten, Index: processed, Total: total, Counts: res.Counts, Cumulative: len(res.Records), Checkpoint: name, Err: err}
	if err != nil {
		ev.Kind = CheckpointFailed
	} else {
		res.Checkpoints = append(res.Checkpoints, name)
	}
	h.notify(ctx, ev)
}

func (h *Harvester) notify(ctx context.Context, ev Event) {
	ev.Time = time.Now()
	for _, o := range h.observers {
		o.Observe(ctx, ev)
	}
}
