// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"cloudeng.io/errors"
	"cloudeng.io/webapi/clients/assembly/harvest"
)

// ProgressLog is a harvest.Observer that writes a human readable
// progress log. Entries are written when the harvest starts, before
// every Every'th entity, for each checkpoint, on interruption and
// when the harvest finishes.
type ProgressLog struct {
	Title string
	Every int

	mu   sync.Mutex
	w    io.Writer
	f    *os.File
	errs errors.M
}

// NewProgressLog returns a ProgressLog that writes to w.
func NewProgressLog(w io.Writer, title string, every int) *ProgressLog {
	return &ProgressLog{Title: title, Every: every, w: w}
}

// CreateProgressLog creates, or truncates, the named file and returns a
// ProgressLog that writes to it.
func CreateProgressLog(filename, title string, every int) (*ProgressLog, error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	pl := NewProgressLog(f, title, every)
	pl.f = f
	return pl, nil
}

func timestamp(t time.Time) string {
	return t.Format(time.DateTime)
}

func (pl *ProgressLog) printf(format string, args ...any) {
	_, err := fmt.Fprintf(pl.w, format, args...)
	pl.errs.Append(err)
}

// Observe implements harvest.Observer.
func (pl *ProgressLog) Observe(_ context.Context, ev harvest.Event) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	c := ev.Counts
	switch ev.Kind {
	case harvest.Started:
		pl.printf("%v\nstarted: %v\nentities: %v\n", pl.Title, timestamp(ev.Time), ev.Total)
		if ev.Index > 0 {
			pl.printf("resumed after: %v (records: %v)\n", ev.Index, ev.Cumulative)
		}
		pl.printf("\n")
	case harvest.EntityStarted:
		if pl.Every > 0 && (ev.Index-1)%pl.Every == 0 {
			pl.printf("[%v/%v] processing... (success: %v, empty: %v, error: %v)\n", ev.Index, ev.Total, c.Success, c.Empty, c.Error)
		}
	case harvest.CheckpointWritten:
		pl.printf("checkpoint written: %v (%v records)\n", ev.Checkpoint, ev.Cumulative)
	case harvest.CheckpointFailed:
		pl.printf("checkpoint failed: %v: %v\n", ev.Checkpoint, ev.Err)
	case harvest.Interrupted:
		pl.printf("\ninterrupted: %v (%v)\n", ev.Err, timestamp(ev.Time))
	case harvest.Finished:
		pl.printf("\nfinished: %v\n", timestamp(ev.Time))
		pl.printf("- success: %v\n- empty: %v\n- error: %v\n- records: %v\n", c.Success, c.Empty, c.Error, ev.Cumulative)
	}
}

// Close closes the underlying file, if any, and returns any errors
// encountered writing the log.
func (pl *ProgressLog) Close() error {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if pl.f != nil {
		pl.errs.Append(pl.f.Close())
		pl.f = nil
	}
	return pl.errs.Err()
}
