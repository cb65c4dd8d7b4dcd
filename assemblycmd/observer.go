// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package assemblycmd

import (
	"context"

	"cloudeng.io/logging/ctxlog"
	"cloudeng.io/webapi/clients/assembly/harvest"
)

// LogObserver is a harvest.Observer that logs every event using the
// logger stored in the context.
type LogObserver struct{}

// Observe implements harvest.Observer.
func (LogObserver) Observe(ctx context.Context, ev harvest.Event) {
	c := ev.Counts
	switch ev.Kind {
	case harvest.Started:
		ctxlog.Info(ctx, "assembly: harvest started", "bills", ev.Total, "resumed", ev.Index, "records", ev.Cumulative)
	case harvest.EntityStarted:
		ctxlog.Debug(ctx, "assembly: fetching votes", "index", ev.Index, "total", ev.Total, "bill", ev.Entity.ID)
	case harvest.EntityDone:
		switch ev.Outcome {
		case harvest.Failed:
			ctxlog.Error(ctx, "assembly: failed to fetch votes", "index", ev.Index, "bill", ev.Entity.ID, "name", ev.Entity.Name, "err", ev.Err)
		case harvest.Empty:
			ctxlog.Info(ctx, "assembly: no votes", "index", ev.Index, "bill", ev.Entity.ID, "name", ev.Entity.Name)
		default:
			ctxlog.Info(ctx, "assembly: votes", "index", ev.Index, "bill", ev.Entity.ID, "records", ev.Records, "cumulative", ev.Cumulative)
		}
	case harvest.CheckpointWritten:
		ctxlog.Info(ctx, "assembly: checkpoint written", "file", ev.Checkpoint, "processed", ev.Index, "records", ev.Cumulative)
	case harvest.CheckpointFailed:
		ctxlog.Error(ctx, "assembly: checkpoint failed", "file", ev.Checkpoint, "processed", ev.Index, "err", ev.Err)
	case harvest.Interrupted:
		ctxlog.Error(ctx, "assembly: harvest interrupted", "processed", ev.Index, "bills", ev.Total, "records", ev.Cumulative, "err", ev.Err)
	case harvest.Finished:
		ctxlog.Info(ctx, "assembly: harvest finished", "processed", ev.Index, "bills", ev.Total, "success", c.Success, "empty", c.Empty, "error", c.Error, "records", ev.Cumulative)
	}
}
