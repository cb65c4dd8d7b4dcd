// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package harvest

import (
	"context"
	"time"
)

// EventKind identifies the type of an Event.
type EventKind int

const (
	Started EventKind = iota
	EntityStarted
	EntityDone
	CheckpointWritten
	CheckpointFailed
	Interrupted
	Finished
)

func (k EventKind) String() string {
	switch k {
	case Started:
		return "started"
	case EntityStarted:
		return "entity-started"
	case EntityDone:
		return "entity-done"
	case CheckpointWritten:
		return "checkpoint"
	case CheckpointFailed:
		return "checkpoint-failed"
	case Interrupted:
		return "interrupted"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Event describes the progress of a harvest.
type Event struct {
	Kind       EventKind
	Index      int // 1-based index of the entity, or the number processed.
	Total      int
	Entity     Entity
	Outcome    Outcome // Valid for EntityDone.
	Records    int     // Records fetched for Entity.
	Cumulative int     // Records collected so far.
	Counts     Counts
	Checkpoint string
	Err        error
	Time       time.Time
}

// Observer is notified of harvest events, it is called synchronously
// from the harvest loop.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc is an adapter to allow the use of ordinary functions as
// Observers.
type ObserverFunc func(ctx context.Context, ev Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(ctx context.Context, ev Event) {
	f(ctx, ev)
}
