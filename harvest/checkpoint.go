// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"cloudeng.io/file/checkpoint"
	"cloudeng.io/webapi/clients/assembly/records"
)

// Checkpointer persists the records collected so far.
type Checkpointer interface {
	// Checkpoint is called with the current state of the harvest and
	// all of the records collected so far, it returns the name of the
	// checkpoint written.
	Checkpoint(ctx context.Context, state State, recs []records.Record) (string, error)
}

// State is the resumable state of a harvest.
type State struct {
	Processed int       `json:"processed"`
	File      string    `json:"file,omitempty"`
	Counts    Counts    `json:"counts"`
	Records   int       `json:"records"`
	Time      time.Time `json:"time"`
}

// CSVCheckpointer writes the records to a CSV file named
// <Prefix>_temp_<processed>.csv in Dir. If State is set the harvest
// State, including the CSV file's name, is also saved so that the
// harvest can be resumed.
type CSVCheckpointer struct {
	Dir    string
	Prefix string
	State  checkpoint.Operation
}

// Filename returns the name of the CSV file for the specified number
// of processed entities.
func (c CSVCheckpointer) Filename(processed int) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%s_temp_%d.csv", c.Prefix, processed))
}

// Checkpoint implements Checkpointer.
func (c CSVCheckpointer) Checkpoint(ctx context.Context, state State, recs []records.Record) (string, error) {
	name := c.Filename(state.Processed)
	if err := records.WriteFile(name, recs); err != nil {
		return name, err
	}
	if c.State == nil {
		return name, nil
	}
	state.File = name
	if err := SaveState(ctx, c.State, state); err != nil {
		return name, fmt.Errorf("%v: saving state: %w", name, err)
	}
	return name, nil
}

// SaveState saves the harvest state using the supplied checkpoint
// operation.
func SaveState(ctx context.Context, op checkpoint.Operation, state State) error {
	if state.Time.IsZero() {
		state.Time = time.Now()
	}
	buf, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	_, err = op.Checkpoint(ctx, "", buf)
	return err
}

// LoadState returns the most recently saved harvest state, it returns
// false if there is no saved state.
func LoadState(ctx context.Context, op checkpoint.Operation) (State, bool, error) {
	buf, err := op.Latest(ctx)
	if err != nil || buf == nil {
		return State{}, false, err
	}
	var state State
	if err := json.Unmarshal(buf, &state); err != nil {
		return State{}, false, err
	}
	return state, true, nil
}

// Resume returns the most recently saved harvest state and the records
// from its CSV checkpoint. It returns a zero State and no records if
// there is no saved state.
func Resume(ctx context.Context, op checkpoint.Operation) (State, []records.Record, error) {
	state, ok, err := LoadState(ctx, op)
	if err != nil || !ok {
		return State{}, nil, err
	}
	if len(state.File) == 0 {
		return State{}, nil, fmt.Errorf("harvest: saved state for %v entities has no checkpoint file", state.Processed)
	}
	tbl, err := records.ReadFile(state.File)
	if err != nil {
		return State{}, nil, err
	}
	if got, want := len(tbl.Records), state.Records; got != want {
		return State{}, nil, fmt.Errorf("harvest: %v: contains %v records, expected %v", state.File, got, want)
	}
	return state, tbl.Records, nil
}
