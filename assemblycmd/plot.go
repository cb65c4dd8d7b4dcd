// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package assemblycmd

import (
	"context"
	"os"

	"cloudeng.io/logging/ctxlog"
	"cloudeng.io/webapi/clients/assembly/wnominate"
)

type PlotFlags struct {
	CommonFlags
	OutputDir string `subcmd:"output-dir,,'directory for the charts, defaults to the configured output_dir'"`
	Font      string `subcmd:"font,,'TrueType or OpenType font file with Hangul glyphs used for chart text'"`
	TopN      int    `subcmd:"top,5,'number of legislators, by correct classification rate, to label per party'"`
}

// Plot summarizes W-NOMINATE results by party and renders the
// distribution, box plot and performance charts.
func (c *Command) Plot(ctx context.Context, fv *PlotFlags, coordinatesFile string) error {
	legislators, err := wnominate.ReadFile(coordinatesFile)
	if err != nil {
		return err
	}
	dir := fv.OutputDir
	if len(dir) == 0 {
		dir = c.Config.Service.OutputDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	opts := []wnominate.ChartOption{wnominate.WithTopN(fv.TopN)}
	if len(fv.Font) > 0 {
		opts = append(opts, wnominate.WithFont(fv.Font))
	}
	charts, err := wnominate.NewCharts(opts...)
	if err != nil {
		return err
	}
	summary := wnominate.Summarize(legislators, charts.Parties)
	if err := summary.Write(c.out()); err != nil {
		return err
	}
	written, err := charts.Save(dir, legislators)
	for _, f := range written {
		ctxlog.Info(ctx, "assembly: chart written", "file", f)
	}
	return err
}
