// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package wnominate

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Default chart filenames.
const (
	DistributionChart = "wnominate_distribution_3parties.png"
	BoxPlotChart      = "wnominate_party_boxplot_3parties.png"
	PerformanceChart  = "wnominate_party_performance_3parties.png"
)

// Charts renders the W-NOMINATE charts.
type Charts struct {
	Parties []Party
	// TopN legislators, by CC, are labelled in the distribution chart.
	TopN   int
	Width  vg.Length
	Height vg.Length
	hangul bool
}

// ChartOption represents an option to NewCharts.
type ChartOption func(*Charts) error

// WithParties sets the parties to be charted.
func WithParties(parties ...Party) ChartOption {
	return func(c *Charts) error {
		c.Parties = parties
		return nil
	}
}

// WithTopN sets the number of legislators labelled per party.
func WithTopN(n int) ChartOption {
	return func(c *Charts) error {
		c.TopN = n
		return nil
	}
}

// WithFont loads a TrueType or OpenType font and makes it the default
// for all charts. Party names, rather than their labels, are used when a
// font is supplied since the built-in fonts have no Hangul glyphs.
func WithFont(filename string) ChartOption {
	return func(c *Charts) error {
		buf, err := os.ReadFile(filename)
		if err != nil {
			return err
		}
		face, err := opentype.Parse(buf)
		if err != nil {
			return fmt.Errorf("%v: %w", filename, err)
		}
		fnt := font.Font{Typeface: font.Typeface(filepath.Base(filename))}
		font.DefaultCache.Add(font.Collection{{Font: fnt, Face: face}})
		plot.DefaultFont = fnt
		plotter.DefaultFont = fnt
		c.hangul = true
		return nil
	}
}

// NewCharts returns a new Charts with the default parties, 5 labelled
// legislators per party and a 12x8 inch canvas.
func NewCharts(opts ...ChartOption) (*Charts, error) {
	c := &Charts{
		Parties: DefaultParties,
		TopN:    5,
		Width:   12 * vg.Inch,
		Height:  8 * vg.Inch,
	}
	for _, fn := range opts {
		if err := fn(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Charts) label(p Party) string {
	if c.hangul || len(p.Label) == 0 {
		return p.Name
	}
	return p.Label
}

// TopByCC returns up to n legislators with the highest correct
// classification rate, legislators with no CC are skipped.
func TopByCC(legislators []Legislator, n int) []Legislator {
	var scored []Legislator
	for _, l := range legislators {
		if !l.CC.Missing() {
			scored = append(scored, l)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CC > scored[j].CC
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

func coordinates(legislators []Legislator) plotter.XYs {
	var xys plotter.XYs
	for _, l := range legislators {
		if l.Coord1D.Missing() || l.Coord2D.Missing() {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(l.Coord1D), Y: float64(l.Coord2D)})
	}
	return xys
}

func axisLine(x0, y0, x1, y1 float64) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = color.Gray{Y: 128}
	l.LineStyle.Width = vg.Points(0.5)
	l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	return l, nil
}

// Distribution plots coord1D against coord2D for each party and labels
// the TopN legislators in each party by CC.
func (c *Charts) Distribution(legislators []Legislator) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "W-NOMINATE Ideal Points"
	p.X.Label.Text = "First Dimension"
	p.Y.Label.Text = "Second Dimension"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	minX, maxX, minY, maxY := math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)
	for _, party := range c.Parties {
		members := ByParty(legislators, party.Name)
		xys := coordinates(members)
		if len(xys) == 0 {
			continue
		}
		for _, xy := range xys {
			minX, maxX = math.Min(minX, xy.X), math.Max(maxX, xy.X)
			minY, maxY = math.Min(minY, xy.Y), math.Max(maxY, xy.Y)
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = party.Color
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("%s (n=%d)", c.label(party), len(members)), s)

		var top plotter.XYs
		var names []string
		for _, l := range TopByCC(members, c.TopN) {
			if l.Coord1D.Missing() || l.Coord2D.Missing() {
				continue
			}
			top = append(top, plotter.XY{X: float64(l.Coord1D), Y: float64(l.Coord2D)})
			names = append(names, l.Name)
		}
		if len(top) == 0 {
			continue
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: top, Labels: names})
		if err != nil {
			return nil, err
		}
		labels.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(5)}
		p.Add(labels)
	}
	if minX > maxX {
		return p, nil
	}
	horiz, err := axisLine(math.Min(minX, 0), 0, math.Max(maxX, 0), 0)
	if err != nil {
		return nil, err
	}
	vert, err := axisLine(0, math.Min(minY, 0), 0, math.Max(maxY, 0))
	if err != nil {
		return nil, err
	}
	p.Add(horiz, vert)
	return p, nil
}

// BoxPlot plots the distribution of coord1D for each party.
func (c *Charts) BoxPlot(legislators []Legislator) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "First Dimension by Party"
	p.X.Label.Text = "First Dimension"
	p.Add(plotter.NewGrid())
	var labels []string
	for _, party := range c.Parties {
		values := plotter.Values(column(ByParty(legislators, party.Name), coord1D))
		if len(values) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(40), float64(len(labels)), values)
		if err != nil {
			return nil, err
		}
		b.Horizontal = true
		b.FillColor = party.Color
		p.Add(b)
		labels = append(labels, c.label(party))
	}
	if len(labels) > 0 {
		p.NominalY(labels...)
	}
	return p, nil
}

// Performance plots the mean GMP and mean CC for each party as grouped
// bars, each bar labelled with its value.
func (c *Charts) Performance(legislators []Legislator) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Model Fit by Party"
	p.Y.Label.Text = "Mean"
	p.Legend.Top = true
	var gmps, ccs plotter.Values
	var labels []string
	for _, party := range c.Parties {
		members := ByParty(legislators, party.Name)
		if len(members) == 0 {
			continue
		}
		gmps = append(gmps, zeroIfNaN(moments(column(members, gmp)).Mean))
		ccs = append(ccs, zeroIfNaN(moments(column(members, cc)).Mean))
		labels = append(labels, c.label(party))
	}
	if len(labels) == 0 {
		return p, nil
	}
	width := vg.Points(30)
	for _, series := range []struct {
		name   string
		values plotter.Values
		color  color.Color
		offset vg.Length
	}{
		{"GMP", gmps, gmpColor, -width / 2},
		{"CC", ccs, ccColor, width / 2},
	} {
		bars, err := plotter.NewBarChart(series.values, width)
		if err != nil {
			return nil, err
		}
		bars.Color = series.color
		bars.Offset = series.offset
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.Legend.Add(series.name, bars)

		xys := make(plotter.XYs, len(series.values))
		text := make([]string, len(series.values))
		for j, v := range series.values {
			xys[j] = plotter.XY{X: float64(j), Y: v}
			text[j] = fmt.Sprintf("%.3f", v)
		}
		values, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
		if err != nil {
			return nil, err
		}
		values.Offset = vg.Point{X: series.offset - width/3, Y: vg.Points(3)}
		p.Add(values)
	}
	p.NominalX(labels...)
	p.Y.Min = 0
	return p, nil
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// Save renders all three charts into dir using the default filenames and
// returns the names of the files written.
func (c *Charts) Save(dir string, legislators []Legislator) ([]string, error) {
	var written []string
	for _, chart := range []struct {
		name string
		fn   func([]Legislator) (*plot.Plot, error)
	}{
		{DistributionChart, c.Distribution},
		{BoxPlotChart, c.BoxPlot},
		{PerformanceChart, c.Performance},
	} {
		p, err := chart.fn(legislators)
		if err != nil {
			return written, fmt.Errorf("%v: %w", chart.name, err)
		}
		filename := filepath.Join(dir, chart.name)
		if err := p.Save(c.Width, c.Height, filename); err != nil {
			return written, err
		}
		written = append(written, filename)
	}
	return written, nil
}
