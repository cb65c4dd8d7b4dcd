// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package wnominate

import "image/color"

// Party is a party to be charted.
type Party struct {
	Name  string // As it appears in the party column.
	Label string // Used in charts when no Hangul capable font is available.
	Color color.RGBA
}

// DefaultParties are the three main parties of the 21st National
// Assembly.
var DefaultParties = []Party{
	{Name: "더불어민주당", Label: "Democratic", Color: color.RGBA{R: 0, G: 0, B: 255, A: 255}},
	{Name: "국민의힘", Label: "People Power", Color: color.RGBA{R: 255, G: 0, B: 0, A: 255}},
	{Name: "정의당", Label: "Justice", Color: color.RGBA{R: 255, G: 255, B: 0, A: 255}},
}

var (
	gmpColor = color.RGBA{R: 135, G: 206, B: 235, A: 255} // skyblue
	ccColor  = color.RGBA{R: 144, G: 238, B: 144, A: 255} // lightgreen
)

func names(parties []Party) []string {
	n := make([]string, len(parties))
	for i, p := range parties {
		n[i] = p.Name
	}
	return n
}
