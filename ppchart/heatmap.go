// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package ppchart renders portability results with gonum/plot.
package ppchart

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/perfport/ppmetrics/ppfmt"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// HeatmapOptions controls how a heatmap is colored and labeled.
type HeatmapOptions struct {
	// HigherIsBetter gives high values the bright end of the color
	// map. Otherwise low values are bright.
	HigherIsBetter bool

	// Factor divides every value before it is printed in a cell.
	// Zero means 1.
	Factor float64

	// Percent labels cells as percentages.
	Percent bool

	// Mean adds a final row with the mean of each column and, in
	// its label, the standard deviation.
	Mean bool
}

// MinValue is the bottom of the color range. Smaller values, including
// zero, get the color of the bottom of the range.
const MinValue = 1e-6

// MeanRow is the label of the row added by HeatmapOptions.Mean.
const MeanRow = "mean"

// Label returns the text printed in a cell holding v.
func (o HeatmapOptions) Label(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	f := v / o.factor()
	if o.Percent {
		if f < 100 {
			return fmt.Sprintf("%.1f%%", f)
		}
		return fmt.Sprintf("%.0f%%", f)
	}
	if v != math.Trunc(v) {
		return fmt.Sprintf("%.1f", f)
	}
	return fmt.Sprintf("%.0f", f)
}

func (o HeatmapOptions) factor() float64 {
	if o.Factor == 0 {
		return 1
	}
	return o.Factor
}

// dark reports whether a cell holding v is drawn in a dark color,
// given the largest value max.
func (o HeatmapOptions) dark(v, max float64) bool {
	if o.HigherIsBetter {
		return v < max/3
	}
	return v > 2*max/3
}

// A Grid is the numeric content of a heatmap. Missing cells are NaN.
type Grid struct {
	Rows, Cols []string
	Values     [][]float64 // [row][col]
	Labels     [][]string
}

// NewGrid extracts the heatmap grid from t. Rows without any number
// are skipped.
func NewGrid(t *ppfmt.Table, opts HeatmapOptions) (*Grid, error) {
	if len(t.Columns) == 0 {
		return nil, errors.New("no input columns")
	}
	g := &Grid{Cols: t.Columns}
	for _, row := range t.Rows {
		vals := make([]float64, len(row.Cells))
		found := false
		for i, c := range row.Cells {
			if c.Kind == ppfmt.Number {
				vals[i] = c.Value
				found = true
			} else {
				vals[i] = math.NaN()
			}
		}
		if !found {
			continue
		}
		g.add(row.Key, vals, opts)
	}
	if len(g.Rows) == 0 {
		return nil, errors.New("no rows with results")
	}
	if opts.Mean {
		g.addMean(opts)
	}
	return g, nil
}

func (g *Grid) add(name string, vals []float64, opts HeatmapOptions) {
	labels := make([]string, len(vals))
	for i, v := range vals {
		labels[i] = opts.Label(v)
	}
	g.Rows = append(g.Rows, name)
	g.Values = append(g.Values, vals)
	g.Labels = append(g.Labels, labels)
}

func (g *Grid) addMean(opts HeatmapOptions) {
	n := len(g.Rows)
	vals := make([]float64, len(g.Cols))
	labels := make([]string, len(g.Cols))
	for c := range g.Cols {
		var xs []float64
		for r := 0; r < n; r++ {
			if v := g.Values[r][c]; !math.IsNaN(v) {
				xs = append(xs, v)
			}
		}
		if len(xs) == 0 {
			vals[c] = math.NaN()
			labels[c] = "-"
			continue
		}
		vals[c] = stats.Mean(xs)
		labels[c] = opts.Label(vals[c])
		if len(xs) > 1 {
			sd := stats.StdDev(xs)
			labels[c] += "±" + fmt.Sprintf("%.1f", sd/opts.factor())
		}
	}
	g.Rows = append(g.Rows, MeanRow)
	g.Values = append(g.Values, vals)
	g.Labels = append(g.Labels, labels)
}

// Max returns the largest value in g.
func (g *Grid) Max() float64 {
	max := math.Inf(-1)
	for _, row := range g.Values {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// gridXYZ adapts a Grid to plotter.GridXYZ with the first row at the
// top.
type gridXYZ struct{ g *Grid }

func (x gridXYZ) Dims() (c, r int)   { return len(x.g.Cols), len(x.g.Rows) }
func (x gridXYZ) Z(c, r int) float64 { return x.g.Values[len(x.g.Rows)-1-r][c] }
func (x gridXYZ) X(c int) float64    { return float64(c) }
func (x gridXYZ) Y(r int) float64    { return float64(r) }

const paletteSize = 256

// barXYZ is a single column of n cells that evenly cover [lo, hi],
// each holding the value at its center. Drawn as a heat map it is a
// color bar made only of filled polygons, which every output format
// supports.
type barXYZ struct {
	lo, hi float64
	n      int
}

func (b barXYZ) Dims() (c, r int)   { return 1, b.n }
func (b barXYZ) Z(c, r int) float64 { return b.Y(r) }
func (b barXYZ) X(c int) float64    { return 0 }
func (b barXYZ) Y(r int) float64 {
	return b.lo + (float64(r)+0.5)*(b.hi-b.lo)/float64(b.n)
}

// Heatmap renders t as a heatmap with a labeled value in every cell
// and a color bar on the side.
func Heatmap(t *ppfmt.Table, opts HeatmapOptions) (*Figure, error) {
	g, err := NewGrid(t, opts)
	if err != nil {
		return nil, err
	}
	return g.Plot(opts)
}

// Plot renders g.
func (g *Grid) Plot(opts HeatmapOptions) (*Figure, error) {
	vmax := g.Max()
	lo, hi := MinValue, vmax
	if !(hi > lo) {
		hi = lo * 2
	}
	cm := moreland.BlackBody()
	if !opts.HigherIsBetter {
		cm = palette.Reverse(cm)
	}
	cm.SetMin(lo)
	cm.SetMax(hi)
	pal := cm.Palette(paletteSize)

	hm := plotter.NewHeatMap(gridXYZ{g}, pal)
	hm.Min, hm.Max = lo, hi
	hm.Underflow = pal.Colors()[0]
	hm.NaN = color.White

	p := plot.New()
	p.Add(hm)

	var xys plotter.XYs
	var labels []string
	var dark []bool
	nrows := len(g.Rows)
	for r := range g.Rows {
		for c := range g.Cols {
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(nrows - 1 - r)})
			labels = append(labels, g.Labels[r][c])
			dark = append(dark, opts.dark(g.Values[r][c], vmax))
		}
	}
	lp, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	for i := range lp.TextStyle {
		lp.TextStyle[i].XAlign = draw.XCenter
		lp.TextStyle[i].YAlign = draw.YCenter
		lp.TextStyle[i].Color = color.Black
		if dark[i] {
			lp.TextStyle[i].Color = color.White
		}
	}
	p.Add(lp)

	names := make([]string, nrows)
	for r, name := range g.Rows {
		names[nrows-1-r] = name
	}
	p.NominalX(g.Cols...)
	p.NominalY(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	bar := plot.New()
	bar.HideX()
	scale := plotter.NewHeatMap(barXYZ{lo, hi, paletteSize}, pal)
	scale.Min, scale.Max = lo, hi
	bar.Add(scale)
	bar.Y.Min, bar.Y.Max = lo, hi
	return &Figure{Main: p, Side: bar}, nil
}

// Size returns a drawing size that gives each cell room for its
// label.
func (g *Grid) Size() (w, h vg.Length) {
	w = vg.Length(len(g.Cols)+3) * 1.5 * vg.Centimeter
	h = vg.Length(len(g.Rows)+3) * vg.Centimeter
	return w, h
}
