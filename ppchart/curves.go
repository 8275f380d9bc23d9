// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ppchart

import (
	"fmt"

	"github.com/perfport/ppmetrics/ppmodel"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// A CDFSeries is the portability distribution of one application.
type CDFSeries struct {
	Name string
	PPs  []ppmodel.CurvePoint
	Effs []ppmodel.RankValue
}

// PortabilityCDF plots, for each series, the portability over the best
// k platforms as a step line and the individual efficiencies by rank
// as points.
func PortabilityCDF(series []CDFSeries) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "platforms"
	p.Y.Label.Text = "efficiency"
	p.Y.Min = 0
	p.Legend.Top = true

	for i, s := range series {
		// Curve points run from n down to 1.
		xys := make(plotter.XYs, len(s.PPs))
		for j, pt := range s.PPs {
			xys[len(s.PPs)-1-j] = plotter.XY{X: float64(pt.Count), Y: pt.Score}
		}
		var thumbs []plot.Thumbnailer
		if len(xys) > 0 {
			l, err := plotter.NewLine(xys)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", s.Name, err)
			}
			l.StepStyle = plotter.PreStep
			l.Color = plotutil.Color(i)
			l.Width = vg.Points(1.5)
			p.Add(l)
			thumbs = append(thumbs, l)
		}

		pts := make(plotter.XYs, len(s.Effs))
		for j, rv := range s.Effs {
			pts[j] = plotter.XY{X: float64(rv.Rank), Y: rv.Value}
		}
		if len(pts) > 0 {
			sc, err := plotter.NewScatter(pts)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", s.Name, err)
			}
			sc.Color = plotutil.Color(i)
			sc.Shape = plotutil.Shape(i)
			p.Add(sc)
			thumbs = append(thumbs, sc)
		}
		if len(thumbs) > 0 {
			p.Legend.Add(s.Name, thumbs...)
		}
	}
	return p, nil
}

// A DensitySeries is one named curve over a shared grid.
type DensitySeries struct {
	Name string
	Y    []float64
}

// Densities plots each series against grid as a line.
func Densities(grid []float64, series []DensitySeries) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "efficiency"
	p.Y.Label.Text = "density"
	p.Legend.Top = true

	for i, s := range series {
		if len(s.Y) != len(grid) {
			return nil, fmt.Errorf("%s: %d values for %d grid points", s.Name, len(s.Y), len(grid))
		}
		xys := make(plotter.XYs, len(grid))
		for j, x := range grid {
			xys[j] = plotter.XY{X: x, Y: s.Y[j]}
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		l.Color = plotutil.Color(i)
		l.Dashes = plotutil.Dashes(i)
		p.Add(l)
		if s.Name != "" {
			p.Legend.Add(s.Name, l)
		}
	}
	return p, nil
}
