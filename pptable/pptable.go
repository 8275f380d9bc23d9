// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package pptable converts portability sessions into long-form tables
// and derives per-application statistics from them.
//
// The tables are go-gg tables, with one row per measured
// (application, platform) pair, so they compose with the rest of the
// go-gg transforms.
package pptable

import (
	"io"
	"reflect"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/perfport/ppmetrics/ppmodel"
)

// Column names of an efficiency table.
const (
	ColApp      = "app"
	ColPlatform = "platform"
	ColCategory = "category"
	ColEff      = "efficiency"
)

// ColPortability is the column Summary adds for the harmonic mean of
// the efficiencies.
const ColPortability = "portability"

// Efficiencies returns a table of the efficiencies, in percent, of
// every application of s on every platform it was measured on.
// Failed runs have efficiency 0.
func Efficiencies(s *ppmodel.Session, kind ppmodel.Kind) (*table.Table, error) {
	var apps, plats, cats []string
	var effs []float64
	for _, a := range s.Apps() {
		for _, p := range s.Platforms() {
			vals, err := s.AppEfficiencies(a, []string{p.Name}, kind)
			if err != nil {
				return nil, err
			}
			if len(vals) == 0 {
				continue
			}
			apps = append(apps, a.Name)
			plats = append(plats, p.Name)
			cats = append(cats, p.Category)
			effs = append(effs, 100*vals[0])
		}
	}
	return new(table.Builder).
		Add(ColApp, apps).
		Add(ColPlatform, plats).
		Add(ColCategory, cats).
		Add(ColEff, effs).
		Done(), nil
}

// FromEffs returns a table of precomputed efficiencies, given as
// fractions. Platforms are named by the position of the value.
func FromEffs(effs []ppmodel.AppEffs, platforms []string) *table.Table {
	var apps, plats []string
	var vals []float64
	for _, e := range effs {
		for i, v := range e.Percent() {
			apps = append(apps, e.App)
			if i < len(platforms) {
				plats = append(plats, platforms[i])
			} else {
				plats = append(plats, "")
			}
			vals = append(vals, v)
		}
	}
	return new(table.Builder).
		Add(ColApp, apps).
		Add(ColPlatform, plats).
		Add(ColEff, vals).
		Done()
}

// ECDF returns the empirical distribution of efficiencies of each
// application in g. Each distribution covers exactly the range of its
// own efficiencies.
func ECDF(g table.Grouping) table.Grouping {
	return ggstat.ECDF{
		X:      ColEff,
		Label:  "platforms",
		Domain: ggstat.DomainData{Widen: 1, SplitGroups: true},
	}.F(table.GroupBy(g, ColApp))
}

// Summary returns one row per application of g with the number of
// platforms and the mean, minimum, maximum and harmonic mean of its
// efficiencies.
func Summary(g table.Grouping) table.Grouping {
	return ggstat.Agg(ColApp)(
		ggstat.AggCount("platforms"),
		ggstat.AggMean(ColEff),
		ggstat.AggMin(ColEff),
		ggstat.AggMax(ColEff),
		aggPortability(ColEff),
	).F(g)
}

// aggPortability is a ggstat.Aggregator computing the harmonic mean
// of col in each group.
func aggPortability(col string) ggstat.Aggregator {
	return func(input table.Grouping, b *table.Builder) {
		out := make([]float64, 0, len(input.Tables()))
		for _, gid := range input.Tables() {
			var xs []float64
			slice.Convert(&xs, input.Table(gid).MustColumn(col))
			out = append(out, ppmodel.HarmonicMean(xs))
		}
		b.Add(ColPortability, out)
	}
}

var float64Type = reflect.TypeOf([]float64(nil))

// Fprint writes g to w. Floating point columns are printed with one
// decimal.
func Fprint(w io.Writer, g table.Grouping) error {
	var formats []string
	for _, col := range g.Columns() {
		if table.ColType(g, col) == float64Type {
			formats = append(formats, "%.1f")
		} else {
			formats = append(formats, "%v")
		}
	}
	return table.Fprint(w, g, formats...)
}
