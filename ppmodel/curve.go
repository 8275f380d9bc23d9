// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ppmodel

import (
	"math"
	"sort"
)

// A CurvePoint is the portability score over the Count best platforms.
type CurvePoint struct {
	Count int
	Score float64
}

// A RankValue pairs an efficiency with its rank. Ranks run from the
// number of efficiencies down to 1, so the worst efficiency has the
// highest rank.
type RankValue struct {
	Rank  int
	Value float64
}

// A Curve iterates over the portability of an application as the
// worst platforms are dropped one at a time.
//
// Its API is modeled on bufio.Scanner:
//
//	c, err := sess.PortabilityCurve(app, platforms, ppmodel.Applicational)
//	...
//	for c.Next() {
//		pt := c.Point()
//		...
//	}
type Curve struct {
	effs  []float64
	names []string
	i     int
	pt    CurvePoint
}

// PortabilityCurve returns the portability curve of app over the given
// platforms.
//
// The efficiencies of app on the platforms it has measurements for
// are sorted in increasing order. The curve starts with all of them
// and at each step drops the single worst one, so Count runs from the
// number of measured platforms down to 1. Platforms with equal
// efficiency keep their order in platforms. Because the harmonic mean
// is dominated by small values, Score never decreases along the curve.
func (s *Session) PortabilityCurve(app *Application, platforms []string, kind Kind) (*Curve, error) {
	effs, names, err := s.found(app, platforms, kind)
	if err != nil {
		return nil, err
	}
	perm := make([]int, len(effs))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		return effs[perm[i]] < effs[perm[j]]
	})
	c := &Curve{effs: make([]float64, len(effs)), names: make([]string, len(effs))}
	for i, p := range perm {
		c.effs[i], c.names[i] = effs[p], names[p]
	}
	return c, nil
}

// Len returns the total number of points of c.
func (c *Curve) Len() int {
	return len(c.effs)
}

// Next advances c to the next point. It returns false when there are
// no points left.
func (c *Curve) Next() bool {
	if c.i >= len(c.effs) {
		return false
	}
	c.pt = CurvePoint{Count: len(c.effs) - c.i, Score: HarmonicMean(c.effs[c.i:])}
	c.i++
	return true
}

// Point returns the current point. It is only valid after Next
// returns true.
func (c *Curve) Point() CurvePoint {
	return c.pt
}

// Worst returns the name of the worst platform included in the
// current point, which is the platform the next point drops.
func (c *Curve) Worst() string {
	if c.i == 0 {
		return ""
	}
	return c.names[c.i-1]
}

// Points consumes the rest of c and returns its points.
func (c *Curve) Points() []CurvePoint {
	var pts []CurvePoint
	for c.Next() {
		pts = append(pts, c.Point())
	}
	return pts
}

// PPCDF returns the discrete portability distribution of app over the
// given platforms.
//
// Only real runs are considered: failed measurements are dropped
// rather than counted as zero efficiency. The efficiencies are sorted
// in increasing order. pps holds, for each suffix of that order, the
// suffix length and its harmonic mean. effs pairs each sorted
// efficiency with its rank.
func (s *Session) PPCDF(app *Application, platforms []string, kind Kind) (pps []CurvePoint, effs []RankValue, err error) {
	var vals []float64
	for _, p := range platforms {
		if _, known := s.platIdx[p]; !known {
			return nil, nil, errUnknown(p)
		}
		perf, ok := app.perfs[p]
		if !ok || !valid(perf) {
			continue
		}
		eff, _, err := s.Efficiency(app, p, kind)
		if err != nil {
			return nil, nil, err
		}
		vals = append(vals, eff)
	}
	pps, effs = rankCDF(vals)
	return pps, effs, nil
}

// PPCDFRawEffs is PPCDF over precomputed efficiencies. Values that are
// not positive and finite are dropped.
func PPCDFRawEffs(values []float64) (pps []CurvePoint, effs []RankValue) {
	var vals []float64
	for _, v := range values {
		if v > 0 && !math.IsInf(v, 0) {
			vals = append(vals, v)
		}
	}
	return rankCDF(vals)
}

// rankCDF sorts vals in place and builds the suffix harmonic means and
// rank listing.
func rankCDF(vals []float64) ([]CurvePoint, []RankValue) {
	sort.Float64s(vals)
	n := len(vals)
	pps := make([]CurvePoint, n)
	effs := make([]RankValue, n)
	for i, v := range vals {
		pps[i] = CurvePoint{Count: n - i, Score: HarmonicMean(vals[i:])}
		effs[i] = RankValue{Rank: n - i, Value: v}
	}
	return pps, effs
}
