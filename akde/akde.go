// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package akde implements an adaptive Gaussian kernel density
// estimator over a fixed evaluation grid.
//
// The first pass uses a single global bandwidth for every sample. Each
// later pass gives every sample its own bandwidth, inversely
// proportional to the square root of the density the previous pass
// estimated at that sample, so dense regions get narrow kernels and
// sparse regions get wide ones.
//
// By default each kernel is truncated to the grid and rescaled so it
// integrates to 1 over the grid ("clipping"). Every sample must then
// lie within the grid.
//
// The result of a pass is carried to the next as an explicit State:
//
//	k := &akde.KDE{Grid: vec.Linspace(0, 1, 501), Samples: effs, Scale: 0.1}
//	density, st, err := k.Refine(4)
//	...
//	cdf, err := k.CDF(st)
package akde

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// ErrSampleOutOfRange is returned when clipping is enabled and a
// sample lies outside the grid.
var ErrSampleOutOfRange = errors.New("sample outside of grid")

// Tolerance is the largest difference from 1 allowed in the integral of
// a clipped density.
const Tolerance = 1e-3

// A NormalizationError is returned when a clipped density does not
// integrate to 1 over the grid, usually because the grid is too coarse
// for the bandwidths.
type NormalizationError struct {
	Area float64
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("density integrates to %v, want 1±%v", e.Area, Tolerance)
}

// A KDE is an adaptive kernel density estimator.
type KDE struct {
	// Grid is the set of points the density is evaluated at. It
	// must be strictly increasing and have at least 3 points.
	Grid []float64

	// Samples are the observations.
	Samples []float64

	// Scale multiplies the per-sample bandwidths of refined passes.
	Scale float64

	// NoClip disables truncation of the kernels to the grid.
	NoClip bool
}

// A State is the result of a previous density pass. The zero State is
// uninitialized: bandwidths come from the global estimate.
type State struct {
	density []float64
}

// Initialized reports whether st carries a density.
func (st State) Initialized() bool {
	return st.density != nil
}

// Density returns the density st carries, or nil.
func (st State) Density() []float64 {
	return st.density
}

// check validates k before any computation.
func (k *KDE) check() error {
	if len(k.Grid) < 3 {
		return fmt.Errorf("grid has %d points, need at least 3", len(k.Grid))
	}
	for i := 1; i < len(k.Grid); i++ {
		if !(k.Grid[i] > k.Grid[i-1]) {
			return fmt.Errorf("grid is not strictly increasing at index %d", i)
		}
	}
	if len(k.Samples) == 0 {
		return errors.New("no samples")
	}
	if k.NoClip {
		return nil
	}
	lo, hi := k.Grid[0], k.Grid[len(k.Grid)-1]
	for _, s := range k.Samples {
		if !(s >= lo && s <= hi) {
			return fmt.Errorf("%w: %v not in [%v, %v]", ErrSampleOutOfRange, s, lo, hi)
		}
	}
	return nil
}

// GlobalBandwidth returns the bandwidth used by the first pass:
// (4σ⁵/3n)^(1/5), where σ is the population standard deviation of the
// samples. If that is below 1e-7, for example because every sample is
// equal, it returns 1.
func (k *KDE) GlobalBandwidth() float64 {
	sigma := stat.PopStdDev(k.Samples, nil)
	bw := math.Pow(4*math.Pow(sigma, 5)/(3*float64(len(k.Samples))), 1.0/5)
	if !(bw >= 1e-7) {
		return 1
	}
	return bw
}

// BandwidthAt returns the kernel bandwidth for a sample at x.
func (k *KDE) BandwidthAt(st State, x float64) float64 {
	if !st.Initialized() {
		return k.GlobalBandwidth()
	}
	return k.Scale / math.Sqrt(k.DensityAt(st, x))
}

// DensityAt returns the density st estimated at the first grid point
// at or above x. Points beyond the grid use the last density value.
// It panics if st is uninitialized.
func (k *KDE) DensityAt(st State, x float64) float64 {
	if !st.Initialized() {
		panic("akde: DensityAt called with uninitialized state")
	}
	i := sort.SearchFloat64s(k.Grid, x)
	if i >= len(st.density) {
		return st.density[len(st.density)-1]
	}
	return st.density[i]
}

// bandwidths returns the bandwidth of every sample under st.
func (k *KDE) bandwidths(st State) []float64 {
	hs := make([]float64, len(k.Samples))
	if !st.Initialized() {
		bw := k.GlobalBandwidth()
		for i := range hs {
			hs[i] = bw
		}
		return hs
	}
	for i, s := range k.Samples {
		hs[i] = k.BandwidthAt(st, s)
	}
	return hs
}

// scaling returns the factor that makes a kernel centered at s with
// bandwidth h integrate to 1 over the grid.
func (k *KDE) scaling(s, h float64) float64 {
	if k.NoClip {
		return 1
	}
	a := (k.Grid[0] - s) / h
	b := (k.Grid[len(k.Grid)-1] - s) / h
	return 1 / (stats.StdNormal.CDF(b) - stats.StdNormal.CDF(a))
}

// ComputeDensity performs one density pass using the bandwidths
// derived from st.
//
// With clipping enabled, the result must integrate to 1 within
// Tolerance, otherwise ComputeDensity returns a *NormalizationError.
func (k *KDE) ComputeDensity(st State) ([]float64, error) {
	if err := k.check(); err != nil {
		return nil, err
	}
	hs := k.bandwidths(st)
	density := make([]float64, len(k.Grid))
	for j, s := range k.Samples {
		h := hs[j]
		c := k.scaling(s, h) / h
		for i, x := range k.Grid {
			density[i] += c * stats.StdNormal.PDF((x-s)/h)
		}
	}
	n := float64(len(k.Samples))
	for i := range density {
		density[i] /= n
	}
	if !k.NoClip {
		if area := Area(k.Grid, density); !(math.Abs(area-1) < Tolerance) {
			return nil, &NormalizationError{Area: area}
		}
	}
	return density, nil
}

// Refine performs n density passes starting from the uninitialized
// state and returns the final density and the state it defines.
func (k *KDE) Refine(n int) ([]float64, State, error) {
	series, err := k.DensitySeries(n)
	if err != nil {
		return nil, State{}, err
	}
	last := series[len(series)-1]
	return last, State{density: last}, nil
}

// DensitySeries performs n density passes starting from the
// uninitialized state and returns the density of every pass.
func (k *KDE) DensitySeries(n int) ([][]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("need at least 1 pass, got %d", n)
	}
	var st State
	series := make([][]float64, 0, n)
	for i := 0; i < n; i++ {
		d, err := k.ComputeDensity(st)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", i+1, err)
		}
		series = append(series, d)
		st = State{density: d}
	}
	return series, nil
}

// CDF returns the cumulative distribution over the grid, using the
// bandwidths derived from st. It is 0 at the first grid point.
func (k *KDE) CDF(st State) ([]float64, error) {
	if err := k.check(); err != nil {
		return nil, err
	}
	hs := k.bandwidths(st)
	cdf := make([]float64, len(k.Grid))
	for j, s := range k.Samples {
		h := hs[j]
		c := k.scaling(s, h)
		lo := stats.StdNormal.CDF((k.Grid[0] - s) / h)
		for i, x := range k.Grid {
			cdf[i] += c * (stats.StdNormal.CDF((x-s)/h) - lo)
		}
	}
	n := float64(len(k.Samples))
	for i := range cdf {
		cdf[i] /= n
	}
	return cdf, nil
}

// Area returns the integral of density over grid by Simpson's rule.
func Area(grid, density []float64) float64 {
	return integrate.Simpsons(grid, density)
}
