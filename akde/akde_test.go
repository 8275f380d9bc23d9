// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package akde

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/aclements/go-moremath/vec"
)

func effKDE() *KDE {
	return &KDE{
		Grid:    vec.Linspace(0, 10, 1001),
		Samples: []float64{3.5, 4, 4.2, 5, 5.5, 6, 6.1, 7.5},
		Scale:   0.4,
	}
}

func TestGlobalBandwidth(t *testing.T) {
	k := &KDE{Samples: []float64{1, 2, 3, 4, 5}}
	// Population σ of 1..5 is √2.
	want := math.Pow(4*math.Pow(math.Sqrt2, 5)/15, 0.2)
	if got := k.GlobalBandwidth(); math.Abs(got-want) > 1e-12 {
		t.Errorf("GlobalBandwidth() = %v, want %v", got, want)
	}

	k = &KDE{Samples: []float64{3, 3, 3}}
	if got := k.GlobalBandwidth(); got != 1 {
		t.Errorf("GlobalBandwidth() of equal samples = %v, want 1", got)
	}
	if got := k.BandwidthAt(State{}, 3); got != 1 {
		t.Errorf("BandwidthAt(uninitialized) = %v, want 1", got)
	}
}

func TestDensityAt(t *testing.T) {
	k := &KDE{Grid: []float64{0, 1, 2, 3}, Scale: 2}
	st := State{density: []float64{10, 11, 12, 16}}
	check := func(x, want float64) {
		t.Helper()
		if got := k.DensityAt(st, x); got != want {
			t.Errorf("DensityAt(%v) = %v, want %v", x, got, want)
		}
	}
	check(-5, 10)
	check(0, 10)
	check(1, 11)
	check(1.5, 12)
	check(3, 16)
	check(4, 16)

	if got := k.BandwidthAt(st, 2.5); got != 0.5 {
		t.Errorf("BandwidthAt(2.5) = %v, want 0.5", got)
	}
}

func TestDensityAtUninitialized(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("DensityAt on zero state did not panic")
		}
	}()
	k := &KDE{Grid: []float64{0, 1, 2}}
	k.DensityAt(State{}, 1)
}

func TestComputeDensity(t *testing.T) {
	k := effKDE()
	d, err := k.ComputeDensity(State{})
	if err != nil {
		t.Fatal(err)
	}
	if len(d) != len(k.Grid) {
		t.Fatalf("got %d values, want %d", len(d), len(k.Grid))
	}
	for i, v := range d {
		if v < 0 {
			t.Fatalf("density[%d] = %v < 0", i, v)
		}
	}
	if a := Area(k.Grid, d); math.Abs(a-1) > 1e-6 {
		t.Errorf("Area = %v, want 1", a)
	}
}

func TestRefine(t *testing.T) {
	k := effKDE()
	series, err := k.DensitySeries(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(series) != 3 {
		t.Fatalf("DensitySeries(3) has %d entries", len(series))
	}
	d, st, err := k.Refine(3)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(d, series[2]) {
		t.Errorf("Refine(3) differs from DensitySeries(3)[2]")
	}
	if !reflect.DeepEqual(st.Density(), d) {
		t.Errorf("Refine state does not carry the final density")
	}

	d1, _, err := k.Refine(1)
	if err != nil {
		t.Fatal(err)
	}
	d0, _ := k.ComputeDensity(State{})
	if !reflect.DeepEqual(d1, d0) {
		t.Errorf("Refine(1) differs from one pass from the zero state")
	}

	// Refined passes use per-sample bandwidths.
	if reflect.DeepEqual(series[0], series[1]) {
		t.Errorf("second pass equals first pass")
	}
	for i, d := range series {
		if a := Area(k.Grid, d); math.Abs(a-1) > Tolerance {
			t.Errorf("pass %d: Area = %v", i+1, a)
		}
	}

	if _, err := k.DensitySeries(0); err == nil {
		t.Errorf("DensitySeries(0): want error")
	}
}

func TestSampleOutOfRange(t *testing.T) {
	k := effKDE()
	k.Samples = append(k.Samples, 11)
	if _, err := k.ComputeDensity(State{}); !errors.Is(err, ErrSampleOutOfRange) {
		t.Errorf("ComputeDensity: got %v, want ErrSampleOutOfRange", err)
	}
	if _, err := k.CDF(State{}); !errors.Is(err, ErrSampleOutOfRange) {
		t.Errorf("CDF: got %v, want ErrSampleOutOfRange", err)
	}

	// Without clipping, the sample is allowed.
	k.NoClip = true
	if _, err := k.ComputeDensity(State{}); err != nil {
		t.Errorf("ComputeDensity without clipping: %v", err)
	}
}

func TestNormalizationError(t *testing.T) {
	// A three point grid is far too coarse for a unit bandwidth:
	// Simpson's rule gives about 1.0155.
	k := &KDE{Grid: []float64{0, 1, 2}, Samples: []float64{1, 1}}
	_, err := k.ComputeDensity(State{})
	var nerr *NormalizationError
	if !errors.As(err, &nerr) {
		t.Fatalf("got %v, want *NormalizationError", err)
	}
	if math.Abs(nerr.Area-1.0155) > 1e-3 {
		t.Errorf("Area = %v, want about 1.0155", nerr.Area)
	}

	k.NoClip = true
	if _, err := k.ComputeDensity(State{}); err != nil {
		t.Errorf("without clipping: %v", err)
	}
}

func TestBadGrid(t *testing.T) {
	for _, grid := range [][]float64{
		{0, 1},
		{0, 1, 1, 2},
		{2, 1, 0},
	} {
		k := &KDE{Grid: grid, Samples: []float64{1}}
		if _, err := k.ComputeDensity(State{}); err == nil {
			t.Errorf("grid %v: want error", grid)
		}
	}
}

func TestCDF(t *testing.T) {
	k := effKDE()
	_, st, err := k.Refine(2)
	if err != nil {
		t.Fatal(err)
	}
	cdf, err := k.CDF(st)
	if err != nil {
		t.Fatal(err)
	}
	if cdf[0] != 0 {
		t.Errorf("cdf[0] = %v, want 0", cdf[0])
	}
	for i := 1; i < len(cdf); i++ {
		if cdf[i] < cdf[i-1] {
			t.Fatalf("cdf decreases at %d: %v < %v", i, cdf[i], cdf[i-1])
		}
	}
	if last := cdf[len(cdf)-1]; math.Abs(last-1) > 1e-9 {
		t.Errorf("cdf ends at %v, want 1", last)
	}
}
