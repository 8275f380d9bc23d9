// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package ppmodel computes performance portability metrics.
//
// A measurement of an application on a platform is turned into an
// efficiency, either relative to the platform's architectural peak
// (architectural efficiency) or relative to the best performance any
// application achieved on that platform (application efficiency).
// Efficiencies across a set of platforms are combined with the
// harmonic mean into a single portability score.
//
// Measurements follow one of two conventions, selected by Mode.
// Under Throughput, higher numbers are better and a failed run is
// recorded as 0. Under Latency, lower numbers are better and a failed
// run is recorded as +Inf. In both cases a failed run has efficiency 0.
package ppmodel

import (
	"errors"
	"fmt"
	"math"
)

// A Mode is the measurement convention of a performance table.
type Mode int

const (
	// Throughput measurements are rates: higher is better.
	Throughput Mode = iota
	// Latency measurements are times: lower is better.
	Latency
)

func (m Mode) String() string {
	switch m {
	case Throughput:
		return "throughput"
	case Latency:
		return "latency"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Failed returns the value recorded for a failed or unsupported run
// under mode m.
func (m Mode) Failed() float64 {
	if m == Latency {
		return math.Inf(1)
	}
	return 0
}

// better reports whether measurement a is better than b under m.
func (m Mode) better(a, b float64) bool {
	if m == Latency {
		return a < b
	}
	return a > b
}

// ErrDomain is returned when an efficiency is requested for inputs
// outside its domain, such as a zero time in latency mode.
var ErrDomain = errors.New("efficiency domain error")

// A Kind selects the reference value of an efficiency.
type Kind int

const (
	// Architectural efficiency is relative to the platform's peak.
	Architectural Kind = iota
	// Applicational efficiency is relative to the best performance
	// observed on the platform across all applications.
	Applicational
)

func (k Kind) String() string {
	switch k {
	case Architectural:
		return "arch"
	case Applicational:
		return "app"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ArchEfficiency returns the architectural efficiency of a
// measurement on a platform with the given peak.
//
// Under Throughput this is measured/peak; under Latency it is
// peak/measured.
func ArchEfficiency(measured, peak float64, mode Mode) (float64, error) {
	return efficiency(measured, peak, mode)
}

// AppEfficiency returns the application efficiency of a measurement
// on a platform whose best observed performance is best.
//
// It has the same shape as ArchEfficiency.
func AppEfficiency(measured, best float64, mode Mode) (float64, error) {
	return efficiency(measured, best, mode)
}

func efficiency(measured, ref float64, mode Mode) (float64, error) {
	if !(ref > 0) || math.IsInf(ref, 0) {
		return 0, fmt.Errorf("reference %v is not a positive finite value: %w", ref, ErrDomain)
	}
	if math.IsNaN(measured) || measured < 0 {
		return 0, fmt.Errorf("measurement %v is negative or NaN: %w", measured, ErrDomain)
	}
	switch mode {
	case Throughput:
		if math.IsInf(measured, 1) {
			return 0, fmt.Errorf("infinite throughput: %w", ErrDomain)
		}
		return measured / ref, nil
	case Latency:
		if measured == 0 {
			return 0, fmt.Errorf("zero latency: %w", ErrDomain)
		}
		return ref / measured, nil
	}
	return 0, fmt.Errorf("unknown mode %v", mode)
}

// valid reports whether measured is a real run, as opposed to a
// recorded failure.
func valid(measured float64) bool {
	return measured > 0 && !math.IsInf(measured, 0)
}
