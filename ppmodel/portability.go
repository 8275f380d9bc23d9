// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ppmodel

import (
	"fmt"
	"sort"
)

// Efficiency returns the efficiency of app on the named platform. ok
// is false if app has no measurement on the platform. The platform
// must be part of s.
func (s *Session) Efficiency(app *Application, platform string, kind Kind) (eff float64, ok bool, err error) {
	p, known := s.platIdx[platform]
	if !known {
		return 0, false, errUnknown(platform)
	}
	perf, ok := app.perfs[platform]
	if !ok {
		return 0, false, nil
	}
	switch kind {
	case Architectural:
		eff, err = ArchEfficiency(perf, p.PeakBW, s.Mode)
	case Applicational:
		eff, err = AppEfficiency(perf, p.BestPerf, s.Mode)
	default:
		err = fmt.Errorf("unknown efficiency kind %v", kind)
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s on %s: %w", app.Name, platform, err)
	}
	return eff, true, nil
}

// Portability returns the harmonic mean of app's efficiencies on the
// given platforms.
//
// Platforms app has no measurement for are skipped rather than
// counted as failures: absence of a measurement is not a failed run.
// If app has no measurement on any of the platforms, Portability
// returns 0.
func (s *Session) Portability(app *Application, platforms []string, kind Kind) (float64, error) {
	effs, _, err := s.found(app, platforms, kind)
	if err != nil {
		return 0, err
	}
	return HarmonicMean(effs), nil
}

// ArchPortability is the architectural portability of app over every
// platform of s.
func (s *Session) ArchPortability(app *Application) (float64, error) {
	return s.Portability(app, s.PlatformNames(), Architectural)
}

// AppPortability is the application portability of app over every
// platform of s.
func (s *Session) AppPortability(app *Application) (float64, error) {
	return s.Portability(app, s.PlatformNames(), Applicational)
}

// found returns the efficiencies of app on the platforms it has
// measurements for, along with the names of those platforms.
func (s *Session) found(app *Application, platforms []string, kind Kind) (effs []float64, names []string, err error) {
	for _, p := range platforms {
		eff, ok, err := s.Efficiency(app, p, kind)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			effs = append(effs, eff)
			names = append(names, p)
		}
	}
	return effs, names, nil
}

// AppEffs is a sequence of efficiencies of one application, as
// fractions (1.0 is 100%).
type AppEffs struct {
	App  string
	Effs []float64
}

// Percent returns a.Effs scaled by 100.
func (a AppEffs) Percent() []float64 {
	out := make([]float64, len(a.Effs))
	for i, v := range a.Effs {
		out[i] = 100 * v
	}
	return out
}

// AppEfficiencies returns app's efficiencies on each of the given
// platforms it has a measurement for. Failed runs have efficiency 0.
func (s *Session) AppEfficiencies(app *Application, platforms []string, kind Kind) ([]float64, error) {
	var effs []float64
	for _, p := range platforms {
		if _, known := s.platIdx[p]; !known {
			return nil, errUnknown(p)
		}
		perf, ok := app.perfs[p]
		if !ok {
			continue
		}
		if !valid(perf) {
			effs = append(effs, 0)
			continue
		}
		eff, _, err := s.Efficiency(app, p, kind)
		if err != nil {
			return nil, err
		}
		effs = append(effs, eff)
	}
	return effs, nil
}

// Efficiencies returns the efficiencies of every application in s
// over every platform of s, in application order.
func (s *Session) Efficiencies(kind Kind) ([]AppEffs, error) {
	names := s.PlatformNames()
	out := make([]AppEffs, 0, len(s.apps))
	for _, a := range s.apps {
		effs, err := s.AppEfficiencies(a, names, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, AppEffs{a.Name, effs})
	}
	return out, nil
}

// SortByPortability sorts effs in increasing order of the harmonic
// mean of each application's efficiencies.
func SortByPortability(effs []AppEffs) {
	sort.SliceStable(effs, func(i, j int) bool {
		return HarmonicMean(effs[i].Effs) < HarmonicMean(effs[j].Effs)
	})
}
