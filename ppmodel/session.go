// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ppmodel

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownPlatform is returned when a platform name is not part of
// a Builder or Session.
var ErrUnknownPlatform = errors.New("unknown platform")

func errUnknown(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownPlatform, name)
}

// A Platform is a hardware platform with a known architectural peak.
type Platform struct {
	Name string

	// PeakBW is the architectural limit of the platform, in the
	// same units as the measurements.
	PeakBW float64

	// Category is a free-form tag, such as "CPU" or "GPU".
	Category string

	// BestPerf is the best performance observed on this platform
	// across every application in the session: the maximum under
	// Throughput and the minimum under Latency.
	BestPerf float64
}

// An Application is a set of measurements of one application, keyed
// by platform name.
type Application struct {
	Name string

	perfs map[string]float64
	order []string
}

// Perf returns the measurement of a on platform, and whether a has a
// measurement for it at all.
func (a *Application) Perf(platform string) (float64, bool) {
	v, ok := a.perfs[platform]
	return v, ok
}

// Platforms returns the names of the platforms a was measured on, in
// the order the measurements were added.
func (a *Application) Platforms() []string {
	return append([]string(nil), a.order...)
}

// A Session is an immutable set of platforms and the applications
// measured on them. Sessions are constructed with a Builder.
type Session struct {
	// Mode is the measurement convention of every measurement in
	// the session.
	Mode Mode

	// Unused lists platforms that were added to the Builder but
	// dropped because no application produced a usable
	// measurement on them.
	Unused []string

	platforms []*Platform
	platIdx   map[string]*Platform
	apps      []*Application
	appIdx    map[string]*Application
}

// Platforms returns the platforms of s in the order they were added.
func (s *Session) Platforms() []*Platform {
	return s.platforms
}

// PlatformNames returns the names of the platforms of s in order.
func (s *Session) PlatformNames() []string {
	names := make([]string, len(s.platforms))
	for i, p := range s.platforms {
		names[i] = p.Name
	}
	return names
}

// Platform returns the named platform.
func (s *Session) Platform(name string) (*Platform, bool) {
	p, ok := s.platIdx[name]
	return p, ok
}

// Apps returns the applications of s in the order they were first
// seen.
func (s *Session) Apps() []*Application {
	return s.apps
}

// App returns the named application.
func (s *Session) App(name string) (*Application, bool) {
	a, ok := s.appIdx[name]
	return a, ok
}

// A Builder accumulates platforms and measurements and then builds a
// Session.
//
// Building happens in two phases because a platform's best
// performance depends on every application: first all platforms and
// measurements are added, then Build computes the dependent values.
type Builder struct {
	mode      Mode
	platforms []*Platform
	platIdx   map[string]*Platform
	apps      []*Application
	appIdx    map[string]*Application
}

// NewBuilder returns an empty Builder for measurements in the given
// mode.
func NewBuilder(mode Mode) *Builder {
	b := &Builder{mode: mode}
	b.reset()
	return b
}

func (b *Builder) reset() {
	b.platforms = nil
	b.platIdx = make(map[string]*Platform)
	b.apps = nil
	b.appIdx = make(map[string]*Application)
}

// AddPlatform adds a platform with the given architectural peak.
func (b *Builder) AddPlatform(name string, peak float64, category string) error {
	if _, ok := b.platIdx[name]; ok {
		return fmt.Errorf("duplicate platform %q", name)
	}
	if !(peak > 0) || math.IsInf(peak, 0) {
		return fmt.Errorf("platform %q: peak %v is not a positive finite value", name, peak)
	}
	p := &Platform{Name: name, PeakBW: peak, Category: category}
	b.platforms = append(b.platforms, p)
	b.platIdx[name] = p
	return nil
}

// AddMeasurement records the performance of app on platform. The
// platform must already have been added. A later measurement of the
// same pair replaces an earlier one.
func (b *Builder) AddMeasurement(app, platform string, perf float64) error {
	if _, ok := b.platIdx[platform]; !ok {
		return fmt.Errorf("application %q: %w %q", app, ErrUnknownPlatform, platform)
	}
	if math.IsNaN(perf) || perf < 0 {
		return fmt.Errorf("application %q on %q: invalid measurement %v", app, platform, perf)
	}
	a, ok := b.appIdx[app]
	if !ok {
		a = &Application{Name: app, perfs: make(map[string]float64)}
		b.apps = append(b.apps, a)
		b.appIdx[app] = a
	}
	if _, ok := a.perfs[platform]; !ok {
		a.order = append(a.order, platform)
	}
	a.perfs[platform] = perf
	return nil
}

// Build computes each platform's best observed performance, drops
// platforms that no application ran on successfully, and returns the
// resulting Session. The Builder is reset and may be reused.
func (b *Builder) Build() *Session {
	s := &Session{
		Mode:    b.mode,
		platIdx: make(map[string]*Platform),
		apps:    b.apps,
		appIdx:  b.appIdx,
	}
	for _, p := range b.platforms {
		best, ok := b.best(p.Name)
		if !ok || best == 0 || math.IsInf(best, 0) {
			s.Unused = append(s.Unused, p.Name)
			continue
		}
		p.BestPerf = best
		s.platforms = append(s.platforms, p)
		s.platIdx[p.Name] = p
	}
	b.reset()
	return s
}

// best returns the best measurement on platform across all
// applications.
func (b *Builder) best(platform string) (best float64, ok bool) {
	for _, a := range b.apps {
		v, has := a.perfs[platform]
		if !has {
			continue
		}
		if !ok || b.mode.better(v, best) {
			best, ok = v, true
		}
	}
	return best, ok
}
