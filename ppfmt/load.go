// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ppfmt

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/perfport/ppmetrics/ppmodel"
)

// A PlatformSpec is one row of a platform specification.
type PlatformSpec struct {
	Name     string
	PeakBW   float64
	Category string
}

// Platform specification column names.
const (
	ColArch     = "Architecture"
	ColPeak     = "Mem BW"
	ColCategory = "Category"
)

// ReadPlatforms reads a platform specification from r.
func ReadPlatforms(r io.Reader, fileName string) ([]PlatformSpec, error) {
	t, err := ReadTable(r, fileName)
	if err != nil {
		return nil, err
	}
	cols := append([]string{t.Corner}, t.Columns...)
	index := func(name string) int {
		for i, c := range cols {
			if c == name {
				return i
			}
		}
		return -1
	}
	arch, peak, cat := index(ColArch), index(ColPeak), index(ColCategory)
	if arch < 0 || peak < 0 {
		return nil, &SyntaxError{fileName, 1, fmt.Sprintf("header must have %q and %q columns", ColArch, ColPeak)}
	}

	var specs []PlatformSpec
	for _, row := range t.Rows {
		field := func(i int) Cell {
			if i == 0 {
				return ParseCell(row.Key)
			}
			return row.Cells[i-1]
		}
		ps := PlatformSpec{Name: field(arch).Text}
		if ps.Name == "" {
			return nil, &SyntaxError{fileName, row.Line, "empty platform name"}
		}
		bw := field(peak)
		if bw.Kind != Number {
			return nil, &SyntaxError{fileName, row.Line, fmt.Sprintf("platform %s: bad %s %s", ps.Name, ColPeak, bw)}
		}
		ps.PeakBW = bw.Value
		if cat >= 0 {
			ps.Category = field(cat).Text
		}
		specs = append(specs, ps)
	}
	return specs, nil
}

// NewSession builds a session from a platform specification and a
// performance table. X cells are recorded as failed runs under mode.
// perfName is used in error messages.
func NewSession(specs []PlatformSpec, perf *Table, perfName string, mode ppmodel.Mode) (*ppmodel.Session, error) {
	b := ppmodel.NewBuilder(mode)
	for _, ps := range specs {
		if err := b.AddPlatform(ps.Name, ps.PeakBW, ps.Category); err != nil {
			return nil, err
		}
	}
	for _, row := range perf.Rows {
		for i, c := range row.Cells {
			var v float64
			switch c.Kind {
			case Number:
				v = c.Value
			case Missing:
				v = mode.Failed()
			default:
				return nil, &SyntaxError{perfName, row.Line, fmt.Sprintf("%s on %s: cannot parse %s", perf.Columns[i], row.Key, c)}
			}
			if err := b.AddMeasurement(perf.Columns[i], row.Key, v); err != nil {
				return nil, &SyntaxError{perfName, row.Line, err.Error()}
			}
		}
	}
	return b.Build(), nil
}

// LoadSession reads a platform specification from spec and a
// performance table from perf and builds a session from them.
func LoadSession(spec, perf io.Reader, mode ppmodel.Mode) (*ppmodel.Session, error) {
	return loadSession(spec, "spec", perf, "perf", mode)
}

// LoadFiles is like LoadSession, but reads the named files.
func LoadFiles(specPath, perfPath string, mode ppmodel.Mode) (*ppmodel.Session, error) {
	sf, err := os.Open(specPath)
	if err != nil {
		return nil, err
	}
	defer sf.Close()
	pf, err := os.Open(perfPath)
	if err != nil {
		return nil, err
	}
	defer pf.Close()
	return loadSession(sf, specPath, pf, perfPath, mode)
}

func loadSession(spec io.Reader, specName string, perf io.Reader, perfName string, mode ppmodel.Mode) (*ppmodel.Session, error) {
	specs, err := ReadPlatforms(spec, specName)
	if err != nil {
		return nil, err
	}
	t, err := ReadTable(perf, perfName)
	if err != nil {
		return nil, err
	}
	return NewSession(specs, t, perfName, mode)
}

// ReadEfficiencies reads an efficiency table in percent and returns the
// efficiencies of each application as fractions, ordered by
// increasing portability. X cells count as failed runs.
func ReadEfficiencies(r io.Reader, fileName string) ([]ppmodel.AppEffs, error) {
	t, err := ReadTable(r, fileName)
	if err != nil {
		return nil, err
	}
	effs := make([]ppmodel.AppEffs, len(t.Columns))
	for i, name := range t.Columns {
		effs[i].App = name
	}
	for _, row := range t.Rows {
		for i, c := range row.Cells {
			var v float64
			switch c.Kind {
			case Number:
				if math.IsNaN(c.Value) || c.Value < 0 {
					return nil, &SyntaxError{fileName, row.Line, fmt.Sprintf("%s on %s: bad efficiency %s", t.Columns[i], row.Key, c)}
				}
				v = c.Value / 100
			case Missing:
				v = 0
			default:
				return nil, &SyntaxError{fileName, row.Line, fmt.Sprintf("%s on %s: cannot parse %s", t.Columns[i], row.Key, c)}
			}
			effs[i].Effs = append(effs[i].Effs, v)
		}
	}
	ppmodel.SortByPortability(effs)
	return effs, nil
}
