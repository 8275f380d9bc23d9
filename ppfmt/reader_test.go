// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ppfmt

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/perfport/ppmetrics/ppmodel"
)

func TestParseCell(t *testing.T) {
	check := func(in string, want Cell) {
		t.Helper()
		if got := ParseCell(in); got != want {
			t.Errorf("ParseCell(%q) = %+v, want %+v", in, got, want)
		}
	}
	check("12.5", Cell{Number, 12.5, "12.5"})
	check("  3 ", Cell{Number, 3, "3"})
	check("1e3", Cell{Number, 1000, "1e3"})
	check("X", Cell{Missing, 0, "X"})
	check(" X", Cell{Missing, 0, "X"})
	check("x", Cell{Raw, 0, "x"})
	check("n/a", Cell{Raw, 0, "n/a"})
	check("", Cell{Raw, 0, ""})
}

func TestReadTable(t *testing.T) {
	const in = `Platform, copy , triad
A, 1, X

B, 2.5, 3
`
	tab, err := ReadTable(strings.NewReader(in), "in.csv")
	if err != nil {
		t.Fatal(err)
	}
	if tab.Corner != "Platform" {
		t.Errorf("Corner = %q", tab.Corner)
	}
	if want := []string{"copy", "triad"}; !reflect.DeepEqual(tab.Columns, want) {
		t.Errorf("Columns = %q, want %q", tab.Columns, want)
	}
	want := []Row{
		{"A", 2, []Cell{{Number, 1, "1"}, {Missing, 0, "X"}}},
		{"B", 4, []Cell{{Number, 2.5, "2.5"}, {Number, 3, "3"}}},
	}
	if !reflect.DeepEqual(tab.Rows, want) {
		t.Errorf("Rows = %+v, want %+v", tab.Rows, want)
	}
	if got := tab.Column("triad"); got != 1 {
		t.Errorf("Column(triad) = %d, want 1", got)
	}
	if got := tab.Column("dot"); got != -1 {
		t.Errorf("Column(dot) = %d, want -1", got)
	}
}

func TestReadTableErrors(t *testing.T) {
	check := func(in string, line int) {
		t.Helper()
		_, err := ReadTable(strings.NewReader(in), "bad.csv")
		var serr *SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("%q: got %v, want *SyntaxError", in, err)
			return
		}
		if serr.FileName != "bad.csv" || serr.Line != line {
			t.Errorf("%q: error at %s:%d, want bad.csv:%d", in, serr.FileName, serr.Line, line)
		}
	}
	check("", 1)
	check("only\nA\n", 1)
	check("P,a,b\nA,1,2\nB,1\n", 3)
}

const specCSV = `Category, Mem BW, Architecture, Notes
CPU, 100, A, first
GPU, 200, B,
CPU, 400, C, last
`

const perfCSV = `Platform, copy, triad, dot
A, 80, 50, 40
B, 100, 150, X
C, 200, X, 300
`

func TestReadPlatforms(t *testing.T) {
	specs, err := ReadPlatforms(strings.NewReader(specCSV), "spec.csv")
	if err != nil {
		t.Fatal(err)
	}
	want := []PlatformSpec{{"A", 100, "CPU"}, {"B", 200, "GPU"}, {"C", 400, "CPU"}}
	if !reflect.DeepEqual(specs, want) {
		t.Errorf("ReadPlatforms = %+v, want %+v", specs, want)
	}

	// Category is optional.
	specs, err = ReadPlatforms(strings.NewReader("Architecture,Mem BW\nZ,5\n"), "spec.csv")
	if err != nil {
		t.Fatal(err)
	}
	if want := []PlatformSpec{{"Z", 5, ""}}; !reflect.DeepEqual(specs, want) {
		t.Errorf("ReadPlatforms = %+v, want %+v", specs, want)
	}

	for _, in := range []string{
		"Architecture,Category\nA,CPU\n",
		"Architecture,Mem BW\nA,fast\n",
		"Architecture,Mem BW\n ,1\n",
	} {
		if _, err := ReadPlatforms(strings.NewReader(in), "spec.csv"); err == nil {
			t.Errorf("%q: want error", in)
		}
	}
}

func TestLoadSession(t *testing.T) {
	s, err := LoadSession(strings.NewReader(specCSV), strings.NewReader(perfCSV), ppmodel.Throughput)
	if err != nil {
		t.Fatal(err)
	}
	triad, ok := s.App("triad")
	if !ok {
		t.Fatal("no triad")
	}
	if v, ok := triad.Perf("C"); !ok || v != 0 {
		t.Errorf("triad on C = %v, %v, want 0 (failed)", v, ok)
	}
	if p, _ := s.Platform("B"); p.BestPerf != 150 || p.Category != "GPU" {
		t.Errorf("B = %+v", p)
	}
	var apps []string
	for _, a := range s.Apps() {
		apps = append(apps, a.Name)
	}
	if want := []string{"copy", "triad", "dot"}; !reflect.DeepEqual(apps, want) {
		t.Errorf("apps = %v, want %v", apps, want)
	}

	s, err = LoadSession(strings.NewReader(specCSV), strings.NewReader(perfCSV), ppmodel.Latency)
	if err != nil {
		t.Fatal(err)
	}
	dot, _ := s.App("dot")
	if v, _ := dot.Perf("B"); !math.IsInf(v, 1) {
		t.Errorf("latency: dot on B = %v, want +Inf", v)
	}
}

func TestLoadSessionErrors(t *testing.T) {
	check := func(perf string, line int) {
		t.Helper()
		_, err := LoadSession(strings.NewReader(specCSV), strings.NewReader(perf), ppmodel.Throughput)
		var serr *SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("%q: got %v, want *SyntaxError", perf, err)
			return
		}
		if serr.FileName != "perf" || serr.Line != line {
			t.Errorf("%q: error at %s:%d, want perf:%d", perf, serr.FileName, serr.Line, line)
		}
	}
	check("P,copy\nA,1\nB,oops\n", 3)
	check("P,copy\nA,1\nQ,2\n", 3)
	check("P,copy\nA,-1\n", 2)
}

func TestReadEfficiencies(t *testing.T) {
	const in = `Platform, good, bad, mid
A, 100, 10, 50
B, 80, X, 50
`
	effs, err := ReadEfficiencies(strings.NewReader(in), "effs.csv")
	if err != nil {
		t.Fatal(err)
	}
	want := []ppmodel.AppEffs{
		{App: "bad", Effs: []float64{0.1, 0}},
		{App: "mid", Effs: []float64{0.5, 0.5}},
		{App: "good", Effs: []float64{1, 0.8}},
	}
	if !reflect.DeepEqual(effs, want) {
		t.Errorf("ReadEfficiencies = %v, want %v", effs, want)
	}

	if _, err := ReadEfficiencies(strings.NewReader("P,a\nA,lots\n"), "effs.csv"); err == nil {
		t.Errorf("bad cell: want error")
	}
}
