// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pptable

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/perfport/ppmetrics/ppmodel"
)

func session(t *testing.T) *ppmodel.Session {
	t.Helper()
	b := ppmodel.NewBuilder(ppmodel.Throughput)
	for _, err := range []error{
		b.AddPlatform("A", 100, "CPU"),
		b.AddPlatform("B", 200, "GPU"),
		b.AddMeasurement("copy", "A", 80),
		b.AddMeasurement("copy", "B", 100),
		b.AddMeasurement("triad", "A", 50),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	return b.Build()
}

func floats(t *testing.T, tab *table.Table, col string) []float64 {
	t.Helper()
	xs, ok := tab.MustColumn(col).([]float64)
	if !ok {
		t.Fatalf("column %q is %T, want []float64", col, tab.MustColumn(col))
	}
	return xs
}

func TestEfficiencies(t *testing.T) {
	tab, err := Efficiencies(session(t), ppmodel.Architectural)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := tab.Columns(), []string{ColApp, ColPlatform, ColCategory, ColEff}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Columns() = %v, want %v", got, want)
	}
	if got, want := tab.MustColumn(ColPlatform), []string{"A", "B", "A"}; !reflect.DeepEqual(got, want) {
		t.Errorf("platforms = %v, want %v", got, want)
	}
	if got, want := floats(t, tab, ColEff), []float64{80, 50, 50}; !reflect.DeepEqual(got, want) {
		t.Errorf("efficiencies = %v, want %v", got, want)
	}

	var buf strings.Builder
	if err := Fprint(&buf, tab); err != nil {
		t.Fatal(err)
	}
	want := `app    platform  category  efficiency
copy   A         CPU             80.0
copy   B         GPU             50.0
triad  A         CPU             50.0
`
	if buf.String() != want {
		t.Errorf("Fprint:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestSummary(t *testing.T) {
	tab, err := Efficiencies(session(t), ppmodel.Architectural)
	if err != nil {
		t.Fatal(err)
	}
	sum := table.Flatten(Summary(tab))
	if got, want := sum.MustColumn(ColApp), []string{"copy", "triad"}; !reflect.DeepEqual(got, want) {
		t.Errorf("apps = %v, want %v", got, want)
	}
	if got, want := sum.MustColumn("platforms"), []int{2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("platforms = %v, want %v", got, want)
	}
	check := func(col string, want []float64) {
		t.Helper()
		got := floats(t, sum, col)
		if len(got) != len(want) {
			t.Fatalf("%s = %v, want %v", col, got, want)
		}
		for i := range got {
			if math.Abs(got[i]-want[i]) > 1e-9 {
				t.Errorf("%s = %v, want %v", col, got, want)
				return
			}
		}
	}
	check("mean "+ColEff, []float64{65, 50})
	check("min "+ColEff, []float64{50, 50})
	check("max "+ColEff, []float64{80, 50})
	check(ColPortability, []float64{2 / (1.0/80 + 1.0/50), 50})
}

func TestECDF(t *testing.T) {
	tab, err := Efficiencies(session(t), ppmodel.Architectural)
	if err != nil {
		t.Fatal(err)
	}
	g := ECDF(tab)
	gids := g.Tables()
	if len(gids) != 2 {
		t.Fatalf("got %d groups, want 2", len(gids))
	}
	want := map[string][][2]float64{
		"copy":  {{50, 0.5}, {80, 1}},
		"triad": {{50, 1}},
	}
	for _, gid := range gids {
		app := gid.Label().(string)
		sub := g.Table(gid)
		xs := floats(t, sub, ColEff)
		ds := floats(t, sub, "cumulative density of platforms")
		var got [][2]float64
		for i := range xs {
			got = append(got, [2]float64{xs[i], ds[i]})
		}
		if !reflect.DeepEqual(got, want[app]) {
			t.Errorf("%s: ECDF = %v, want %v", app, got, want[app])
		}
	}
}

func TestFromEffs(t *testing.T) {
	tab := FromEffs([]ppmodel.AppEffs{{"x", []float64{0.5, 1}}, {"y", []float64{0.25}}}, []string{"P", "Q"})
	if got, want := tab.MustColumn(ColApp), []string{"x", "x", "y"}; !reflect.DeepEqual(got, want) {
		t.Errorf("apps = %v, want %v", got, want)
	}
	if got, want := tab.MustColumn(ColPlatform), []string{"P", "Q", "P"}; !reflect.DeepEqual(got, want) {
		t.Errorf("platforms = %v, want %v", got, want)
	}
	if got, want := floats(t, tab, ColEff), []float64{50, 100, 25}; !reflect.DeepEqual(got, want) {
		t.Errorf("efficiencies = %v, want %v", got, want)
	}
}
