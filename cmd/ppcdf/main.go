// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Ppcdf plots the portability distribution of applications.
//
// Usage:
//
//	ppcdf [options] -o out.png perf.csv
//
// For each application, ppcdf plots its portability over its best k
// platforms against k, together with its efficiency on each platform
// by rank. Failed runs are left out.
//
// The input is a performance table as read by ppstat, with the
// platform specification named by -spec. With -effs, the input is
// instead a table of efficiencies in percent, with one row per
// platform and one column per application.
//
// With -kde, ppcdf adds a plot of an adaptive kernel density estimate
// of each application's efficiencies. The estimate starts from a
// global bandwidth and is refined -refine times, each pass choosing a
// bandwidth for every sample from the previous density. When only one
// application is plotted, every pass is drawn.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aclements/go-moremath/vec"
	"github.com/perfport/ppmetrics/akde"
	"github.com/perfport/ppmetrics/ppchart"
	"github.com/perfport/ppmetrics/ppfmt"
	"github.com/perfport/ppmetrics/ppmodel"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("ppcdf: ")
	log.SetFlags(0)
	if err := ppcdf(os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			exit(2)
		}
		log.Fatal(err)
	}
}

type config struct {
	spec       string
	throughput bool
	kind       ppmodel.Kind
	effs       bool
	app        string

	kde    bool
	cdf    bool
	refine int
	bwfac  float64
	points int
}

func ppcdf(wErr io.Writer, args []string) error {
	fs := flag.NewFlagSet("ppcdf", flag.ContinueOnError)
	fs.SetOutput(wErr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: ppcdf [options] -o out.png perf.csv\n")
		fmt.Fprintf(fs.Output(), "options:\n")
		fs.PrintDefaults()
	}
	var cfg config
	fs.StringVar(&cfg.spec, "spec", "spec.csv", "read the platform specification from `file`")
	fs.BoolVar(&cfg.throughput, "throughput", false, "measurements are rates (higher is better) rather than times")
	flagKind := fs.String("kind", "app", "efficiency `kind`: arch or app")
	fs.BoolVar(&cfg.effs, "effs", false, "input is a table of efficiencies in percent")
	fs.StringVar(&cfg.app, "app", "", "plot only application `name`")
	fs.BoolVar(&cfg.kde, "kde", false, "add an adaptive kernel density estimate of the efficiencies")
	fs.BoolVar(&cfg.cdf, "kde-cdf", false, "with -kde, plot the cumulative distribution of the estimate")
	fs.IntVar(&cfg.refine, "refine", 3, "refine the density estimate `k` times")
	fs.Float64Var(&cfg.bwfac, "bwfac", 0.2, "scale adaptive bandwidths by `f`")
	fs.IntVar(&cfg.points, "n", 201, "evaluate the density estimate at `n` points")
	flagOut := fs.String("o", "", "write the plot to `file`; the format is taken from its extension")
	width := fs.Float64("width", 16, "plot width in `cm`")
	height := fs.Float64("height", 10, "plot height in `cm`")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *flagOut == "" {
		fs.Usage()
		return flag.ErrHelp
	}
	switch *flagKind {
	case "arch":
		cfg.kind = ppmodel.Architectural
	case "app":
		cfg.kind = ppmodel.Applicational
	default:
		return fmt.Errorf("unknown efficiency kind %q", *flagKind)
	}

	series, err := load(fs.Arg(0), cfg)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		if cfg.app != "" {
			return fmt.Errorf("%s: no application %q", fs.Arg(0), cfg.app)
		}
		return fmt.Errorf("%s: no applications", fs.Arg(0))
	}

	p, err := ppchart.PortabilityCDF(series)
	if err != nil {
		return err
	}
	var d ppchart.Drawer = p
	if cfg.kde {
		dp, err := densities(series, cfg)
		if err != nil {
			return err
		}
		d = &ppchart.Figure{Main: p, Side: dp, SideFraction: 0.5}
	}
	return ppchart.Save(*flagOut, d, vg.Length(*width)*vg.Centimeter, vg.Length(*height)*vg.Centimeter)
}

// load reads the portability distribution of each application in
// path.
func load(path string, cfg config) ([]ppchart.CDFSeries, error) {
	var series []ppchart.CDFSeries
	keep := func(name string) bool {
		return cfg.app == "" || cfg.app == name
	}

	if cfg.effs {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		effs, err := ppfmt.ReadEfficiencies(f, path)
		if err != nil {
			return nil, err
		}
		for _, e := range effs {
			if !keep(e.App) {
				continue
			}
			pps, ranks := ppmodel.PPCDFRawEffs(e.Effs)
			series = append(series, ppchart.CDFSeries{Name: e.App, PPs: pps, Effs: ranks})
		}
		return series, nil
	}

	mode := ppmodel.Latency
	if cfg.throughput {
		mode = ppmodel.Throughput
	}
	sess, err := ppfmt.LoadFiles(cfg.spec, path, mode)
	if err != nil {
		return nil, err
	}
	plats := sess.PlatformNames()
	for _, a := range sess.Apps() {
		if !keep(a.Name) {
			continue
		}
		pps, ranks, err := sess.PPCDF(a, plats, cfg.kind)
		if err != nil {
			return nil, err
		}
		series = append(series, ppchart.CDFSeries{Name: a.Name, PPs: pps, Effs: ranks})
	}
	return series, nil
}

// densities plots the adaptive density estimate of the efficiencies of
// each series. A single series is drawn after every refinement pass.
func densities(series []ppchart.CDFSeries, cfg config) (*plot.Plot, error) {
	if cfg.points < 3 {
		return nil, fmt.Errorf("-n must be at least 3, got %d", cfg.points)
	}
	hi := 1.0
	for _, s := range series {
		for _, rv := range s.Effs {
			hi = max(hi, rv.Value)
		}
	}
	grid := vec.Linspace(0, hi, cfg.points)

	var lines []ppchart.DensitySeries
	for _, s := range series {
		if len(s.Effs) == 0 {
			continue
		}
		samples := make([]float64, len(s.Effs))
		for i, rv := range s.Effs {
			samples[i] = rv.Value
		}
		k := &akde.KDE{Grid: grid, Samples: samples, Scale: cfg.bwfac}
		passes, err := k.DensitySeries(cfg.refine)
		if err != nil {
			return nil, densityError(s.Name, cfg, err)
		}
		first := len(passes) - 1
		if len(series) == 1 {
			first = 0
		}
		for i := first; i < len(passes); i++ {
			name := s.Name
			if first != len(passes)-1 {
				name = fmt.Sprintf("%s pass %d", s.Name, i+1)
			}
			y := passes[i]
			if cfg.cdf {
				if y, err = kdeCDF(k, i); err != nil {
					return nil, densityError(s.Name, cfg, err)
				}
			}
			lines = append(lines, ppchart.DensitySeries{Name: name, Y: y})
		}
	}
	p, err := ppchart.Densities(grid, lines)
	if err != nil {
		return nil, err
	}
	if cfg.cdf {
		p.Y.Label.Text = "cumulative probability"
	}
	return p, nil
}

// densityError annotates an estimation failure of application name.
// A density that does not integrate to 1 means the grid is too coarse
// for the bandwidths of tightly clustered samples.
func densityError(name string, cfg config, err error) error {
	var nerr *akde.NormalizationError
	if errors.As(err, &nerr) {
		return fmt.Errorf("%s: %w (grid of %d points is too coarse; raise -n or -bwfac)", name, err, cfg.points)
	}
	return fmt.Errorf("%s: %w", name, err)
}

// kdeCDF returns the cumulative distribution of pass i of k, counting
// from 0. Pass i uses the bandwidths derived from pass i-1.
func kdeCDF(k *akde.KDE, i int) ([]float64, error) {
	var st akde.State
	if i > 0 {
		var err error
		if _, st, err = k.Refine(i); err != nil {
			return nil, err
		}
	}
	return k.CDF(st)
}
