// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Ppstat reports the efficiency and performance portability of a set
// of applications measured on a set of platforms.
//
// Usage:
//
//	ppstat [options] perf.csv
//
// The performance file is a CSV table with one row per platform and
// one column per application. A cell is a measurement, or X for a run
// that failed. The platform specification, named by -spec, gives the
// architectural peak of each platform:
//
//	Architecture, Mem BW, Category
//	A100, 1555, GPU
//	EPYC, 205, CPU
//
// By default measurements are times, where lower is better. With
// -throughput, they are rates, where higher is better.
//
// The -format flag selects the report:
//
//	text     efficiency of each application on each platform, plus
//	         its architectural and application portability
//	csv      the text report as CSV
//	long     one row per application and platform
//	summary  per-application count, mean, min, max and portability
//	ecdf     the empirical distribution of each application's
//	         efficiencies
//	platforms
//	         the peak and best observed performance of each platform
//
// -kind selects architectural (arch) or application (app) efficiency.
//
// With -curve, ppstat also prints the portability curve of each
// application: its portability as its worst platforms are dropped one
// at a time.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/perfport/ppmetrics/internal/scale"
	"github.com/perfport/ppmetrics/internal/texttab"
	"github.com/perfport/ppmetrics/ppfmt"
	"github.com/perfport/ppmetrics/ppmodel"
	"github.com/perfport/ppmetrics/pptable"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("ppstat: ")
	log.SetFlags(0)
	if err := ppstat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			exit(2)
		}
		log.Fatal(err)
	}
}

var kinds = map[string]ppmodel.Kind{
	"arch": ppmodel.Architectural,
	"app":  ppmodel.Applicational,
}

func ppstat(w, wErr io.Writer, args []string) error {
	fs := flag.NewFlagSet("ppstat", flag.ContinueOnError)
	fs.SetOutput(wErr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: ppstat [options] perf.csv\n")
		fmt.Fprintf(fs.Output(), "options:\n")
		fs.PrintDefaults()
	}
	flagSpec := fs.String("spec", "spec.csv", "read the platform specification from `file`")
	flagThroughput := fs.Bool("throughput", false, "measurements are rates (higher is better) rather than times")
	flagFormat := fs.String("format", "text", "print results in `format`: text, csv, long, summary, ecdf or platforms")
	flagKind := fs.String("kind", "arch", "efficiency `kind`: arch or app")
	flagCurve := fs.Bool("curve", false, "print the portability curve of each application")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return flag.ErrHelp
	}
	kind, ok := kinds[*flagKind]
	if !ok {
		return fmt.Errorf("unknown efficiency kind %q", *flagKind)
	}
	mode := ppmodel.Latency
	if *flagThroughput {
		mode = ppmodel.Throughput
	}

	sess, err := ppfmt.LoadFiles(*flagSpec, fs.Arg(0), mode)
	if err != nil {
		return err
	}
	if len(sess.Unused) > 0 {
		fmt.Fprintf(wErr, "warning: no usable results on %s\n", strings.Join(sess.Unused, ", "))
	}

	switch *flagFormat {
	case "text":
		err = printText(w, sess, kind)
	case "csv":
		err = printCSV(w, sess, kind)
	case "platforms":
		err = printPlatforms(w, sess)
	case "long", "summary", "ecdf":
		var tab *table.Table
		tab, err = pptable.Efficiencies(sess, kind)
		if err != nil {
			break
		}
		var g table.Grouping = tab
		switch *flagFormat {
		case "summary":
			g = table.Flatten(pptable.Summary(tab))
		case "ecdf":
			g = pptable.ECDF(tab)
		}
		err = pptable.Fprint(w, g)
	default:
		return fmt.Errorf("unknown format %q", *flagFormat)
	}
	if err != nil {
		return err
	}

	if *flagCurve {
		fmt.Fprintf(w, "\n")
		return printCurves(w, sess, kind)
	}
	return nil
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", 100*v)
}

// portabilities returns the architectural and application portability
// of a over every platform.
func portabilities(s *ppmodel.Session, a *ppmodel.Application) (arch, app float64, err error) {
	if arch, err = s.ArchPortability(a); err != nil {
		return 0, 0, err
	}
	if app, err = s.AppPortability(a); err != nil {
		return 0, 0, err
	}
	return arch, app, nil
}

func printText(w io.Writer, s *ppmodel.Session, kind ppmodel.Kind) error {
	var tab texttab.Table
	plats := s.PlatformNames()
	tab.Row().Cell("app")
	for _, p := range plats {
		tab.Cell(p, texttab.Right)
	}
	tab.Cell("arch PP", texttab.Right).Cell("app PP", texttab.Right)

	for _, a := range s.Apps() {
		tab.Row().Cell(a.Name)
		for _, p := range plats {
			eff, ok, err := s.Efficiency(a, p, kind)
			if err != nil {
				return err
			}
			if !ok {
				tab.Cell("-", texttab.Right)
				continue
			}
			tab.Cell(percent(eff), texttab.Right)
		}
		arch, app, err := portabilities(s, a)
		if err != nil {
			return err
		}
		tab.Cell(percent(arch), texttab.Right).Cell(percent(app), texttab.Right)
	}
	return tab.Format(w)
}

func printCSV(w io.Writer, s *ppmodel.Session, kind ppmodel.Kind) error {
	num := func(v float64) string {
		return strconv.FormatFloat(100*v, 'f', 2, 64)
	}
	cw := csv.NewWriter(w)
	plats := s.PlatformNames()
	header := append([]string{"app"}, plats...)
	cw.Write(append(header, "arch PP", "app PP"))
	for _, a := range s.Apps() {
		row := []string{a.Name}
		for _, p := range plats {
			eff, ok, err := s.Efficiency(a, p, kind)
			if err != nil {
				return err
			}
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, num(eff))
		}
		arch, app, err := portabilities(s, a)
		if err != nil {
			return err
		}
		cw.Write(append(row, num(arch), num(app)))
	}
	cw.Flush()
	return cw.Error()
}

func printCurves(w io.Writer, s *ppmodel.Session, kind ppmodel.Kind) error {
	var tab texttab.Table
	tab.Row().Cell("app").Cell("platforms", texttab.Right).Cell(kind.String()+" PP", texttab.Right).Cell("worst")
	plats := s.PlatformNames()
	for _, a := range s.Apps() {
		c, err := s.PortabilityCurve(a, plats, kind)
		if err != nil {
			return err
		}
		for c.Next() {
			pt := c.Point()
			tab.Row().Cell(a.Name).
				Cell(strconv.Itoa(pt.Count), texttab.Right).
				Cell(percent(pt.Score), texttab.Right).
				Cell(c.Worst())
		}
	}
	return tab.Format(w)
}

func printPlatforms(w io.Writer, s *ppmodel.Session) error {
	plats := s.Platforms()
	var peaks, bests []float64
	for _, p := range plats {
		peaks = append(peaks, p.PeakBW)
		bests = append(bests, p.BestPerf)
	}
	peakScale, bestScale := scale.Common(peaks), scale.Common(bests)

	var tab texttab.Table
	tab.Row().Cell("platform").Cell("category").
		Cell("peak", texttab.Right).Cell("best", texttab.Right).Cell("best/peak", texttab.Right)
	for _, p := range plats {
		ratio := p.BestPerf / p.PeakBW
		if s.Mode == ppmodel.Latency {
			ratio = p.PeakBW / p.BestPerf
		}
		tab.Row().Cell(p.Name).Cell(p.Category).
			Cell(peakScale.Format(p.PeakBW), texttab.Right).
			Cell(bestScale.Format(p.BestPerf), texttab.Right).
			Cell(percent(ratio), texttab.Right)
	}
	return tab.Format(w)
}
