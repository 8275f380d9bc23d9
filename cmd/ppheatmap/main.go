// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Ppheatmap renders a CSV table of results as a labeled heatmap.
//
// Usage:
//
//	ppheatmap [options] input.csv output.{png,svg,pdf,eps}
//
// The first column of the input names the rows and the header names
// the columns. Rows without any numeric cell are skipped. Cells that
// are not numbers are drawn blank and labeled "-".
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/perfport/ppmetrics/ppchart"
	"github.com/perfport/ppmetrics/ppfmt"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("ppheatmap: ")
	log.SetFlags(0)
	if err := ppheatmap(os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			exit(2)
		}
		log.Fatal(err)
	}
}

func ppheatmap(wErr io.Writer, args []string) error {
	fs := flag.NewFlagSet("ppheatmap", flag.ContinueOnError)
	fs.SetOutput(wErr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: ppheatmap [options] input.csv output.png\n")
		fmt.Fprintf(fs.Output(), "options:\n")
		fs.PrintDefaults()
	}
	var opts ppchart.HeatmapOptions
	fs.BoolVar(&opts.HigherIsBetter, "higher-is-better", false, "high values are better than low ones, as for bandwidth")
	fs.Float64Var(&opts.Factor, "factorize", 1, "divide every result by `f`")
	fs.BoolVar(&opts.Percent, "percent", false, "results are percentages")
	fs.BoolVar(&opts.Mean, "mean", false, "add a row with the mean and standard deviation of each column")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return flag.ErrHelp
	}
	if !(opts.Factor > 0) {
		return fmt.Errorf("-factorize must be positive, got %v", opts.Factor)
	}
	in, out := fs.Arg(0), fs.Arg(1)

	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()
	t, err := ppfmt.ReadTable(f, in)
	if err != nil {
		return err
	}
	g, err := ppchart.NewGrid(t, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	fig, err := g.Plot(opts)
	if err != nil {
		return err
	}
	w, h := g.Size()
	return ppchart.Save(out, fig, w, h)
}
