// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ppchart

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	// Register the remaining output formats.
	_ "gonum.org/v1/plot/vg/vgeps"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

// DPI is the resolution of PNG output.
const DPI = 300

// A Drawer draws onto a canvas. *plot.Plot and *Figure are Drawers.
type Drawer interface {
	Draw(c draw.Canvas)
}

// A Figure is a main plot with an optional narrow plot to its right,
// such as a color bar.
type Figure struct {
	Main *plot.Plot
	Side *plot.Plot

	// SideFraction is the fraction of the width given to Side.
	// Zero means 1/8.
	SideFraction float64
}

// Draw draws f onto c.
func (f *Figure) Draw(c draw.Canvas) {
	if f.Side == nil {
		f.Main.Draw(c)
		return
	}
	frac := f.SideFraction
	if frac <= 0 || frac >= 1 {
		frac = 1.0 / 8
	}
	w := c.Max.X - c.Min.X
	side := vg.Length(frac) * w
	f.Main.Draw(draw.Crop(c, 0, -side, 0, 0))
	f.Side.Draw(draw.Crop(c, w-side, 0, 0, 0))
}

// Write draws d at the given size and writes it to out in format,
// which is one of the gonum/plot formats such as "png", "svg" or
// "pdf".
func Write(out io.Writer, d Drawer, width, height vg.Length, format string) error {
	var c vg.CanvasWriterTo
	format = strings.ToLower(format)
	if format == "png" {
		c = vgimg.PngCanvas{Canvas: vgimg.NewWith(
			vgimg.UseWH(width, height),
			vgimg.UseDPI(DPI),
			vgimg.UseBackgroundColor(color.White))}
	} else {
		var err error
		c, err = draw.NewFormattedCanvas(width, height, format)
		if err != nil {
			return err
		}
	}
	d.Draw(draw.New(c))
	_, err := c.WriteTo(out)
	return err
}

// Save draws d into the file at path. The format is taken from the
// file extension. If drawing fails, no file is left at path.
func Save(path string, d Drawer, width, height vg.Length) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return fmt.Errorf("%s: no file extension to choose a format", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, d, width, height, ext); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
