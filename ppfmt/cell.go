// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package ppfmt reads the CSV tables used by the portability tools.
//
// Three kinds of table are understood:
//
// A platform specification lists one platform per row. Its header
// names the columns "Architecture", "Mem BW" and, optionally,
// "Category"; they may appear in any order and other columns are
// ignored.
//
// A performance table has one row per platform and one column per
// application. The first column holds the platform name. A cell is a
// number or the literal X, which marks a failed or unsupported run.
//
// An efficiency table has the same shape as a performance table, but
// its cells are efficiencies in percent.
package ppfmt

import (
	"fmt"
	"strconv"
	"strings"
)

// A CellKind is the kind of a table cell.
type CellKind int

const (
	// Number is a numeric cell.
	Number CellKind = iota
	// Missing is the literal X.
	Missing
	// Raw is any other text.
	Raw
)

// A Cell is one parsed table cell.
type Cell struct {
	Kind CellKind

	// Value is the cell's value if Kind is Number.
	Value float64

	// Text is the trimmed cell text.
	Text string
}

// ParseCell parses s, ignoring surrounding spaces.
func ParseCell(s string) Cell {
	s = strings.TrimSpace(s)
	if s == "X" {
		return Cell{Kind: Missing, Text: s}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Cell{Kind: Number, Value: v, Text: s}
	}
	return Cell{Kind: Raw, Text: s}
}

func (c Cell) String() string {
	switch c.Kind {
	case Number:
		return strconv.FormatFloat(c.Value, 'g', -1, 64)
	case Missing:
		return "X"
	}
	return fmt.Sprintf("%q", c.Text)
}
