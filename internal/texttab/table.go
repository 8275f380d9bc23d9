// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package texttab lays out aligned text tables.
package texttab

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Table accumulates cells row by row and lays them out in columns
// separated by a single space.
//
// Methods return the table so calls can be chained:
//
//	tab.Row().Cell("app").Cell("score", texttab.Right)
type Table struct {
	cells []cell
	cols  int

	rows, col int
}

type cell struct {
	row, col, span int
	text           string
	align          Align
}

// An Align is the horizontal alignment of a cell within its column.
type Align int

const (
	Left Align = iota
	Center
	Right
)

func (a Align) pad(s string, w int) string {
	n := utf8.RuneCountInString(s)
	switch a {
	case Center:
		return strings.Repeat(" ", max(0, (w-n)/2)) + s
	case Right:
		return strings.Repeat(" ", max(0, w-n)) + s
	}
	return s
}

// Row starts a new row.
func (t *Table) Row() *Table {
	t.rows++
	t.col = 0
	return t
}

// Col skips to column col. Columns are numbered from 0.
func (t *Table) Col(col int) *Table {
	if col < t.col {
		panic(fmt.Sprintf("cannot move from column %d to earlier column %d", t.col, col))
	}
	t.col = col
	return t
}

// Cell adds a cell at the current row and column.
func (t *Table) Cell(text string, align ...Align) *Table {
	return t.Span(1, text, align...)
}

// Span adds a cell covering cols columns.
func (t *Table) Span(cols int, text string, align ...Align) *Table {
	if t.rows == 0 {
		t.rows = 1
	}
	c := cell{row: t.rows - 1, col: t.col, span: cols, text: text}
	if len(align) > 0 {
		c.align = align[0]
	}
	t.cells = append(t.cells, c)
	t.col += cols
	t.cols = max(t.cols, t.col)
	return t
}

// Format writes the laid out table to w.
func (t *Table) Format(w io.Writer) error {
	// Single-column cells set the widths; a spanning cell that
	// does not fit widens the last column it covers.
	cells := append([]cell(nil), t.cells...)
	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].span < cells[j].span
	})
	ws := make([]int, t.cols)
	for _, c := range cells {
		n := utf8.RuneCountInString(c.text)
		if c.span == 1 {
			ws[c.col] = max(ws[c.col], n)
			continue
		}
		have := c.span - 1
		for col := c.col; col < c.col+c.span; col++ {
			have += ws[col]
		}
		if have < n {
			ws[c.col+c.span-1] += n - have
		}
	}

	// offs[i] is where column i starts. offs[t.cols] is one past
	// the end of the table.
	offs := make([]int, t.cols+1)
	for i, w := range ws {
		offs[i+1] = offs[i] + w + 1
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].row != cells[j].row {
			return cells[i].row < cells[j].row
		}
		return cells[i].col < cells[j].col
	})
	bw := bufio.NewWriter(w)
	row, pos := 0, 0
	for _, c := range cells {
		if strings.TrimSpace(c.text) == "" {
			continue
		}
		for ; row < c.row; row++ {
			bw.WriteByte('\n')
			pos = 0
		}
		width := offs[c.col+c.span] - offs[c.col] - 1
		s := c.align.pad(c.text, width)
		fmt.Fprintf(bw, "%*s%s", offs[c.col]-pos, "", s)
		pos = offs[c.col] + utf8.RuneCountInString(s)
	}
	if t.rows > 0 {
		for ; row < t.rows; row++ {
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
