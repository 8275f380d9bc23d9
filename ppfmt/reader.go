// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ppfmt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// A SyntaxError represents a problem on a particular line of an input
// table.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// A Table is a CSV table whose first column labels the rows.
type Table struct {
	// Corner is the header of the first column.
	Corner string

	// Columns are the remaining header fields, trimmed.
	Columns []string

	Rows []Row
}

// A Row is one data row of a Table.
type Row struct {
	Key   string
	Line  int
	Cells []Cell
}

// Column returns the index of the named column, or -1.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ReadTable reads a Table from r. fileName is used in error messages.
//
// Every row must have as many fields as the header. Leading spaces of
// fields are ignored, as are blank lines.
func ReadTable(r io.Reader, fileName string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SyntaxError{fileName, 1, "empty table"}
	} else if err != nil {
		return nil, csvError(fileName, err)
	}
	if len(header) < 2 {
		return nil, &SyntaxError{fileName, 1, "header needs a row label column and at least one data column"}
	}
	t := &Table{Corner: strings.TrimSpace(header[0])}
	for _, h := range header[1:] {
		t.Columns = append(t.Columns, strings.TrimSpace(h))
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, csvError(fileName, err)
		}
		line, _ := cr.FieldPos(0)
		row := Row{Key: strings.TrimSpace(rec[0]), Line: line}
		for _, f := range rec[1:] {
			row.Cells = append(row.Cells, ParseCell(f))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func csvError(fileName string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &SyntaxError{fileName, perr.Line, perr.Err.Error()}
	}
	return err
}
