// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func TestAlign(t *testing.T) {
	check := func(s string, a Align, w int, want string) {
		t.Helper()
		if got := a.pad(s, w); got != want {
			t.Errorf("want %q, got %q", want, got)
		}
	}

	check("abc", Left, 10, "abc")
	check("abc", Center, 10, "   abc")
	check("abc", Center, 11, "    abc")
	check("abc", Right, 10, "       abc")
	check("☃", Right, 4, "   ☃")
	check("toolong", Right, 3, "toolong")
}

func TestTable(t *testing.T) {
	var tab Table
	check := func(want string) {
		t.Helper()
		var got strings.Builder
		if err := tab.Format(&got); err != nil {
			t.Fatal(err)
		}
		if want != got.String() {
			t.Errorf("want:\n%sgot:\n%s", want, got.String())
		}
		tab = Table{}
	}

	check("")

	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a b c\nd e f\n")

	// No trailing spaces after short cells.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("long").Cell("e").Cell("long")
	check("a    b c\nlong e long\n")

	tab.Row().Cell("a", Left).Cell("b", Center).Cell("c", Right)
	tab.Row().Cell("xxx").Cell("xxx").Cell("xxx")
	check("a    b    c\nxxx xxx xxx\n")

	// Skipped and empty cells.
	tab.Row().Cell("a").Col(2).Cell("c")
	tab.Row().Cell("d").Cell("").Cell("f")
	check("a  c\nd  f\n")

	tab.Row().Cell("a")
	tab.Row()
	tab.Row()
	tab.Row().Cell("b")
	check("a\n\n\nb\n")

	tab.Row().Cell("a").Cell("b")
	tab.Row().Span(2, "abc")
	check("a b\nabc\n")

	// A wide span widens its last column.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Span(2, "abcdefg").Cell("x")
	check("a b     c\nabcdefg x\n")

	tab.Row().Cell("abc").Cell("def")
	tab.Row().Span(2, "a", Right)
	check("abc def\n      a\n")

	tab.Row().Span(2, "eff", Center).Cell("pp")
	tab.Row().Cell("10.0", Right).Cell("20.0", Right).Cell("1", Right)
	check("   eff    pp\n10.0 20.0  1\n")
}

func TestColBackwards(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Col to an earlier column did not panic")
		}
	}()
	var tab Table
	tab.Row().Cell("a").Cell("b").Col(1)
}
