// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package scale formats measurements with SI prefixes so that a
// column of values shares one prefix.
package scale

import (
	"fmt"
	"math"
	"strconv"
)

// A Scaler formats values with a fixed prefix and precision.
type Scaler struct {
	Prec   int     // digits after the decimal point
	Factor float64 // value of one Prefix, such as 1e6 for "M"
	Prefix string
}

// Format formats v scaled by s, followed by the prefix.
func (s Scaler) Format(v float64) string {
	buf := strconv.AppendFloat(nil, v/s.Factor, 'f', s.Prec, 64)
	return string(append(buf, s.Prefix...))
}

type prefix struct {
	factor float64
	name   string
	// Values at or above t100, t10 and t1 print as at least
	// 100.0, 10.00 and 1.000 respectively.
	t100, t10, t1 float64
}

var prefixes = mkPrefixes()

func mkPrefixes() []prefix {
	// Build the thresholds from printed values so they round
	// exactly the way Format does.
	var ps []prefix
	exp := 12
	for _, name := range []string{"T", "G", "M", "k", "", "m", "µ", "n"} {
		t100, _ := strconv.ParseFloat(fmt.Sprintf("99.995e%d", exp), 64)
		t10, _ := strconv.ParseFloat(fmt.Sprintf("9.9995e%d", exp), 64)
		t1, _ := strconv.ParseFloat(fmt.Sprintf(".99995e%d", exp), 64)
		ps = append(ps, prefix{math.Pow(10, float64(exp)), name, t100, t10, t1})
		exp -= 3
	}
	return ps
}

// Common returns a Scaler that shows every value in vals with at least
// three significant digits. The smallest non-zero magnitude decides.
// Infinities and NaNs are ignored.
func Common(vals []float64) Scaler {
	var min float64
	for _, v := range vals {
		v = math.Abs(v)
		if v == 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		if min == 0 || v < min {
			min = v
		}
	}
	if min == 0 {
		return Scaler{3, 1, ""}
	}
	for _, p := range prefixes {
		switch {
		case min >= p.t100:
			return Scaler{1, p.factor, p.name}
		case min >= p.t10:
			return Scaler{2, p.factor, p.name}
		case min >= p.t1:
			return Scaler{3, p.factor, p.name}
		}
	}
	// Below the smallest prefix: add digits until three are
	// significant, up to ten.
	last := prefixes[len(prefixes)-1]
	v := min / last.factor
	prec := 3
	for t := 0.99995; v < t && prec < 10; t /= 10 {
		prec++
	}
	return Scaler{prec, last.factor, last.name}
}
