// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ppmodel

// HarmonicMean returns len(values) / Σ(1/v).
//
// If any value is 0 the reciprocal sum is undefined and HarmonicMean
// returns 0: an application that fails on any included platform has
// no portability. It also returns 0 for an empty slice.
func HarmonicMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var s float64
	for _, v := range values {
		if v == 0 {
			return 0
		}
		s += 1 / v
	}
	return float64(len(values)) / s
}
