// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"math"

	"github.com/AleutianAI/MemCut/services/anneal/crossbar"
)

// Schedule holds the inverse-temperature ramp of an annealing run.
// I0 ramps linearly from Min at cycle 0 to Max at the final cycle.
type Schedule struct {
	Min float64
	Max float64
}

// At returns the I0 value for a cycle in [0, cycles-1].
func (s Schedule) At(cycle, cycles int) float64 {
	if cycles <= 1 {
		return s.Min
	}
	return s.Min + (s.Max-s.Min)*float64(cycle)/float64(cycles-1)
}

// Valid reports whether the bounds form a usable ramp.
func (s Schedule) Valid() bool {
	return s.Min > 0 && s.Max >= s.Min
}

// DeriveSchedule computes I0 bounds from the coupling statistics of the
// array: sigma is the mean per-row field scale
// sqrt((N-1) * mean(G[j][*]^2)), and the ramp spans 0.1/sigma to
// 10/sigma. A degenerate array (no couplings) falls back to a fixed
// 0.1..10 ramp.
func DeriveSchedule(a *crossbar.Array) Schedule {
	n := a.Dim()
	if n == 0 {
		return Schedule{Min: 0.1, Max: 10}
	}

	sigmaSum := 0.0
	for j := 0; j < n; j++ {
		meanSq := 0.0
		for k := 0; k < n; k++ {
			g := a.Conductance(j, k)
			meanSq += g * g
		}
		meanSq /= float64(n)
		sigmaSum += math.Sqrt(float64(n-1) * meanSq)
	}
	sigma := sigmaSum / float64(n)
	if sigma <= 0 {
		return Schedule{Min: 0.1, Max: 10}
	}
	return Schedule{Min: 0.1 / sigma, Max: 10 / sigma}
}
