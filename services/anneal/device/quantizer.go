// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package device

import (
	"log/slog"
	"math"
	"sync/atomic"
)

// Quantizer maps real-valued edge weights onto discrete device levels by
// uniform binning over a normalization range.
//
// Quantization is deterministic: the same weight against the same
// quantizer always yields the same level. Out-of-range weights are
// clamped rather than rejected; each clamp is logged once per call and
// counted, because a clamp usually means the caller normalized against
// the wrong maximum.
//
// # Thread Safety
//
// Quantize is safe for concurrent use; the clamp counter is atomic.
type Quantizer struct {
	profile Profile

	// maxWeight is the normalization ceiling. Weights are mapped into
	// [0, 1] as w/maxWeight before binning.
	maxWeight float64

	clamps atomic.Int64
}

// NewQuantizer builds a quantizer normalizing against maxWeight,
// typically Graph.MaxWeight(). A non-positive maxWeight degenerates to a
// ceiling of 1 so an edgeless graph still quantizes cleanly.
func NewQuantizer(profile Profile, maxWeight float64) *Quantizer {
	if maxWeight <= 0 {
		maxWeight = 1
	}
	return &Quantizer{profile: profile, maxWeight: maxWeight}
}

// Quantize maps a weight to a device level.
//
// The weight is normalized into [0, 1] against the quantizer's maximum,
// then binned uniformly: level = round(norm * (L-1)), clipped to
// [0, L-1]. A zero weight always maps to level 0 (maximum resistance,
// approximating an open cell). Weights outside [0, maxWeight] are
// clamped to the boundary level and counted.
func (q *Quantizer) Quantize(weight float64) Level {
	levels := q.profile.Levels
	if weight <= 0 {
		if weight < 0 {
			q.recordClamp(weight, 0)
		}
		return 0
	}
	norm := weight / q.maxWeight
	if norm > 1 {
		q.recordClamp(weight, Level(levels-1))
		return Level(levels - 1)
	}
	l := Level(math.Round(norm * float64(levels-1)))
	if l < 0 {
		l = 0
	}
	if l > Level(levels-1) {
		l = Level(levels - 1)
	}
	return l
}

// ConductanceFor returns the conductance a cell holds for the given
// weight: exactly zero for an absent edge, 1/resistance(level)
// otherwise. Self-loop entries are forced to zero by the crossbar
// builder regardless of this value.
func (q *Quantizer) ConductanceFor(weight float64) float64 {
	if weight == 0 {
		return 0
	}
	return q.profile.Conductance(q.Quantize(weight))
}

// ClampCount reports how many out-of-range weights were clamped.
func (q *Quantizer) ClampCount() int64 {
	return q.clamps.Load()
}

func (q *Quantizer) recordClamp(weight float64, to Level) {
	q.clamps.Add(1)
	slog.Warn("weight outside quantization domain, clamped",
		"weight", weight,
		"max_weight", q.maxWeight,
		"level", int(to),
	)
}
