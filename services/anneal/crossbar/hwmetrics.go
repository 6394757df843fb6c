// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package crossbar

import "github.com/AleutianAI/MemCut/services/anneal/device"

// Summary is the aggregated hardware cost of a run.
type Summary struct {
	// LatencySeconds is the accumulated read latency across invocations.
	LatencySeconds float64 `json:"latency_seconds"`

	// AreaUM2 is the silicon area: tile count x per-tile area plus the
	// fixed peripheral circuitry. Independent of invocation count.
	AreaUM2 float64 `json:"area_um2"`

	// PowerWatts is the accumulated read power across invocations.
	PowerWatts float64 `json:"power_watts"`

	// EnergyJoules is sum over invocations of power_i * latency_i.
	EnergyJoules float64 `json:"energy_joules"`

	// Invocations, TileReads and ActiveCells are raw operation counts.
	Invocations int64 `json:"invocations"`
	TileReads   int64 `json:"tile_reads"`
	ActiveCells int64 `json:"active_cells"`
}

// Accumulator tallies the physical cost of MVM invocations. It is a
// pure accumulator with no control flow of its own: the array reports
// tile-read and active-cell counts, the accumulator turns them into
// latency, power and energy using device constants.
//
// # Thread Safety
//
// NOT safe for concurrent use. Each trial owns a local accumulator and
// merges it into a shared one at trial completion under the engine's
// lock; nothing touches an accumulator from two goroutines at once.
type Accumulator struct {
	enabled bool

	tileLatency  float64 // seconds per tile read
	powerPerCell float64 // watts per active cell
	areaUM2      float64

	invocations int64
	tileReads   int64
	activeCells int64

	latencySeconds float64
	powerWatts     float64
	energyJoules   float64
}

func newAccumulator(p device.Profile, tileCount int) *Accumulator {
	if !p.HardwareModeling {
		return &Accumulator{}
	}
	return &Accumulator{
		enabled:      true,
		tileLatency:  p.TileLatencySeconds(),
		powerPerCell: p.ReadPowerPerCellUW * 1e-6,
		areaUM2:      float64(tileCount)*p.TileAreaUM2 + p.PeripheralAreaUM2,
	}
}

// RecordInvocation accounts one MVM invocation spanning tileReads tile
// reads over activeCells programmed cells. A disabled accumulator is a
// no-op, so the numeric multiply path never branches on modeling state.
func (a *Accumulator) RecordInvocation(tileReads, activeCells int) {
	if !a.enabled {
		return
	}
	latency := float64(tileReads) * a.tileLatency
	power := float64(activeCells) * a.powerPerCell

	a.invocations++
	a.tileReads += int64(tileReads)
	a.activeCells += int64(activeCells)
	a.latencySeconds += latency
	a.powerWatts += power
	a.energyJoules += power * latency
}

// Merge folds another accumulator's tallies into this one. Area is a
// property of the array, not of invocations, so it is carried over
// rather than summed.
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil || !other.enabled {
		return
	}
	if !a.enabled {
		a.enabled = true
		a.tileLatency = other.tileLatency
		a.powerPerCell = other.powerPerCell
		a.areaUM2 = other.areaUM2
	}
	a.invocations += other.invocations
	a.tileReads += other.tileReads
	a.activeCells += other.activeCells
	a.latencySeconds += other.latencySeconds
	a.powerWatts += other.powerWatts
	a.energyJoules += other.energyJoules
}

// Invocations returns the number of recorded MVM invocations.
func (a *Accumulator) Invocations() int64 { return a.invocations }

// Summary reports the aggregated cost. A disabled accumulator reports
// all-zero.
func (a *Accumulator) Summary() Summary {
	if !a.enabled {
		return Summary{}
	}
	return Summary{
		LatencySeconds: a.latencySeconds,
		AreaUM2:        a.areaUM2,
		PowerWatts:     a.powerWatts,
		EnergyJoules:   a.energyJoules,
		Invocations:    a.invocations,
		TileReads:      a.tileReads,
		ActiveCells:    a.activeCells,
	}
}
