// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"strings"
	"time"
)

// SolveReport carries the fields the CLI renders after a solve. It is
// a plain value so this package stays independent of the solver types.
type SolveReport struct {
	GraphName string
	Nodes     int
	Edges     int
	Algorithm string

	CutValue     float64
	TotalWeight  float64
	BalanceRatio float64
	BestTrial    int
	TrialCuts    []float64
	Faults       int
	Elapsed      time.Duration

	// PartitionA and PartitionB are the node sets of the two sides.
	PartitionA []int
	PartitionB []int

	// Hardware block; HardwareModeled is false when accounting was
	// disabled and the block should be omitted.
	HardwareModeled bool
	LatencySeconds  float64
	AreaUM2         float64
	PowerWatts      float64
	EnergyJoules    float64
	TileReads       int64

	RunID string
}

// Render returns the full report as a string. Styling follows the
// terminal detection in this package.
func (r *SolveReport) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "graph: %s (%d nodes, %d edges)\n", r.GraphName, r.Nodes, r.Edges)
	fmt.Fprintf(&b, "algorithm: %s\n", r.Algorithm)
	fmt.Fprintf(&b, "cut value: %g", r.CutValue)
	if r.TotalWeight > 0 {
		fmt.Fprintf(&b, " of %g total (%.1f%%)", r.TotalWeight, 100*r.CutValue/r.TotalWeight)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "balance: %.3f (%d / %d nodes)\n", r.BalanceRatio, len(r.PartitionA), len(r.PartitionB))
	if len(r.TrialCuts) > 0 {
		fmt.Fprintf(&b, "trials: %d completed, best #%d, cuts %s\n",
			len(r.TrialCuts), r.BestTrial, formatCuts(r.TrialCuts))
	}
	if r.Faults > 0 {
		fmt.Fprintf(&b, "faulted trials: %d\n", r.Faults)
	}

	fmt.Fprintf(&b, "partition A: %s\n", formatNodes(r.PartitionA))
	fmt.Fprintf(&b, "partition B: %s\n", formatNodes(r.PartitionB))

	if r.HardwareModeled {
		fmt.Fprintf(&b, "hardware: latency %s, area %.0f um^2, power %s, energy %s, %d tile reads\n",
			formatSeconds(r.LatencySeconds), r.AreaUM2,
			formatWatts(r.PowerWatts), formatJoules(r.EnergyJoules), r.TileReads)
	}
	if r.Elapsed > 0 {
		fmt.Fprintf(&b, "elapsed: %s\n", r.Elapsed.Round(time.Microsecond))
	}
	if r.RunID != "" {
		fmt.Fprintf(&b, "run id: %s\n", r.RunID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Print renders the report, boxed when on a terminal.
func (r *SolveReport) Print() {
	Box("Max-Cut result", r.Render())
}

// formatNodes prints a node set, eliding long lists in the middle.
func formatNodes(nodes []int) string {
	const maxShown = 24
	if len(nodes) == 0 {
		return "(empty)"
	}
	parts := make([]string, 0, min(len(nodes), maxShown+1))
	if len(nodes) <= maxShown {
		for _, n := range nodes {
			parts = append(parts, fmt.Sprintf("%d", n))
		}
	} else {
		for _, n := range nodes[:maxShown] {
			parts = append(parts, fmt.Sprintf("%d", n))
		}
		parts = append(parts, fmt.Sprintf("... %d more", len(nodes)-maxShown))
	}
	return strings.Join(parts, " ")
}

func formatCuts(cuts []float64) string {
	const maxShown = 10
	parts := make([]string, 0, min(len(cuts), maxShown+1))
	for i, c := range cuts {
		if i == maxShown {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("%g", c))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatSeconds(s float64) string {
	switch {
	case s == 0:
		return "0s"
	case s < 1e-6:
		return fmt.Sprintf("%.1fns", s*1e9)
	case s < 1e-3:
		return fmt.Sprintf("%.2fus", s*1e6)
	case s < 1:
		return fmt.Sprintf("%.2fms", s*1e3)
	}
	return fmt.Sprintf("%.3fs", s)
}

func formatWatts(w float64) string {
	switch {
	case w == 0:
		return "0W"
	case w < 1e-3:
		return fmt.Sprintf("%.2fuW", w*1e6)
	case w < 1:
		return fmt.Sprintf("%.2fmW", w*1e3)
	}
	return fmt.Sprintf("%.2fW", w)
}

func formatJoules(j float64) string {
	switch {
	case j == 0:
		return "0J"
	case j < 1e-9:
		return fmt.Sprintf("%.2fpJ", j*1e12)
	case j < 1e-6:
		return fmt.Sprintf("%.2fnJ", j*1e9)
	case j < 1e-3:
		return fmt.Sprintf("%.2fuJ", j*1e6)
	case j < 1:
		return fmt.Sprintf("%.2fmJ", j*1e3)
	}
	return fmt.Sprintf("%.2fJ", j)
}
