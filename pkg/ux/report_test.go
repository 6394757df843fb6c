// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"strings"
	"testing"
)

func TestSolveReport_Render(t *testing.T) {
	r := &SolveReport{
		GraphName:    "path3",
		Nodes:        3,
		Edges:        2,
		Algorithm:    "annealing",
		CutValue:     3,
		TotalWeight:  3,
		BalanceRatio: 1.0 / 3.0,
		BestTrial:    2,
		TrialCuts:    []float64{3, 2, 3},
		PartitionA:   []int{0, 2},
		PartitionB:   []int{1},

		HardwareModeled: true,
		LatencySeconds:  2.5e-6,
		AreaUM2:         3700,
		PowerWatts:      4.8e-3,
		EnergyJoules:    1.2e-8,
		TileReads:       500,
	}

	out := r.Render()
	for _, want := range []string{
		"path3 (3 nodes, 2 edges)",
		"cut value: 3 of 3 total (100.0%)",
		"balance: 0.333",
		"best #2",
		"partition A: 0 2",
		"partition B: 1",
		"2.50us",
		"3700 um^2",
		"4.80mW",
		"12.00nJ",
		"500 tile reads",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q in:\n%s", want, out)
		}
	}
}

func TestSolveReport_HardwareOmittedWhenDisabled(t *testing.T) {
	r := &SolveReport{GraphName: "g", Nodes: 2, Edges: 1, Algorithm: "greedy", CutValue: 1}
	if strings.Contains(r.Render(), "hardware") {
		t.Errorf("hardware block rendered with modeling disabled:\n%s", r.Render())
	}
}

func TestFormatNodes_Elision(t *testing.T) {
	nodes := make([]int, 30)
	for i := range nodes {
		nodes[i] = i
	}
	out := formatNodes(nodes)
	if !strings.Contains(out, "... 6 more") {
		t.Errorf("long node list not elided: %q", out)
	}
	if formatNodes(nil) != "(empty)" {
		t.Errorf("empty set = %q", formatNodes(nil))
	}
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{formatSeconds(5e-9), "5.0ns"},
		{formatSeconds(0.002), "2.00ms"},
		{formatSeconds(1.5), "1.500s"},
		{formatWatts(3e-7), "0.30uW"},
		{formatWatts(2), "2.00W"},
		{formatJoules(4e-12), "4.00pJ"},
		{formatJoules(0.5), "500.00mJ"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
