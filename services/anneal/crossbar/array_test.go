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

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/MemCut/services/anneal/device"
	"github.com/AleutianAI/MemCut/services/anneal/graphio"
)

// smallTileProfile returns a profile with a 4x4 tile so small graphs
// still exercise multi-tile partitioning.
func smallTileProfile() device.Profile {
	p := device.DefaultProfile()
	p.CrossbarRows = 4
	p.CrossbarCols = 4
	return p
}

// randomGraph builds a dense-ish random graph with weights in (0, 10].
func randomGraph(t *testing.T, n int, seed int64) *graphio.Graph {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	g := graphio.NewGraph(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < 0.6 {
				require.NoError(t, g.AddEdge(i, j, rng.Float64()*10))
			}
		}
	}
	return g
}

func buildArray(t *testing.T, g *graphio.Graph, p device.Profile) *Array {
	t.Helper()
	quant := device.NewQuantizer(p, g.MaxWeight())
	a, err := New(g, quant, p)
	require.NoError(t, err)
	return a
}

func TestArray_ConductanceSymmetry(t *testing.T) {
	g := randomGraph(t, 10, 1)
	a := buildArray(t, g, smallTileProfile())

	for i := 0; i < a.Dim(); i++ {
		assert.Zero(t, a.Conductance(i, i), "diagonal must be open")
		for j := 0; j < a.Dim(); j++ {
			assert.Equal(t, a.Conductance(i, j), a.Conductance(j, i),
				"G[%d][%d] != G[%d][%d]", i, j, j, i)
			if g.Weight(i, j) == 0 {
				assert.Zero(t, a.Conductance(i, j), "absent edge must be open")
			}
		}
	}
}

func TestArray_TilingReconstruction(t *testing.T) {
	tests := []struct {
		name      string
		nodes     int
		wantTiles int
	}{
		{"below tile dimension", 3, 1},
		{"exactly tile dimension", 4, 1},
		{"above tile dimension", 10, 9}, // ceil(10/4)^2
		{"one past boundary", 5, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := randomGraph(t, tt.nodes, int64(tt.nodes))
			a := buildArray(t, g, smallTileProfile())
			assert.Equal(t, tt.wantTiles, a.TileCount())

			rebuilt := a.Reconstruct()
			for i := 0; i < a.Dim(); i++ {
				for j := 0; j < a.Dim(); j++ {
					assert.Equal(t, a.Conductance(i, j), rebuilt[i][j],
						"reconstructed cell (%d, %d) differs", i, j)
				}
			}
		})
	}
}

func TestArray_MultiplyMatchesDense(t *testing.T) {
	// The tiled differential multiply must agree with a plain dense
	// signed MVM over the conductance matrix.
	g := randomGraph(t, 11, 7)
	a := buildArray(t, g, smallTileProfile())

	rng := rand.New(rand.NewSource(99))
	spins := make(graphio.SpinVector, a.Dim())
	for i := range spins {
		if rng.Intn(2) == 0 {
			spins[i] = graphio.SpinUp
		} else {
			spins[i] = graphio.SpinDown
		}
	}

	field, err := a.Multiply(spins, nil)
	require.NoError(t, err)

	for i := 0; i < a.Dim(); i++ {
		want := 0.0
		for j := 0; j < a.Dim(); j++ {
			want += a.Conductance(i, j) * float64(spins[j])
		}
		assert.InDelta(t, want, field[i], 1e-9, "field[%d]", i)
	}
}

func TestArray_FieldAtMatchesMultiply(t *testing.T) {
	g := randomGraph(t, 9, 3)
	a := buildArray(t, g, smallTileProfile())

	spins := make(graphio.SpinVector, a.Dim())
	for i := range spins {
		spins[i] = graphio.SpinUp
		if i%3 == 0 {
			spins[i] = graphio.SpinDown
		}
	}

	field, err := a.Multiply(spins, nil)
	require.NoError(t, err)
	for i := 0; i < a.Dim(); i++ {
		f, err := a.FieldAt(i, spins, nil)
		require.NoError(t, err)
		assert.InDelta(t, field[i], f, 1e-9, "row %d", i)
	}
}

func TestArray_MultiplyInputValidation(t *testing.T) {
	g := randomGraph(t, 5, 5)
	a := buildArray(t, g, smallTileProfile())

	_, err := a.Multiply(make(graphio.SpinVector, 3), nil)
	assert.ErrorIs(t, err, ErrSpinLengthMismatch)

	_, err = a.FieldAt(99, make(graphio.SpinVector, 5), nil)
	assert.ErrorIs(t, err, ErrRowOutOfRange)
}

func TestAccumulator_RecordsCost(t *testing.T) {
	g := randomGraph(t, 10, 11)
	p := smallTileProfile()
	a := buildArray(t, g, p)
	acc := a.NewAccumulator()

	spins := make(graphio.SpinVector, a.Dim())
	for i := range spins {
		spins[i] = graphio.SpinUp
	}

	_, err := a.Multiply(spins, acc)
	require.NoError(t, err)
	_, err = a.Multiply(spins, acc)
	require.NoError(t, err)

	s := acc.Summary()
	assert.Equal(t, int64(2), s.Invocations)
	assert.Equal(t, int64(2*a.TileCount()), s.TileReads)
	assert.Greater(t, s.LatencySeconds, 0.0)
	assert.Greater(t, s.PowerWatts, 0.0)
	assert.Greater(t, s.EnergyJoules, 0.0)

	wantArea := float64(a.TileCount())*p.TileAreaUM2 + p.PeripheralAreaUM2
	assert.Equal(t, wantArea, s.AreaUM2)

	// Latency per invocation is tileCount * (row + col + adc).
	wantLatency := 2 * float64(a.TileCount()) * p.TileLatencySeconds()
	assert.InDelta(t, wantLatency, s.LatencySeconds, 1e-15)
}

func TestAccumulator_RowReadCheaperThanFullMVM(t *testing.T) {
	g := randomGraph(t, 10, 13)
	a := buildArray(t, g, smallTileProfile())

	full := a.NewAccumulator()
	row := a.NewAccumulator()
	spins := make(graphio.SpinVector, a.Dim())
	for i := range spins {
		spins[i] = graphio.SpinDown
	}

	_, err := a.Multiply(spins, full)
	require.NoError(t, err)
	_, err = a.FieldAt(0, spins, row)
	require.NoError(t, err)

	assert.Less(t, row.Summary().TileReads, full.Summary().TileReads,
		"a single row read must touch fewer tiles than a full multiply")
}

func TestAccumulator_DisabledReportsZero(t *testing.T) {
	g := randomGraph(t, 8, 17)
	p := smallTileProfile()
	p.HardwareModeling = false
	a := buildArray(t, g, p)
	acc := a.NewAccumulator()

	spins := make(graphio.SpinVector, a.Dim())
	for i := range spins {
		spins[i] = graphio.SpinUp
	}

	// The numeric multiply still runs when modeling is disabled.
	field, err := a.Multiply(spins, acc)
	require.NoError(t, err)
	require.Len(t, field, a.Dim())

	assert.Equal(t, Summary{}, acc.Summary())
}

func TestAccumulator_Merge(t *testing.T) {
	g := randomGraph(t, 8, 19)
	a := buildArray(t, g, smallTileProfile())

	spins := make(graphio.SpinVector, a.Dim())
	for i := range spins {
		spins[i] = graphio.SpinUp
	}

	acc1 := a.NewAccumulator()
	acc2 := a.NewAccumulator()
	_, err := a.Multiply(spins, acc1)
	require.NoError(t, err)
	_, err = a.Multiply(spins, acc2)
	require.NoError(t, err)

	merged := a.NewAccumulator()
	merged.Merge(acc1)
	merged.Merge(acc2)

	s := merged.Summary()
	assert.Equal(t, int64(2), s.Invocations)
	assert.InDelta(t, acc1.Summary().EnergyJoules+acc2.Summary().EnergyJoules, s.EnergyJoules, 1e-18)
	// Area is an array property, not additive across accumulators.
	assert.Equal(t, acc1.Summary().AreaUM2, s.AreaUM2)
}

func TestArray_FieldIsFinite(t *testing.T) {
	g := randomGraph(t, 12, 23)
	a := buildArray(t, g, smallTileProfile())
	spins := make(graphio.SpinVector, a.Dim())
	for i := range spins {
		spins[i] = graphio.SpinUp
	}
	field, err := a.Multiply(spins, nil)
	require.NoError(t, err)
	for i, f := range field {
		assert.False(t, math.IsNaN(f) || math.IsInf(f, 0), "field[%d] = %v", i, f)
	}
}
