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
	"fmt"
	"log/slog"

	"github.com/AleutianAI/MemCut/services/anneal/device"
	"github.com/AleutianAI/MemCut/services/anneal/graphio"
)

// Array is an emulated resistive crossbar holding the quantized,
// tiled conductance matrix of a graph.
//
// Description:
//
//	The N x N conductance matrix is partitioned into tiles no larger
//	than the profile's crossbar dimensions, with zero padding on
//	underfull edges. Multiply computes the local field of every node via
//	differential voltage encoding: spin +1 drives the positive rail,
//	spin -1 the complementary rail, and the signed field is the
//	subtraction of the two resulting currents. FieldAt does the same for
//	one row only, touching just the tiles covering that row.
//
// Thread Safety: Safe for concurrent use after construction. All cost
// state flows through caller-owned Accumulators.
type Array struct {
	n int

	tileRows int
	tileCols int

	// bandsDown/bandsAcross are the tile grid dimensions:
	// ceil(n/tileRows) x ceil(n/tileCols).
	bandsDown   int
	bandsAcross int

	tiles []*Tile

	// rowBands[b] holds the tiles covering row band b, so sequential
	// mode reads only pay for the tiles a row actually spans.
	rowBands [][]*Tile

	// g is the dense conductance matrix the tiles were carved from.
	// Kept for reconstruction checks and direct cell reads.
	g [][]float64

	readVoltage float64
	profile     device.Profile
	totalCells  int
}

// New builds a crossbar array from a graph and a quantizer.
//
// Inputs:
//   - graph: node/weight model; read-only, shared by reference.
//   - quant: weight-to-conductance mapping (see device.Quantizer).
//   - profile: validated device profile supplying tile geometry,
//     read voltage and cost constants.
//
// Outputs:
//   - *Array: immutable tiled array.
//   - error: ErrEmptyArray for a zero-node graph.
func New(graph *graphio.Graph, quant *device.Quantizer, profile device.Profile) (*Array, error) {
	n := graph.NumNodes
	if n == 0 {
		return nil, ErrEmptyArray
	}

	g := make([][]float64, n)
	active := 0
	for i := 0; i < n; i++ {
		g[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue // self-loop cells stay open regardless of level
			}
			c := quant.ConductanceFor(graph.Weight(i, j))
			g[i][j] = c
			if c != 0 {
				active++
			}
		}
	}

	a := &Array{
		n:           n,
		tileRows:    profile.CrossbarRows,
		tileCols:    profile.CrossbarCols,
		bandsDown:   (n + profile.CrossbarRows - 1) / profile.CrossbarRows,
		bandsAcross: (n + profile.CrossbarCols - 1) / profile.CrossbarCols,
		g:           g,
		readVoltage: profile.ReadVoltage(),
		profile:     profile,
		totalCells:  active,
	}

	a.rowBands = make([][]*Tile, a.bandsDown)
	for bd := 0; bd < a.bandsDown; bd++ {
		for ba := 0; ba < a.bandsAcross; ba++ {
			t := newTile(g, bd*a.tileRows, ba*a.tileCols, a.tileRows, a.tileCols)
			a.tiles = append(a.tiles, t)
			a.rowBands[bd] = append(a.rowBands[bd], t)
		}
	}

	slog.Debug("crossbar array built",
		"nodes", n,
		"tiles", len(a.tiles),
		"tile_size", fmt.Sprintf("%dx%d", a.tileRows, a.tileCols),
		"active_cells", active,
	)
	return a, nil
}

// Dim returns the array dimension N.
func (a *Array) Dim() int { return a.n }

// TileCount returns the number of physical tiles the matrix occupies.
func (a *Array) TileCount() int { return len(a.tiles) }

// Conductance returns the programmed conductance of cell (i, j).
func (a *Array) Conductance(i, j int) float64 { return a.g[i][j] }

// NewAccumulator returns a hardware-cost accumulator bound to this
// array's geometry and device constants. When hardware modeling is
// disabled in the profile, the accumulator records nothing and reports
// all-zero.
func (a *Array) NewAccumulator() *Accumulator {
	return newAccumulator(a.profile, len(a.tiles))
}

// encode expands a spin vector into the two read-voltage rails.
// Entries past len(spins) are never referenced because padded tile
// cells are zero.
func (a *Array) encode(spins graphio.SpinVector) (vPlus, vMinus []float64) {
	vPlus = make([]float64, a.n)
	vMinus = make([]float64, a.n)
	for j, s := range spins {
		if s > 0 {
			vPlus[j] = a.readVoltage
		} else {
			vMinus[j] = a.readVoltage
		}
	}
	return vPlus, vMinus
}

// Multiply computes the local field of every node for the given spins:
// field[i] = sum_j G[i][j] * spin[j].
//
// Every tile is read once; the invocation's tile-read and active-cell
// counts are recorded into acc (nil acc skips accounting entirely,
// which callers outside the solve path use for ad hoc reads).
func (a *Array) Multiply(spins graphio.SpinVector, acc *Accumulator) ([]float64, error) {
	if len(spins) != a.n {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSpinLengthMismatch, len(spins), a.n)
	}

	vPlus, vMinus := a.encode(spins)
	field := make([]float64, a.n)
	for _, t := range a.tiles {
		t.accumulate(field, vPlus, vMinus)
	}
	// Currents scale with the read voltage; dividing it back out yields
	// the dimensionless field the annealing update expects.
	inv := 1 / a.readVoltage
	for i := range field {
		field[i] *= inv
	}

	if acc != nil {
		acc.RecordInvocation(len(a.tiles), a.totalCells)
	}
	recordMVM(len(a.tiles), a.totalCells)
	return field, nil
}

// FieldAt computes the local field of a single node against the current
// spins, reading only the tiles that cover its row. Sequential update
// mode calls this once per node per cycle.
func (a *Array) FieldAt(row int, spins graphio.SpinVector, acc *Accumulator) (float64, error) {
	if row < 0 || row >= a.n {
		return 0, fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	if len(spins) != a.n {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrSpinLengthMismatch, len(spins), a.n)
	}

	vPlus, vMinus := a.encode(spins)
	band := row / a.tileRows
	local := row - band*a.tileRows

	sum := 0.0
	cells := 0
	for _, t := range a.rowBands[band] {
		sum += t.accumulateRow(local, vPlus, vMinus)
		cells += t.rowNonZero[local]
	}

	if acc != nil {
		acc.RecordInvocation(len(a.rowBands[band]), cells)
	}
	recordMVM(len(a.rowBands[band]), cells)
	return sum / a.readVoltage, nil
}

// Reconstruct rebuilds the full conductance matrix from tile contents.
// The result must equal the dense matrix element-wise; the tiling tests
// assert this invariant for arrays above and below the tile dimension.
func (a *Array) Reconstruct() [][]float64 {
	out := make([][]float64, a.n)
	for i := range out {
		out[i] = make([]float64, a.n)
	}
	for _, t := range a.tiles {
		for r := 0; r < t.rows; r++ {
			for c := 0; c < t.cols; c++ {
				out[t.rowOffset+r][t.colOffset+c] += t.cells[r][c]
			}
		}
	}
	return out
}
