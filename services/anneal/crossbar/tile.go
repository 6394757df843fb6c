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

// Tile is one physical crossbar block holding a zero-padded sub-matrix
// of the conductance matrix. Tiles never overlap, and the union of all
// tiles reconstructs the full matrix element-wise.
type Tile struct {
	// rowOffset and colOffset locate the tile in the full matrix.
	rowOffset int
	colOffset int

	// rows and cols are the unpadded extent; the cells slice is always
	// the full physical tile size with zero padding past this extent.
	rows int
	cols int

	// cells holds conductances, tileRows x tileCols, zero padded.
	cells [][]float64

	// nonZero counts programmed (conducting) cells in the tile.
	nonZero int

	// rowNonZero counts programmed cells per local row, for row-scoped
	// reads in sequential update mode.
	rowNonZero []int
}

// newTile carves the block at (rowOffset, colOffset) out of the dense
// conductance matrix g, padding to the physical tile size.
func newTile(g [][]float64, rowOffset, colOffset, tileRows, tileCols int) *Tile {
	n := len(g)
	rows := min(tileRows, n-rowOffset)
	cols := min(tileCols, n-colOffset)

	t := &Tile{
		rowOffset:  rowOffset,
		colOffset:  colOffset,
		rows:       rows,
		cols:       cols,
		cells:      make([][]float64, tileRows),
		rowNonZero: make([]int, tileRows),
	}
	for r := 0; r < tileRows; r++ {
		t.cells[r] = make([]float64, tileCols)
		if r >= rows {
			continue
		}
		for c := 0; c < cols; c++ {
			v := g[rowOffset+r][colOffset+c]
			t.cells[r][c] = v
			if v != 0 {
				t.nonZero++
				t.rowNonZero[r]++
			}
		}
	}
	return t
}

// accumulate adds this tile's contribution to the differential read:
// field[rowOffset+r] += sum_c cells[r][c] * (vPlus[col] - vMinus[col]).
//
// vPlus and vMinus are the two voltage rails of the spin encoding; the
// subtraction of the two resulting currents is what makes the output
// signed despite strictly non-negative conductances.
func (t *Tile) accumulate(field, vPlus, vMinus []float64) {
	for r := 0; r < t.rows; r++ {
		row := t.cells[r]
		sum := 0.0
		for c := 0; c < t.cols; c++ {
			g := row[c]
			if g == 0 {
				continue
			}
			col := t.colOffset + c
			sum += g * (vPlus[col] - vMinus[col])
		}
		field[t.rowOffset+r] += sum
	}
}

// accumulateRow returns this tile's contribution to a single row's
// differential read. The caller has already mapped the global row index
// to this tile's local row r.
func (t *Tile) accumulateRow(r int, vPlus, vMinus []float64) float64 {
	row := t.cells[r]
	sum := 0.0
	for c := 0; c < t.cols; c++ {
		g := row[c]
		if g == 0 {
			continue
		}
		col := t.colOffset + c
		sum += g * (vPlus[col] - vMinus[col])
	}
	return sum
}
