// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graphio

import (
	"fmt"
	"math"
)

// Spin is a single probabilistic-bit state: -1 or +1.
type Spin int8

const (
	// SpinDown places the node in partition 0.
	SpinDown Spin = -1

	// SpinUp places the node in partition 1.
	SpinUp Spin = 1
)

// SpinVector assigns every node to one side of a candidate cut.
type SpinVector []Spin

// Clone returns an independent copy of the vector.
func (s SpinVector) Clone() SpinVector {
	out := make(SpinVector, len(s))
	copy(out, s)
	return out
}

// Partition converts the spin assignment into the two node sets it
// induces: setZero holds nodes with spin -1, setOne holds nodes with
// spin +1.
func (s SpinVector) Partition() (setZero, setOne []int) {
	for i, sp := range s {
		if sp > 0 {
			setOne = append(setOne, i)
		} else {
			setZero = append(setZero, i)
		}
	}
	return setZero, setOne
}

// Validate checks that every entry is -1 or +1.
func (s SpinVector) Validate() error {
	for i, sp := range s {
		if sp != SpinDown && sp != SpinUp {
			return fmt.Errorf("spin[%d] = %d: values must be -1 or +1", i, sp)
		}
	}
	return nil
}

// Graph is an undirected weighted graph over nodes 0..NumNodes-1,
// stored as a dense symmetric weight matrix with a zero diagonal.
//
// Graphs are immutable after construction and safe for concurrent reads.
type Graph struct {
	// NumNodes is N; node indices are 0..N-1.
	NumNodes int

	// Weights is the symmetric N x N weight matrix. Weights[i][j] == 0
	// means no edge. The diagonal is always zero.
	Weights [][]float64

	// EdgeCount is the number of undirected edges with non-zero weight.
	EdgeCount int

	// Name identifies the source (typically the file basename).
	Name string
}

// NewGraph builds an empty graph with n nodes.
func NewGraph(n int) *Graph {
	w := make([][]float64, n)
	for i := range w {
		w[i] = make([]float64, n)
	}
	return &Graph{NumNodes: n, Weights: w}
}

// AddEdge sets the weight of the undirected edge (i, j). It is only used
// during construction; the loaders call it before the graph is published.
func (g *Graph) AddEdge(i, j int, weight float64) error {
	if i < 0 || j < 0 || i >= g.NumNodes || j >= g.NumNodes {
		return fmt.Errorf("%w: edge (%d, %d) on %d nodes", ErrNodeIndexOutOfRange, i, j, g.NumNodes)
	}
	if i == j {
		return fmt.Errorf("%w: node %d", ErrSelfLoop, i)
	}
	if weight < 0 {
		return fmt.Errorf("%w: edge (%d, %d) weight %g", ErrNegativeWeight, i, j, weight)
	}
	if g.Weights[i][j] == 0 && weight != 0 {
		g.EdgeCount++
	}
	g.Weights[i][j] = weight
	g.Weights[j][i] = weight
	return nil
}

// Weight returns the weight of edge (i, j), zero if absent.
func (g *Graph) Weight(i, j int) float64 {
	return g.Weights[i][j]
}

// MaxWeight returns the largest edge weight in the graph, zero for an
// edgeless graph. The quantizer uses it as the normalization ceiling.
func (g *Graph) MaxWeight() float64 {
	max := 0.0
	for i := 0; i < g.NumNodes; i++ {
		for j := i + 1; j < g.NumNodes; j++ {
			if g.Weights[i][j] > max {
				max = g.Weights[i][j]
			}
		}
	}
	return max
}

// CutValue evaluates the weight of edges crossing the partition induced
// by spins: the sum over edges (i, j) with spins[i] != spins[j].
//
// Returns ErrSpinLengthMismatch when the vector does not cover every node.
func (g *Graph) CutValue(spins SpinVector) (float64, error) {
	if len(spins) != g.NumNodes {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrSpinLengthMismatch, len(spins), g.NumNodes)
	}
	cut := 0.0
	for i := 0; i < g.NumNodes; i++ {
		for j := i + 1; j < g.NumNodes; j++ {
			if g.Weights[i][j] != 0 && spins[i] != spins[j] {
				cut += g.Weights[i][j]
			}
		}
	}
	return cut, nil
}

// TotalWeight returns the sum of all edge weights. The cut value of any
// spin vector is bounded above by this quantity.
func (g *Graph) TotalWeight() float64 {
	total := 0.0
	for i := 0; i < g.NumNodes; i++ {
		for j := i + 1; j < g.NumNodes; j++ {
			total += g.Weights[i][j]
		}
	}
	return total
}

// maxBruteForceNodes bounds exhaustive enumeration to 2^23 assignments.
const maxBruteForceNodes = 24

// BruteForce enumerates every partition and returns an optimal spin
// vector with its cut value. Only feasible for small instances; it exists
// for validation of the stochastic solvers.
//
// Outputs:
//   - SpinVector: an optimal assignment (node 0 fixed to -1 to halve the
//     symmetric search space)
//   - float64: the maximum cut value
//   - error: ErrGraphTooLarge beyond 24 nodes, ErrEmptyGraph for n == 0
func BruteForce(g *Graph) (SpinVector, float64, error) {
	n := g.NumNodes
	if n == 0 {
		return nil, 0, ErrEmptyGraph
	}
	if n > maxBruteForceNodes {
		return nil, 0, fmt.Errorf("%w: %d nodes", ErrGraphTooLarge, n)
	}

	best := SpinVector(nil)
	bestCut := math.Inf(-1)
	spins := make(SpinVector, n)

	// Node 0 stays -1; flipping every spin leaves the cut unchanged.
	for mask := uint64(0); mask < uint64(1)<<(n-1); mask++ {
		spins[0] = SpinDown
		for i := 1; i < n; i++ {
			if mask&(1<<(i-1)) != 0 {
				spins[i] = SpinUp
			} else {
				spins[i] = SpinDown
			}
		}
		cut, err := g.CutValue(spins)
		if err != nil {
			return nil, 0, err
		}
		if cut > bestCut {
			bestCut = cut
			best = spins.Clone()
		}
	}
	return best, bestCut, nil
}
