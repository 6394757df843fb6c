// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graphio provides the weighted graph model consumed by the
// annealing service, plus loaders for the two supported input formats:
// whitespace-delimited edge lists and square comma-delimited adjacency
// matrices.
//
// # Ownership Model
//
// A Graph is built once at load time and is read-only afterwards.
// The weight matrix it holds is shared by reference with the crossbar
// layer; callers MUST NOT mutate it after LoadGraph returns.
//
// # Thread Safety
//
// Graph is safe for concurrent reads after construction. SpinVector is a
// plain slice and follows normal slice ownership rules.
package graphio

import "errors"

// Sentinel errors for graph loading. All of these are fatal at load time:
// a graph that fails to parse never reaches the solver.
var (
	// ErrMalformedRow is returned when an edge-list row does not have the
	// shape "src dst [weight]" or an adjacency row has the wrong width.
	ErrMalformedRow = errors.New("malformed graph row")

	// ErrNonNumericWeight is returned when a weight column cannot be
	// parsed as a real number.
	ErrNonNumericWeight = errors.New("non-numeric edge weight")

	// ErrNegativeWeight is returned for negative edge weights. The
	// quantizer's domain is non-negative conductance; signed couplings
	// are not supported.
	ErrNegativeWeight = errors.New("negative edge weight not supported")

	// ErrNodeIndexOutOfRange is returned when a node index is negative.
	// Node indices must be contiguous integers starting at 0.
	ErrNodeIndexOutOfRange = errors.New("node index out of range")

	// ErrSelfLoop is returned when an edge connects a node to itself.
	// The cut objective never counts self-loops.
	ErrSelfLoop = errors.New("self-loop edge not supported")

	// ErrAsymmetricMatrix is returned when an adjacency-matrix input is
	// not symmetric.
	ErrAsymmetricMatrix = errors.New("adjacency matrix is not symmetric")

	// ErrEmptyGraph is returned when the input contains no nodes.
	ErrEmptyGraph = errors.New("graph has no nodes")

	// ErrSpinLengthMismatch is returned when a spin vector's length does
	// not match the graph's node count.
	ErrSpinLengthMismatch = errors.New("spin vector length does not match node count")

	// ErrGraphTooLarge is returned by BruteForce when the instance is
	// beyond exhaustive enumeration.
	ErrGraphTooLarge = errors.New("graph too large for brute-force enumeration")
)
