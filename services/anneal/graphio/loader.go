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
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadGraph reads a graph file, dispatching on the extension:
// ".csv" is parsed as a square symmetric adjacency matrix, everything
// else as a whitespace-delimited edge list.
func LoadGraph(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer f.Close()

	var g *Graph
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		g, err = LoadAdjacencyCSV(f)
	} else {
		g, err = LoadEdgeList(f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	g.Name = filepath.Base(path)
	slog.Info("graph loaded",
		"file", g.Name,
		"nodes", g.NumNodes,
		"edges", g.EdgeCount,
	)
	return g, nil
}

// LoadEdgeList parses rows of the form "src dst weight". The weight
// column is optional and defaults to 1. Blank lines and lines starting
// with '#' are ignored. Node indices are contiguous integers starting at
// 0; the node count is one past the largest index seen.
func LoadEdgeList(r io.Reader) (*Graph, error) {
	type edge struct {
		src, dst int
		weight   float64
	}
	var (
		edges   []edge
		maxNode = -1
		lineNo  = 0
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("%w: line %d has %d fields, want 2 or 3", ErrMalformedRow, lineNo, len(fields))
		}
		src, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d src %q", ErrMalformedRow, lineNo, fields[0])
		}
		dst, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d dst %q", ErrMalformedRow, lineNo, fields[1])
		}
		if src < 0 || dst < 0 {
			return nil, fmt.Errorf("%w: line %d edge (%d, %d)", ErrNodeIndexOutOfRange, lineNo, src, dst)
		}
		weight := 1.0
		if len(fields) == 3 {
			weight, err = strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d weight %q", ErrNonNumericWeight, lineNo, fields[2])
			}
		}
		if weight < 0 {
			return nil, fmt.Errorf("%w: line %d weight %g", ErrNegativeWeight, lineNo, weight)
		}
		if src == dst {
			return nil, fmt.Errorf("%w: line %d node %d", ErrSelfLoop, lineNo, src)
		}
		if src > maxNode {
			maxNode = src
		}
		if dst > maxNode {
			maxNode = dst
		}
		edges = append(edges, edge{src: src, dst: dst, weight: weight})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read edge list: %w", err)
	}
	if maxNode < 0 {
		return nil, ErrEmptyGraph
	}

	g := NewGraph(maxNode + 1)
	for _, e := range edges {
		if err := g.AddEdge(e.src, e.dst, e.weight); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// LoadAdjacencyCSV parses a square comma-delimited adjacency matrix.
// The matrix must be symmetric; diagonal entries must be zero. Lines
// starting with '#' are ignored.
func LoadAdjacencyCSV(r io.Reader) (*Graph, error) {
	var rows [][]float64
	lineNo := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, ",")
		row := make([]float64, 0, len(cols))
		for _, c := range cols {
			v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d cell %q", ErrNonNumericWeight, lineNo, c)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read adjacency matrix: %w", err)
	}

	return FromWeights(rows)
}

// FromWeights builds a graph from a dense adjacency matrix. The matrix
// must be square and symmetric with a zero diagonal.
func FromWeights(rows [][]float64) (*Graph, error) {
	n := len(rows)
	if n == 0 {
		return nil, ErrEmptyGraph
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrMalformedRow, i, len(row), n)
		}
	}
	for i := 0; i < n; i++ {
		if rows[i][i] != 0 {
			return nil, fmt.Errorf("%w: diagonal entry [%d][%d] = %g", ErrSelfLoop, i, i, rows[i][i])
		}
		for j := i + 1; j < n; j++ {
			if rows[i][j] != rows[j][i] {
				return nil, fmt.Errorf("%w: [%d][%d] = %g but [%d][%d] = %g",
					ErrAsymmetricMatrix, i, j, rows[i][j], j, i, rows[j][i])
			}
		}
	}

	g := NewGraph(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rows[i][j] != 0 {
				if err := g.AddEdge(i, j, rows[i][j]); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

// ParseSpinVector parses a comma-separated spin override such as
// "1,-1,1" into a SpinVector and validates it against the graph size.
func ParseSpinVector(s string, numNodes int) (SpinVector, error) {
	s = strings.Trim(s, "[] ")
	parts := strings.Split(s, ",")
	spins := make(SpinVector, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("parse spin %q: %w", p, err)
		}
		spins = append(spins, Spin(v))
	}
	if len(spins) != numNodes {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSpinLengthMismatch, len(spins), numNodes)
	}
	if err := spins.Validate(); err != nil {
		return nil, err
	}
	return spins, nil
}

// SpinsFromInts converts a caller-supplied integer vector into spins,
// validating length and values.
func SpinsFromInts(vals []int, numNodes int) (SpinVector, error) {
	if len(vals) != numNodes {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSpinLengthMismatch, len(vals), numNodes)
	}
	spins := make(SpinVector, len(vals))
	for i, v := range vals {
		spins[i] = Spin(v)
	}
	if err := spins.Validate(); err != nil {
		return nil, err
	}
	return spins, nil
}
