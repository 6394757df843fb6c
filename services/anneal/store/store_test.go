// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/MemCut/services/anneal/graphio"
	"github.com/AleutianAI/MemCut/services/anneal/solver"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveAndGet(t *testing.T) {
	s := openTestStore(t)

	rec := &RunRecord{
		GraphName:    "k3",
		Nodes:        3,
		Edges:        3,
		Algorithm:    solver.AlgAnnealing,
		Trials:       5,
		Cycles:       100,
		CutValue:     2,
		BalanceRatio: 1.0 / 3.0,
		Spins:        graphio.SpinVector{1, -1, 1},
	}
	id, err := s.SaveRun(rec)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.False(t, rec.CreatedAt.IsZero(), "SaveRun must stamp CreatedAt")

	got, err := s.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, rec.GraphName, got.GraphName)
	assert.Equal(t, rec.CutValue, got.CutValue)
	assert.Equal(t, rec.Spins, got.Spins)
	assert.Equal(t, rec.Algorithm, got.Algorithm)
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetRun("does-not-exist")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := openTestStore(t)

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		_, err := s.SaveRun(&RunRecord{
			GraphName: "g",
			CutValue:  float64(i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, 2.0, runs[0].CutValue, "newest run first")
	assert.Equal(t, 0.0, runs[2].CutValue)

	limited, err := s.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_MissingPath(t *testing.T) {
	_, err := Open(Config{})
	assert.ErrorIs(t, err, ErrMissingPath)
}

func TestRecordFromResult(t *testing.T) {
	g := graphio.NewGraph(3)
	require.NoError(t, g.AddEdge(0, 1, 2))
	g.Name = "pair"

	res := &solver.Result{
		Algorithm:    solver.AlgGreedy,
		Spins:        graphio.SpinVector{1, -1, 1},
		CutValue:     2,
		BalanceRatio: 1.0 / 3.0,
	}
	rec := RecordFromResult(g, solver.Params{Trials: 4, Seed: 9}, res)
	assert.Equal(t, "pair", rec.GraphName)
	assert.Equal(t, 3, rec.Nodes)
	assert.Equal(t, 1, rec.Edges)
	assert.Equal(t, solver.AlgGreedy, rec.Algorithm)
	assert.Equal(t, 4, rec.Trials)
	assert.Equal(t, int64(9), rec.Seed)
	assert.Equal(t, 2.0, rec.CutValue)
}
