// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/MemCut/services/anneal/device"
	"github.com/AleutianAI/MemCut/services/anneal/store"
)

func testRouter(t *testing.T, withStore bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p := device.DefaultProfile()
	p.CrossbarRows = 8
	p.CrossbarCols = 8
	h := NewHandlers(p)
	if withStore {
		s, err := store.Open(store.InMemoryConfig())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		h = h.WithStore(s)
	}
	return NewRouter(h)
}

func postSolve(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/anneal/solve", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func pathGraphRequest() map[string]any {
	return map[string]any{
		"graph_name": "path3",
		"nodes":      3,
		"edges": []map[string]any{
			{"i": 0, "j": 1, "weight": 1},
			{"i": 1, "j": 2, "weight": 2},
		},
		"algorithm": "annealing",
		"trials":    5,
		"cycles":    50,
		"seed":      42,
	}
}

func TestHandleSolve(t *testing.T) {
	r := testRouter(t, true)

	w := postSolve(t, r, pathGraphRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		RunID    string  `json:"run_id"`
		CutValue float64 `json:"cut_value"`
		Spins    []int   `json:"spins"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3.0, resp.CutValue)
	assert.Len(t, resp.Spins, 3)
	assert.NotEmpty(t, resp.RunID, "solves are archived when a store is attached")

	// The archived run is retrievable.
	get := httptest.NewRecorder()
	r.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/v1/anneal/runs/"+resp.RunID, nil))
	require.Equal(t, http.StatusOK, get.Code)

	list := httptest.NewRecorder()
	r.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/v1/anneal/runs", nil))
	require.Equal(t, http.StatusOK, list.Code)
	var listResp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listResp))
	assert.Equal(t, 1, listResp.Count)
}

func TestHandleSolve_ExplicitSpins(t *testing.T) {
	r := testRouter(t, false)

	req := pathGraphRequest()
	req["spins"] = []int{1, -1, 1}
	w := postSolve(t, r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		CutValue float64         `json:"cut_value"`
		Hardware json.RawMessage `json:"hardware"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3.0, resp.CutValue)
}

func TestHandleSolve_WeightsMatrix(t *testing.T) {
	r := testRouter(t, false)

	w := postSolve(t, r, map[string]any{
		"weights": [][]float64{
			{0, 1, 0},
			{1, 0, 2},
			{0, 2, 0},
		},
		"algorithm": "greedy",
		"trials":    4,
		"seed":      1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		CutValue float64 `json:"cut_value"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3.0, resp.CutValue)
}

func TestHandleSolve_BadRequests(t *testing.T) {
	r := testRouter(t, false)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			"no graph",
			map[string]any{"algorithm": "annealing", "trials": 1, "cycles": 1},
			http.StatusBadRequest,
		},
		{
			"unknown algorithm",
			map[string]any{"nodes": 2, "edges": []map[string]any{{"i": 0, "j": 1}}, "algorithm": "magic", "trials": 1, "cycles": 1},
			http.StatusBadRequest,
		},
		{
			"zero trials",
			map[string]any{"nodes": 2, "edges": []map[string]any{{"i": 0, "j": 1}}, "algorithm": "annealing", "trials": 0, "cycles": 1},
			http.StatusBadRequest,
		},
		{
			"negative weight",
			map[string]any{"nodes": 2, "edges": []map[string]any{{"i": 0, "j": 1, "weight": -2}}, "algorithm": "annealing", "trials": 1, "cycles": 1},
			http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postSolve(t, r, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestHandleRuns_NoStore(t *testing.T) {
	r := testRouter(t, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/anneal/runs", nil))
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestHandleGetRun_NotFound(t *testing.T) {
	r := testRouter(t, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/anneal/runs/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleHealth(t *testing.T) {
	r := testRouter(t, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/anneal/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ServiceVersion)
}
