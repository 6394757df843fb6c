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
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/MemCut/services/anneal/device"
	"github.com/AleutianAI/MemCut/services/anneal/engine"
	"github.com/AleutianAI/MemCut/services/anneal/graphio"
	"github.com/AleutianAI/MemCut/services/anneal/solver"
	"github.com/AleutianAI/MemCut/services/anneal/store"
)

// ServiceVersion is the anneal service version.
const ServiceVersion = "0.1.0"

// Handlers contains the HTTP handlers for the anneal service.
type Handlers struct {
	profile device.Profile
	runs    *store.Store
}

// NewHandlers creates handlers with the given device profile. The run
// store is optional; without it solves still work but are not
// persisted.
func NewHandlers(profile device.Profile) *Handlers {
	return &Handlers{profile: profile}
}

// WithStore attaches a run store for persistence.
func (h *Handlers) WithStore(s *store.Store) *Handlers {
	h.runs = s
	return h
}

// edgeSpec is one weighted edge in a solve request.
type edgeSpec struct {
	I      int      `json:"i"`
	J      int      `json:"j"`
	Weight *float64 `json:"weight,omitempty"`
}

// solveRequest is the JSON body of POST /v1/anneal/solve. The graph
// arrives either as an edge list with an explicit node count or as a
// dense symmetric weights matrix; exactly one of the two is required.
type solveRequest struct {
	GraphName string      `json:"graph_name"`
	Nodes     int         `json:"nodes"`
	Edges     []edgeSpec  `json:"edges,omitempty"`
	Weights   [][]float64 `json:"weights,omitempty"`

	Algorithm string  `json:"algorithm"`
	Trials    int     `json:"trials"`
	Cycles    int     `json:"cycles"`
	Mode      string  `json:"mode"`
	Seed      int64   `json:"seed"`
	I0Min     float64 `json:"i0_min"`
	I0Max     float64 `json:"i0_max"`

	// Spins, when present, is scored as-is instead of solving.
	Spins []int `json:"spins,omitempty"`

	DisableHardware bool `json:"disable_hardware"`
}

// solveResponse is the JSON body returned by HandleSolve.
type solveResponse struct {
	RunID string `json:"run_id,omitempty"`
	*solver.Result
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleSolve handles POST /v1/anneal/solve.
func (h *Handlers) HandleSolve(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	g, err := buildGraph(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	params, err := h.buildParams(&req, g.NumNodes)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := solver.Solve(c.Request.Context(), g, params)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, solver.ErrUnknownAlgorithm),
			errors.Is(err, engine.ErrInvalidTrialCount),
			errors.Is(err, engine.ErrInvalidCycleCount),
			errors.Is(err, engine.ErrInvalidSchedule),
			errors.Is(err, solver.ErrInvalidRestartCount),
			errors.Is(err, solver.ErrMissingAcceleratorURL):
			status = http.StatusBadRequest
		case errors.Is(err, solver.ErrDeviceUnavailable):
			status = http.StatusBadGateway
		}
		c.JSON(status, errorResponse{Error: err.Error()})
		return
	}

	resp := solveResponse{Result: res}
	if h.runs != nil {
		id, err := h.runs.SaveRun(store.RecordFromResult(g, params, res))
		if err != nil {
			// The solve succeeded; losing the archive entry is not
			// worth failing the request over.
			slog.Error("failed to persist run", "error", err)
		} else {
			resp.RunID = id
		}
	}
	c.JSON(http.StatusOK, resp)
}

// HandleListRuns handles GET /v1/anneal/runs?limit=N.
func (h *Handlers) HandleListRuns(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusNotImplemented, errorResponse{Error: "run persistence is not enabled"})
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	runs, err := h.runs.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// HandleGetRun handles GET /v1/anneal/runs/:id.
func (h *Handlers) HandleGetRun(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusNotImplemented, errorResponse{Error: "run persistence is not enabled"})
		return
	}
	rec, err := h.runs.GetRun(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// HandleHealth handles GET /v1/anneal/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": ServiceVersion,
	})
}

// buildGraph converts the request's graph section into a Graph.
func buildGraph(req *solveRequest) (*graphio.Graph, error) {
	var g *graphio.Graph
	switch {
	case len(req.Weights) > 0:
		var err error
		g, err = graphio.FromWeights(req.Weights)
		if err != nil {
			return nil, err
		}
	case req.Nodes > 0:
		g = graphio.NewGraph(req.Nodes)
		for _, e := range req.Edges {
			w := 1.0
			if e.Weight != nil {
				w = *e.Weight
			}
			if err := g.AddEdge(e.I, e.J, w); err != nil {
				return nil, err
			}
		}
	default:
		return nil, errors.New("request must carry either a weights matrix or nodes with an edge list")
	}
	g.Name = req.GraphName
	return g, nil
}

// buildParams maps the request onto solver parameters.
func (h *Handlers) buildParams(req *solveRequest, nodes int) (solver.Params, error) {
	params := solver.Params{
		Algorithm: solver.AlgAnnealing,
		Trials:    req.Trials,
		Cycles:    req.Cycles,
		Seed:      req.Seed,
		I0Min:     req.I0Min,
		I0Max:     req.I0Max,
		Profile:   h.profile,
	}
	if req.DisableHardware {
		params.Profile.HardwareModeling = false
	}

	if req.Algorithm != "" {
		alg, err := solver.ParseAlgorithm(req.Algorithm)
		if err != nil {
			return solver.Params{}, err
		}
		params.Algorithm = alg
	}
	if req.Mode != "" {
		mode, err := engine.ParseUpdateMode(req.Mode)
		if err != nil {
			return solver.Params{}, err
		}
		params.Mode = mode
	}
	if req.Spins != nil {
		spins, err := graphio.SpinsFromInts(req.Spins, nodes)
		if err != nil {
			return solver.Params{}, err
		}
		params.ExplicitSpins = spins
	}
	return params, nil
}
