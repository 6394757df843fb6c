// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package solver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AleutianAI/MemCut/services/anneal/crossbar"
	"github.com/AleutianAI/MemCut/services/anneal/device"
	"github.com/AleutianAI/MemCut/services/anneal/engine"
	"github.com/AleutianAI/MemCut/services/anneal/graphio"
)

// Algorithm names a Max-Cut strategy.
type Algorithm string

const (
	AlgAnnealing   Algorithm = "annealing"
	AlgProjection  Algorithm = "heuristic-projection"
	AlgGreedy      Algorithm = "greedy"
	AlgAccelerator Algorithm = "external-accelerator"
)

// Algorithms lists the supported strategy names in CLI display order.
func Algorithms() []Algorithm {
	return []Algorithm{AlgAnnealing, AlgProjection, AlgGreedy, AlgAccelerator}
}

// ParseAlgorithm maps a user-supplied name to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AlgAnnealing, AlgProjection, AlgGreedy, AlgAccelerator:
		return Algorithm(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// Params carries everything a strategy needs beyond the graph itself.
type Params struct {
	Algorithm Algorithm

	// Trials and Cycles drive the annealer; Trials doubles as the
	// restart budget for the projection and greedy heuristics.
	Trials  int
	Cycles  int
	Mode    engine.UpdateMode
	Seed    int64
	I0Min   float64
	I0Max   float64
	Workers int

	// Profile describes the emulated device. The zero value is
	// replaced with device.DefaultProfile.
	Profile device.Profile

	// ExplicitSpins, when non-nil, short-circuits solving: the vector
	// is evaluated against the graph and returned as the result.
	ExplicitSpins graphio.SpinVector

	// AcceleratorURL is the endpoint for the external-accelerator
	// strategy. Ignored by the other strategies.
	AcceleratorURL     string
	AcceleratorTimeout time.Duration
}

// Result is the outcome of a solve, common to every strategy.
type Result struct {
	Algorithm Algorithm          `json:"algorithm"`
	Spins     graphio.SpinVector `json:"spins"`
	CutValue  float64            `json:"cut_value"`

	// BalanceRatio is the smaller partition's share of the nodes,
	// in [0, 0.5].
	BalanceRatio float64 `json:"balance_ratio"`

	// BestTrial and Trials are populated by the annealer; the
	// heuristics report restarts the same way. Stats summarizes the
	// trial cut values.
	BestTrial int                 `json:"best_trial"`
	Trials    []engine.TrialStats `json:"trials,omitempty"`
	Stats     engine.TrialSummary `json:"trial_stats"`
	Faults    int                 `json:"faults"`

	Hardware crossbar.Summary `json:"hardware"`
	Elapsed  time.Duration    `json:"elapsed_ns"`
}

// Strategy is the interface every algorithm implements. Solve must be
// safe to call once per Strategy value; strategies are cheap to
// construct and not reused across runs.
type Strategy interface {
	Name() Algorithm
	Solve(ctx context.Context, g *graphio.Graph, params Params) (*Result, error)
}

// New returns the strategy for the named algorithm. The set is closed;
// anything else is ErrUnknownAlgorithm.
func New(alg Algorithm) (Strategy, error) {
	switch alg {
	case AlgAnnealing:
		return &annealingStrategy{}, nil
	case AlgProjection:
		return &projectionStrategy{}, nil
	case AlgGreedy:
		return &greedyStrategy{}, nil
	case AlgAccelerator:
		return newAcceleratorStrategy(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
}

// Solve is the single entry point used by the CLI and the API service.
// An explicit spin vector bypasses the strategy entirely and is scored
// as-is.
func Solve(ctx context.Context, g *graphio.Graph, params Params) (*Result, error) {
	if params.ExplicitSpins != nil {
		return evaluateOnly(g, params)
	}

	if params.Profile.Levels == 0 {
		params.Profile = device.DefaultProfile()
	}
	if err := params.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("device profile: %w", err)
	}

	strat, err := New(params.Algorithm)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := strat.Solve(ctx, g, params)
	if err != nil {
		return nil, err
	}
	res.Algorithm = strat.Name()
	res.Elapsed = time.Since(start)
	res.BalanceRatio = balanceRatio(res.Spins)
	res.Stats = engine.SummarizeTrials(res.Trials)

	slog.Info("solve completed",
		"algorithm", res.Algorithm,
		"graph", g.Name,
		"nodes", g.NumNodes,
		"cut", res.CutValue,
		"balance", res.BalanceRatio,
		"elapsed", res.Elapsed,
	)
	return res, nil
}

// buildArray assembles the quantizer and crossbar for strategies that
// run on the emulated device.
func buildArray(g *graphio.Graph, p device.Profile) (*crossbar.Array, *device.Quantizer, error) {
	quant := device.NewQuantizer(p, g.MaxWeight())
	a, err := crossbar.New(g, quant, p)
	if err != nil {
		return nil, nil, err
	}
	return a, quant, nil
}
