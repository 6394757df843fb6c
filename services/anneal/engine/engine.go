// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/MemCut/services/anneal/crossbar"
	"github.com/AleutianAI/MemCut/services/anneal/graphio"
)

// maxTrialWorkers caps the trial pool regardless of CPU count. Trials
// are memory-bound over the shared conductance matrix; more goroutines
// than this just churn the cache.
const maxTrialWorkers = 8

// UpdateMode selects the spin update discipline within a cycle.
type UpdateMode int

const (
	// ModeSynchronous computes one full MVM per cycle and updates every
	// spin from the pre-cycle fields simultaneously.
	ModeSynchronous UpdateMode = iota

	// ModeSequential visits nodes in fixed ascending order, recomputing
	// each node's field against the partially updated vector and
	// applying the flip immediately.
	ModeSequential
)

// String returns the mode name used on the CLI and in logs.
func (m UpdateMode) String() string {
	switch m {
	case ModeSynchronous:
		return "synchronous"
	case ModeSequential:
		return "sequential"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseUpdateMode parses a mode name.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch s {
	case "synchronous", "sync":
		return ModeSynchronous, nil
	case "sequential", "seq":
		return ModeSequential, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUpdateMode, s)
	}
}

// Params configures an annealing run.
type Params struct {
	// Trials is the number of independent annealing trials.
	Trials int

	// Cycles is the number of annealing cycles per trial. Every trial
	// runs all of them; there is no convergence early-exit.
	Cycles int

	// Mode selects synchronous or sequential updates.
	Mode UpdateMode

	// Seed is the base random seed. Trial t uses Seed + t, so a fixed
	// seed reproduces every trajectory regardless of scheduling.
	Seed int64

	// I0Min and I0Max bound the inverse-temperature ramp. Leave both
	// zero to derive them from the coupling statistics.
	I0Min float64
	I0Max float64

	// Workers bounds trial parallelism. Zero means NumCPU capped at 8.
	Workers int
}

// TrialStats records one completed trial.
type TrialStats struct {
	Trial    int           `json:"trial"`
	CutValue float64       `json:"cut_value"`
	Ops      int64         `json:"ops"`
	Elapsed  time.Duration `json:"elapsed"`
}

// RunResult is the reduction of all trials in a run.
type RunResult struct {
	// BestSpins and BestCut describe the best assignment found.
	// Replacement is strictly-greater; among equal cuts the lowest
	// trial index wins, which makes the reduction deterministic under
	// parallel completion order.
	BestSpins graphio.SpinVector
	BestCut   float64
	BestTrial int

	// Trials lists completed trials in trial order. Faulted trials are
	// excluded.
	Trials []TrialStats

	// Faults counts trials aborted by numeric faults.
	Faults int

	// Hardware is the merged cost of every MVM the run issued.
	Hardware crossbar.Summary

	// Schedule is the ramp the run actually used (useful when derived).
	Schedule Schedule
}

// CutValues returns the per-trial cut values in trial order.
func (r *RunResult) CutValues() []float64 {
	out := make([]float64, 0, len(r.Trials))
	for _, t := range r.Trials {
		out = append(out, t.CutValue)
	}
	return out
}

// TrialSummary aggregates cut statistics across completed trials.
type TrialSummary struct {
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// Stats summarizes the completed trials. Zero value for an empty run.
func (r *RunResult) Stats() TrialSummary {
	return SummarizeTrials(r.Trials)
}

// SummarizeTrials computes cut statistics over a trial list.
func SummarizeTrials(trials []TrialStats) TrialSummary {
	n := len(trials)
	if n == 0 {
		return TrialSummary{}
	}
	s := TrialSummary{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, t := range trials {
		s.Mean += t.CutValue
		s.Min = math.Min(s.Min, t.CutValue)
		s.Max = math.Max(s.Max, t.CutValue)
	}
	s.Mean /= float64(n)
	var varSum float64
	for _, t := range trials {
		d := t.CutValue - s.Mean
		varSum += d * d
	}
	s.StdDev = math.Sqrt(varSum / float64(n))
	return s
}

// Engine runs probabilistic-bit annealing over a crossbar array.
//
// The array and graph are read-only and shared across trials; each
// trial owns its spin vector, RNG and cost accumulator, and merges into
// the run aggregate exactly once at completion.
type Engine struct {
	graph *graphio.Graph
	array *crossbar.Array
}

// New creates an engine over a graph and its crossbar array.
func New(graph *graphio.Graph, array *crossbar.Array) *Engine {
	return &Engine{graph: graph, array: array}
}

// Run executes the configured trials and reduces them to a best result.
//
// Description:
//
//	Trials are embarrassingly parallel and run under a bounded worker
//	pool. A numeric fault aborts only its own trial; the run fails only
//	when no trial completes. Context cancellation stops the run between
//	trials, never mid-trial.
//
// Outputs:
//   - *RunResult: best assignment, per-trial stats, merged hardware cost.
//   - error: parameter validation errors, ErrNoCompletedTrials, or the
//     context error when cancelled before any trial completed.
func (e *Engine) Run(ctx context.Context, params Params) (*RunResult, error) {
	ctx, span := tracer.Start(ctx, "engine.Run",
		trace.WithAttributes(
			attribute.Int("trials", params.Trials),
			attribute.Int("cycles", params.Cycles),
			attribute.String("mode", params.Mode.String()),
		),
	)
	defer span.End()

	if params.Trials <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTrialCount, params.Trials)
	}
	if params.Cycles <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCycleCount, params.Cycles)
	}

	sched := Schedule{Min: params.I0Min, Max: params.I0Max}
	if sched.Min == 0 && sched.Max == 0 {
		sched = DeriveSchedule(e.array)
		slog.Debug("derived annealing schedule",
			"i0_min", sched.Min,
			"i0_max", sched.Max,
		)
	}
	if !sched.Valid() {
		return nil, fmt.Errorf("%w: min=%g max=%g", ErrInvalidSchedule, sched.Min, sched.Max)
	}

	workers := params.Workers
	if workers <= 0 {
		workers = min(runtime.NumCPU(), maxTrialWorkers)
	}

	result := &RunResult{
		BestCut:   math.Inf(-1),
		BestTrial: -1,
		Schedule:  sched,
	}
	global := e.array.NewAccumulator()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for t := 0; t < params.Trials; t++ {
		// The trial budget stops the outer loop between trials only;
		// a trial that has started always finishes.
		if gctx.Err() != nil {
			break
		}
		trialIdx := t
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)
					slog.Error("panic in annealing trial",
						"trial", trialIdx,
						"panic", r,
						"stack", string(buf[:n]),
					)
					mu.Lock()
					result.Faults++
					mu.Unlock()
				}
			}()

			start := time.Now()
			acc := e.array.NewAccumulator()
			spins, cut, ops, err := e.runTrial(trialIdx, params.Seed+int64(trialIdx), params.Cycles, params.Mode, sched, acc)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("trial aborted",
					"trial", trialIdx,
					"error", err,
				)
				result.Faults++
				recordTrial(gctx, false)
				return nil // faults never abort the remaining trials
			}
			global.Merge(acc)
			result.Trials = append(result.Trials, TrialStats{
				Trial:    trialIdx,
				CutValue: cut,
				Ops:      ops,
				Elapsed:  elapsed,
			})
			if cut > result.BestCut || (cut == result.BestCut && trialIdx < result.BestTrial) {
				result.BestCut = cut
				result.BestSpins = spins
				result.BestTrial = trialIdx
			}
			recordTrial(gctx, true)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if len(result.Trials) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := fmt.Errorf("%w: %d trials faulted", ErrNoCompletedTrials, result.Faults)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sort.Slice(result.Trials, func(i, j int) bool {
		return result.Trials[i].Trial < result.Trials[j].Trial
	})
	result.Hardware = global.Summary()

	span.SetAttributes(
		attribute.Float64("best_cut", result.BestCut),
		attribute.Int("completed", len(result.Trials)),
		attribute.Int("faults", result.Faults),
	)
	span.SetStatus(codes.Ok, "")

	slog.Info("annealing run completed",
		"trials", len(result.Trials),
		"faults", result.Faults,
		"best_cut", result.BestCut,
		"best_trial", result.BestTrial,
	)
	return result, nil
}

// runTrial executes one trial from random initialization to completion:
// Initializing -> Annealing(cycle 0..C-1) -> Completed. It returns the
// final spins, their cut value and the MVM-equivalent op count.
func (e *Engine) runTrial(trialIdx int, seed int64, cycles int, mode UpdateMode, sched Schedule, acc *crossbar.Accumulator) (graphio.SpinVector, float64, int64, error) {
	n := e.graph.NumNodes
	rng := rand.New(rand.NewSource(seed))

	// Initializing: uniform random spins from the trial-local RNG.
	spins := make(graphio.SpinVector, n)
	for i := range spins {
		if rng.Intn(2) == 0 {
			spins[i] = graphio.SpinUp
		} else {
			spins[i] = graphio.SpinDown
		}
	}

	// Max-Cut is the antiferromagnetic Ising model J = -G, so the drive
	// term fed to the flip rule is the negated crossbar field.
	var ops int64
	for cycle := 0; cycle < cycles; cycle++ {
		i0 := sched.At(cycle, cycles)
		switch mode {
		case ModeSequential:
			for i := 0; i < n; i++ {
				f, err := e.array.FieldAt(i, spins, acc)
				if err != nil {
					return nil, 0, 0, err
				}
				ops++
				next, err := flip(rng, i0, -f)
				if err != nil {
					return nil, 0, 0, fmt.Errorf("trial %d cycle %d node %d: %w", trialIdx, cycle, i, err)
				}
				spins[i] = next
			}
		default: // ModeSynchronous
			field, err := e.array.Multiply(spins, acc)
			if err != nil {
				return nil, 0, 0, err
			}
			ops++
			for i := 0; i < n; i++ {
				next, err := flip(rng, i0, -field[i])
				if err != nil {
					return nil, 0, 0, fmt.Errorf("trial %d cycle %d node %d: %w", trialIdx, cycle, i, err)
				}
				spins[i] = next
			}
		}
	}

	// Completed: the cut is always evaluated on the original weights,
	// not the quantized conductances.
	cut, err := e.graph.CutValue(spins)
	if err != nil {
		return nil, 0, 0, err
	}
	return spins, cut, ops, nil
}

// flip decides a node's next spin: P(+1) is a logistic function of
// 2 * I0 * field. A non-finite field is a numeric fault.
func flip(rng *rand.Rand, i0, field float64) (graphio.Spin, error) {
	if math.IsNaN(field) || math.IsInf(field, 0) {
		return 0, fmt.Errorf("%w: field %v", ErrTrialNumericFault, field)
	}
	p := 1 / (1 + math.Exp(-2*i0*field))
	if rng.Float64() < p {
		return graphio.SpinUp, nil
	}
	return graphio.SpinDown, nil
}
