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

	"github.com/AleutianAI/MemCut/services/anneal/engine"
	"github.com/AleutianAI/MemCut/services/anneal/graphio"
)

// annealingStrategy runs probabilistic-bit simulated annealing on the
// emulated crossbar. This is the reference strategy; the others trade
// solution quality for speed or offload the work entirely.
type annealingStrategy struct{}

func (s *annealingStrategy) Name() Algorithm { return AlgAnnealing }

func (s *annealingStrategy) Solve(ctx context.Context, g *graphio.Graph, params Params) (*Result, error) {
	array, _, err := buildArray(g, params.Profile)
	if err != nil {
		return nil, err
	}

	eng := engine.New(g, array)
	run, err := eng.Run(ctx, engine.Params{
		Trials:  params.Trials,
		Cycles:  params.Cycles,
		Mode:    params.Mode,
		Seed:    params.Seed,
		I0Min:   params.I0Min,
		I0Max:   params.I0Max,
		Workers: params.Workers,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Spins:     run.BestSpins,
		CutValue:  run.BestCut,
		BestTrial: run.BestTrial,
		Trials:    run.Trials,
		Faults:    run.Faults,
		Hardware:  run.Hardware,
	}, nil
}
