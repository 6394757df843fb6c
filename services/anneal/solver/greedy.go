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
	"math/rand"
	"time"

	"github.com/AleutianAI/MemCut/services/anneal/engine"
	"github.com/AleutianAI/MemCut/services/anneal/graphio"
)

// greedyStrategy is a plain single-flip local search on the original
// weights. It never touches the crossbar, so its hardware summary is
// all zeros; it exists as a software baseline to compare the emulated
// device against.
type greedyStrategy struct{}

func (s *greedyStrategy) Name() Algorithm { return AlgGreedy }

func (s *greedyStrategy) Solve(ctx context.Context, g *graphio.Graph, params Params) (*Result, error) {
	if params.Trials <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRestartCount, params.Trials)
	}

	n := g.NumNodes
	result := &Result{CutValue: -1, BestTrial: -1}

	for restart := 0; restart < params.Trials; restart++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewSource(params.Seed + int64(restart)))

		spins := make(graphio.SpinVector, n)
		for i := range spins {
			if rng.Intn(2) == 0 {
				spins[i] = graphio.SpinUp
			} else {
				spins[i] = graphio.SpinDown
			}
		}

		start := time.Now()
		var ops int64
		// Flip any node whose move increases the cut; repeat until no
		// single flip improves. gain(i) = sum_j w_ij * (same side) -
		// sum_j w_ij * (opposite side).
		for improved := true; improved; {
			improved = false
			for i := 0; i < n; i++ {
				gain := 0.0
				for j := 0; j < n; j++ {
					w := g.Weights[i][j]
					if w == 0 {
						continue
					}
					if spins[i] == spins[j] {
						gain += w
					} else {
						gain -= w
					}
				}
				ops++
				if gain > 0 {
					spins[i] = -spins[i]
					improved = true
				}
			}
		}

		cut, err := g.CutValue(spins)
		if err != nil {
			return nil, err
		}
		result.Trials = append(result.Trials, engine.TrialStats{
			Trial:    restart,
			CutValue: cut,
			Ops:      ops,
			Elapsed:  time.Since(start),
		})
		if cut > result.CutValue {
			result.CutValue = cut
			result.Spins = spins
			result.BestTrial = restart
		}
	}
	return result, nil
}
