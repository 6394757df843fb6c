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

// projectionStrategy is a randomized hyperplane heuristic. Each restart
// projects the nodes onto a random direction, thresholds the projection
// into a partition, and then polishes it with a few zero-temperature
// sweeps on the crossbar: every node moves to the side its field says
// cuts more weight. Hardware cost accounting covers the polish sweeps,
// the only part that touches the array.
type projectionStrategy struct{}

// polishSweeps bounds the refinement loop per restart; a sweep that
// flips nothing ends the loop early.
const polishSweeps = 8

func (s *projectionStrategy) Name() Algorithm { return AlgProjection }

func (s *projectionStrategy) Solve(ctx context.Context, g *graphio.Graph, params Params) (*Result, error) {
	if params.Trials <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRestartCount, params.Trials)
	}
	array, _, err := buildArray(g, params.Profile)
	if err != nil {
		return nil, err
	}

	n := g.NumNodes
	acc := array.NewAccumulator()
	result := &Result{CutValue: -1, BestTrial: -1}

	for restart := 0; restart < params.Trials; restart++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewSource(params.Seed + int64(restart)))

		// Project each node onto a random gaussian direction and split
		// at zero.
		spins := make(graphio.SpinVector, n)
		for i := range spins {
			if rng.NormFloat64() >= 0 {
				spins[i] = graphio.SpinUp
			} else {
				spins[i] = graphio.SpinDown
			}
		}

		start := time.Now()
		var ops int64
		for sweep := 0; sweep < polishSweeps; sweep++ {
			field, err := array.Multiply(spins, acc)
			if err != nil {
				return nil, err
			}
			ops++
			changed := false
			for i := 0; i < n; i++ {
				// Antiferromagnetic drive: oppose the field.
				var next graphio.Spin
				if field[i] <= 0 {
					next = graphio.SpinUp
				} else {
					next = graphio.SpinDown
				}
				if next != spins[i] {
					spins[i] = next
					changed = true
				}
			}
			if !changed {
				break
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

	result.Hardware = acc.Summary()
	return result, nil
}
