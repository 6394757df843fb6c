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
	"github.com/AleutianAI/MemCut/services/anneal/graphio"
)

// evaluateOnly scores a caller-supplied partition without running any
// strategy or touching the emulated device.
func evaluateOnly(g *graphio.Graph, params Params) (*Result, error) {
	spins := params.ExplicitSpins
	cut, err := g.CutValue(spins)
	if err != nil {
		return nil, err
	}
	alg := params.Algorithm
	if alg == "" {
		alg = "evaluation"
	}
	return &Result{
		Algorithm:    alg,
		Spins:        spins.Clone(),
		CutValue:     cut,
		BalanceRatio: balanceRatio(spins),
		BestTrial:    -1,
	}, nil
}

// balanceRatio returns the smaller partition's share of the nodes. A
// perfectly balanced cut scores 0.5; an empty vector scores 0.
func balanceRatio(spins graphio.SpinVector) float64 {
	if len(spins) == 0 {
		return 0
	}
	up := 0
	for _, s := range spins {
		if s == graphio.SpinUp {
			up++
		}
	}
	minority := up
	if other := len(spins) - up; other < minority {
		minority = other
	}
	return float64(minority) / float64(len(spins))
}
