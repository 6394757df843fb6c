// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/MemCut/cmd/memcut/config"
	"github.com/AleutianAI/MemCut/pkg/ux"
	"github.com/AleutianAI/MemCut/services/anneal/crossbar"
	"github.com/AleutianAI/MemCut/services/anneal/device"
	"github.com/AleutianAI/MemCut/services/anneal/engine"
	"github.com/AleutianAI/MemCut/services/anneal/graphio"
	"github.com/AleutianAI/MemCut/services/anneal/solver"
	"github.com/AleutianAI/MemCut/services/anneal/store"
)

var solveFlags struct {
	algorithm      string
	trials         int
	cycles         int
	mode           string
	seed           int64
	i0Min          float64
	i0Max          float64
	workers        int
	profilePath    string
	disableHW      bool
	acceleratorURL string
	storePath      string
	jsonOut        bool
}

var solveCmd = &cobra.Command{
	Use:   "solve [graph file]",
	Short: "Solve a Max-Cut instance from an edge list or adjacency CSV",
	Long: `Loads a graph, maps it onto the emulated crossbar and searches for a
maximum cut with the selected algorithm. Edge list files carry one
"i j weight" row per edge; .csv files carry a symmetric adjacency
matrix.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolveCommand,
}

func init() {
	f := solveCmd.Flags()
	f.StringVarP(&solveFlags.algorithm, "algorithm", "a", "", "algorithm: annealing, heuristic-projection, greedy, external-accelerator")
	f.IntVarP(&solveFlags.trials, "trials", "t", 0, "independent trials (restarts)")
	f.IntVarP(&solveFlags.cycles, "cycles", "c", 0, "annealing cycles per trial")
	f.StringVarP(&solveFlags.mode, "mode", "m", "", "update mode: synchronous or sequential")
	f.Int64Var(&solveFlags.seed, "seed", time.Now().UnixNano(), "base RNG seed; trial t uses seed+t")
	f.Float64Var(&solveFlags.i0Min, "i0-min", 0, "annealing ramp start (0 derives from couplings)")
	f.Float64Var(&solveFlags.i0Max, "i0-max", 0, "annealing ramp end (0 derives from couplings)")
	f.IntVar(&solveFlags.workers, "workers", 0, "concurrent trial workers (0 = auto)")
	f.StringVar(&solveFlags.profilePath, "profile", "", "device profile YAML (default: built-in profile)")
	f.BoolVar(&solveFlags.disableHW, "disable-hw", false, "disable hardware cost accounting")
	f.StringVar(&solveFlags.acceleratorURL, "accelerator-url", "", "endpoint for the external-accelerator algorithm")
	f.StringVar(&solveFlags.storePath, "store", "", "archive the run in this store directory")
	f.BoolVar(&solveFlags.jsonOut, "json", false, "print the raw result as JSON")

	rootCmd.AddCommand(solveCmd)
}

func runSolveCommand(cmd *cobra.Command, args []string) error {
	g, err := graphio.LoadGraph(args[0])
	if err != nil {
		return err
	}

	params, err := solveParams(g)
	if err != nil {
		return err
	}

	var res *solver.Result
	err = ux.WithSpinner(fmt.Sprintf("solving %s (%d nodes)", g.Name, g.NumNodes), func() error {
		var solveErr error
		res, solveErr = solver.Solve(cmd.Context(), g, params)
		return solveErr
	})
	if err != nil {
		return err
	}

	runID := ""
	if solveFlags.storePath != "" {
		s, err := store.Open(store.DefaultConfig(solveFlags.storePath))
		if err != nil {
			return err
		}
		defer s.Close()
		if runID, err = s.SaveRun(store.RecordFromResult(g, params, res)); err != nil {
			return err
		}
	}

	if solveFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	buildReport(g, res, runID).Print()
	return nil
}

// solveParams merges config defaults with flag overrides.
func solveParams(g *graphio.Graph) (solver.Params, error) {
	cfg := config.Global

	algName := cfg.Solver.Algorithm
	if solveFlags.algorithm != "" {
		algName = solveFlags.algorithm
	}
	alg, err := solver.ParseAlgorithm(algName)
	if err != nil {
		return solver.Params{}, err
	}

	modeName := cfg.Solver.Mode
	if solveFlags.mode != "" {
		modeName = solveFlags.mode
	}
	mode := engine.ModeSynchronous
	if modeName != "" {
		if mode, err = engine.ParseUpdateMode(modeName); err != nil {
			return solver.Params{}, err
		}
	}

	profile := device.DefaultProfile()
	profilePath := solveFlags.profilePath
	if profilePath == "" {
		profilePath = cfg.Device.ProfilePath
	}
	if profilePath != "" {
		if profile, err = device.LoadProfile(profilePath); err != nil {
			return solver.Params{}, err
		}
	}
	if solveFlags.disableHW {
		profile.HardwareModeling = false
	}

	trials := cfg.Solver.Trials
	if solveFlags.trials > 0 {
		trials = solveFlags.trials
	}
	cycles := cfg.Solver.Cycles
	if solveFlags.cycles > 0 {
		cycles = solveFlags.cycles
	}
	workers := cfg.Solver.Workers
	if solveFlags.workers > 0 {
		workers = solveFlags.workers
	}

	acceleratorURL := solveFlags.acceleratorURL
	if acceleratorURL == "" {
		acceleratorURL = cfg.Accelerator.URL
	}

	return solver.Params{
		Algorithm:          alg,
		Trials:             trials,
		Cycles:             cycles,
		Mode:               mode,
		Seed:               solveFlags.seed,
		I0Min:              solveFlags.i0Min,
		I0Max:              solveFlags.i0Max,
		Workers:            workers,
		Profile:            profile,
		AcceleratorURL:     acceleratorURL,
		AcceleratorTimeout: time.Duration(cfg.Accelerator.TimeoutSeconds) * time.Second,
	}, nil
}

// buildReport flattens a solve result for terminal rendering.
func buildReport(g *graphio.Graph, res *solver.Result, runID string) *ux.SolveReport {
	partA, partB := res.Spins.Partition()
	r := &ux.SolveReport{
		GraphName:    g.Name,
		Nodes:        g.NumNodes,
		Edges:        g.EdgeCount,
		Algorithm:    string(res.Algorithm),
		CutValue:     res.CutValue,
		TotalWeight:  g.TotalWeight(),
		BalanceRatio: res.BalanceRatio,
		BestTrial:    res.BestTrial,
		Faults:       res.Faults,
		Elapsed:      res.Elapsed,
		PartitionA:   partA,
		PartitionB:   partB,
		RunID:        runID,
	}
	for _, tr := range res.Trials {
		r.TrialCuts = append(r.TrialCuts, tr.CutValue)
	}
	if res.Hardware != (crossbar.Summary{}) {
		r.HardwareModeled = true
		r.LatencySeconds = res.Hardware.LatencySeconds
		r.AreaUM2 = res.Hardware.AreaUM2
		r.PowerWatts = res.Hardware.PowerWatts
		r.EnergyJoules = res.Hardware.EnergyJoules
		r.TileReads = res.Hardware.TileReads
	}
	return r
}
