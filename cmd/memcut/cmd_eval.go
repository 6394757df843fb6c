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
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/MemCut/services/anneal/graphio"
	"github.com/AleutianAI/MemCut/services/anneal/solver"
)

var evalFlags struct {
	spins   string
	jsonOut bool
}

var evalCmd = &cobra.Command{
	Use:   "eval [graph file]",
	Short: "Score an explicit partition against a graph",
	Long: `Evaluates a caller-supplied spin vector against the graph without
running any solver. Spins are comma-separated +1/-1 values, one per
node, for example "1,-1,1".`,
	Args: cobra.ExactArgs(1),
	RunE: runEvalCommand,
}

func init() {
	evalCmd.Flags().StringVarP(&evalFlags.spins, "spins", "s", "", "comma-separated spin vector, one +1/-1 per node")
	evalCmd.Flags().BoolVar(&evalFlags.jsonOut, "json", false, "print the raw result as JSON")
	_ = evalCmd.MarkFlagRequired("spins")

	rootCmd.AddCommand(evalCmd)
}

func runEvalCommand(cmd *cobra.Command, args []string) error {
	g, err := graphio.LoadGraph(args[0])
	if err != nil {
		return err
	}
	spins, err := graphio.ParseSpinVector(evalFlags.spins, g.NumNodes)
	if err != nil {
		return err
	}

	res, err := solver.Solve(cmd.Context(), g, solver.Params{ExplicitSpins: spins})
	if err != nil {
		return err
	}

	if evalFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	buildReport(g, res, "").Print()
	return nil
}
