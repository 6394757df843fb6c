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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/MemCut/cmd/memcut/config"
	"github.com/AleutianAI/MemCut/services/anneal/store"
)

var runsFlags struct {
	storePath string
	limit     int
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect archived solve runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE:  runRunsListCommand,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run id]",
	Short: "Print one archived run as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShowCommand,
}

func init() {
	runsCmd.PersistentFlags().StringVar(&runsFlags.storePath, "store", "", "run store directory (default from config)")
	runsListCmd.Flags().IntVarP(&runsFlags.limit, "limit", "n", 20, "maximum runs to list (0 = all)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func openRunStore() (*store.Store, error) {
	path := runsFlags.storePath
	if path == "" {
		path = config.Global.Server.StorePath
	}
	if path == "" {
		return nil, fmt.Errorf("no store directory: pass --store or set server.store_path in the config")
	}
	return store.Open(store.DefaultConfig(path))
}

func runRunsListCommand(cmd *cobra.Command, args []string) error {
	s, err := openRunStore()
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(runsFlags.limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no archived runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %-24s %-20s cut=%-10g balance=%.3f\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.GraphName, r.Algorithm, r.CutValue, r.BalanceRatio)
	}
	return nil
}

func runRunsShowCommand(cmd *cobra.Command, args []string) error {
	s, err := openRunStore()
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.GetRun(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
