// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command memcut solves weighted Max-Cut instances on an emulated
// resistive-crossbar annealer and reports the hardware cost of the
// emulated run.
//
// Usage:
//
//	memcut solve graph.txt --trials 20 --cycles 2000
//	memcut solve graph.csv --algorithm greedy
//	memcut eval graph.txt --spins "1,-1,1"
//	memcut serve --port 8080
//	memcut runs list
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/MemCut/cmd/memcut/config"
	"github.com/AleutianAI/MemCut/pkg/logging"
)

var logger *logging.Logger

var rootCmd = &cobra.Command{
	Use:   "memcut",
	Short: "A Max-Cut solver on an emulated resistive-crossbar annealer",
	Long: `MemCut maps weighted Max-Cut instances onto an emulated analog
crossbar substrate, anneals them with probabilistic-bit updates, and
accounts the latency, area, power and energy the emulated hardware
would have spent.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger = logging.New(logging.Config{
			Level:   logging.ParseLevel(config.Global.Logging.Level),
			LogDir:  config.Global.Logging.Dir,
			Service: "memcut",
		})
		logging.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Close()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
