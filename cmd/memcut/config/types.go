// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

// MemCutConfig is the persisted CLI configuration. Command-line flags
// override these values per invocation.
type MemCutConfig struct {
	// Logging controls the structured log sinks.
	Logging LoggingConfig `yaml:"logging"`

	// Solver sets defaults for solve runs.
	Solver SolverConfig `yaml:"solver"`

	// Device points at a device profile file; empty means built-in
	// defaults.
	Device DeviceConfig `yaml:"device"`

	// Server configures the serve command.
	Server ServerConfig `yaml:"server"`

	// Accelerator configures the external-accelerator strategy.
	Accelerator AcceleratorConfig `yaml:"accelerator"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Dir   string `yaml:"dir,omitempty"`
}

type SolverConfig struct {
	Algorithm string `yaml:"algorithm"`
	Trials    int    `yaml:"trials"`
	Cycles    int    `yaml:"cycles"`
	Mode      string `yaml:"mode"` // synchronous or sequential
	Workers   int    `yaml:"workers,omitempty"`
}

type DeviceConfig struct {
	ProfilePath string `yaml:"profile_path,omitempty"`
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	StorePath string `yaml:"store_path,omitempty"`
}

type AcceleratorConfig struct {
	URL            string `yaml:"url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// DefaultConfig returns the config written on first run.
func DefaultConfig() MemCutConfig {
	return MemCutConfig{
		Logging: LoggingConfig{Level: "info"},
		Solver: SolverConfig{
			Algorithm: "annealing",
			Trials:    10,
			Cycles:    1000,
			Mode:      "synchronous",
		},
		Server: ServerConfig{Port: 8080},
	}
}
