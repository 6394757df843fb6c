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

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FirstRunCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memcut.yaml")
	t.Setenv("MEMCUT_CONFIG", path)

	if err := loadInternal(); err != nil {
		t.Fatalf("loadInternal: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file not written: %v", err)
	}

	want := DefaultConfig()
	if Global.Solver.Algorithm != want.Solver.Algorithm {
		t.Errorf("algorithm = %q, want %q", Global.Solver.Algorithm, want.Solver.Algorithm)
	}
	if Global.Server.Port != want.Server.Port {
		t.Errorf("port = %d, want %d", Global.Server.Port, want.Server.Port)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memcut.yaml")
	contents := "solver:\n  trials: 42\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MEMCUT_CONFIG", path)

	if err := loadInternal(); err != nil {
		t.Fatalf("loadInternal: %v", err)
	}

	if Global.Solver.Trials != 42 {
		t.Errorf("trials = %d, want 42", Global.Solver.Trials)
	}
	if Global.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", Global.Logging.Level)
	}
	// Fields the file omits fall back to defaults.
	if Global.Solver.Cycles != DefaultConfig().Solver.Cycles {
		t.Errorf("cycles = %d, want default %d", Global.Solver.Cycles, DefaultConfig().Solver.Cycles)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memcut.yaml")
	if err := os.WriteFile(path, []byte("solver: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MEMCUT_CONFIG", path)

	if err := loadInternal(); err == nil {
		t.Fatal("expected parse error for malformed config")
	}
}
