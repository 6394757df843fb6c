// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"garbage", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelWarn.String() != "WARN" {
		t.Errorf("LevelWarn.String() = %q", LevelWarn.String())
	}
	if Level(42).String() != "UNKNOWN" {
		t.Errorf("unknown level String() = %q", Level(42).String())
	}
}

func TestNew_StderrSink(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Service: "test", Stderr: &buf})
	defer l.Close()

	l.Info("solve started", "graph", "k5")
	out := buf.String()
	if !strings.Contains(out, "solve started") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "service=test") {
		t.Errorf("output missing service attribute: %q", out)
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Stderr: &buf})
	defer l.Close()

	l.Info("should be filtered")
	l.Warn("should appear")
	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Errorf("info leaked through warn filter: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn missing from output: %q", out)
	}
}

func TestNew_FileSink(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, LogDir: dir, Service: "filetest", Stderr: &buf})

	l.Info("persisted line", "run_id", "abc")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d log files, want 1", len(entries))
	}
	if !strings.HasPrefix(entries[0].Name(), "filetest_") {
		t.Errorf("log file name = %q, want filetest_ prefix", entries[0].Name())
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), `"persisted line"`) {
		t.Errorf("file sink missing JSON record: %s", data)
	}
}

func TestClose_Twice(t *testing.T) {
	l := New(Config{LogDir: t.TempDir(), Stderr: &bytes.Buffer{}})
	if err := l.Close(); err != nil {
		t.Fatalf("first Close() error: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
}
