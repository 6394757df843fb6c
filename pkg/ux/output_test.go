// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"testing"
	"time"
)

// forceStyled overrides terminal detection for the test's duration.
func forceStyled(t *testing.T, styled bool) {
	t.Helper()
	prev := styledOutput
	styledOutput = func() bool { return styled }
	t.Cleanup(func() { styledOutput = prev })
}

func TestSpinner_PlainMode(t *testing.T) {
	forceStyled(t, false)

	s := NewSpinner("annealing")
	s.Start()
	s.Stop()
	// Stop on a never-started spinner is a no-op.
	s.Stop()
}

func TestSpinner_AnimatedStartStop(t *testing.T) {
	forceStyled(t, true)

	s := NewSpinner("annealing")
	s.Start()
	s.UpdateMessage("annealing trial 2")
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestWithSpinner_Error(t *testing.T) {
	forceStyled(t, false)

	wantErr := fmt.Errorf("boom")
	err := WithSpinner("solving", func() error { return wantErr })
	if err != wantErr {
		t.Errorf("WithSpinner() error = %v, want %v", err, wantErr)
	}
	if err := WithSpinner("solving", func() error { return nil }); err != nil {
		t.Errorf("WithSpinner() error = %v, want nil", err)
	}
}
