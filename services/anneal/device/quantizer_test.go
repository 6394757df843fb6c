// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package device

import (
	"errors"
	"testing"
)

func TestQuantizer_UniformBinning(t *testing.T) {
	q := NewQuantizer(DefaultProfile(), 10)

	tests := []struct {
		name   string
		weight float64
		want   Level
	}{
		{"zero maps to level zero", 0, 0},
		{"max maps to top level", 10, 3},
		{"midpoint rounds up", 5, 2}, // 0.5 * 3 = 1.5 rounds to 2
		{"low weight", 1, 0},         // 0.1 * 3 = 0.3 rounds to 0
		{"two thirds", 7, 2},         // 0.7 * 3 = 2.1 rounds to 2
		{"near max", 9.5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := q.Quantize(tt.weight); got != tt.want {
				t.Errorf("Quantize(%g) = %d, want %d", tt.weight, got, tt.want)
			}
		})
	}
}

func TestQuantizer_Monotonic(t *testing.T) {
	q := NewQuantizer(DefaultProfile(), 100)
	prev := Level(0)
	for w := 0.0; w <= 100; w += 0.5 {
		l := q.Quantize(w)
		if l < prev {
			t.Fatalf("Quantize(%g) = %d < previous level %d: not monotonic", w, l, prev)
		}
		prev = l
	}
}

func TestQuantizer_Deterministic(t *testing.T) {
	q := NewQuantizer(DefaultProfile(), 42)
	for i := 0; i < 100; i++ {
		if q.Quantize(17.3) != q.Quantize(17.3) {
			t.Fatal("Quantize is not deterministic")
		}
	}
}

func TestQuantizer_ClampsOutOfRange(t *testing.T) {
	// Out-of-domain weights are clamped, not rejected. Above-range goes
	// to the top level, negative to level 0, and both are counted.
	q := NewQuantizer(DefaultProfile(), 10)

	if got := q.Quantize(25); got != 3 {
		t.Errorf("Quantize(25) = %d, want top level 3", got)
	}
	if got := q.Quantize(-2); got != 0 {
		t.Errorf("Quantize(-2) = %d, want level 0", got)
	}
	if got := q.ClampCount(); got != 2 {
		t.Errorf("ClampCount() = %d, want 2", got)
	}
}

func TestQuantizer_ConductanceFor(t *testing.T) {
	p := DefaultProfile()
	q := NewQuantizer(p, 10)

	if got := q.ConductanceFor(0); got != 0 {
		t.Errorf("ConductanceFor(0) = %g, want exactly 0", got)
	}
	want := 1 / p.ResistanceOhms[3]
	if got := q.ConductanceFor(10); got != want {
		t.Errorf("ConductanceFor(10) = %g, want %g", got, want)
	}
	// Level 0 for a tiny but present edge is a finite conductance, not 0.
	if got := q.ConductanceFor(0.01); got != 1/p.ResistanceOhms[0] {
		t.Errorf("ConductanceFor(0.01) = %g, want %g", got, 1/p.ResistanceOhms[0])
	}
}

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr error
	}{
		{
			name:   "default profile is valid",
			mutate: func(p *Profile) {},
		},
		{
			name:    "resistance table too short",
			mutate:  func(p *Profile) { p.ResistanceOhms = p.ResistanceOhms[:2] },
			wantErr: ErrTableLengthMismatch,
		},
		{
			name:    "voltage table too long",
			mutate:  func(p *Profile) { p.ReadVoltages = append(p.ReadVoltages, 0.1) },
			wantErr: ErrTableLengthMismatch,
		},
		{
			name:    "zero crossbar rows",
			mutate:  func(p *Profile) { p.CrossbarRows = 0 },
			wantErr: ErrNonPositiveDimension,
		},
		{
			name:    "negative crossbar cols",
			mutate:  func(p *Profile) { p.CrossbarCols = -4 },
			wantErr: ErrNonPositiveDimension,
		},
		{
			name:    "single level",
			mutate:  func(p *Profile) { p.Levels = 1; p.ResistanceOhms = p.ResistanceOhms[:1]; p.ReadVoltages = p.ReadVoltages[:1] },
			wantErr: ErrNoLevels,
		},
		{
			name:    "non-monotonic resistance",
			mutate:  func(p *Profile) { p.ResistanceOhms = []float64{1e6, 1e5, 2e5, 1e4} },
			wantErr: ErrNonMonotonicResistance,
		},
		{
			name:    "zero resistance",
			mutate:  func(p *Profile) { p.ResistanceOhms = []float64{1e6, 1e5, 3e4, 0} },
			wantErr: ErrNonPositiveResistance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
