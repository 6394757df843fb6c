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
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Level is a discrete device conductance state in [0, Levels-1].
// Level 0 is the most resistive state and approximates an open cell.
type Level int

// Profile describes one resistive crossbar device configuration: how
// many conductance levels a cell supports, the per-level resistance and
// read voltage tables, the physical array geometry, and the read-path
// cost constants used by hardware modeling.
//
// Profiles are loaded from YAML and validated once; they are read-only
// afterwards and safe to share across goroutines.
type Profile struct {
	// Levels is the number of discrete conductance states per cell.
	Levels int `yaml:"device_levels" validate:"required,min=2"`

	// ResistanceOhms maps level -> cell resistance. Must have exactly
	// Levels entries, strictly decreasing (higher level conducts more).
	ResistanceOhms []float64 `yaml:"resistance_ohms" validate:"required"`

	// ReadVoltages maps level -> read voltage applied on the active rail.
	// Must have exactly Levels entries.
	ReadVoltages []float64 `yaml:"read_voltages" validate:"required"`

	// CrossbarRows and CrossbarCols bound a single physical tile.
	// Larger matrices are partitioned across multiple tiles.
	CrossbarRows int `yaml:"crossbar_rows" validate:"required,gt=0"`
	CrossbarCols int `yaml:"crossbar_cols" validate:"required,gt=0"`

	// HardwareModeling toggles cost accounting. When false the numeric
	// multiply still runs but no latency/area/power/energy accumulates.
	HardwareModeling bool `yaml:"hardware_modeling"`

	// Read-path latency constants, per tile read.
	RowReadLatencyNS float64 `yaml:"row_read_latency_ns" validate:"gte=0"`
	ColReadLatencyNS float64 `yaml:"col_read_latency_ns" validate:"gte=0"`
	ADCLatencyNS     float64 `yaml:"adc_latency_ns" validate:"gte=0"`

	// Area constants: one tile plus the fixed peripheral circuitry.
	TileAreaUM2       float64 `yaml:"tile_area_um2" validate:"gte=0"`
	PeripheralAreaUM2 float64 `yaml:"peripheral_area_um2" validate:"gte=0"`

	// ReadPowerPerCellUW is the read power drawn per active cell.
	ReadPowerPerCellUW float64 `yaml:"read_power_per_cell_uw" validate:"gte=0"`
}

// DefaultProfile returns a 4-level RRAM profile with a 128x128 tile.
// The resistance ladder spans 1 MOhm (open-ish) down to 10 kOhm.
func DefaultProfile() Profile {
	return Profile{
		Levels:             4,
		ResistanceOhms:     []float64{1e6, 1e5, 3e4, 1e4},
		ReadVoltages:       []float64{0.1, 0.1, 0.1, 0.1},
		CrossbarRows:       128,
		CrossbarCols:       128,
		HardwareModeling:   true,
		RowReadLatencyNS:   5,
		ColReadLatencyNS:   5,
		ADCLatencyNS:       10,
		TileAreaUM2:        2500,
		PeripheralAreaUM2:  1200,
		ReadPowerPerCellUW: 0.3,
	}
}

var profileValidator = validator.New()

// Validate checks structural constraints the YAML schema cannot express:
// table lengths against the level count, resistance monotonicity, and
// positive geometry.
func (p Profile) Validate() error {
	if err := profileValidator.Struct(p); err != nil {
		if p.Levels < 2 {
			return fmt.Errorf("%w: got %d", ErrNoLevels, p.Levels)
		}
		if p.CrossbarRows <= 0 || p.CrossbarCols <= 0 {
			return fmt.Errorf("%w: %dx%d", ErrNonPositiveDimension, p.CrossbarRows, p.CrossbarCols)
		}
		return fmt.Errorf("invalid device profile: %w", err)
	}
	if len(p.ResistanceOhms) != p.Levels {
		return fmt.Errorf("%w: %d resistances for %d levels", ErrTableLengthMismatch, len(p.ResistanceOhms), p.Levels)
	}
	if len(p.ReadVoltages) != p.Levels {
		return fmt.Errorf("%w: %d read voltages for %d levels", ErrTableLengthMismatch, len(p.ReadVoltages), p.Levels)
	}
	for i, r := range p.ResistanceOhms {
		if r <= 0 {
			return fmt.Errorf("%w: level %d resistance %g", ErrNonPositiveResistance, i, r)
		}
		if i > 0 && r >= p.ResistanceOhms[i-1] {
			return fmt.Errorf("%w: level %d (%g) >= level %d (%g)",
				ErrNonMonotonicResistance, i, r, i-1, p.ResistanceOhms[i-1])
		}
	}
	return nil
}

// Resistance returns the cell resistance for a level.
func (p Profile) Resistance(l Level) float64 {
	return p.ResistanceOhms[l]
}

// Conductance returns 1/resistance for a level. Level 0 still has a
// finite conductance here; mapping absent edges to exactly zero is the
// quantizer's job, not the level table's.
func (p Profile) Conductance(l Level) float64 {
	return 1 / p.ResistanceOhms[l]
}

// ReadVoltage returns the read voltage used for the spin encoding rails.
// The differential scheme uses the top level's read voltage on whichever
// rail is active.
func (p Profile) ReadVoltage() float64 {
	return p.ReadVoltages[p.Levels-1]
}

// TileLatencySeconds returns the latency of one tile read:
// row access + column access + ADC conversion.
func (p Profile) TileLatencySeconds() float64 {
	return (p.RowReadLatencyNS + p.ColReadLatencyNS + p.ADCLatencyNS) * 1e-9
}

// LoadProfile reads and validates a YAML device profile.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read device profile: %w", err)
	}
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse device profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
