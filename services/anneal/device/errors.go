// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package device models the resistive memory device: the discrete
// conductance levels a cell can hold, the crossbar geometry, the read
// circuit cost constants, and the quantizer that maps real edge weights
// onto levels.
package device

import "errors"

// Sentinel errors for device profile validation. All are fatal at load
// time; a profile that fails validation never reaches the solver.
var (
	// ErrTableLengthMismatch is returned when the resistance or read
	// voltage table length disagrees with the declared level count.
	ErrTableLengthMismatch = errors.New("level table length does not match device level count")

	// ErrNonPositiveDimension is returned for crossbar rows/cols <= 0.
	ErrNonPositiveDimension = errors.New("crossbar dimensions must be positive")

	// ErrNoLevels is returned when the profile declares fewer than two
	// device levels. One level cannot encode a weight.
	ErrNoLevels = errors.New("device must have at least two levels")

	// ErrNonMonotonicResistance is returned when the resistance table is
	// not strictly decreasing with level. Higher levels must conduct more.
	ErrNonMonotonicResistance = errors.New("resistance table must decrease monotonically with level")

	// ErrNonPositiveResistance is returned for resistance entries <= 0.
	// A zero resistance would produce an infinite conductance.
	ErrNonPositiveResistance = errors.New("resistance values must be positive")
)
