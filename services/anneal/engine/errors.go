// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine drives probabilistic-bit annealing trials over a
// crossbar array, reducing them into a best-of-trials result with
// aggregated hardware cost.
package engine

import "errors"

// Sentinel errors for the engine package.
var (
	// ErrInvalidTrialCount is returned for a non-positive trial count.
	ErrInvalidTrialCount = errors.New("trial count must be positive")

	// ErrInvalidCycleCount is returned for a non-positive cycle count.
	ErrInvalidCycleCount = errors.New("cycle count must be positive")

	// ErrInvalidSchedule is returned when I0 bounds are inverted or
	// non-positive.
	ErrInvalidSchedule = errors.New("invalid annealing schedule bounds")

	// ErrTrialNumericFault marks a trial that produced a non-finite
	// local field. The trial is aborted and excluded from the best
	// result; the run continues.
	ErrTrialNumericFault = errors.New("trial numeric fault")

	// ErrNoCompletedTrials is returned when every trial in a run
	// faulted, leaving no result to report.
	ErrNoCompletedTrials = errors.New("no trials completed")

	// ErrUnknownUpdateMode is returned for an unrecognized update mode
	// name.
	ErrUnknownUpdateMode = errors.New("unknown update mode")
)
