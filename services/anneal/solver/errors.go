// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package solver selects and runs a Max-Cut strategy over a loaded
// graph. Strategies form a closed set: the in-process annealer, the
// hyperplane-projection heuristic, a greedy local search, and a client
// for an external accelerator service. Unknown algorithm names are
// rejected up front rather than silently mapped to a default.
package solver

import "errors"

var (
	// ErrUnknownAlgorithm indicates an algorithm name outside the
	// supported set.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrDeviceUnavailable indicates the external accelerator could not
	// be reached or refused the request. It is surfaced to the caller;
	// the solver never silently substitutes another strategy.
	ErrDeviceUnavailable = errors.New("external accelerator unavailable")

	// ErrBadAcceleratorReply indicates the accelerator answered with a
	// payload that does not describe a valid partition.
	ErrBadAcceleratorReply = errors.New("malformed accelerator reply")

	// ErrMissingAcceleratorURL indicates the external-accelerator
	// strategy was selected without an endpoint.
	ErrMissingAcceleratorURL = errors.New("accelerator URL not configured")

	// ErrInvalidRestartCount indicates a non-positive restart budget
	// for a restart-based heuristic.
	ErrInvalidRestartCount = errors.New("restart count must be positive")
)
