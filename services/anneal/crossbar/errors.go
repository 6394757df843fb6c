// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package crossbar emulates a tiled resistive crossbar array performing
// analog matrix-vector multiplies over a quantized conductance matrix,
// and accounts the hardware cost each multiply would incur.
//
// # Ownership Model
//
// An Array is built once from a graph and a quantizer and is read-only
// afterwards. Many trials may call Multiply and FieldAt concurrently;
// mutable cost state lives in per-caller Accumulator values, never in
// the Array itself.
package crossbar

import "errors"

// Sentinel errors for crossbar operations.
var (
	// ErrSpinLengthMismatch is returned when an input vector does not
	// cover every column of the array.
	ErrSpinLengthMismatch = errors.New("input vector length does not match array dimension")

	// ErrRowOutOfRange is returned by FieldAt for a row index outside
	// the array.
	ErrRowOutOfRange = errors.New("row index out of range")

	// ErrEmptyArray is returned when building an array from a graph with
	// no nodes.
	ErrEmptyArray = errors.New("cannot build crossbar array with zero nodes")
)
