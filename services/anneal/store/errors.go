// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store persists solve runs in an embedded BadgerDB so the CLI
// and the API service can list and re-inspect past results.
package store

import "errors"

var (
	// ErrRunNotFound is returned when no run exists under the given id.
	ErrRunNotFound = errors.New("run not found")

	// ErrMissingPath is returned when opening a persistent store
	// without a directory.
	ErrMissingPath = errors.New("path is required for persistent store")
)
