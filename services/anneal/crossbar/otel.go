// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package crossbar

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Package-level meter for crossbar operations.
var meter = otel.Meter("memcut.crossbar")

var (
	mvmTotal         metric.Int64Counter
	tileReadsTotal   metric.Int64Counter
	activeCellsTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		mvmTotal, err = meter.Int64Counter(
			"memcut_mvm_total",
			metric.WithDescription("Total crossbar matrix-vector multiply invocations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		tileReadsTotal, err = meter.Int64Counter(
			"memcut_tile_reads_total",
			metric.WithDescription("Total crossbar tile reads"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		activeCellsTotal, err = meter.Int64Counter(
			"memcut_active_cells_total",
			metric.WithDescription("Total active cells touched by crossbar reads"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

// recordMVM reports one multiply to the telemetry pipeline. Failure to
// initialize metrics never blocks the numeric path.
func recordMVM(tileReads, activeCells int) {
	if initMetrics() != nil {
		return
	}
	ctx := context.Background()
	mvmTotal.Add(ctx, 1)
	tileReadsTotal.Add(ctx, int64(tileReads))
	activeCellsTotal.Add(ctx, int64(activeCells))
}
