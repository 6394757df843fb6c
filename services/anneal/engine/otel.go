// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level tracer and meter for annealing operations.
var (
	tracer = otel.Tracer("memcut.engine")
	meter  = otel.Meter("memcut.engine")
)

var (
	trialsTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		trialsTotal, metricsErr = meter.Int64Counter(
			"memcut_trials_total",
			metric.WithDescription("Total annealing trials by outcome"),
		)
	})
	return metricsErr
}

// recordTrial counts one trial completion or fault.
func recordTrial(ctx context.Context, completed bool) {
	if initMetrics() != nil {
		return
	}
	outcome := "completed"
	if !completed {
		outcome = "faulted"
	}
	trialsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
