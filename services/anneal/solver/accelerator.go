// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/MemCut/services/anneal/graphio"
)

const defaultAcceleratorTimeout = 60 * time.Second

// acceleratorStrategy submits the whole problem to an external solver
// service in a single request. The request happens once per solve,
// never inside a per-trial loop, and any transport or protocol failure
// surfaces as ErrDeviceUnavailable to the caller; there is no silent
// fallback to a local strategy.
type acceleratorStrategy struct {
	client  *http.Client
	limiter *rate.Limiter
}

func newAcceleratorStrategy() *acceleratorStrategy {
	return &acceleratorStrategy{
		client: &http.Client{},
		// One request per second with a small burst keeps a retry loop
		// in a caller from hammering the device.
		limiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

func (s *acceleratorStrategy) Name() Algorithm { return AlgAccelerator }

// acceleratorRequest is the wire format sent to the accelerator. The
// adjacency matrix is dense; accelerator graphs are small enough that
// sparsity is not worth a second format.
type acceleratorRequest struct {
	Nodes   int         `json:"nodes"`
	Weights [][]float64 `json:"weights"`
	Trials  int         `json:"trials"`
	Cycles  int         `json:"cycles"`
	Seed    int64       `json:"seed"`
}

type acceleratorResponse struct {
	Spins []int   `json:"spins"`
	Cut   float64 `json:"cut_value"`
}

func (s *acceleratorStrategy) Solve(ctx context.Context, g *graphio.Graph, params Params) (*Result, error) {
	if params.AcceleratorURL == "" {
		return nil, ErrMissingAcceleratorURL
	}
	timeout := params.AcceleratorTimeout
	if timeout <= 0 {
		timeout = defaultAcceleratorTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := otel.Tracer("memcut.solver").Start(ctx, "accelerator.Solve",
		trace.WithAttributes(
			attribute.String("url", params.AcceleratorURL),
			attribute.Int("nodes", g.NumNodes),
		),
	)
	defer span.End()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %v", ErrDeviceUnavailable, err)
	}

	body, err := json.Marshal(acceleratorRequest{
		Nodes:   g.NumNodes,
		Weights: g.Weights,
		Trials:  params.Trials,
		Cycles:  params.Cycles,
		Seed:    params.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal accelerator request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, params.AcceleratorURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build accelerator request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("%w: status %d: %s", ErrDeviceUnavailable, resp.StatusCode, bytes.TrimSpace(slurp))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var reply acceleratorResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrBadAcceleratorReply, err)
	}
	if len(reply.Spins) != g.NumNodes {
		return nil, fmt.Errorf("%w: got %d spins for %d nodes", ErrBadAcceleratorReply, len(reply.Spins), g.NumNodes)
	}

	spins := make(graphio.SpinVector, len(reply.Spins))
	for i, v := range reply.Spins {
		switch v {
		case 1:
			spins[i] = graphio.SpinUp
		case -1:
			spins[i] = graphio.SpinDown
		default:
			return nil, fmt.Errorf("%w: spin %d at node %d", ErrBadAcceleratorReply, v, i)
		}
	}

	// Never trust the remote cut value; score the partition locally
	// against the original weights.
	cut, err := g.CutValue(spins)
	if err != nil {
		return nil, err
	}
	if cut != reply.Cut {
		slog.Warn("accelerator cut disagrees with local evaluation",
			"remote", reply.Cut,
			"local", cut,
		)
	}

	span.SetStatus(codes.Ok, "")
	return &Result{
		Spins:     spins,
		CutValue:  cut,
		BestTrial: 0,
	}, nil
}
