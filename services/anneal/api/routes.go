// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package api exposes the solver over HTTP for batch submission from
// other services.
package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the anneal endpoints with the router group.
//
// Endpoints:
//
//	POST /v1/anneal/solve - Solve a Max-Cut instance
//	GET  /v1/anneal/runs - List stored runs, newest first
//	GET  /v1/anneal/runs/:id - Fetch one stored run
//	GET  /v1/anneal/health - Liveness probe
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	anneal := rg.Group("/anneal")
	anneal.POST("/solve", h.HandleSolve)
	anneal.GET("/runs", h.HandleListRuns)
	anneal.GET("/runs/:id", h.HandleGetRun)
	anneal.GET("/health", h.HandleHealth)
}

// NewRouter builds a standalone engine with the anneal routes mounted
// under /v1. Used by the serve command and by tests.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r.Group("/v1"), h)
	return r
}
