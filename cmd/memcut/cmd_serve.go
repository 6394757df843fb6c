// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/MemCut/cmd/memcut/config"
	"github.com/AleutianAI/MemCut/services/anneal/api"
	"github.com/AleutianAI/MemCut/services/anneal/device"
	"github.com/AleutianAI/MemCut/services/anneal/store"
)

var serveFlags struct {
	port        int
	storePath   string
	profilePath string
	debug       bool
	traceStdout bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the anneal HTTP service",
	Long: `Starts an HTTP service exposing the solver for batch submission:

	POST /v1/anneal/solve
	GET  /v1/anneal/runs
	GET  /v1/anneal/runs/:id
	GET  /v1/anneal/health
	GET  /metrics`,
	RunE: runServeCommand,
}

func init() {
	f := serveCmd.Flags()
	f.IntVarP(&serveFlags.port, "port", "p", 0, "port to listen on (default from config)")
	f.StringVar(&serveFlags.storePath, "store", "", "run store directory (default from config)")
	f.StringVar(&serveFlags.profilePath, "profile", "", "device profile YAML")
	f.BoolVar(&serveFlags.debug, "debug", false, "enable gin debug mode and request logging")
	f.BoolVar(&serveFlags.traceStdout, "trace-stdout", false, "print trace spans to stdout")

	rootCmd.AddCommand(serveCmd)
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg := config.Global

	port := serveFlags.port
	if port == 0 {
		port = cfg.Server.Port
	}

	profile := device.DefaultProfile()
	profilePath := serveFlags.profilePath
	if profilePath == "" {
		profilePath = cfg.Device.ProfilePath
	}
	if profilePath != "" {
		var err error
		if profile, err = device.LoadProfile(profilePath); err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	shutdownTelemetry, err := setupTelemetry(registry, serveFlags.traceStdout)
	if err != nil {
		return err
	}

	handlers := api.NewHandlers(profile)
	storePath := serveFlags.storePath
	if storePath == "" {
		storePath = cfg.Server.StorePath
	}
	if storePath != "" {
		s, err := store.Open(store.DefaultConfig(storePath))
		if err != nil {
			return err
		}
		defer s.Close()
		handlers = handlers.WithStore(s)
	} else {
		slog.Warn("no store path configured, runs will not be persisted")
	}

	if serveFlags.debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if serveFlags.debug {
		router.Use(gin.Logger())
	}
	api.RegisterRoutes(router.Group("/v1"), handlers)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("anneal service listening", "port", port, "store", storePath != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return shutdownTelemetry(ctx)
}
