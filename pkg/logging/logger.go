// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging provides structured logging for MemCut components.
//
// The package is built on the standard library slog. By default logs
// go to stderr as text, which keeps stdout clean for solver output and
// follows Unix CLI conventions. An optional log directory adds a JSON
// file sink named {service}_{date}.log alongside stderr.
//
// Basic usage:
//
//	logger := logging.New(logging.Config{Service: "memcut"})
//	defer logger.Close()
//	logging.SetDefault(logger)
//
// This package does NOT redact sensitive data; callers must not log
// secrets.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents log severity, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns "DEBUG", "INFO", "WARN" or "ERROR".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseLevel maps a config string to a Level. Unknown strings default
// to Info rather than failing; a bad log level should never stop a
// solve.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config controls logger construction.
type Config struct {
	// Level is the minimum severity to emit.
	Level Level

	// LogDir, when non-empty, enables a JSON file sink in that
	// directory. Supports ~ expansion. The directory is created if
	// missing.
	LogDir string

	// Service names the component for the log file and the "service"
	// attribute. Defaults to "memcut".
	Service string

	// Stderr overrides the console sink, used by tests.
	Stderr io.Writer
}

// Logger wraps slog with an optional file sink. Safe for concurrent
// use; Close flushes and closes the file sink if one was opened.
type Logger struct {
	*slog.Logger

	mu   sync.Mutex
	file *os.File
}

// New builds a logger from the config. Construction never fails: if
// the log directory cannot be created the file sink is skipped with a
// warning on stderr.
func New(cfg Config) *Logger {
	if cfg.Service == "" {
		cfg.Service = "memcut"
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = io.Writer(os.Stderr)
	}

	opts := &slog.HandlerOptions{Level: cfg.Level.slogLevel()}
	handlers := []slog.Handler{slog.NewTextHandler(stderr, opts)}

	l := &Logger{}
	if cfg.LogDir != "" {
		if f, err := openLogFile(cfg.LogDir, cfg.Service); err != nil {
			fmt.Fprintf(os.Stderr, "logging: file sink disabled: %v\n", err)
		} else {
			l.file = f
			handlers = append(handlers, slog.NewJSONHandler(f, opts))
		}
	}

	var h slog.Handler
	if len(handlers) == 1 {
		h = handlers[0]
	} else {
		h = multiHandler(handlers)
	}
	l.Logger = slog.New(h).With("service", cfg.Service)
	return l
}

// Default returns a stderr-only logger at Info level.
func Default() *Logger {
	return New(Config{})
}

// SetDefault installs the logger as the process-wide slog default so
// that package-level slog calls flow through it.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}

// Close flushes and closes the file sink. Safe to call on a logger
// without one, and safe to call twice.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func openLogFile(dir, service string) (*os.File, error) {
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("expand log dir: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.log", service, time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// multiHandler fans a record out to every sink. Enabled is true if any
// sink wants the level; each Handle still filters on its own level.
type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
