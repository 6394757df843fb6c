// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/AleutianAI/MemCut/services/anneal/crossbar"
	"github.com/AleutianAI/MemCut/services/anneal/graphio"
	"github.com/AleutianAI/MemCut/services/anneal/solver"
)

const runKeyPrefix = "run:"

// RunRecord is the persisted form of a completed solve.
type RunRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	GraphName string `json:"graph_name"`
	Nodes     int    `json:"nodes"`
	Edges     int    `json:"edges"`

	Algorithm    solver.Algorithm   `json:"algorithm"`
	Trials       int                `json:"trials"`
	Cycles       int                `json:"cycles"`
	Seed         int64              `json:"seed"`
	CutValue     float64            `json:"cut_value"`
	BalanceRatio float64            `json:"balance_ratio"`
	Spins        graphio.SpinVector `json:"spins"`
	Faults       int                `json:"faults"`

	Hardware crossbar.Summary `json:"hardware"`
	Elapsed  time.Duration    `json:"elapsed_ns"`
}

// Config holds configuration for the run store.
type Config struct {
	// Path is the directory for database files. Ignored when InMemory
	// is true.
	Path string

	// InMemory opens a non-persistent store, used by tests.
	InMemory bool

	// SyncWrites trades write latency for durability.
	SyncWrites bool
}

// DefaultConfig returns production defaults for a persistent store.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a non-persistent configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store is a BadgerDB-backed run archive. Safe for concurrent use.
type Store struct {
	db *badger.DB
}

// Open creates the backing database. Callers own the returned Store
// and must Close it.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, ErrMissingPath
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the backing database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun assigns the record an id and timestamp if absent and writes
// it. It returns the record id.
func (s *Store) SaveRun(rec *RunRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal run %s: %w", rec.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(runKeyPrefix+rec.ID), payload)
	})
	if err != nil {
		return "", fmt.Errorf("save run %s: %w", rec.ID, err)
	}

	slog.Debug("run saved",
		"run_id", rec.ID,
		"graph", rec.GraphName,
		"cut", rec.CutValue,
	)
	return rec.ID, nil
}

// GetRun loads one run by id.
func (s *Store) GetRun(id string) (*RunRecord, error) {
	var rec RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(runKeyPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	return &rec, nil
}

// ListRuns returns all stored runs, newest first. limit <= 0 means no
// limit.
func (s *Store) ListRuns(limit int) ([]*RunRecord, error) {
	var runs []*RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(runKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec RunRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			runs = append(runs, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// RecordFromResult builds a RunRecord from a solve result.
func RecordFromResult(g *graphio.Graph, params solver.Params, res *solver.Result) *RunRecord {
	return &RunRecord{
		GraphName:    g.Name,
		Nodes:        g.NumNodes,
		Edges:        g.EdgeCount,
		Algorithm:    res.Algorithm,
		Trials:       params.Trials,
		Cycles:       params.Cycles,
		Seed:         params.Seed,
		CutValue:     res.CutValue,
		BalanceRatio: res.BalanceRatio,
		Spins:        res.Spins,
		Faults:       res.Faults,
		Hardware:     res.Hardware,
		Elapsed:      res.Elapsed,
	}
}
