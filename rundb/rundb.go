// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rundb persists circuit run summaries and per-step samples in sqlite.
package rundb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/emer/lifstdp/lif"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// RunRecord is the summary of one circuit run
type RunRecord struct {
	ID      string         `desc:"unique run id"`
	Name    string         `desc:"circuit name"`
	Started time.Time      `desc:"wall-clock start of the run"`
	Secs    float64        `desc:"elapsed wall-clock seconds"`
	Steps   int            `desc:"number of steps run"`
	Dt      float32        `desc:"integration step in msec"`
	FinWt   float32        `desc:"final monitored weight"`
	Spikes  map[string]int `desc:"spike count per neuron"`
	Config  string         `desc:"configuration the run was made with, as YAML"`
}

// NewRunRecord returns a record with a new id for the given run stats
func NewRunRecord(name string, started time.Time, st lif.Stats, config string) RunRecord {
	rr := RunRecord{ID: uuid.NewString(), Name: name, Started: started, Secs: st.Secs, Steps: st.Steps,
		Dt: st.Dt, FinWt: st.FinWt, Config: config, Spikes: make(map[string]int, len(st.Spikes))}
	for nm, n := range st.Spikes {
		rr.Spikes[nm] = n
	}
	return rr
}

// Store is a sqlite-backed store of runs
type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Open returns an initialized store at path
func Open(ctx context.Context, path string) (*Store, error) {
	st := NewStore(path)
	if err := st.Init(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

// Init opens the database and creates the tables if needed
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// SaveRun saves the run summary and its spike counts
func (s *Store) SaveRun(ctx context.Context, rr RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if rr.ID == "" {
		return errors.New("run id is required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, name, started, secs, steps, dt, fin_wt, config)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			started = excluded.started,
			secs = excluded.secs,
			steps = excluded.steps,
			dt = excluded.dt,
			fin_wt = excluded.fin_wt,
			config = excluded.config
	`, rr.ID, rr.Name, rr.Started.UTC().Format(time.RFC3339Nano), rr.Secs, rr.Steps, float64(rr.Dt), float64(rr.FinWt), rr.Config)
	if err != nil {
		return fmt.Errorf("save run %s: %w", rr.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_spikes WHERE run_id = ?`, rr.ID); err != nil {
		return err
	}
	for nm, n := range rr.Spikes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO run_spikes (run_id, neuron, n) VALUES (?, ?, ?)`, rr.ID, nm, n); err != nil {
			return fmt.Errorf("save spikes of %s: %w", nm, err)
		}
	}
	return tx.Commit()
}

// SaveSamples saves the first nsteps samples of the named neuron for run id
func (s *Store) SaveSamples(ctx context.Context, runID, neuron string, dt float32, sm *lif.Samples, nsteps int) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if nsteps > sm.Len() {
		nsteps = sm.Len()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples (run_id, neuron, step, time, vm, fahp, sahp, adp, vth, spike)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, neuron, step) DO UPDATE SET
			time = excluded.time,
			vm = excluded.vm,
			fahp = excluded.fahp,
			sahp = excluded.sahp,
			adp = excluded.adp,
			vth = excluded.vth,
			spike = excluded.spike
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < nsteps; i++ {
		spk := 0
		if sm.Spike[i] {
			spk = 1
		}
		_, err := stmt.ExecContext(ctx, runID, neuron, i, float64(float32(i)*dt), float64(sm.Vm[i]),
			float64(sm.GfAHP[i]), float64(sm.GsAHP[i]), float64(sm.GADP[i]), float64(sm.VthAdapt[i]), spk)
		if err != nil {
			return fmt.Errorf("save sample %d of %s: %w", i, neuron, err)
		}
	}
	return tx.Commit()
}

// Runs returns all saved runs, oldest first
func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, name, started, secs, steps, dt, fin_wt, config FROM runs ORDER BY started, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var rr RunRecord
		var started string
		var dt, fwt float64
		if err := rows.Scan(&rr.ID, &rr.Name, &started, &rr.Secs, &rr.Steps, &dt, &fwt, &rr.Config); err != nil {
			return nil, err
		}
		rr.Started, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("run %s start time: %w", rr.ID, err)
		}
		rr.Dt = float32(dt)
		rr.FinWt = float32(fwt)
		runs = append(runs, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		if runs[i].Spikes, err = s.spikes(ctx, db, runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *Store) spikes(ctx context.Context, db *sql.DB, runID string) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT neuron, n FROM run_spikes WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spk := make(map[string]int)
	for rows.Next() {
		var nm string
		var n int
		if err := rows.Scan(&nm, &n); err != nil {
			return nil, err
		}
		spk[nm] = n
	}
	return spk, rows.Err()
}

// SpikeSteps returns the steps at which the named neuron spiked in the saved samples
func (s *Store) SpikeSteps(ctx context.Context, runID, neuron string) ([]int, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT step FROM samples WHERE run_id = ? AND neuron = ? AND spike = 1`, runID, neuron)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []int
	for rows.Next() {
		var st int
		if err := rows.Scan(&st); err != nil {
			return nil, err
		}
		steps = append(steps, st)
	}
	sort.Ints(steps)
	return steps, rows.Err()
}

// NSamples returns the number of saved samples of the named neuron
func (s *Store) NSamples(ctx context.Context, runID, neuron string) (int, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples WHERE run_id = ? AND neuron = ?`, runID, neuron).Scan(&n)
	return n, err
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			started TEXT NOT NULL,
			secs REAL NOT NULL,
			steps INTEGER NOT NULL,
			dt REAL NOT NULL,
			fin_wt REAL NOT NULL,
			config TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS run_spikes (
			run_id TEXT NOT NULL,
			neuron TEXT NOT NULL,
			n INTEGER NOT NULL,
			PRIMARY KEY (run_id, neuron)
		);
		CREATE TABLE IF NOT EXISTS samples (
			run_id TEXT NOT NULL,
			neuron TEXT NOT NULL,
			step INTEGER NOT NULL,
			time REAL NOT NULL,
			vm REAL NOT NULL,
			fahp REAL NOT NULL,
			sahp REAL NOT NULL,
			adp REAL NOT NULL,
			vth REAL NOT NULL,
			spike INTEGER NOT NULL,
			PRIMARY KEY (run_id, neuron, step)
		);
	`)
	return err
}
