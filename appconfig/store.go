// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package appconfig

import (
	"sync"

	"github.com/danielhkuo/adaptable-records/schema"
)

// Store holds the configuration in effect and the file it persists to.
// It is safe for concurrent use and serves as the column source of the
// record store.
type Store struct {
	mu   sync.RWMutex
	path string
	// table is held shared by readers of the columns and exclusively while
	// the columns and the table change together.
	table sync.RWMutex
	cfg  AppConfig
	cols schema.ColumnSet
}

// Open loads the configuration at path, falling back to Defaults.
func Open(path string) *Store {
	cfg := Load(path)
	cols, _ := cfg.ColumnSet() // Load only returns valid column sets
	return &Store{path: path, cfg: cfg, cols: cols}
}

func (s *Store) Path() string {
	return s.path
}

// Get returns a copy of the current configuration.
func (s *Store) Get() AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.clone()
}

// ColumnSet returns the sanitized columns of the current configuration.
func (s *Store) ColumnSet() schema.ColumnSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cols
}

// Set makes cfg current and writes it to disk. The in-memory configuration
// is replaced even when writing fails; the write error is returned.
func (s *Store) Set(cfg AppConfig) error {
	cfg = cfg.Normalize()
	cols, err := cfg.ColumnSet()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
	s.cols = cols
	return Save(s.path, cfg)
}

// Adopt replaces the columns in memory only. It is used when the live table
// is authoritative, e.g. a fixed student table.
func (s *Store) Adopt(cols schema.ColumnSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cols = cols
	s.cfg.Columns = cols.Labels()
}

// Hold keeps the columns, and the table they describe, from changing until
// release is called. Calls must not nest.
func (s *Store) Hold() (release func()) {
	s.table.RLock()
	return s.table.RUnlock
}

// Exclusive waits for every Hold to be released and blocks new ones until
// release is called. A column change runs inside it so that no reader sees
// the rebuilt table with the old columns.
func (s *Store) Exclusive() (release func()) {
	s.table.Lock()
	return s.table.Unlock
}
