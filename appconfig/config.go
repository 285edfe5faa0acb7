// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/adaptable-records/schema"
)

// DefaultPath is where the configuration lives when nothing else is given.
const DefaultPath = "app_config.json"

// AppConfig is the persisted customization of the application.
type AppConfig struct {
	Title       string   `json:"app_title" yaml:"app_title"`
	RecordLabel string   `json:"record_name" yaml:"record_name"`
	TabLabels   []string `json:"tab_names" yaml:"tab_names"`
	Columns     []string `json:"columns" yaml:"columns"`
}

// Defaults returns the configuration used when none has been saved.
func Defaults() AppConfig {
	return AppConfig{
		Title:       "Adaptable Management System",
		RecordLabel: "Record",
		TabLabels:   []string{"View", "Add", "Edit", "Delete"},
		Columns:     []string{schema.IDColumn, "name"},
	}
}

// Normalize fills blanks from Defaults, keeps exactly four tab labels and
// puts id first in Columns. Column collisions are left for ColumnSet to report.
func (c AppConfig) Normalize() AppConfig {
	def := Defaults()
	out := AppConfig{
		Title:       strings.TrimSpace(c.Title),
		RecordLabel: strings.TrimSpace(c.RecordLabel),
	}
	if out.Title == "" {
		out.Title = def.Title
	}
	if out.RecordLabel == "" {
		out.RecordLabel = def.RecordLabel
	}

	out.TabLabels = make([]string, len(def.TabLabels))
	for i := range def.TabLabels {
		label := ""
		if i < len(c.TabLabels) {
			label = strings.TrimSpace(c.TabLabels[i])
		}
		if label == "" {
			label = def.TabLabels[i]
		}
		out.TabLabels[i] = label
	}

	id := ""
	out.Columns = []string{}
	for _, col := range c.Columns {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		if id == "" && schema.Sanitize(col) == schema.IDColumn {
			id = col
			continue
		}
		out.Columns = append(out.Columns, col)
	}
	if id == "" {
		id = schema.IDColumn
	}
	out.Columns = append([]string{id}, out.Columns...)

	return out
}

// ColumnSet sanitizes Columns.
func (c AppConfig) ColumnSet() (schema.ColumnSet, error) {
	return schema.NewColumnSet(c.Columns)
}

func (c AppConfig) clone() AppConfig {
	c.TabLabels = slices.Clone(c.TabLabels)
	c.Columns = slices.Clone(c.Columns)
	return c
}

// LoadError reports a configuration file that exists but cannot be used.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Read parses the configuration at path. A missing file returns an error
// matching fs.ErrNotExist; anything unparsable returns a *LoadError.
func Read(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, err
		}
		return AppConfig{}, &LoadError{Path: path, Err: err}
	}

	var cfg AppConfig
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return AppConfig{}, &LoadError{Path: path, Err: err}
	}

	cfg = cfg.Normalize()
	if _, err := cfg.ColumnSet(); err != nil {
		return AppConfig{}, &LoadError{Path: path, Err: err}
	}

	return cfg, nil
}

// Load is Read with a fallback: a missing or invalid file yields Defaults.
// Problems are logged, never returned.
func Load(path string) AppConfig {
	cfg, err := Read(path)
	if err == nil {
		return cfg
	}

	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("no saved configuration, using defaults", "path", path)
	} else {
		slog.Warn("configuration unreadable, using defaults", "path", path, "error", err)
	}
	return Defaults()
}

// Save writes cfg to path as a whole, replacing any previous file atomically.
func Save(path string, cfg AppConfig) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".app_config-*")
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
