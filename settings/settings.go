// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/danielhkuo/adaptable-records/appconfig"
	"github.com/danielhkuo/adaptable-records/schema"
)

// Mode decides whether the columns of the table may be reconfigured.
type Mode string

const (
	ModeDynamic Mode = "dynamic"
	ModeFixed   Mode = "fixed"
)

// ParseMode validates a schema mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDynamic:
		return ModeDynamic, nil
	case ModeFixed:
		return ModeFixed, nil
	}
	return "", fmt.Errorf("unknown schema mode %q (use dynamic or fixed)", s)
}

var ErrFixedSchema = errors.New("the columns of this table cannot be changed")

// Service applies customization changes: it reconciles the table and then
// persists the configuration.
type Service struct {
	mu     sync.Mutex
	config *appconfig.Store
	schema *schema.Manager
	mode   Mode
}

func NewService(cfg *appconfig.Store, mgr *schema.Manager, mode Mode) *Service {
	return &Service{config: cfg, schema: mgr, mode: mode}
}

func (s *Service) Mode() Mode {
	return s.mode
}

func (s *Service) Config() *appconfig.Store {
	return s.config
}

// Table returns the sanitized name of the managed table.
func (s *Service) Table() string {
	return s.schema.Table()
}

// Sync creates the table if needed and makes sure the configuration
// describes the live columns. The live table wins when they disagree.
func (s *Service) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.config.Exclusive()()

	configured := s.config.ColumnSet()
	if err := s.schema.EnsureTable(ctx, configured); err != nil {
		return err
	}

	live, err := s.schema.LiveColumns(ctx)
	if err != nil {
		return err
	}

	switch {
	case s.mode == ModeFixed:
		s.config.Adopt(live)
		slog.Info("using fixed table columns", "table", s.schema.Table(), "columns", live.Names())
	case !live.SameNames(configured):
		slog.Warn("configured columns differ from live table, using live columns",
			"table", s.schema.Table(),
			"configured", configured.Names(),
			"live", live.Names(),
		)
		s.config.Adopt(live)
	}

	return nil
}

// Preview reports what saving columns would do to the table.
func (s *Service) Preview(ctx context.Context, columns []string) (schema.Plan, error) {
	cfg := appconfig.AppConfig{Columns: columns}.Normalize()
	return s.schema.Plan(ctx, cfg.Columns)
}

// Commit saves a new configuration. When the columns change the table is
// reconciled first; if that fails nothing is saved and the table is left as
// it was. Removing columns discards their data and needs confirmDrop.
func (s *Service) Commit(ctx context.Context, cfg appconfig.AppConfig, confirmDrop bool) (schema.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// record reads and writes wait until the table and the columns agree again
	defer s.config.Exclusive()()

	cfg = cfg.Normalize()
	current := s.config.Get()
	currentCols := s.config.ColumnSet()

	newCols, err := cfg.ColumnSet()
	if err != nil {
		return schema.Plan{}, &schema.UpdateError{Table: s.schema.Table(), Step: "sanitize", Err: err}
	}

	var plan schema.Plan
	switch {
	case newCols.SameNames(currentCols):
		plan, err = s.schema.Plan(ctx, cfg.Columns)
		if err != nil {
			return plan, err
		}
	case s.mode == ModeFixed:
		return schema.Plan{}, fmt.Errorf("%w: %s", ErrFixedSchema, s.schema.Table())
	default:
		plan, err = s.schema.Reconcile(ctx, current.Columns, cfg.Columns, schema.ReconcileOptions{ConfirmDrop: confirmDrop})
		if err != nil {
			slog.Error("schema update failed, customizations not saved", "table", s.schema.Table(), "error", err)
			return plan, err
		}
	}

	if s.mode == ModeFixed {
		cfg.Columns = current.Columns
	}
	if err := s.config.Set(cfg); err != nil {
		return plan, fmt.Errorf("table updated but configuration not saved: %w", err)
	}

	slog.Info("customizations saved",
		"path", s.config.Path(),
		"title", cfg.Title,
		"columns", plan.Columns,
	)

	return plan, nil
}
