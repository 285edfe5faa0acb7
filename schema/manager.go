// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schema

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/adaptable-records/db"
)

// Manager owns the definition of a single table.
type Manager struct {
	db      *sql.DB
	dialect db.Dialect
	table   string
}

func NewManager(conn *sql.DB, dialect db.Dialect, table string) *Manager {
	return &Manager{db: conn, dialect: dialect, table: Sanitize(table)}
}

// Table returns the sanitized table name.
func (m *Manager) Table() string {
	return m.table
}

// Plan describes what a reconciliation does to the live table.
type Plan struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
	Add     []string `json:"add"`
	Keep    []string `json:"keep"`
	Drop    []string `json:"drop"`
	Rows    int64    `json:"rows"`
}

// Destructive reports whether columns holding data would be removed.
func (p Plan) Destructive() bool {
	return len(p.Drop) > 0
}

// ReconcileOptions controls policy decisions made during reconciliation.
type ReconcileOptions struct {
	// ConfirmDrop must be set when the new column set omits live columns.
	// Data in those columns is discarded permanently.
	ConfirmDrop bool
}

// EnsureTable creates the table with cols when it does not exist yet.
// Safe to call multiple times - uses IF NOT EXISTS.
func (m *Manager) EnsureTable(ctx context.Context, cols ColumnSet) error {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = c.Definition(m.dialect)
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		m.dialect.QuoteIdent(m.table), strings.Join(defs, ", "))
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", m.table, err)
	}

	return nil
}

// LiveColumns returns the columns currently defined on the table.
func (m *Manager) LiveColumns(ctx context.Context) (ColumnSet, error) {
	names, err := m.dialect.LiveColumns(ctx, m.db, m.table)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableMissing, m.table)
	}
	return NewColumnSet(names)
}

// Plan computes the effect of reconciling to newColumns without changing anything.
func (m *Manager) Plan(ctx context.Context, newColumns []string) (Plan, error) {
	target, err := NewColumnSet(newColumns)
	if err != nil {
		return Plan{}, &UpdateError{Table: m.table, Step: "sanitize", Err: err}
	}

	live, err := m.dialect.LiveColumns(ctx, m.db, m.table)
	if err != nil {
		return Plan{}, &UpdateError{Table: m.table, Step: "inspect", Err: err}
	}
	if len(live) == 0 {
		return Plan{}, &UpdateError{Table: m.table, Step: "inspect", Err: ErrTableMissing}
	}

	plan, _ := diff(m.table, live, target)
	if plan.Rows, err = m.countRows(ctx, m.db); err != nil {
		return plan, &UpdateError{Table: m.table, Step: "count rows", Err: err}
	}
	return plan, nil
}

// Reconcile rebuilds the table so that it has exactly newColumns, carrying
// over the values of every column present both in the live table and in
// newColumns. The whole rebuild runs in one transaction; on failure the live
// table is left untouched and the returned error matches ErrSchemaUpdateFailed.
//
// Columns of the live table missing from newColumns are dropped together
// with their data. That only happens when opts.ConfirmDrop is set.
func (m *Manager) Reconcile(ctx context.Context, oldColumns, newColumns []string, opts ReconcileOptions) (Plan, error) {
	target, err := NewColumnSet(newColumns)
	if err != nil {
		return Plan{}, &UpdateError{Table: m.table, Step: "sanitize", Err: err}
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return Plan{}, &UpdateError{Table: m.table, Step: "begin", Err: err}
	}
	defer tx.Rollback()

	live, err := m.dialect.LiveColumns(ctx, tx, m.table)
	if err != nil {
		return Plan{}, &UpdateError{Table: m.table, Step: "inspect", Err: err}
	}
	if len(live) == 0 {
		return Plan{}, &UpdateError{Table: m.table, Step: "inspect", Err: ErrTableMissing}
	}

	if old, err := NewColumnSet(oldColumns); err == nil && !sameNames(old.Names(), sanitizeAll(live)) {
		slog.Warn("configured columns differ from live table",
			"table", m.table, "configured", old.Names(), "live", live)
	}

	plan, source := diff(m.table, live, target)
	if plan.Destructive() && !opts.ConfirmDrop {
		plan.Rows, _ = m.countRows(ctx, tx)
		return plan, &UpdateError{Table: m.table, Step: "confirm", Err: ErrDropNotConfirmed}
	}

	q := m.dialect.QuoteIdent
	table := q(m.table)
	staging := q("new_" + m.table)

	for _, name := range plan.Add {
		if name == IDColumn {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", table, q(name))
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return plan, &UpdateError{Table: m.table, Step: "add column " + name, Err: err}
		}
	}

	defs := make([]string, len(target))
	for i, c := range target {
		defs[i] = c.Definition(m.dialect)
	}
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+staging); err != nil {
		return plan, &UpdateError{Table: m.table, Step: "clear staging table", Err: err}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", staging, strings.Join(defs, ", "))); err != nil {
		return plan, &UpdateError{Table: m.table, Step: "create staging table", Err: err}
	}

	into := make([]string, len(plan.Keep))
	from := make([]string, len(plan.Keep))
	for i, name := range plan.Keep {
		into[i] = q(name)
		from[i] = q(source[name])
	}
	res, err := tx.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s",
		staging, strings.Join(into, ", "), strings.Join(from, ", "), table))
	if err != nil {
		return plan, &UpdateError{Table: m.table, Step: "copy rows", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil {
		plan.Rows = n
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE "+table); err != nil {
		return plan, &UpdateError{Table: m.table, Step: "drop old table", Err: err}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", staging, table)); err != nil {
		return plan, &UpdateError{Table: m.table, Step: "rename staging table", Err: err}
	}
	if stmt := m.dialect.ResetSequence(m.table); stmt != "" {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return plan, &UpdateError{Table: m.table, Step: "reset id sequence", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return plan, &UpdateError{Table: m.table, Step: "commit", Err: err}
	}

	slog.Info("table reconciled",
		"table", m.table,
		"columns", plan.Columns,
		"added", plan.Add,
		"dropped", plan.Drop,
		"rows", humanize.Comma(plan.Rows),
	)

	return plan, nil
}

// countRows reports how many rows a rebuild would carry over.
func (m *Manager) countRows(ctx context.Context, q db.Querier) (int64, error) {
	rows, err := q.QueryContext(ctx, "SELECT COUNT(*) FROM "+m.dialect.QuoteIdent(m.table))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}

// diff splits target against the live column names. Live names are matched
// by their sanitized form, so a live "Name" is kept as "name". Keep follows
// target order; the returned map gives the live column each kept name is
// copied from.
func diff(table string, live []string, target ColumnSet) (Plan, map[string]string) {
	source := make(map[string]string, len(live))
	plan := Plan{Table: table, Columns: target.Names(), Add: []string{}, Keep: []string{}, Drop: []string{}}

	for _, name := range live {
		key := Sanitize(name)
		if _, dup := source[key]; dup || !target.Has(key) {
			plan.Drop = append(plan.Drop, name)
			continue
		}
		source[key] = name
	}
	for _, c := range target {
		if _, ok := source[c.Name]; ok {
			plan.Keep = append(plan.Keep, c.Name)
		} else {
			plan.Add = append(plan.Add, c.Name)
		}
	}

	return plan, source
}

func sanitizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Sanitize(n)
	}
	return out
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
