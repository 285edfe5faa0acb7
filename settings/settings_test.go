// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package settings

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/adaptable-records/appconfig"
	"github.com/danielhkuo/adaptable-records/db"
	"github.com/danielhkuo/adaptable-records/schema"
)

func setupService(t *testing.T, mode Mode) (*Service, *sql.DB, string) {
	t.Helper()

	dir := t.TempDir()
	conn, dialect, err := db.Open("sqlite", filepath.Join(dir, "settings.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	cfgPath := filepath.Join(dir, "app_config.json")
	svc := NewService(appconfig.Open(cfgPath), schema.NewManager(conn, dialect, "records"), mode)
	if err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	return svc, conn, cfgPath
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeDynamic, "dynamic": ModeDynamic, "FIXED": ModeFixed} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("other"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestSync_CreatesDefaultTable(t *testing.T) {
	svc, _, _ := setupService(t, ModeDynamic)

	live, err := svc.schema.LiveColumns(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"id", "name"}, live.Names()); diff != "" {
		t.Errorf("default table mismatch (-want +got):\n%s", diff)
	}
}

func TestSync_LiveTableWins(t *testing.T) {
	svc, conn, _ := setupService(t, ModeDynamic)

	if _, err := conn.Exec(`ALTER TABLE records ADD COLUMN course TEXT`); err != nil {
		t.Fatal(err)
	}
	if err := svc.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"id", "name", "course"}, svc.Config().ColumnSet().Names()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestCommit_AddsColumnAndSaves(t *testing.T) {
	svc, conn, cfgPath := setupService(t, ModeDynamic)
	ctx := context.Background()

	if _, err := conn.Exec(`INSERT INTO records (name) VALUES ('Alice')`); err != nil {
		t.Fatal(err)
	}

	cfg := svc.Config().Get()
	cfg.Title = "Student Management System"
	cfg.RecordLabel = "Student"
	cfg.Columns = []string{"name", "Course"}

	plan, err := svc.Commit(ctx, cfg, false)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if diff := cmp.Diff([]string{"course"}, plan.Add); diff != "" {
		t.Errorf("Add mismatch (-want +got):\n%s", diff)
	}

	saved, err := appconfig.Read(cfgPath)
	if err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	if saved.Title != "Student Management System" {
		t.Errorf("title not saved: %+v", saved)
	}
	if diff := cmp.Diff([]string{"id", "name", "Course"}, saved.Columns); diff != "" {
		t.Errorf("saved columns mismatch (-want +got):\n%s", diff)
	}

	var name string
	if err := conn.QueryRow(`SELECT name FROM records WHERE id = 1`).Scan(&name); err != nil || name != "Alice" {
		t.Errorf("row not preserved: %q, %v", name, err)
	}
}

func TestCommit_FailureSavesNothing(t *testing.T) {
	svc, conn, cfgPath := setupService(t, ModeDynamic)
	ctx := context.Background()

	if _, err := conn.Exec(`INSERT INTO records (name) VALUES ('Alice')`); err != nil {
		t.Fatal(err)
	}
	before := svc.Config().Get()

	tests := []struct {
		name    string
		columns []string
		confirm bool
		wantErr error
	}{
		{"unconfirmed drop", []string{"id", "course"}, false, schema.ErrDropNotConfirmed},
		{"collision", []string{"id", "name", "Name "}, true, schema.ErrColumnCollision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := svc.Config().Get()
			cfg.Title = "Changed"
			cfg.Columns = tt.columns

			_, err := svc.Commit(ctx, cfg, tt.confirm)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, schema.ErrSchemaUpdateFailed) {
				t.Errorf("expected ErrSchemaUpdateFailed, got %v", err)
			}
			if diff := cmp.Diff(before, svc.Config().Get()); diff != "" {
				t.Errorf("config changed (-before +after):\n%s", diff)
			}
			if _, err := appconfig.Read(cfgPath); err == nil {
				t.Error("config file should not have been written")
			}
		})
	}
}

func TestCommit_ConfirmedDrop(t *testing.T) {
	svc, _, _ := setupService(t, ModeDynamic)
	ctx := context.Background()

	cfg := svc.Config().Get()
	cfg.Columns = []string{"id", "course"}

	plan, err := svc.Commit(ctx, cfg, true)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if diff := cmp.Diff([]string{"name"}, plan.Drop); diff != "" {
		t.Errorf("Drop mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"id", "course"}, svc.Config().ColumnSet().Names()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestCommit_FixedMode(t *testing.T) {
	svc, _, cfgPath := setupService(t, ModeFixed)
	ctx := context.Background()

	cfg := svc.Config().Get()
	cfg.Columns = []string{"id", "name", "course"}
	if _, err := svc.Commit(ctx, cfg, true); !errors.Is(err, ErrFixedSchema) {
		t.Fatalf("expected ErrFixedSchema, got %v", err)
	}

	// labels can still be customized
	cfg = svc.Config().Get()
	cfg.RecordLabel = "Student"
	if _, err := svc.Commit(ctx, cfg, false); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	saved, err := appconfig.Read(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if saved.RecordLabel != "Student" {
		t.Errorf("record label not saved: %+v", saved)
	}
}

func TestPreview(t *testing.T) {
	svc, _, _ := setupService(t, ModeDynamic)

	plan, err := svc.Preview(context.Background(), []string{"course", "name"})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if diff := cmp.Diff([]string{"id", "course", "name"}, plan.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
	if plan.Destructive() {
		t.Error("adding a column is not destructive")
	}
}
