// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schema

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/adaptable-records/db"
)

func setupManager(t *testing.T, cols ...string) (*Manager, *sql.DB) {
	t.Helper()

	conn, dialect, err := db.Open("sqlite", filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	m := NewManager(conn, dialect, "records")
	if err := m.EnsureTable(context.Background(), MustColumnSet(cols...)); err != nil {
		t.Fatalf("EnsureTable failed: %v", err)
	}
	return m, conn
}

func dump(t *testing.T, conn *sql.DB) []map[string]string {
	t.Helper()

	rows, err := conn.Query("SELECT * FROM records ORDER BY id")
	if err != nil {
		t.Fatalf("Failed to read table: %v", err)
	}
	defer rows.Close()

	cols, _ := rows.Columns()
	out := []map[string]string{}
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			t.Fatalf("Failed to scan: %v", err)
		}
		row := map[string]string{}
		for i, c := range cols {
			row[c] = vals[i].String
		}
		out = append(out, row)
	}
	return out
}

func liveNames(t *testing.T, m *Manager) []string {
	t.Helper()
	cs, err := m.LiveColumns(context.Background())
	if err != nil {
		t.Fatalf("LiveColumns failed: %v", err)
	}
	return cs.Names()
}

func TestEnsureTable_Idempotent(t *testing.T) {
	m, _ := setupManager(t, "id", "name")

	for i := 0; i < 3; i++ {
		if err := m.EnsureTable(context.Background(), MustColumnSet("id", "name", "course")); err != nil {
			t.Fatalf("EnsureTable iteration %d failed: %v", i, err)
		}
	}

	// existing table is never altered by EnsureTable
	if diff := cmp.Diff([]string{"id", "name"}, liveNames(t, m)); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestLiveColumns_MissingTable(t *testing.T) {
	m, _ := setupManager(t, "id", "name")
	other := NewManager(m.db, m.dialect, "students")

	_, err := other.LiveColumns(context.Background())
	if !errors.Is(err, ErrTableMissing) {
		t.Errorf("expected ErrTableMissing, got %v", err)
	}
}

func TestReconcile_AddColumnPreservesRows(t *testing.T) {
	m, conn := setupManager(t, "id", "name")
	ctx := context.Background()

	if _, err := conn.Exec(`INSERT INTO records (name) VALUES ('Alice'), ('Bob')`); err != nil {
		t.Fatal(err)
	}

	plan, err := m.Reconcile(ctx, []string{"id", "name"}, []string{"id", "name", "course"}, ReconcileOptions{})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if diff := cmp.Diff([]string{"course"}, plan.Add); diff != "" {
		t.Errorf("Add mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"id", "name"}, plan.Keep); diff != "" {
		t.Errorf("Keep mismatch (-want +got):\n%s", diff)
	}
	if plan.Rows != 2 {
		t.Errorf("expected 2 rows copied, got %d", plan.Rows)
	}

	want := []map[string]string{
		{"id": "1", "name": "Alice", "course": ""},
		{"id": "2", "name": "Bob", "course": ""},
	}
	if diff := cmp.Diff(want, dump(t, conn)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"id", "name", "course"}, liveNames(t, m)); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	m, conn := setupManager(t, "id", "name", "course")
	ctx := context.Background()

	if _, err := conn.Exec(`INSERT INTO records (name, course) VALUES ('Alice', 'Bio'), ('Bob', NULL)`); err != nil {
		t.Fatal(err)
	}
	before := dump(t, conn)

	cols := []string{"id", "name", "course"}
	for i := 0; i < 2; i++ {
		plan, err := m.Reconcile(ctx, cols, cols, ReconcileOptions{})
		if err != nil {
			t.Fatalf("Reconcile %d failed: %v", i, err)
		}
		if len(plan.Add) != 0 || len(plan.Drop) != 0 {
			t.Errorf("identical sets should not add or drop: %+v", plan)
		}
	}

	if diff := cmp.Diff(before, dump(t, conn)); diff != "" {
		t.Errorf("rows changed (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(cols, liveNames(t, m)); diff != "" {
		t.Errorf("columns changed (-want +got):\n%s", diff)
	}
}

func TestReconcile_ReorderAndRename(t *testing.T) {
	m, conn := setupManager(t, "id", "name", "course")
	ctx := context.Background()

	if _, err := conn.Exec(`INSERT INTO records (name, course) VALUES ('Alice', 'Bio')`); err != nil {
		t.Fatal(err)
	}

	// raw labels sanitize onto the live names, so nothing is dropped
	_, err := m.Reconcile(ctx, nil, []string{"Course", "Name", "Mobile No"}, ReconcileOptions{})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if diff := cmp.Diff([]string{"id", "course", "name", "mobile_no"}, liveNames(t, m)); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	want := []map[string]string{{"id": "1", "course": "Bio", "name": "Alice", "mobile_no": ""}}
	if diff := cmp.Diff(want, dump(t, conn)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_DropRequiresConfirmation(t *testing.T) {
	m, conn := setupManager(t, "id", "name", "course")
	ctx := context.Background()

	if _, err := conn.Exec(`INSERT INTO records (name, course) VALUES ('Alice', 'Bio')`); err != nil {
		t.Fatal(err)
	}
	before := dump(t, conn)

	plan, err := m.Reconcile(ctx, nil, []string{"id", "name"}, ReconcileOptions{})
	if !errors.Is(err, ErrDropNotConfirmed) {
		t.Fatalf("expected ErrDropNotConfirmed, got %v", err)
	}
	if !errors.Is(err, ErrSchemaUpdateFailed) {
		t.Errorf("unconfirmed drop should report a schema update failure, got %v", err)
	}
	if diff := cmp.Diff([]string{"course"}, plan.Drop); diff != "" {
		t.Errorf("Drop mismatch (-want +got):\n%s", diff)
	}
	if plan.Rows != 1 {
		t.Errorf("expected refused plan to report 1 row at stake, got %d", plan.Rows)
	}
	if diff := cmp.Diff(before, dump(t, conn)); diff != "" {
		t.Errorf("rows changed (-before +after):\n%s", diff)
	}

	if _, err := m.Reconcile(ctx, nil, []string{"id", "name"}, ReconcileOptions{ConfirmDrop: true}); err != nil {
		t.Fatalf("confirmed Reconcile failed: %v", err)
	}
	want := []map[string]string{{"id": "1", "name": "Alice"}}
	if diff := cmp.Diff(want, dump(t, conn)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_CollisionLeavesTableUnchanged(t *testing.T) {
	m, conn := setupManager(t, "id", "name")
	ctx := context.Background()

	if _, err := conn.Exec(`INSERT INTO records (name) VALUES ('Alice')`); err != nil {
		t.Fatal(err)
	}

	_, err := m.Reconcile(ctx, nil, []string{"id", "name", "First Name", "first_name"}, ReconcileOptions{})
	if !errors.Is(err, ErrSchemaUpdateFailed) {
		t.Fatalf("expected ErrSchemaUpdateFailed, got %v", err)
	}
	if !errors.Is(err, ErrColumnCollision) {
		t.Errorf("expected collision cause, got %v", err)
	}

	var updateErr *UpdateError
	if !errors.As(err, &updateErr) || updateErr.Step != "sanitize" {
		t.Errorf("expected sanitize step, got %v", err)
	}
	if diff := cmp.Diff([]string{"id", "name"}, liveNames(t, m)); diff != "" {
		t.Errorf("columns changed (-want +got):\n%s", diff)
	}
}

func TestReconcile_FailureRollsBack(t *testing.T) {
	m, conn := setupManager(t, "id", "name")
	ctx := context.Background()

	if _, err := conn.Exec(`INSERT INTO records (name) VALUES ('Alice')`); err != nil {
		t.Fatal(err)
	}
	// a view occupying the staging name makes the rebuild fail after the
	// new column has already been added
	if _, err := conn.Exec(`CREATE VIEW new_records AS SELECT 1 AS x`); err != nil {
		t.Fatal(err)
	}

	_, err := m.Reconcile(ctx, nil, []string{"id", "name", "course"}, ReconcileOptions{})
	if !errors.Is(err, ErrSchemaUpdateFailed) {
		t.Fatalf("expected ErrSchemaUpdateFailed, got %v", err)
	}

	if diff := cmp.Diff([]string{"id", "name"}, liveNames(t, m)); diff != "" {
		t.Errorf("added column survived rollback (-want +got):\n%s", diff)
	}
	want := []map[string]string{{"id": "1", "name": "Alice"}}
	if diff := cmp.Diff(want, dump(t, conn)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan_DoesNotMutate(t *testing.T) {
	m, _ := setupManager(t, "id", "name", "course")

	plan, err := m.Plan(context.Background(), []string{"name", "mobile"})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	want := Plan{
		Table:   "records",
		Columns: []string{"id", "name", "mobile"},
		Add:     []string{"mobile"},
		Keep:    []string{"id", "name"},
		Drop:    []string{"course"},
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	if !plan.Destructive() {
		t.Error("plan dropping course should be destructive")
	}
	if diff := cmp.Diff([]string{"id", "name", "course"}, liveNames(t, m)); diff != "" {
		t.Errorf("Plan changed the table (-want +got):\n%s", diff)
	}
}

func TestReconcile_UnsanitizedLiveColumns(t *testing.T) {
	m, conn := setupManager(t, "id")
	ctx := context.Background()

	// a table created outside the manager keeps its column names as typed
	if _, err := conn.Exec(`DROP TABLE records`); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`CREATE TABLE records (id INTEGER PRIMARY KEY, "Name" TEXT, "Mobile No" TEXT)`); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`INSERT INTO records ("Name", "Mobile No") VALUES ('Alice', '555-0101')`); err != nil {
		t.Fatal(err)
	}

	preview, err := m.Plan(ctx, []string{"id", "Name"})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Mobile No"}, preview.Drop); diff != "" {
		t.Errorf("Drop mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{}, preview.Add); diff != "" {
		t.Errorf("Add mismatch (-want +got):\n%s", diff)
	}

	plan, err := m.Reconcile(ctx, []string{"id", "Name", "Mobile No"}, []string{"id", "Name", "Mobile No", "course"}, ReconcileOptions{})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if diff := cmp.Diff([]string{"course"}, plan.Add); diff != "" {
		t.Errorf("Add mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"id", "name", "mobile_no"}, plan.Keep); diff != "" {
		t.Errorf("Keep mismatch (-want +got):\n%s", diff)
	}
	if len(plan.Drop) != 0 {
		t.Errorf("no column should be dropped, got %v", plan.Drop)
	}

	raw, err := m.dialect.LiveColumns(ctx, conn, "records")
	if err != nil {
		t.Fatalf("LiveColumns failed: %v", err)
	}
	if diff := cmp.Diff([]string{"id", "name", "mobile_no", "course"}, raw); diff != "" {
		t.Errorf("rebuilt columns mismatch (-want +got):\n%s", diff)
	}
	want := []map[string]string{{"id": "1", "name": "Alice", "mobile_no": "555-0101", "course": ""}}
	if diff := cmp.Diff(want, dump(t, conn)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLiveColumns_NonASCIINames(t *testing.T) {
	m, conn := setupManager(t, "id")

	if _, err := conn.Exec(`DROP TABLE records`); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`CREATE TABLE records (id INTEGER PRIMARY KEY, "名前" TEXT, "住所" TEXT)`); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"id", "名前", "住所"}, liveNames(t, m)); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}
