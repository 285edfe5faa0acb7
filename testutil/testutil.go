// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/adaptable-records/appconfig"
	"github.com/danielhkuo/adaptable-records/cliparse"
	"github.com/danielhkuo/adaptable-records/db"
	"github.com/danielhkuo/adaptable-records/schema"
	"github.com/danielhkuo/adaptable-records/settings"
	"github.com/danielhkuo/adaptable-records/store"
)

// TestTable is the table every helper works on
const TestTable = "records"

// PostgresURLEnv names the variable that switches the helpers to PostgreSQL.
// When unset, each test gets its own SQLite file.
const PostgresURLEnv = "TEST_DATABASE_URL"

// Env bundles the components a handler test needs
type Env struct {
	DB         *sql.DB
	Dialect    db.Dialect
	ConfigPath string
	Config     *appconfig.Store
	Schema     *schema.Manager
	Settings   *settings.Service
	Records    *store.Store
}

// SetupTestDB opens a fresh test database with no record table
func SetupTestDB(t *testing.T) (*sql.DB, db.Dialect) {
	t.Helper()

	dbType, url := "sqlite", filepath.Join(t.TempDir(), "test.db")
	if pg := os.Getenv(PostgresURLEnv); pg != "" {
		dbType, url = "postgres", pg
	}

	conn, dialect, err := db.Open(dbType, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Clean up tables left by an earlier test on a shared server
	for _, table := range []string{TestTable, "new_" + TestTable} {
		if _, err := conn.Exec("DROP TABLE IF EXISTS " + dialect.QuoteIdent(table)); err != nil {
			t.Fatalf("Failed to clean database: %v", err)
		}
	}

	return conn, dialect
}

// GetTestConfig returns a standard test configuration
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	dir := t.TempDir()
	return cliparse.Config{
		Port:         3318,
		DatabaseType: "sqlite",
		DatabaseURL:  filepath.Join(dir, "test.db"),
		Table:        TestTable,
		SchemaMode:   string(settings.ModeDynamic),
		ConfigPath:   filepath.Join(dir, appconfig.DefaultPath),
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// SetupTestEnv wires a dynamic-mode service over a fresh database. The
// configuration starts with columns, or the defaults when none are given.
func SetupTestEnv(t *testing.T, columns ...string) *Env {
	t.Helper()

	conn, dialect := SetupTestDB(t)
	cfgPath := filepath.Join(t.TempDir(), appconfig.DefaultPath)

	cfg := appconfig.Defaults()
	if len(columns) > 0 {
		cfg.Columns = columns
	}
	if err := appconfig.Save(cfgPath, cfg); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	env := &Env{
		DB:         conn,
		Dialect:    dialect,
		ConfigPath: cfgPath,
		Config:     appconfig.Open(cfgPath),
		Schema:     schema.NewManager(conn, dialect, TestTable),
	}
	env.Settings = settings.NewService(env.Config, env.Schema, settings.ModeDynamic)
	if err := env.Settings.Sync(context.Background()); err != nil {
		t.Fatalf("Failed to sync schema: %v", err)
	}
	env.Records = store.New(conn, dialect, TestTable, env.Config)

	return env
}

// CreateTestRecord inserts a record and returns its id
func CreateTestRecord(t *testing.T, records *store.Store, fields map[string]string) int64 {
	t.Helper()

	id, err := records.Create(context.Background(), fields)
	if err != nil {
		t.Fatalf("Failed to create test record: %v", err)
	}
	return id
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
