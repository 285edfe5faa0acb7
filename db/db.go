// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the database described by dbType and url and verifies the
// connection. SQLite connections are limited to a single writer.
func Open(dbType, url string) (*sql.DB, Dialect, error) {
	dialect, err := ParseDialect(dbType)
	if err != nil {
		return nil, "", err
	}

	conn, err := sql.Open(dialect.DriverName(), url)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialect == SQLite {
		// SQLite only supports one writer at a time
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)

		if err := applyPragmas(conn); err != nil {
			conn.Close()
			return nil, "", fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	return conn, dialect, nil
}

func applyPragmas(conn *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
