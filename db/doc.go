// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the storage engine and hides the differences between the
two supported SQL dialects.

# Opening

	conn, dialect, err := db.Open("sqlite", "data.db")
	conn, dialect, err := db.Open("postgres", "postgres://root:pw@localhost/school")

SQLite uses the pure-Go modernc.org/sqlite driver and is limited to one open
connection with WAL journaling and a 5 second busy timeout. PostgreSQL uses
github.com/lib/pq.

# Dialects

A Dialect renders the few pieces of SQL that differ between engines:

  - Placeholder: ? (sqlite) or $n (postgres)
  - IDColumnDef: INTEGER PRIMARY KEY or SERIAL PRIMARY KEY
  - LiveColumns: pragma_table_info or information_schema.columns
  - ResetSequence: setval after a table rebuild (postgres only)

Identifiers are always double-quoted. Values are always bound as parameters.

# Errors

IsConstraintViolation recognises integrity failures from both drivers
(SQLSTATE class 23 and SQLITE_CONSTRAINT / SQLITE_MISMATCH).
*/
package db
