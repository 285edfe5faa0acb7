// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements create, read, update, delete and search over the
single record table.

# Columns

A Store never hard-codes its columns. Every call asks its ColumnSource for
the current schema.ColumnSet, so a reconciled table is picked up on the next
request:

	st := store.New(conn, dialect, "records", cfgStore)

A source that also has a Hold method is held for the length of each
statement that depends on the columns.

Field keys are sanitized the same way column names are. Unknown keys and
attempts to change id fail with ErrInvalidField. All values are bound as
parameters; only sanitized, quoted identifiers are written into SQL text.

# Errors

  - ErrNotFound: read, update or delete of an id that does not exist
  - ErrConstraintViolation: the engine rejected the write
  - ErrInvalidField: unknown column, id change, empty update
  - ErrStorage: any other engine failure

# Search

List with a filter keeps records whose id or any field contains the filter,
compared with Unicode case folding.
*/
package store
