// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package schema keeps the live record table in line with the configured
column set.

# Column Sets

A ColumnSet is the ordered list of columns of a record. It always starts with
the integer primary key id; every other column is TEXT. Raw names are
sanitized before they reach SQL:

	schema.Sanitize("Phone No.") // "phone_no_"

Two raw names that sanitize to the same identifier are rejected with
ErrColumnCollision.

# Reconciliation

Reconcile migrates the table to a new column set inside one transaction:

 1. sanitize the new names
 2. read the live column list
 3. ALTER TABLE ... ADD COLUMN for new names
 4. CREATE TABLE new_<table> with exactly the new columns
 5. INSERT ... SELECT the columns shared by old and new
 6. DROP the old table and RENAME the new one into place
 7. COMMIT

Any failure rolls the transaction back and returns an *UpdateError, which
matches ErrSchemaUpdateFailed.

Columns left out of the new set lose their data for good. Reconcile refuses
to do that unless ReconcileOptions.ConfirmDrop is set; call Plan first to
show the caller what would be dropped.
*/
package schema
