// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the records API.

# Handler Types

Each handler is a struct holding the component it drives:

  - RecordHandler: create, read, update, delete and search of records
  - SettingsHandler: customization and column changes

Handlers are created via constructor functions:

	records := handlers.NewRecordHandler(recordStore)
	settings := handlers.NewSettingsHandler(settingsService)

# Records

	GET    /records?q=  → ListRecords (case-insensitive search over every column)
	POST   /records     → CreateRecord (returns the new id)
	GET    /records/{id} → GetRecord
	PUT    /records/{id} → UpdateRecord (partial; returns the stored record)
	DELETE /records/{id} → DeleteRecord

The store always uses the current column set, so records follow a column
change without a restart.

# Customization

	GET  /config          → GetConfig
	POST /config/preview  → PreviewColumns (dry run)
	PUT  /config          → SaveConfig

SaveConfig reconciles the table before the configuration is written; when
the rebuild fails nothing is saved. Removing columns is refused with 409 and
the plan until the request sets confirm_drop.

# Errors

Domain errors map onto status codes:

	store.ErrNotFound                          → 404
	store.ErrConstraintViolation               → 409
	schema.ErrDropNotConfirmed, ErrFixedSchema → 409
	store.ErrInvalidField, ErrColumnCollision  → 400
	anything else                              → 500 (logged, details hidden)
*/
package handlers
