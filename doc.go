// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the adaptable records API server.

The server manages the records of one database table whose columns are
chosen at runtime. Renaming the application, its record label and its tabs,
or adding and removing columns, is done through the API; column changes
rebuild the table in a single transaction and keep existing values.

# Starting the Server

Settings come from flags, environment variables or a .env file:

	DATABASE_TYPE=sqlite DATABASE_URL=data.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -table students -schema fixed

# Configuration

Storage:

  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): SQLite file (default data.db) or PostgreSQL URL;
    for postgres it may be assembled from DB_HOST, DB_PORT, DB_USER,
    DB_PASSWORD, DB_NAME and DB_SSLMODE
  - TABLE_NAME (-table): table holding the records
  - SCHEMA_MODE (-schema): dynamic (columns follow the configuration) or
    fixed (columns follow an existing table)
  - APP_CONFIG (-config): customization file, JSON or YAML

Logging:

  - LOG_LEVEL (-log-level), LOG_FORMAT (-log-format)
  - SEQ_URL (-seq): optional Seq server receiving structured logs

Optional settings:

  - PORT (-p): Server port (default: 3318)

# Architecture

  - handlers: HTTP request handlers (records, settings)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, request logging, JSON helpers
  - models: Request/response types
  - app: Wiring shared with the recordctl command
  - settings: Applies customization changes
  - schema: Column sets and table reconciliation
  - store: Record CRUD and search
  - appconfig: Customization file
  - db: Connections and SQL dialects
  - logging: slog setup
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
