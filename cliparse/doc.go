// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DatabaseURL: SQLite file or PostgreSQL connection string (default: data.db)
  - Table: Table holding the records (default: records, or students in fixed mode)
  - SchemaMode: dynamic (columns can be reconfigured) or fixed
  - ConfigPath: Customization file (default: app_config.json)
  - LogLevel, LogFormat, SeqURL: Logging setup

# CLI Flags

	-p          Server port
	-d          Database URL
	-t          Database type
	-table      Table name
	-schema     Schema mode
	-config     Customization file
	-log-level  Log level
	-log-format Log format
	-seq        Seq server URL

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	TABLE_NAME    → -table
	SCHEMA_MODE   → -schema
	APP_CONFIG    → -config
	LOG_LEVEL     → -log-level
	LOG_FORMAT    → -log-format
	SEQ_URL       → -seq

CLI flags take precedence over environment variables. main loads a .env file
before parsing, so the variables may also live there.

# Student Database

With -t postgres and no URL, the connection string is built from

	DB_HOST (localhost), DB_PORT (5432), DB_USER (root),
	DB_PASSWORD or PASSWORD, DB_NAME (school), DB_SSLMODE (disable)

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, dialect, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(records, svc)
*/
package cliparse
