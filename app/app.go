// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/adaptable-records/appconfig"
	"github.com/danielhkuo/adaptable-records/cliparse"
	"github.com/danielhkuo/adaptable-records/db"
	"github.com/danielhkuo/adaptable-records/schema"
	"github.com/danielhkuo/adaptable-records/settings"
	"github.com/danielhkuo/adaptable-records/store"
)

// App holds the components shared by the server and the command line client.
type App struct {
	DB       *sql.DB
	Dialect  db.Dialect
	Config   *appconfig.Store
	Schema   *schema.Manager
	Settings *settings.Service
	Records  *store.Store
}

// Open connects to the database, loads the customization file and brings the
// table and the configuration in line with each other.
func Open(ctx context.Context, cfg cliparse.Config) (*App, error) {
	mode, err := settings.ParseMode(cfg.SchemaMode)
	if err != nil {
		return nil, err
	}

	conn, dialect, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	a := &App{
		DB:      conn,
		Dialect: dialect,
		Config:  appconfig.Open(cfg.ConfigPath),
		Schema:  schema.NewManager(conn, dialect, cfg.Table),
	}
	a.Settings = settings.NewService(a.Config, a.Schema, mode)

	if err := a.Settings.Sync(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("prepare table %s: %w", a.Schema.Table(), err)
	}
	a.Records = store.New(conn, dialect, a.Schema.Table(), a.Config)

	slog.Info("database ready",
		"type", dialect,
		"table", a.Schema.Table(),
		"mode", mode,
		"columns", a.Config.ColumnSet().Names(),
	)

	return a, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
