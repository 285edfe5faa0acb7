// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/adaptable-records/app"
	"github.com/danielhkuo/adaptable-records/cliparse"
	"github.com/danielhkuo/adaptable-records/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabaseURL  string
	DatabaseType string
	Table        string
	SchemaMode   string
	ConfigPath   string
	Format       string // "json" | "text"
	Verbose      bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for recordctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "recordctl",
		Short: "Manage records and columns from the terminal",
		Long: `recordctl works on the same table and customization file as the API server.

Column changes rebuild the table in one transaction and keep the values of
every column that survives. Removing a column needs --confirm-drop.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags; empty values fall back to the server's environment variables
	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "db", "", "database URL (sqlite file or postgres URL)")
	cmd.PersistentFlags().StringVar(&opts.DatabaseType, "type", "", "database type (sqlite|postgres)")
	cmd.PersistentFlags().StringVar(&opts.Table, "table", "", "table holding the records")
	cmd.PersistentFlags().StringVar(&opts.SchemaMode, "schema", "", "schema mode (dynamic|fixed)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "customization file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewColumnsCommand(opts))
	cmd.AddCommand(NewCustomizeCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openApp resolves the storage settings and opens the application. Logs go
// to the command's stderr; only warnings unless --verbose is set.
func openApp(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*app.App, error) {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	if _, _, err := logging.Setup(logging.Options{Level: level, Output: cmd.ErrOrStderr()}); err != nil {
		return nil, WrapExitError(ExitCommandError, "logging setup failed", err)
	}

	cfg := cliparse.Config{
		DatabaseURL:  opts.DatabaseURL,
		DatabaseType: opts.DatabaseType,
		Table:        opts.Table,
		SchemaMode:   opts.SchemaMode,
		ConfigPath:   opts.ConfigPath,
	}
	if err := cfg.FillFromEnv(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid storage settings", err)
	}

	a, err := app.Open(ctx, cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot open records", err)
	}
	return a, nil
}
