// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/adaptable-records/schema"
	"github.com/danielhkuo/adaptable-records/settings"
)

// NewColumnsCommand creates the columns command and its plan and set subcommands.
func NewColumnsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "columns",
		Short:         "Show or change the columns of the table",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			cols := a.Config.ColumnSet()
			return newFormatter(rootOpts, cmd).Success(cols, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tLABEL\tTYPE")
				for _, c := range cols {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Label, c.Type)
				}
				tw.Flush()
			})
		},
	}

	cmd.AddCommand(newColumnsPlanCommand(rootOpts))
	cmd.AddCommand(newColumnsSetCommand(rootOpts))

	return cmd
}

func newColumnsPlanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "plan <column>...",
		Short:         "Show what setting these columns would do, without changing anything",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			plan, err := a.Settings.Preview(cmd.Context(), splitColumns(args))
			if err != nil {
				return schemaError(err)
			}

			return newFormatter(rootOpts, cmd).Success(plan, func(w io.Writer) {
				writePlan(w, plan)
				fmt.Fprintf(w, "Rows:    %s\n", humanize.Comma(plan.Rows))
			})
		},
	}
}

func newColumnsSetCommand(rootOpts *RootOptions) *cobra.Command {
	var confirmDrop bool

	cmd := &cobra.Command{
		Use:   "set <column>...",
		Short: "Rebuild the table with these columns",
		Long: `Rebuild the table with exactly the given columns. The id column is always
kept. Values of columns present before and after are preserved; removing a
column discards its data and needs --confirm-drop.`,
		Example:       `  recordctl columns set name Course "Mobile No"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg := a.Config.Get()
			cfg.Columns = splitColumns(args)

			plan, err := a.Settings.Commit(cmd.Context(), cfg, confirmDrop)
			if err != nil {
				if errors.Is(err, schema.ErrDropNotConfirmed) && rootOpts.Format == "text" {
					writePlan(cmd.OutOrStdout(), plan)
				}
				return schemaError(err)
			}

			return newFormatter(rootOpts, cmd).Success(plan, func(w io.Writer) {
				writePlan(w, plan)
				fmt.Fprintf(w, "Copied %s rows\n", humanize.Comma(plan.Rows))
			})
		},
	}

	cmd.Flags().BoolVar(&confirmDrop, "confirm-drop", false, "allow removing columns and their data")

	return cmd
}

// splitColumns accepts columns as separate arguments or comma separated.
func splitColumns(args []string) []string {
	var cols []string
	for _, arg := range args {
		for _, c := range strings.Split(arg, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cols = append(cols, c)
			}
		}
	}
	return cols
}

// schemaError assigns an exit code to a reconcile or settings error.
func schemaError(err error) error {
	switch {
	case errors.Is(err, schema.ErrDropNotConfirmed):
		return WrapExitError(ExitFailure, "rerun with --confirm-drop to remove columns", err)
	case errors.Is(err, schema.ErrColumnCollision):
		return WrapExitError(ExitCommandError, "invalid columns", err)
	case errors.Is(err, settings.ErrFixedSchema):
		return WrapExitError(ExitFailure, "refused", err)
	default:
		return WrapExitError(ExitFailure, "customizations not saved", err)
	}
}
