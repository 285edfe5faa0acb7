// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/adaptable-records/schema"
	"github.com/danielhkuo/adaptable-records/store"
)

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Columns schema.ColumnSet `json:"columns"`
	Records []store.Record   `json:"records"`
	Total   int64            `json:"total"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List records",
		Long:          "List records, optionally keeping only those where any column contains --search (case-insensitive).",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.Records.List(cmd.Context(), search)
			if err != nil {
				return recordError(err)
			}
			total, err := a.Records.Count(cmd.Context())
			if err != nil {
				return recordError(err)
			}

			result := ListResult{Columns: a.Records.Columns(), Records: records, Total: total}
			return newFormatter(rootOpts, cmd).Success(result, func(w io.Writer) {
				writeTable(w, result.Columns, records)
				fmt.Fprintf(w, "\n%s of %s %s\n",
					humanize.Comma(int64(len(records))), humanize.Comma(total),
					plural(a.Config.Get().RecordLabel, total))
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only show records containing this text")

	return cmd
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add [column=value]...",
		Short:         "Add a record",
		Example:       `  recordctl add name=Alice "Mobile No=555-0100"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseAssignments(args)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := a.Records.Create(cmd.Context(), fields)
			if err != nil {
				return recordError(err)
			}

			return newFormatter(rootOpts, cmd).Success(map[string]int64{"id": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Added %s %d\n", a.Config.Get().RecordLabel, id)
			})
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one record",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.Records.Read(cmd.Context(), id)
			if err != nil {
				return recordError(err)
			}

			cols := a.Records.Columns()
			return newFormatter(rootOpts, cmd).Success(rec, func(w io.Writer) {
				for _, c := range cols {
					value := rec.Get(c.Name)
					if c.Name == schema.IDColumn {
						value = strconv.FormatInt(rec.ID, 10)
					}
					fmt.Fprintf(w, "%s: %s\n", c.Label, value)
				}
			})
		},
	}
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "edit <id> column=value...",
		Short:         "Change fields of a record",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fields, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Records.Update(cmd.Context(), id, fields); err != nil {
				return recordError(err)
			}

			return newFormatter(rootOpts, cmd).Success(map[string]int64{"id": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Updated %s %d\n", a.Config.Get().RecordLabel, id)
			})
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a record",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Records.Delete(cmd.Context(), id); err != nil {
				return recordError(err)
			}

			return newFormatter(rootOpts, cmd).Success(map[string]int64{"id": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %s %d\n", a.Config.Get().RecordLabel, id)
			})
		},
	}
}

// parseAssignments turns column=value arguments into a field map.
func parseAssignments(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("expected column=value, got %q", arg))
		}
		fields[key] = value
	}
	return fields, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid record id %q", raw))
	}
	return id, nil
}

// recordError assigns an exit code to a store error.
func recordError(err error) error {
	switch {
	case errors.Is(err, store.ErrInvalidField):
		return WrapExitError(ExitCommandError, "invalid fields", err)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrConstraintViolation):
		return WrapExitError(ExitFailure, "refused", err)
	default:
		return WrapExitError(ExitFailure, "storage error", err)
	}
}

func plural(label string, n int64) string {
	if n == 1 || label == "" {
		return strings.ToLower(label)
	}
	return strings.ToLower(label) + "s"
}
