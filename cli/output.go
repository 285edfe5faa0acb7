// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/adaptable-records/schema"
	"github.com/danielhkuo/adaptable-records/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation refused (record missing, drop not confirmed, etc.)
	ExitCommandError = 2 // Command error (bad arguments, database unreachable, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope written in --format json.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

// Success writes data as JSON, or calls text for human-readable output.
func (f *OutputFormatter) Success(data interface{}, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// writeTable prints records under their column labels.
func writeTable(w io.Writer, cols schema.ColumnSet, records []store.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols.Labels(), "\t"))

	for _, rec := range records {
		row := make([]string, len(cols))
		for i, c := range cols {
			if c.Name == schema.IDColumn {
				row[i] = fmt.Sprint(rec.ID)
				continue
			}
			row[i] = rec.Get(c.Name)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// writePlan prints what a column change does.
func writePlan(w io.Writer, plan schema.Plan) {
	fmt.Fprintf(w, "Table:   %s\n", plan.Table)
	fmt.Fprintf(w, "Columns: %s\n", strings.Join(plan.Columns, ", "))
	if len(plan.Add) > 0 {
		fmt.Fprintf(w, "Add:     %s\n", strings.Join(plan.Add, ", "))
	}
	if len(plan.Drop) > 0 {
		fmt.Fprintf(w, "Drop:    %s (data in these columns is discarded)\n", strings.Join(plan.Drop, ", "))
	}
}
