// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/adaptable-records/appconfig"
)

// NewCustomizeCommand creates the customize command. Without flags it prints
// the current customization.
func NewCustomizeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		title  string
		record string
		tabs   []string
	)

	cmd := &cobra.Command{
		Use:           "customize",
		Short:         "Show or change the application title, record label and tab labels",
		Example:       `  recordctl customize --title "Student Management System" --record Student`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg := a.Config.Get()
			changed := false
			if cmd.Flags().Changed("title") {
				cfg.Title, changed = title, true
			}
			if cmd.Flags().Changed("record") {
				cfg.RecordLabel, changed = record, true
			}
			if cmd.Flags().Changed("tabs") {
				cfg.TabLabels, changed = tabs, true
			}

			if changed {
				if _, err := a.Settings.Commit(cmd.Context(), cfg, false); err != nil {
					return schemaError(err)
				}
				cfg = a.Config.Get()
			}

			return newFormatter(rootOpts, cmd).Success(cfg, func(w io.Writer) {
				writeCustomization(w, cfg)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "application title")
	cmd.Flags().StringVar(&record, "record", "", "label of one record")
	cmd.Flags().StringSliceVar(&tabs, "tabs", nil, "labels of the four tabs, comma separated")

	return cmd
}

func writeCustomization(w io.Writer, cfg appconfig.AppConfig) {
	fmt.Fprintf(w, "Title:   %s\n", cfg.Title)
	fmt.Fprintf(w, "Record:  %s\n", cfg.RecordLabel)
	fmt.Fprintf(w, "Tabs:    %s\n", strings.Join(cfg.TabLabels, ", "))
	fmt.Fprintf(w, "Columns: %s\n", strings.Join(cfg.Columns, ", "))
}
