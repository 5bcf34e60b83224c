package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nvcheck/internal/history"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the check-run journal",
	}

	historyCmd.AddCommand(newHistoryListCommand(cctx))
	historyCmd.AddCommand(newHistoryPruneCommand(cctx))

	return historyCmd
}

func newHistoryListCommand(cctx *commandContext) *cobra.Command {
	var (
		limitFlag int
		jsonFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded check runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in the configuration")
			}

			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}

			if jsonFlag {
				return writeJSON(cmd, historyReport(entries))
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded check runs.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				detected := "-"
				if entry.Detected != nil {
					detected = entry.Detected.String()
				}
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					shortRunID(entry.RunID),
					entry.Feature,
					entry.Minimum.String(),
					detected,
					entry.Status.String(),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(tableSpec{
				headers:      []string{"WHEN", "RUN", "FEATURE", "MINIMUM", "DETECTED", "STATUS"},
				aligns:       []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				statusColumn: 6,
				colorize:     shouldColorize(out),
			}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum entries to show (0 for all)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit entries as JSON")
	return cmd
}

func newHistoryPruneCommand(cctx *commandContext) *cobra.Command {
	var retentionDays int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete entries older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in the configuration")
			}

			days := retentionDays
			if days <= 0 {
				days = cfg.History.RetentionDays
			}
			if days <= 0 {
				return fmt.Errorf("no retention window configured; pass --days")
			}

			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			deleted, err := store.Prune(cmd.Context(), time.Duration(days)*24*time.Hour)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entries older than %d days\n", deleted, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&retentionDays, "days", 0, "Retention window in days (defaults to the configured value)")
	return cmd
}

type historyEntryView struct {
	RunID     string `json:"run_id"`
	CreatedAt string `json:"created_at"`
	Feature   string `json:"feature"`
	Minimum   string `json:"minimum"`
	Detected  string `json:"detected,omitempty"`
	Status    string `json:"status"`
	Cause     string `json:"cause,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

func historyReport(entries []history.Entry) []historyEntryView {
	views := make([]historyEntryView, 0, len(entries))
	for _, entry := range entries {
		view := historyEntryView{
			RunID:     entry.RunID,
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
			Feature:   entry.Feature,
			Minimum:   entry.Minimum.String(),
			Status:    entry.Status.String(),
			Detail:    entry.Detail,
		}
		if entry.Detected != nil {
			view.Detected = entry.Detected.String()
		}
		if cause := entry.Cause.String(); cause != "none" {
			view.Cause = cause
		}
		views = append(views, view)
	}
	return views
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
