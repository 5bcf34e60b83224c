package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nvcheck/internal/capability"
	"nvcheck/internal/config"
	"nvcheck/internal/driver"
	"nvcheck/internal/history"
	"nvcheck/internal/logging"
	"nvcheck/internal/version"
)

const (
	exitSatisfied    = 0
	exitInsufficient = 1
	exitUndetermined = 2
)

func newCheckCommand(cctx *commandContext) *cobra.Command {
	var (
		featureFlag string
		minimumFlag string
		kindFlag    string
		jsonFlag    bool
		noRecord    bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate capability requirements against the installed driver",
		Long: `Evaluate every configured requirement against the installed driver, or a
single ad-hoc requirement given with --feature/--minimum. Exit code 0 means
all requirements are satisfied, 1 means at least one detected version falls
short, and 2 means a version could not be established.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			requirements := cfg.Requirements
			if featureFlag != "" || minimumFlag != "" {
				if featureFlag == "" || minimumFlag == "" {
					return fmt.Errorf("--feature and --minimum must be given together")
				}
				requirements = []config.Requirement{{
					Feature: featureFlag,
					Minimum: minimumFlag,
					Kind:    kindFlag,
				}}
			}

			results, err := runChecks(cmd.Context(), cfg, requirements)
			if err != nil {
				return err
			}

			if cfg.History.Enabled && !noRecord {
				recordResults(cctx, cfg, results)
			}

			if jsonFlag {
				if err := writeJSON(cmd, checkReport(results)); err != nil {
					return err
				}
			} else {
				renderCheckResults(cmd, results)
			}

			if code := worstExitCode(results); code != exitSatisfied {
				return exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&featureFlag, "feature", "", "Feature label for an ad-hoc check")
	cmd.Flags().StringVar(&minimumFlag, "minimum", "", "Minimum version for an ad-hoc check")
	cmd.Flags().StringVar(&kindFlag, "kind", "driver", "Version scale for an ad-hoc check (driver or nvenc-api)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit results as JSON")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Skip recording this run in the history journal")

	return cmd
}

// runChecks evaluates requirements against one shared, memoized query chain
// so the driver is queried once per invocation, not once per requirement.
func runChecks(ctx context.Context, cfg *config.Config, requirements []config.Requirement) ([]capability.Result, error) {
	timeout := time.Duration(cfg.Driver.QueryTimeoutSeconds) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	base := driver.NewCachedSource(driver.DefaultSource(cfg.SMIBinary()))
	results := make([]capability.Result, 0, len(requirements))
	for _, req := range requirements {
		minimum, err := version.Parse(req.Minimum)
		if err != nil {
			return nil, fmt.Errorf("requirement %q: invalid minimum %q: %w", req.Feature, req.Minimum, err)
		}

		// Config-sourced requirements arrive normalized, but ad-hoc flag
		// values reach here directly.
		kind := strings.ToLower(strings.TrimSpace(req.Kind))
		if kind == "" {
			kind = "driver"
		}

		var source capability.VersionSource
		switch kind {
		case "driver":
			source = base
		case "nvenc-api":
			source = driver.NewNvencAPISource(base)
		default:
			return nil, fmt.Errorf("requirement %q: kind must be \"driver\" or \"nvenc-api\", got %q", req.Feature, req.Kind)
		}

		result, err := capability.NewChecker(source).Check(ctx, capability.Requirement{
			Feature: req.Feature,
			Minimum: minimum,
		})
		if err != nil {
			return nil, fmt.Errorf("requirement %q: %w", req.Feature, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// recordResults writes the run to the history journal. Journal failures are
// logged but never fail the check itself.
func recordResults(cctx *commandContext, cfg *config.Config, results []capability.Result) {
	logger := logging.NewComponentLogger(cctx.logger(), "history")

	store, err := history.Open(cfg)
	if err != nil {
		logger.Warn("history journal unavailable", logging.Error(err))
		return
	}
	defer store.Close()

	runID := history.NewRunID()
	if err := store.Record(context.Background(), runID, results); err != nil {
		logger.Warn("record check run", logging.Error(err), logging.String(logging.FieldRunID, runID))
		return
	}
	if cfg.History.RetentionDays > 0 {
		retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
		if _, err := store.Prune(context.Background(), retention); err != nil {
			logger.Warn("prune history", logging.Error(err))
		}
	}
}

func worstExitCode(results []capability.Result) int {
	code := exitSatisfied
	for _, result := range results {
		switch result.Status {
		case capability.StatusInsufficient:
			return exitInsufficient
		case capability.StatusUndetermined:
			code = exitUndetermined
		}
	}
	return code
}

type checkResultView struct {
	Feature  string `json:"feature"`
	Minimum  string `json:"minimum"`
	Detected string `json:"detected,omitempty"`
	Status   string `json:"status"`
	Gap      string `json:"gap,omitempty"`
	Cause    string `json:"cause,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

func checkReport(results []capability.Result) []checkResultView {
	views := make([]checkResultView, 0, len(results))
	for _, result := range results {
		view := checkResultView{
			Feature: result.Requirement.Feature,
			Minimum: result.Requirement.Minimum.String(),
			Status:  result.Status.String(),
			Detail:  result.Detail,
		}
		if result.Detected != nil {
			view.Detected = result.Detected.String()
		}
		if !result.Gap.IsZero() {
			view.Gap = result.Gap.String()
		}
		if result.Cause != capability.CauseNone {
			view.Cause = result.Cause.String()
		}
		views = append(views, view)
	}
	return views
}

func renderCheckResults(cmd *cobra.Command, results []capability.Result) {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		detected := "-"
		if result.Detected != nil {
			detected = result.Detected.String()
		}
		note := result.Detail
		if result.Cause != capability.CauseNone {
			note = result.Cause.String()
		}
		rows = append(rows, []string{
			result.Requirement.Feature,
			result.Requirement.Minimum.String(),
			detected,
			result.Status.String(),
			note,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(tableSpec{
		headers:      []string{"FEATURE", "MINIMUM", "DETECTED", "STATUS", "NOTE"},
		aligns:       []columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
		statusColumn: 4,
		colorize:     shouldColorize(out),
	}, rows))
}
