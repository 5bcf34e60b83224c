package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nvcheck/internal/config"
	"nvcheck/internal/deps"
	"nvcheck/internal/driver"
	"nvcheck/internal/preflight"
)

func newStatusCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show driver state, dependencies, and preflight checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader("Driver", colorize))
			for _, line := range driverStatusLines(cmd.Context(), cfg, colorize) {
				fmt.Fprintln(out, line)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Dependencies", colorize))
			for _, status := range deps.CheckBinaries(deps.SystemRequirements(cfg.SMIBinary())) {
				fmt.Fprintln(out, dependencyStatusLine(status, colorize))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Preflight", colorize))
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			return nil
		},
	}
}

// driverStatusLines queries the installed driver once and derives the NVENC
// line from the same answer.
func driverStatusLines(ctx context.Context, cfg *config.Config, colorize bool) []string {
	timeout := time.Duration(cfg.Driver.QueryTimeoutSeconds) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	source := driver.DefaultSource(cfg.SMIBinary())
	installed, err := source.Query(ctx)
	if err != nil {
		return []string{
			renderStatusLine("Driver version", statusWarn, err.Error(), colorize),
			renderStatusLine("NVENC API", statusInfo, "unknown without a driver version", colorize),
		}
	}

	lines := []string{
		renderStatusLine("Driver version", statusOK, installed.String(), colorize),
	}
	if api, ok := driver.MaxSupportedAPI(installed); ok {
		lines = append(lines, renderStatusLine("NVENC API", statusOK, fmt.Sprintf("up to %s", api), colorize))
	} else {
		lines = append(lines, renderStatusLine("NVENC API", statusWarn, "driver predates all known NVENC API revisions", colorize))
	}
	return lines
}

func dependencyStatusLine(status deps.Status, colorize bool) string {
	if status.Available {
		return renderStatusLine(status.Name, statusOK, status.Command, colorize)
	}
	kind := statusError
	if status.Optional {
		kind = statusWarn
	}
	detail := status.Detail
	if status.Description != "" {
		detail = fmt.Sprintf("%s (%s)", status.Detail, status.Description)
	}
	return renderStatusLine(status.Name, kind, detail, colorize)
}
