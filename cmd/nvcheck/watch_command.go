package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nvcheck/internal/capability"
	"nvcheck/internal/logging"
	"nvcheck/internal/preflight"
	"nvcheck/internal/watch"
)

func newWatchCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-run checks whenever the driver state changes",
		Long: `Run the configured checks once, then stay resident and re-run them each
time udev reports the NVIDIA kernel module or its device nodes changed.
Results are logged and, when history is enabled, recorded in the journal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := cctx.logger()

			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				if !result.Passed {
					logger.Warn("preflight check failed",
						logging.String("check", result.Name),
						logging.String("detail", result.Detail),
					)
				}
			}

			runOnce := func(ctx context.Context) error {
				results, err := runChecks(ctx, cfg, cfg.Requirements)
				if err != nil {
					return err
				}
				for _, result := range results {
					attrs := []logging.Attr{
						logging.String(logging.FieldFeature, result.Requirement.Feature),
						logging.String("status", result.Status.String()),
						logging.String("detail", result.Detail),
					}
					if result.Cause != capability.CauseNone {
						attrs = append(attrs, logging.String(logging.FieldCause, result.Cause.String()))
					}
					logger.Info("requirement evaluated", logging.Args(attrs...)...)
				}
				if cfg.History.Enabled {
					recordResults(cctx, cfg, results)
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := runOnce(ctx); err != nil {
				return err
			}

			monitor := watch.NewMonitor(logger, runOnce)
			if err := monitor.Start(ctx); err != nil {
				return fmt.Errorf("start driver watch: %w", err)
			}
			defer monitor.Stop()

			<-ctx.Done()
			return nil
		},
	}
}
