package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the digest on the configured cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			return serve(cmd.Context(), a)
		},
	}
}

// serve blocks until ctx is cancelled.
func serve(ctx context.Context, a *app) error {
	logger := a.logger

	if a.web != nil {
		if err := a.web.Start(); err != nil {
			return err
		}
	}

	if a.cfg.RunOnStart {
		logger.Info("Running initial digest...")
		if err := a.runner.Run(ctx, time.Now()); err != nil {
			logger.Error("Initial run failed", zap.Error(err))
		}
	}

	c := cron.New(
		cron.WithLocation(a.cfg.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	_, err := c.AddFunc(a.cfg.Schedule, func() {
		logger.Info("Cron triggered, running digest...")
		if err := a.runner.Run(ctx, time.Now()); err != nil {
			logger.Error("Scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to set up cron schedule %q: %w", a.cfg.Schedule, err)
	}
	c.Start()
	logger.Info("Scheduled digest",
		zap.String("schedule", a.cfg.Schedule),
		zap.String("timezone", a.cfg.Timezone))

	<-ctx.Done()
	logger.Info("Shutting down...")

	<-c.Stop().Done()

	if a.web != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.web.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Web server shutdown error", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
