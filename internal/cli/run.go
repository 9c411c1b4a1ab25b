package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryosukesatoh/astro-feed/internal/config"
)

func newRunCommand(flags *globalFlags) *cobra.Command {
	var (
		window bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run [YYYY-MM-DD]",
		Short: "Build the digest once and publish it",
		Long: `Build the digest for today, or for the given date, and publish it.
Nothing is sent when there are no events.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []config.Option
			if window {
				opts = append(opts, config.WithWindow())
			}
			if dryRun {
				opts = append(opts, config.WithPublisher("stdout"))
			}

			a, err := newApp(flags, cmd.OutOrStdout(), opts...)
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			at := time.Now()
			if len(args) == 1 {
				at, err = time.ParseInLocation("2006-01-02", args[0], a.cfg.Location())
				if err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", args[0], err)
				}
			}

			return a.runner.Run(cmd.Context(), at)
		},
	}

	cmd.Flags().BoolVar(&window, "window", false, "only keep events between now+1h and now+25h (see window.start/end)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the digest instead of publishing it")
	return cmd
}
