package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "v0.3.0"

type globalFlags struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the astro-feed command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "astro-feed",
		Short: "Daily digest of celestial events, posted to Discord",
		Long: `astro-feed reads the day's celestial events (conjunctions, oppositions,
eclipses, ...), writes a French digest with a headline, and posts it to a
Discord webhook.

The webhook URL is read from the config file or the DISCORD_WEBHOOK
environment variable.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default: built-in defaults and environment)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newRunCommand(flags),
		newServeCommand(flags),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "astro-feed %s\n", version)
		},
	}
}
