package cli

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ryosukesatoh/astro-feed/internal/config"
	"github.com/ryosukesatoh/astro-feed/internal/digest"
	"github.com/ryosukesatoh/astro-feed/internal/fetcher"
	"github.com/ryosukesatoh/astro-feed/internal/logging"
	"github.com/ryosukesatoh/astro-feed/internal/metrics"
	"github.com/ryosukesatoh/astro-feed/internal/publisher"
	"github.com/ryosukesatoh/astro-feed/internal/runner"
)

// app holds the components wired from a config.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	runner  *runner.Runner
	web     *publisher.WebPublisher
}

func newApp(flags *globalFlags, out io.Writer, opts ...config.Option) (*app, error) {
	cfg, err := config.Load(flags.configPath, opts...)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development, flags.verbose)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
	}

	f, err := fetcher.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", cfg.Source.Type, err)
	}

	var pubs []publisher.Publisher
	switch cfg.Publisher.Type {
	case "stdout":
		pubs = append(pubs, publisher.NewStdoutPublisher(out))
	case "email":
		pubs = append(pubs, publisher.NewEmailPublisher(
			cfg.Publisher.Email.SMTPHost,
			cfg.Publisher.Email.SMTPPort,
			cfg.Publisher.Email.Username,
			cfg.Publisher.Email.Password,
			cfg.Publisher.Email.From,
			cfg.Publisher.Email.To,
		))
	case "web":
		a.web = publisher.NewWebPublisher(cfg.Publisher.Web.Addr, a.metrics.Gatherer(), logger)
		pubs = append(pubs, a.web)
	case "discord":
		if cfg.Publisher.Discord.WebhookURL == "" {
			logger.Warn("No Discord webhook configured, runs with events will fail",
				zap.String("env", config.WebhookEnvVar))
		}
		pubs = append(pubs, publisher.NewDiscordPublisher(
			cfg.Publisher.Discord.WebhookURL,
			cfg.Publisher.Discord.MaxRetries,
			cfg.Publisher.Discord.RatePerSecond,
		))
	default:
		return nil, fmt.Errorf("unknown publisher type: %s", cfg.Publisher.Type)
	}

	runOpts := runner.Options{
		Location: cfg.Location(),
		Footer: digest.Footer{
			Text:    cfg.Footer.Text,
			IconURL: cfg.Footer.IconURL,
		},
	}
	if cfg.Window.Enabled {
		runOpts.Window = &digest.Window{Start: cfg.Window.Start, End: cfg.Window.End}
	}

	a.runner = runner.New(f, pubs, logger, a.metrics, runOpts)
	return a, nil
}
