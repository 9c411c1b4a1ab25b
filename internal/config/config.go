package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// WebhookEnvVar is read when the config does not set a Discord webhook URL.
const WebhookEnvVar = "DISCORD_WEBHOOK"

// ErrMissingWebhook is returned when a digest is about to be posted and the
// discord publisher has no webhook URL. Load does not check it: a day without
// events must not need a webhook.
var ErrMissingWebhook = errors.New("config: discord webhook URL is not set (set " + WebhookEnvVar + ")")

type Config struct {
	Schedule   string          `yaml:"schedule"`
	RunOnStart bool            `yaml:"run_on_start"`
	Timezone   string          `yaml:"timezone"`
	Window     WindowConfig    `yaml:"window"`
	Source     SourceConfig    `yaml:"source"`
	Footer     FooterConfig    `yaml:"footer"`
	Publisher  PublisherConfig `yaml:"publisher"`
	Log        LogConfig       `yaml:"log"`
}

type WindowConfig struct {
	Enabled bool          `yaml:"enabled"`
	Start   time.Duration `yaml:"start"`
	End     time.Duration `yaml:"end"`
}

type SourceConfig struct {
	Type     string         `yaml:"type"`
	Calendar CalendarConfig `yaml:"calendar"`
	HTTP     HTTPConfig     `yaml:"http"`
}

type CalendarConfig struct {
	Path string `yaml:"path"`
}

type HTTPConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type FooterConfig struct {
	Text    string `yaml:"text"`
	IconURL string `yaml:"icon_url"`
}

type PublisherConfig struct {
	Type    string        `yaml:"type"`
	Email   EmailConfig   `yaml:"email"`
	Web     WebConfig     `yaml:"web"`
	Discord DiscordConfig `yaml:"discord"`
}

type DiscordConfig struct {
	WebhookURL    string  `yaml:"webhook_url"`
	MaxRetries    int     `yaml:"max_retries"`
	RatePerSecond float64 `yaml:"rate_per_second"`
}

type EmailConfig struct {
	SMTPHost string   `yaml:"smtp_host"`
	SMTPPort int      `yaml:"smtp_port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

type WebConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Location resolves the configured timezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 6 * * *"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	if cfg.Window.Start == 0 {
		cfg.Window.Start = time.Hour
	}
	if cfg.Window.End == 0 {
		cfg.Window.End = 25 * time.Hour
	}
	if cfg.Source.Type == "" {
		cfg.Source.Type = "calendar"
	}
	if cfg.Source.Calendar.Path == "" {
		cfg.Source.Calendar.Path = "events.yaml"
	}
	if cfg.Source.HTTP.Timeout == 0 {
		cfg.Source.HTTP.Timeout = 30 * time.Second
	}
	if cfg.Source.HTTP.CacheTTL == 0 {
		cfg.Source.HTTP.CacheTTL = 6 * time.Hour
	}
	if cfg.Publisher.Type == "" {
		cfg.Publisher.Type = "discord"
	}
	if cfg.Publisher.Discord.WebhookURL == "" {
		cfg.Publisher.Discord.WebhookURL = os.Getenv(WebhookEnvVar)
	}
	if cfg.Publisher.Discord.RatePerSecond == 0 {
		cfg.Publisher.Discord.RatePerSecond = 0.5
	}
	if cfg.Publisher.Web.Addr == "" {
		cfg.Publisher.Web.Addr = ":8080"
	}
	if cfg.Publisher.Email.SMTPPort == 0 {
		cfg.Publisher.Email.SMTPPort = 587
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func validate(cfg *Config) error {
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return fmt.Errorf("config: invalid schedule %q: %w", cfg.Schedule, err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("config: invalid timezone %q: %w", cfg.Timezone, err)
	}
	if cfg.Window.End <= cfg.Window.Start {
		return fmt.Errorf("config: window.end (%s) must be after window.start (%s)", cfg.Window.End, cfg.Window.Start)
	}
	switch cfg.Source.Type {
	case "calendar":
	case "http":
		if cfg.Source.HTTP.BaseURL == "" {
			return fmt.Errorf("config: source.http.base_url is required for http source")
		}
	default:
		return fmt.Errorf("config: unsupported source type %q (supported: calendar, http)", cfg.Source.Type)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported log level %q (supported: debug, info, warn, error)", cfg.Log.Level)
	}
	return validatePublisher(cfg)
}

func validatePublisher(cfg *Config) error {
	switch cfg.Publisher.Type {
	case "stdout", "email", "web", "discord":
	default:
		return fmt.Errorf("config: unsupported publisher type %q (supported: stdout, email, web, discord)", cfg.Publisher.Type)
	}
	if cfg.Publisher.Type == "discord" {
		if cfg.Publisher.Discord.MaxRetries < 0 {
			return fmt.Errorf("config: publisher.discord.max_retries must not be negative")
		}
		if cfg.Publisher.Discord.RatePerSecond <= 0 {
			return fmt.Errorf("config: publisher.discord.rate_per_second must be positive")
		}
	}
	if cfg.Publisher.Type == "email" {
		if cfg.Publisher.Email.SMTPHost == "" {
			return fmt.Errorf("config: publisher.email.smtp_host is required for email publisher")
		}
		if len(cfg.Publisher.Email.To) == 0 {
			return fmt.Errorf("config: publisher.email.to is required for email publisher")
		}
		if cfg.Publisher.Email.From == "" {
			return fmt.Errorf("config: publisher.email.from is required for email publisher")
		}
	}
	return nil
}

// Option adjusts a loaded config before validation, typically from CLI flags.
type Option func(*Config)

// WithPublisher forces the publisher type.
func WithPublisher(typ string) Option {
	return func(cfg *Config) { cfg.Publisher.Type = typ }
}

// WithWindow enables the rolling time window.
func WithWindow() Option {
	return func(cfg *Config) { cfg.Window.Enabled = true }
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration. An empty path skips the file, leaving
// defaults and the environment.
func Load(path string, opts ...Option) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}

		expanded := expandEnvVars(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	setDefaults(&cfg)
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
