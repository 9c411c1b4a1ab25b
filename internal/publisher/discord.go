package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ryosukesatoh/astro-feed/internal/config"
	"github.com/ryosukesatoh/astro-feed/internal/digest"
	"github.com/ryosukesatoh/astro-feed/internal/retry"
)

// Discord embed limits.
const (
	maxTitleLen       = 256
	maxDescriptionLen = 4096
	maxFooterLen      = 2048
	maxContentLen     = 2000
)

type discordEmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Footer      *discordEmbedFooter `json:"footer,omitempty"`
	Description string              `json:"description"`
}

type discordWebhookPayload struct {
	Content string         `json:"content"`
	Embeds  []discordEmbed `json:"embeds"`
}

// DiscordPublisher posts the digest to a Discord channel via webhook.
type DiscordPublisher struct {
	webhookURL  string
	client      *http.Client
	retryConfig retry.Config
	limiter     *rate.Limiter
}

// NewDiscordPublisher creates a new DiscordPublisher. With maxRetries at zero
// the webhook is called exactly once per digest.
func NewDiscordPublisher(webhookURL string, maxRetries int, perSecond float64) *DiscordPublisher {
	return &DiscordPublisher{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		retryConfig: retry.Config{
			MaxRetries: maxRetries,
			BaseDelay:  1 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Publish sends the headline as message content and the digest as one embed.
// Without a webhook URL it fails with config.ErrMissingWebhook, so a day
// without events never needs one.
func (d *DiscordPublisher) Publish(ctx context.Context, dg *digest.Digest) error {
	if d.webhookURL == "" {
		return config.ErrMissingWebhook
	}
	payload := buildPayload(dg)

	err := retry.WithBackoff(ctx, d.retryConfig, func(ctx context.Context) error {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		return d.sendWebhook(ctx, payload)
	})
	if err != nil {
		return fmt.Errorf("discord: %w", err)
	}
	return nil
}

func buildPayload(dg *digest.Digest) discordWebhookPayload {
	return discordWebhookPayload{
		Content: truncate(dg.Headline, maxContentLen),
		Embeds: []discordEmbed{
			{
				Title: truncate(dg.Title, maxTitleLen),
				Footer: &discordEmbedFooter{
					Text:    truncate(dg.Footer.Text, maxFooterLen),
					IconURL: dg.Footer.IconURL,
				},
				Description: truncateLines(dg.Lines, maxDescriptionLen),
			},
		},
	}
}

// sendWebhook posts the payload to the Discord webhook.
func (d *DiscordPublisher) sendWebhook(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	return retry.CheckStatus(resp.StatusCode)
}

// truncate shortens s to max bytes, preferring a sentence boundary.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	cut := strings.ToValidUTF8(s[:max-len("…")], "")
	if idx := strings.LastIndexAny(cut, ".!?"); idx > max/2 {
		return cut[:idx+1]
	}
	return cut + "…"
}

// truncateLines joins lines with newlines, dropping whole trailing lines
// once max would be exceeded.
func truncateLines(lines []string, max int) string {
	joined := strings.Join(lines, "\n")
	if len(joined) <= max {
		return joined
	}

	var b strings.Builder
	for _, line := range lines {
		extra := len(line)
		if b.Len() > 0 {
			extra++
		}
		if b.Len()+extra+len("\n…") > max {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() == 0 {
		return truncate(lines[0], max)
	}
	b.WriteString("\n…")
	return b.String()
}
