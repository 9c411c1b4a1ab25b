package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ryosukesatoh/astro-feed/internal/astro"
	"github.com/ryosukesatoh/astro-feed/internal/digest"
	"github.com/ryosukesatoh/astro-feed/internal/fetcher"
	"github.com/ryosukesatoh/astro-feed/internal/metrics"
	"github.com/ryosukesatoh/astro-feed/internal/publisher"
)

// Options tunes how a run selects and renders events.
type Options struct {
	// Location sets calendar days and displayed hours. UTC when nil.
	Location *time.Location
	Footer   digest.Footer
	// Window restricts events to a rolling range around the run time and
	// groups next-day events under a heading. Nil means the whole day.
	Window *digest.Window
}

// Runner orchestrates the fetch -> render -> publish pipeline.
type Runner struct {
	fetcher    fetcher.Fetcher
	publishers []publisher.Publisher
	logger     *zap.Logger
	metrics    *metrics.Metrics
	opts       Options
}

func New(f fetcher.Fetcher, pubs []publisher.Publisher, logger *zap.Logger, m *metrics.Metrics, opts Options) *Runner {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		fetcher:    f,
		publishers: pubs,
		logger:     logger,
		metrics:    m,
		opts:       opts,
	}
}

// Run executes the full pipeline once for the moment at. It returns nil
// without publishing when there are no events.
func (r *Runner) Run(ctx context.Context, at time.Time) error {
	started := time.Now()
	result, err := r.run(ctx, at)
	if err != nil {
		result = metrics.ResultFailed
	}
	r.metrics.ObserveRun(result, started)
	return err
}

func (r *Runner) run(ctx context.Context, at time.Time) (string, error) {
	loc := r.opts.Location
	day := startOfDay(at.In(loc))

	r.logger.Info("Starting pipeline",
		zap.String("day", day.Format("2006-01-02")),
		zap.Bool("window", r.opts.Window != nil))

	events, err := r.fetch(ctx, day, at)
	if err != nil {
		return "", err
	}

	if len(events) == 0 {
		r.logger.Info("No events today, no message to send.")
		return metrics.ResultNoEvent, nil
	}

	dg, err := digest.Build(events, digest.Options{
		Now:            at,
		Location:       loc,
		Footer:         r.opts.Footer,
		GroupNextNight: r.opts.Window != nil,
	})
	if err != nil {
		return "", fmt.Errorf("runner: render failed: %w", err)
	}
	r.record(events, dg)

	r.logger.Info(fmt.Sprintf("%d events found, calling webhook.", dg.Events))
	if err := r.publish(ctx, dg); err != nil {
		return "", err
	}
	return metrics.ResultSent, nil
}

func (r *Runner) fetch(ctx context.Context, day, at time.Time) ([]astro.Event, error) {
	if r.opts.Window == nil {
		r.logger.Debug("Fetching events", zap.Time("day", day))
		events, err := r.fetcher.Fetch(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("runner: fetch failed: %w", err)
		}
		r.logger.Info("Fetched events", zap.Int("count", len(events)))
		return events, nil
	}

	// Every calendar day the window touches, which is up to two days past
	// the run day when the run is late in the evening.
	loc := day.Location()
	first := startOfDay(at.Add(r.opts.Window.Start).In(loc))
	last := startOfDay(at.Add(r.opts.Window.End).In(loc))
	var all []astro.Event
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		r.logger.Debug("Fetching events", zap.Time("day", d))
		events, err := r.fetcher.Fetch(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("runner: fetch failed: %w", err)
		}
		all = append(all, events...)
	}
	kept := r.opts.Window.Filter(all, at)
	r.logger.Info("Fetched events",
		zap.Int("count", len(all)),
		zap.Int("in_window", len(kept)),
		zap.Time("from", at.Add(r.opts.Window.Start)),
		zap.Time("to", at.Add(r.opts.Window.End)))
	return kept, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (r *Runner) record(events []astro.Event, dg *digest.Digest) {
	for _, e := range events {
		r.metrics.EventRendered(e.Kind.String())
	}

	if dg.Best == 0 {
		r.logger.Info("No headline event, using generic headline",
			zap.String("headline", dg.Headline))
		r.metrics.SetHeadlineWeight(0)
		return
	}
	r.metrics.SetHeadlineWeight(dg.BestWeight)
	r.logger.Info("Headline selected",
		zap.Stringer("kind", dg.Best),
		zap.Int("weight", dg.BestWeight),
		zap.Int("ties", dg.Ties),
		zap.String("headline", dg.Headline))
}

// publish continues with other publishers even if one fails, and fails only
// when all of them do.
func (r *Runner) publish(ctx context.Context, dg *digest.Digest) error {
	var publishErrors []error
	for _, pub := range r.publishers {
		name := fmt.Sprintf("%T", pub)
		r.logger.Debug("Publishing", zap.String("publisher", name))
		if err := pub.Publish(ctx, dg); err != nil {
			publishErrors = append(publishErrors, fmt.Errorf("publish via %s failed: %w", name, err))
			r.metrics.PublishFailed(name)
			r.logger.Warn("Publish failed", zap.String("publisher", name), zap.Error(err))
		} else {
			r.logger.Info("Published", zap.String("publisher", name))
		}
	}

	if len(publishErrors) == len(r.publishers) && len(r.publishers) > 0 {
		return fmt.Errorf("runner: all publishers failed: %w", errors.Join(publishErrors...))
	}
	if len(publishErrors) > 0 {
		r.logger.Warn("Pipeline completed with publisher failures",
			zap.Int("failed", len(publishErrors)),
			zap.Int("publishers", len(r.publishers)))
	} else {
		r.logger.Info("Pipeline completed successfully")
	}
	return nil
}
