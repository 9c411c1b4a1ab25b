package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ryosukesatoh/astro-feed/internal/astro"
	"github.com/ryosukesatoh/astro-feed/internal/config"
)

// Fetcher is an interface for fetching the celestial events of a calendar day.
type Fetcher interface {
	// Fetch returns the events starting on day, in chronological order. The
	// calendar day is taken in day's location.
	Fetch(ctx context.Context, day time.Time) ([]astro.Event, error)
}

// New creates a new fetcher based on the configuration
func New(cfg *config.Config) (Fetcher, error) {
	switch cfg.Source.Type {
	case "calendar":
		return NewCalendarFetcher(cfg.Source.Calendar.Path), nil
	case "http":
		return NewHTTPFetcher(cfg.Source.HTTP.BaseURL, cfg.Source.HTTP.Timeout, cfg.Source.HTTP.CacheTTL), nil
	default:
		return nil, ErrUnsupportedSourceType
	}
}

// ErrUnsupportedSourceType is returned when an unsupported source type is specified
var ErrUnsupportedSourceType = errors.New("unsupported source type")

// eventRecord is the wire shape shared by the calendar file and the HTTP API.
type eventRecord struct {
	EventType string            `json:"event_type" yaml:"event_type"`
	StartsAt  time.Time         `json:"starts_at" yaml:"starts_at"`
	Objects   []string          `json:"objects" yaml:"objects"`
	Details   map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}

func (r eventRecord) toEvent() (astro.Event, error) {
	kind, err := astro.ParseKind(r.EventType)
	if err != nil {
		return astro.Event{}, err
	}
	if r.StartsAt.IsZero() {
		return astro.Event{}, fmt.Errorf("%v event without starts_at", kind)
	}

	e := astro.Event{
		Kind:      kind,
		StartTime: r.StartsAt.UTC(),
		Objects:   make([]astro.ObjectID, 0, len(r.Objects)),
	}
	for _, name := range r.Objects {
		id, err := astro.ParseObjectID(name)
		if err != nil {
			return astro.Event{}, err
		}
		e.Objects = append(e.Objects, id)
	}

	switch kind {
	case astro.KindSeasonChange:
		season, err := astro.ParseSeasonType(r.Details["season"])
		if err != nil {
			return astro.Event{}, err
		}
		e.Details = astro.SeasonDetails{Season: season}
	case astro.KindLunarEclipse:
		typ, err := astro.ParseLunarEclipseType(r.Details["type"])
		if err != nil {
			return astro.Event{}, err
		}
		maximum, err := time.Parse(time.RFC3339, r.Details["maximum"])
		if err != nil {
			return astro.Event{}, fmt.Errorf("lunar eclipse maximum: %w", err)
		}
		e.Details = astro.EclipseDetails{Type: typ, Maximum: maximum.UTC()}
	}

	if err := e.Validate(); err != nil {
		return astro.Event{}, err
	}
	return e, nil
}

// decodeRecords converts wire records into events, keeping those that start
// on day and sorting them chronologically.
func decodeRecords(records []eventRecord, day time.Time) ([]astro.Event, error) {
	events := make([]astro.Event, 0, len(records))
	for i, r := range records {
		e, err := r.toEvent()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if sameDay(e.StartTime, day) {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}

func sameDay(t, day time.Time) bool {
	ty, tm, td := t.In(day.Location()).Date()
	dy, dm, dd := day.Date()
	return ty == dy && tm == dm && td == dd
}
