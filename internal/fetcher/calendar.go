package fetcher

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ryosukesatoh/astro-feed/internal/astro"
)

type calendarFile struct {
	Events []eventRecord `yaml:"events"`
}

// CalendarFetcher reads precomputed events from a YAML calendar file. The
// file is read on every call so edits are picked up without a restart.
type CalendarFetcher struct {
	path string
}

func NewCalendarFetcher(path string) *CalendarFetcher {
	return &CalendarFetcher{path: path}
}

func (f *CalendarFetcher) Fetch(ctx context.Context, day time.Time) ([]astro.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("calendar: failed to read %s: %w", f.path, err)
	}

	var cal calendarFile
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("calendar: failed to parse %s: %w", f.path, err)
	}

	events, err := decodeRecords(cal.Events, day)
	if err != nil {
		return nil, fmt.Errorf("calendar: %s: %w", f.path, err)
	}
	return events, nil
}
