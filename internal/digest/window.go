package digest

import (
	"time"

	"github.com/ryosukesatoh/astro-feed/internal/astro"
)

// NextNightHeading introduces the events that fall on the next calendar day.
const NextNightHeading = "**La nuit prochaine :**"

// Window is a rolling time range relative to the moment of the run.
type Window struct {
	Start time.Duration
	End   time.Duration
}

func DefaultWindow() Window {
	return Window{Start: time.Hour, End: 25 * time.Hour}
}

// Contains reports whether t lies in [now+Start, now+End], both bounds inclusive.
func (w Window) Contains(t, now time.Time) bool {
	lo := now.Add(w.Start)
	hi := now.Add(w.End)
	return !t.Before(lo) && !t.After(hi)
}

// Filter keeps the events starting inside the window, preserving order.
func (w Window) Filter(events []astro.Event, now time.Time) []astro.Event {
	kept := make([]astro.Event, 0, len(events))
	for _, e := range events {
		if w.Contains(e.StartTime, now) {
			kept = append(kept, e)
		}
	}
	return kept
}

// afterDay reports whether t falls on a later calendar day than ref, in loc.
func afterDay(t, ref time.Time, loc *time.Location) bool {
	ty, tm, td := t.In(loc).Date()
	ry, rm, rd := ref.In(loc).Date()
	return time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).After(time.Date(ry, rm, rd, 0, 0, 0, 0, time.UTC))
}
