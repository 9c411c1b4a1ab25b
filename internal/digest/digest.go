package digest

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/goodsign/monday"

	"github.com/ryosukesatoh/astro-feed/internal/astro"
)

const (
	DefaultFooterText    = "Propulsé par Kosmorrolib - les horaires sont données en UTC."
	DefaultFooterIconURL = "https://raw.githubusercontent.com/Kosmorro/logos/main/png/kosmorro-icon.png"
)

// Footer is the attribution shown under the digest.
type Footer struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url"`
}

// Digest is the rendered summary of a day's celestial events.
type Digest struct {
	Date     time.Time `json:"date"`
	Title    string    `json:"title"`
	Headline string    `json:"headline"`
	Lines    []string  `json:"lines"`
	Footer   Footer    `json:"footer"`
	// Events is the number of events rendered, headings excluded.
	Events int `json:"events"`
	// Best is the kind of the headline event, zero when the generic headline is used.
	Best       astro.Kind `json:"best,omitempty"`
	BestWeight int        `json:"best_weight"`
	// Ties is the number of events of the best kind.
	Ties int `json:"ties"`
}

// Description joins the digest lines into the message body.
func (d *Digest) Description() string {
	return strings.Join(d.Lines, "\n")
}

// Empty reports whether the digest has nothing worth sending.
func (d *Digest) Empty() bool {
	return d.Events == 0
}

// Options controls how Build renders the digest.
type Options struct {
	// Now is the moment of the run; it sets the title date and "today".
	Now time.Time
	// Location is used for hours and calendar days. UTC when nil.
	Location *time.Location
	Footer   Footer
	// GroupNextNight inserts NextNightHeading before the first event that
	// falls after today.
	GroupNextNight bool
}

// Build renders the events in order and selects the headline.
func Build(events []astro.Event, opts Options) (*Digest, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	footer := opts.Footer
	if footer.Text == "" {
		footer.Text = DefaultFooterText
	}
	if footer.IconURL == "" {
		footer.IconURL = DefaultFooterIconURL
	}

	d := &Digest{
		Date:   opts.Now,
		Title:  FormatTitle(opts.Now.In(loc)),
		Footer: footer,
		Lines:  make([]string, 0, len(events)),
	}

	sel := NewSelector()
	headed := false
	for _, e := range events {
		later := afterDay(e.StartTime, opts.Now, loc)
		r, err := render(e, loc, !later)
		if err != nil {
			return nil, err
		}
		if opts.GroupNextNight && !headed && later {
			d.Lines = append(d.Lines, NextNightHeading)
			headed = true
		}
		d.Lines = append(d.Lines, r.Line)
		d.Events++
		sel.Observe(e, r.Weight)
	}

	d.Headline = sel.Headline()
	d.Ties = sel.Ties()
	if best, ok := sel.Best(); ok {
		d.Best = best.Kind
		d.BestWeight = sel.Weight()
	}
	return d, nil
}

// FormatDate returns the full French form of a date, e.g. "lundi 19 octobre 2026".
func FormatDate(t time.Time) string {
	return monday.Format(t, "Monday 2 January 2006", monday.LocaleFrFR)
}

// FormatTitle is FormatDate with its first letter upper-cased.
func FormatTitle(t time.Time) string {
	s := FormatDate(t)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
