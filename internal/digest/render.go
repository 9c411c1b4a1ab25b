package digest

import (
	"errors"
	"fmt"
	"time"

	"github.com/ryosukesatoh/astro-feed/internal/astro"
)

// ErrUnknownKind is returned when an event kind has no entry in the renderer table.
var ErrUnknownKind = errors.New("no renderer for event kind")

const (
	bullet     = ":star:"
	hourLayout = "15:04"
)

// Rendered is the digest line of a single event together with its weight.
type Rendered struct {
	Weight int
	// Text is the event sentence without the bullet and hour prefix.
	Text string
	Line string
}

type rule struct {
	weight     int
	// hourPrefix is false for kinds whose text already carries the hour.
	hourPrefix bool
	// today appends " aujourd'hui" to the text of events on the run day.
	today      bool
	text       func(e astro.Event, names []string, loc *time.Location) string
	singular   func(names []string) string
	plural     func(n int) string
}

var rules = map[astro.Kind]rule{
	astro.KindOpposition: {
		weight:     5,
		hourPrefix: true,
		text: func(_ astro.Event, n []string, _ *time.Location) string {
			return fmt.Sprintf("%s arrive à l'opposition", n[0])
		},
		singular: func(n []string) string {
			return fmt.Sprintf("C'est le moment idéal d'observer %s !", n[0])
		},
		plural: func(count int) string {
			return fmt.Sprintf("Nous avons %d planètes à l'opposition aujourd'hui !", count)
		},
	},
	astro.KindConjunction: {
		weight:     1,
		hourPrefix: true,
		text: func(_ astro.Event, n []string, _ *time.Location) string {
			return fmt.Sprintf("%s et %s sont en conjonction", n[0], n[1])
		},
		singular: func(n []string) string {
			return fmt.Sprintf("Petit rapprochement entre %s et %s aujourd'hui !", n[0], n[1])
		},
		plural: func(count int) string {
			return fmt.Sprintf("Nous avons %d planètes qui se rencontrent aujourd'hui !", count)
		},
	},
	astro.KindOccultation: {
		weight:     2,
		hourPrefix: true,
		text: func(_ astro.Event, n []string, _ *time.Location) string {
			return fmt.Sprintf("%s occulte %s", n[0], n[1])
		},
		singular: func(n []string) string {
			return fmt.Sprintf("Belle occultation de %s par %s à prévoir !", n[1], n[0])
		},
		plural: func(count int) string {
			return fmt.Sprintf("Sortez les télescopes, il y a %d occultations à observer aujourd'hui !", count)
		},
	},
	astro.KindMaximalElongation: {
		weight:     3,
		hourPrefix: true,
		text: func(_ astro.Event, n []string, _ *time.Location) string {
			return fmt.Sprintf("L'élongation de %s est maximale", n[0])
		},
		singular: func(n []string) string {
			return fmt.Sprintf("%s est au plus loin du Soleil !", n[0])
		},
		// Only Mercury and Venus have a maximal elongation.
		plural: func(int) string {
			return "Mercure et Vénus sont toutes les deux au plus loin du Soleil aujourd'hui !"
		},
	},
	astro.KindPerigee: {
		hourPrefix: true,
		text: func(_ astro.Event, n []string, _ *time.Location) string {
			return fmt.Sprintf("%s arrive à son périgée", n[0])
		},
	},
	astro.KindApogee: {
		hourPrefix: true,
		text: func(_ astro.Event, n []string, _ *time.Location) string {
			return fmt.Sprintf("%s arrive à son apogée", n[0])
		},
	},
	astro.KindSeasonChange: {
		today: true,
		text: func(e astro.Event, _ []string, loc *time.Location) string {
			what := "Le solstice"
			if e.Details.(astro.SeasonDetails).Season.IsEquinox() {
				what = "L'équinoxe"
			}
			return fmt.Sprintf("%s a lieu à %s", what, e.StartTime.In(loc).Format(hourLayout))
		},
	},
	astro.KindLunarEclipse: {
		weight:     10,
		hourPrefix: true,
		text: func(e astro.Event, _ []string, loc *time.Location) string {
			d := e.Details.(astro.EclipseDetails)
			return fmt.Sprintf("éclipse %s de Lune, atteignant son maximum à %s",
				eclipseAdjectives[d.Type], d.Maximum.In(loc).Format(hourLayout))
		},
		singular: func([]string) string {
			return "Ne loupez pas l'éclipse de Lune aujourd'hui !"
		},
	},
}

var eclipseAdjectives = map[astro.LunarEclipseType]string{
	astro.PartialEclipse:   "partielle",
	astro.PenumbralEclipse: "pénombrale",
	astro.TotalEclipse:     "totale",
}

func lookup(k astro.Kind) (rule, error) {
	r, ok := rules[k]
	if !ok {
		return rule{}, fmt.Errorf("digest: %w %v", ErrUnknownKind, k)
	}
	return r, nil
}

func objectNames(e astro.Event) []string {
	names := make([]string, len(e.Objects))
	for i, o := range e.Objects {
		names[i], _ = o.Name()
	}
	return names
}

// Render formats a single event as a digest line for an event on the run
// day. Hours are shown in loc (UTC when nil).
func Render(e astro.Event, loc *time.Location) (Rendered, error) {
	if loc == nil {
		loc = time.UTC
	}
	return render(e, loc, true)
}

func render(e astro.Event, loc *time.Location, today bool) (Rendered, error) {
	r, err := lookup(e.Kind)
	if err != nil {
		return Rendered{}, err
	}
	if err := e.Validate(); err != nil {
		return Rendered{}, fmt.Errorf("digest: %w", err)
	}

	text := r.text(e, objectNames(e), loc)
	if r.today && today {
		text += " aujourd'hui"
	}
	line := fmt.Sprintf("%s %s", bullet, text)
	if r.hourPrefix {
		line = fmt.Sprintf("%s **%s :** %s", bullet, e.StartTime.In(loc).Format(hourLayout), text)
	}

	return Rendered{Weight: r.weight, Text: text, Line: line}, nil
}
