package astro

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies the type of a celestial event.
type Kind int

const (
	KindOpposition Kind = iota + 1
	KindConjunction
	KindOccultation
	KindMaximalElongation
	KindPerigee
	KindApogee
	KindSeasonChange
	KindLunarEclipse
)

var kindNames = map[Kind]string{
	KindOpposition:        "OPPOSITION",
	KindConjunction:       "CONJUNCTION",
	KindOccultation:       "OCCULTATION",
	KindMaximalElongation: "MAXIMAL_ELONGATION",
	KindPerigee:           "PERIGEE",
	KindApogee:            "APOGEE",
	KindSeasonChange:      "SEASON_CHANGE",
	KindLunarEclipse:      "LUNAR_ECLIPSE",
}

// Kinds lists every known event kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindOpposition,
		KindConjunction,
		KindOccultation,
		KindMaximalElongation,
		KindPerigee,
		KindApogee,
		KindSeasonChange,
		KindLunarEclipse,
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a wire name such as "CONJUNCTION" to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("astro: unknown event kind %q", s)
}

// Event is a single celestial event as supplied by an event source.
type Event struct {
	Kind      Kind
	StartTime time.Time
	Objects   []ObjectID
	Details   Details
}

// Details is the kind-specific payload of an event. Only SeasonDetails and
// EclipseDetails implement it.
type Details interface {
	details()
}

// SeasonDetails is attached to KindSeasonChange events.
type SeasonDetails struct {
	Season SeasonType
}

func (SeasonDetails) details() {}

// EclipseDetails is attached to KindLunarEclipse events.
type EclipseDetails struct {
	Type    LunarEclipseType
	Maximum time.Time
}

func (EclipseDetails) details() {}

var ErrInvalidEvent = errors.New("invalid event")

// objectCount is the number of objects each kind carries. -1 means any.
var objectCount = map[Kind]int{
	KindOpposition:        1,
	KindConjunction:       2,
	KindOccultation:       2,
	KindMaximalElongation: 1,
	KindPerigee:           1,
	KindApogee:            1,
	KindSeasonChange:      -1,
	KindLunarEclipse:      -1,
}

// Validate checks that the event carries the objects and details its kind needs.
func (e Event) Validate() error {
	want, ok := objectCount[e.Kind]
	if !ok {
		return fmt.Errorf("astro: %w: unknown kind %v", ErrInvalidEvent, e.Kind)
	}
	if want >= 0 && len(e.Objects) != want {
		return fmt.Errorf("astro: %w: %v expects %d object(s), got %d", ErrInvalidEvent, e.Kind, want, len(e.Objects))
	}
	for _, o := range e.Objects {
		if _, ok := o.Name(); !ok {
			return fmt.Errorf("astro: %w: unknown object %v", ErrInvalidEvent, o)
		}
	}

	switch e.Kind {
	case KindSeasonChange:
		d, ok := e.Details.(SeasonDetails)
		if !ok {
			return fmt.Errorf("astro: %w: season change without season details", ErrInvalidEvent)
		}
		if _, ok := seasonNames[d.Season]; !ok {
			return fmt.Errorf("astro: %w: unknown season %v", ErrInvalidEvent, d.Season)
		}
	case KindLunarEclipse:
		d, ok := e.Details.(EclipseDetails)
		if !ok {
			return fmt.Errorf("astro: %w: lunar eclipse without eclipse details", ErrInvalidEvent)
		}
		if _, ok := eclipseNames[d.Type]; !ok {
			return fmt.Errorf("astro: %w: unknown eclipse type %v", ErrInvalidEvent, d.Type)
		}
		if d.Maximum.IsZero() {
			return fmt.Errorf("astro: %w: lunar eclipse without maximum time", ErrInvalidEvent)
		}
	}
	return nil
}
