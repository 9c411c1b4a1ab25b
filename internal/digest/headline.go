package digest

import "github.com/ryosukesatoh/astro-feed/internal/astro"

// GenericHeadline is used when no event provides a headline of its own.
const GenericHeadline = "Sortez les télescopes, voici les événements astro du jour !"

// Selector tracks the most important event seen so far in a run.
//
// An event replaces the current best only when its weight is strictly
// greater. Events of the same kind as the best one increase the tie count;
// events of a different kind never do, even at equal weight.
type Selector struct {
	bestWeight int
	best       *astro.Event
	ties       int
}

func NewSelector() *Selector {
	return &Selector{ties: 1}
}

// Observe feeds one event and its rendered weight to the selector.
func (s *Selector) Observe(e astro.Event, weight int) {
	if weight > s.bestWeight {
		s.bestWeight = weight
		s.best = &e
		s.ties = 1
		return
	}
	if s.best != nil && e.Kind == s.best.Kind {
		s.ties++
	}
}

// Best returns the current headline event, if any event had a positive weight.
func (s *Selector) Best() (astro.Event, bool) {
	if s.best == nil {
		return astro.Event{}, false
	}
	return *s.best, true
}

// Weight is the weight of the current best event, zero when there is none.
func (s *Selector) Weight() int {
	return s.bestWeight
}

func (s *Selector) Ties() int {
	return s.ties
}

// Headline resolves the headline sentence: the plural template when several
// events of the best kind occurred, the singular one otherwise, and
// GenericHeadline when the resolved template is missing.
func (s *Selector) Headline() string {
	if s.best == nil {
		return GenericHeadline
	}
	r, err := lookup(s.best.Kind)
	if err != nil {
		return GenericHeadline
	}

	var headline string
	switch {
	case s.ties > 1 && r.plural != nil:
		headline = r.plural(s.ties)
	case s.ties <= 1 && r.singular != nil:
		headline = r.singular(objectNames(*s.best))
	}
	if headline == "" {
		return GenericHeadline
	}
	return headline
}
