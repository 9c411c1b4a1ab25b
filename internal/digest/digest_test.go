package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryosukesatoh/astro-feed/internal/astro"
)

var day = time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2026, 10, 19, h, m, 0, 0, time.UTC)
}

func opposition(o astro.ObjectID, t time.Time) astro.Event {
	return astro.Event{Kind: astro.KindOpposition, StartTime: t, Objects: []astro.ObjectID{o}}
}

func conjunction(a, b astro.ObjectID, t time.Time) astro.Event {
	return astro.Event{Kind: astro.KindConjunction, StartTime: t, Objects: []astro.ObjectID{a, b}}
}

func perigee(o astro.ObjectID, t time.Time) astro.Event {
	return astro.Event{Kind: astro.KindPerigee, StartTime: t, Objects: []astro.ObjectID{o}}
}

func sampleEvents() map[astro.Kind]astro.Event {
	return map[astro.Kind]astro.Event{
		astro.KindOpposition:  opposition(astro.Jupiter, at(2, 0)),
		astro.KindConjunction: conjunction(astro.Mars, astro.Moon, at(3, 15)),
		astro.KindOccultation: {Kind: astro.KindOccultation, StartTime: at(4, 0),
			Objects: []astro.ObjectID{astro.Moon, astro.Saturn}},
		astro.KindMaximalElongation: {Kind: astro.KindMaximalElongation, StartTime: at(5, 0),
			Objects: []astro.ObjectID{astro.Venus}},
		astro.KindPerigee: perigee(astro.Moon, at(6, 0)),
		astro.KindApogee: {Kind: astro.KindApogee, StartTime: at(7, 0),
			Objects: []astro.ObjectID{astro.Moon}},
		astro.KindSeasonChange: {Kind: astro.KindSeasonChange, StartTime: at(8, 30),
			Details: astro.SeasonDetails{Season: astro.MarchEquinox}},
		astro.KindLunarEclipse: {Kind: astro.KindLunarEclipse, StartTime: at(9, 0),
			Objects: []astro.ObjectID{astro.Moon},
			Details: astro.EclipseDetails{Type: astro.TotalEclipse, Maximum: at(10, 12)}},
	}
}

func TestRenderEveryKind(t *testing.T) {
	samples := sampleEvents()
	wantWeights := map[astro.Kind]int{
		astro.KindOpposition:        5,
		astro.KindConjunction:       1,
		astro.KindOccultation:       2,
		astro.KindMaximalElongation: 3,
		astro.KindPerigee:           0,
		astro.KindApogee:            0,
		astro.KindSeasonChange:      0,
		astro.KindLunarEclipse:      10,
	}

	for _, k := range astro.Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			e, ok := samples[k]
			require.True(t, ok, "missing sample for %v", k)

			r, err := Render(e, nil)
			require.NoError(t, err)
			assert.Equal(t, wantWeights[k], r.Weight)
			assert.NotEmpty(t, r.Text)
			assert.True(t, strings.HasPrefix(r.Line, ":star: "))
		})
	}
}

func TestRenderLines(t *testing.T) {
	samples := sampleEvents()
	tests := []struct {
		kind astro.Kind
		want string
	}{
		{astro.KindOpposition, ":star: **02:00 :** Jupiter arrive à l'opposition"},
		{astro.KindConjunction, ":star: **03:15 :** Mars et la Lune sont en conjonction"},
		{astro.KindOccultation, ":star: **04:00 :** la Lune occulte Saturne"},
		{astro.KindMaximalElongation, ":star: **05:00 :** L'élongation de Vénus est maximale"},
		{astro.KindPerigee, ":star: **06:00 :** la Lune arrive à son périgée"},
		{astro.KindApogee, ":star: **07:00 :** la Lune arrive à son apogée"},
		{astro.KindSeasonChange, ":star: L'équinoxe a lieu à 08:30 aujourd'hui"},
		{astro.KindLunarEclipse, ":star: **09:00 :** éclipse totale de Lune, atteignant son maximum à 10:12"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			r, err := Render(samples[tt.kind], time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Line)
		})
	}
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := Render(astro.Event{Kind: astro.Kind(99), StartTime: at(1, 0)}, nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRenderMalformedEvent(t *testing.T) {
	e := astro.Event{Kind: astro.KindConjunction, StartTime: at(1, 0), Objects: []astro.ObjectID{astro.Mars}}
	_, err := Render(e, nil)
	assert.ErrorIs(t, err, astro.ErrInvalidEvent)
}

func TestRenderSeason(t *testing.T) {
	tests := []struct {
		season astro.SeasonType
		prefix string
	}{
		{astro.MarchEquinox, "L'équinoxe"},
		{astro.SeptemberEquinox, "L'équinoxe"},
		{astro.JuneSolstice, "Le solstice"},
		{astro.DecemberSolstice, "Le solstice"},
	}

	for _, tt := range tests {
		t.Run(tt.season.String(), func(t *testing.T) {
			e := astro.Event{Kind: astro.KindSeasonChange, StartTime: at(21, 3),
				Details: astro.SeasonDetails{Season: tt.season}}
			r, err := Render(e, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.prefix+" a lieu à 21:03 aujourd'hui", r.Text)
			assert.Equal(t, ":star: "+tt.prefix+" a lieu à 21:03 aujourd'hui", r.Line)
		})
	}
}

func TestRenderEclipseTypes(t *testing.T) {
	tests := []struct {
		typ  astro.LunarEclipseType
		want string
	}{
		{astro.PartialEclipse, "partielle"},
		{astro.PenumbralEclipse, "pénombrale"},
		{astro.TotalEclipse, "totale"},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			e := astro.Event{Kind: astro.KindLunarEclipse, StartTime: at(17, 40),
				Objects: []astro.ObjectID{astro.Moon},
				Details: astro.EclipseDetails{Type: tt.typ, Maximum: at(19, 5)}}
			r, err := Render(e, nil)
			require.NoError(t, err)
			assert.Contains(t, r.Text, "éclipse "+tt.want+" de Lune")
			assert.Contains(t, r.Text, "maximum à 19:05")
		})
	}
}

func TestRenderInLocation(t *testing.T) {
	paris := time.FixedZone("CEST", 2*3600)
	r, err := Render(opposition(astro.Saturn, at(21, 0)), paris)
	require.NoError(t, err)
	assert.Equal(t, ":star: **23:00 :** Saturne arrive à l'opposition", r.Line)
}

func TestBuildOppositionBeatsConjunction(t *testing.T) {
	events := []astro.Event{
		opposition(astro.Saturn, at(1, 0)),
		conjunction(astro.Mars, astro.Venus, at(2, 0)),
	}

	d, err := Build(events, Options{Now: day})
	require.NoError(t, err)
	assert.Equal(t, "C'est le moment idéal d'observer Saturne !", d.Headline)
	assert.Equal(t, astro.KindOpposition, d.Best)
	assert.Equal(t, 2, d.Events)
	assert.Len(t, d.Lines, 2)
}

func TestBuildPluralOppositions(t *testing.T) {
	events := []astro.Event{
		opposition(astro.Jupiter, at(1, 0)),
		opposition(astro.Saturn, at(3, 0)),
	}

	d, err := Build(events, Options{Now: day})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Ties)
	assert.Equal(t, "Nous avons 2 planètes à l'opposition aujourd'hui !", d.Headline)
}

func TestBuildPerigeeOnlyFallsBack(t *testing.T) {
	d, err := Build([]astro.Event{perigee(astro.Moon, at(4, 0))}, Options{Now: day})
	require.NoError(t, err)
	assert.Equal(t, GenericHeadline, d.Headline)
	assert.Equal(t, astro.Kind(0), d.Best)
	assert.False(t, d.Empty())
}

func TestBuildEmpty(t *testing.T) {
	d, err := Build(nil, Options{Now: day})
	require.NoError(t, err)
	assert.True(t, d.Empty())
	assert.Empty(t, d.Description())
}

func TestBuildTitleAndFooter(t *testing.T) {
	d, err := Build([]astro.Event{perigee(astro.Moon, at(4, 0))}, Options{Now: day})
	require.NoError(t, err)
	assert.Equal(t, "Lundi 19 octobre 2026", d.Title)
	assert.Equal(t, DefaultFooterText, d.Footer.Text)
	assert.Equal(t, DefaultFooterIconURL, d.Footer.IconURL)

	d, err = Build(nil, Options{Now: day, Footer: Footer{Text: "custom"}})
	require.NoError(t, err)
	assert.Equal(t, "custom", d.Footer.Text)
	assert.Equal(t, DefaultFooterIconURL, d.Footer.IconURL)
}

func TestBuildDescription(t *testing.T) {
	events := []astro.Event{
		opposition(astro.Jupiter, at(1, 0)),
		perigee(astro.Moon, at(2, 30)),
	}

	d, err := Build(events, Options{Now: day})
	require.NoError(t, err)
	assert.Equal(t,
		":star: **01:00 :** Jupiter arrive à l'opposition\n:star: **02:30 :** la Lune arrive à son périgée",
		d.Description())
}

func TestBuildPropagatesRenderError(t *testing.T) {
	_, err := Build([]astro.Event{{Kind: astro.Kind(99), StartTime: at(1, 0)}}, Options{Now: day})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestBuildNextNightHeading(t *testing.T) {
	tomorrow := func(h int) time.Time { return time.Date(2026, 10, 20, h, 0, 0, 0, time.UTC) }
	events := []astro.Event{
		opposition(astro.Jupiter, at(20, 0)),
		perigee(astro.Moon, tomorrow(1)),
		conjunction(astro.Mars, astro.Moon, tomorrow(3)),
	}

	d, err := Build(events, Options{Now: day, GroupNextNight: true})
	require.NoError(t, err)
	require.Len(t, d.Lines, 4)
	assert.Equal(t, NextNightHeading, d.Lines[1])
	assert.Equal(t, 3, d.Events)

	d, err = Build(events, Options{Now: day})
	require.NoError(t, err)
	assert.Len(t, d.Lines, 3)
}

func TestBuildSeasonLineNextNight(t *testing.T) {
	solstice := func(ts time.Time) astro.Event {
		return astro.Event{Kind: astro.KindSeasonChange, StartTime: ts,
			Details: astro.SeasonDetails{Season: astro.DecemberSolstice}}
	}
	events := []astro.Event{
		solstice(at(20, 0)),
		solstice(time.Date(2026, 10, 20, 2, 15, 0, 0, time.UTC)),
	}

	d, err := Build(events, Options{Now: day, GroupNextNight: true})
	require.NoError(t, err)
	assert.Equal(t, []string{
		":star: Le solstice a lieu à 20:00 aujourd'hui",
		NextNightHeading,
		":star: Le solstice a lieu à 02:15",
	}, d.Lines)
}

func TestFormatTitle(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), "Lundi 19 octobre 2026"},
		{time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), "Samedi 1 août 2026"},
		{time.Date(2027, 2, 14, 0, 0, 0, 0, time.UTC), "Dimanche 14 février 2027"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTitle(tt.date))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "lundi 19 octobre 2026", FormatDate(time.Date(2026, 10, 19, 22, 0, 0, 0, time.UTC)))
}
