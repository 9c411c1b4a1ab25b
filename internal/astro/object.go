package astro

import "fmt"

// ObjectID identifies a solar system body.
type ObjectID int

const (
	Sun ObjectID = iota + 1
	Mercury
	Venus
	Moon
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

type objectInfo struct {
	wire   string
	french string
}

var objects = map[ObjectID]objectInfo{
	Sun:     {"SUN", "le Soleil"},
	Mercury: {"MERCURY", "Mercure"},
	Venus:   {"VENUS", "Vénus"},
	Moon:    {"MOON", "la Lune"},
	Mars:    {"MARS", "Mars"},
	Jupiter: {"JUPITER", "Jupiter"},
	Saturn:  {"SATURN", "Saturne"},
	Uranus:  {"URANUS", "Uranus"},
	Neptune: {"NEPTUNE", "Neptune"},
	Pluto:   {"PLUTO", "Pluton"},
}

// Name returns the French display name of the object. The boolean is false
// for identifiers outside the known set.
func (o ObjectID) Name() (string, bool) {
	info, ok := objects[o]
	return info.french, ok
}

func (o ObjectID) String() string {
	if info, ok := objects[o]; ok {
		return info.wire
	}
	return fmt.Sprintf("ObjectID(%d)", int(o))
}

// ParseObjectID maps a wire name such as "JUPITER" to its ObjectID.
func ParseObjectID(s string) (ObjectID, error) {
	for id, info := range objects {
		if info.wire == s {
			return id, nil
		}
	}
	return 0, fmt.Errorf("astro: unknown object %q", s)
}

// SeasonType is the season a SEASON_CHANGE event starts.
type SeasonType int

const (
	MarchEquinox SeasonType = iota + 1
	JuneSolstice
	SeptemberEquinox
	DecemberSolstice
)

var seasonNames = map[SeasonType]string{
	MarchEquinox:     "MARCH_EQUINOX",
	JuneSolstice:     "JUNE_SOLSTICE",
	SeptemberEquinox: "SEPTEMBER_EQUINOX",
	DecemberSolstice: "DECEMBER_SOLSTICE",
}

// IsEquinox reports whether the season starts at an equinox.
func (s SeasonType) IsEquinox() bool {
	return s == MarchEquinox || s == SeptemberEquinox
}

func (s SeasonType) String() string {
	if name, ok := seasonNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SeasonType(%d)", int(s))
}

func ParseSeasonType(s string) (SeasonType, error) {
	for st, name := range seasonNames {
		if name == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("astro: unknown season %q", s)
}

// LunarEclipseType is the kind of a lunar eclipse.
type LunarEclipseType int

const (
	PenumbralEclipse LunarEclipseType = iota + 1
	PartialEclipse
	TotalEclipse
)

var eclipseNames = map[LunarEclipseType]string{
	PenumbralEclipse: "PENUMBRAL",
	PartialEclipse:   "PARTIAL",
	TotalEclipse:     "TOTAL",
}

func (t LunarEclipseType) String() string {
	if name, ok := eclipseNames[t]; ok {
		return name
	}
	return fmt.Sprintf("LunarEclipseType(%d)", int(t))
}

func ParseLunarEclipseType(s string) (LunarEclipseType, error) {
	for t, name := range eclipseNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("astro: unknown lunar eclipse type %q", s)
}
