package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Unavailable marks a per-source level that could not be computed.
const Unavailable = -1.0

// MaxLevel is the top of the risk scale, in feet of water.
const MaxLevel = 5.0

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}

// DailySeries holds one reading per forecast day, index 0 being today.
// Nil entries are days the upstream reported as null.
type DailySeries []*float64

// Max returns the largest non-null reading. ok is false when the series has
// no non-null entries, in which case max is 0.
func (s DailySeries) Max() (max float64, ok bool) {
	for _, v := range s {
		if v == nil {
			continue
		}
		if !ok || *v > max {
			max = *v
			ok = true
		}
	}
	return max, ok
}

// At returns the reading for day i and whether it is present.
func (s DailySeries) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) || s[i] == nil {
		return 0, false
	}
	return *s[i], true
}

type Source int

const (
	SourceNone Source = iota
	SourceRiver
	SourceRain
	SourceCombined
)

var sourceNames = map[Source]string{
	SourceNone:     "none",
	SourceRiver:    "river",
	SourceRain:     "rain",
	SourceCombined: "combined",
}

var sourceLabels = map[Source]string{
	SourceNone:     "None",
	SourceRiver:    "River Discharge",
	SourceRain:     "Extreme Rainfall",
	SourceCombined: "Combined Risk",
}

func (s Source) String() string {
	if n, ok := sourceNames[s]; ok {
		return n
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// Label is the human readable name shown on presentation surfaces.
func (s Source) Label() string {
	if l, ok := sourceLabels[s]; ok {
		return l
	}
	return s.String()
}

func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Source) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for k, v := range sourceNames {
		if v == name {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown source %q", name)
}

type Status string

const (
	StatusRisk   Status = "risk"
	StatusLow    Status = "low"
	StatusNoData Status = "no_data"
)

// SourceReport describes what one upstream contributed to an assessment.
type SourceReport struct {
	Source   Source   `json:"source"`
	MaxValue *float64 `json:"maxValue,omitempty"`
	Level    float64  `json:"level"`
	Error    string   `json:"error,omitempty"`
}

type RiskAssessment struct {
	ID                string         `json:"id"`
	CheckedAt         time.Time      `json:"checkedAt"`
	Coordinate        *Coordinate    `json:"coordinate,omitempty"`
	LocationAvailable bool           `json:"locationAvailable"`
	RiverLevel        float64        `json:"riverLevel"`
	RainLevel         float64        `json:"rainLevel"`
	CombinedLevel     float64        `json:"combinedLevel"`
	DominantSource    Source         `json:"dominantSource"`
	InDanger          bool           `json:"inDanger"`
	DataAvailable     bool           `json:"dataAvailable"`
	Status            Status         `json:"status"`
	Summary           string         `json:"summary"`
	Sources           []SourceReport `json:"sources,omitempty"`
}

// EvacuationStatus is the river-trend danger check behind the evacuation screen.
type EvacuationStatus struct {
	Coordinate        *Coordinate `json:"coordinate,omitempty"`
	LocationAvailable bool        `json:"locationAvailable"`
	InDanger          bool        `json:"inDanger"`
	ShowRouteButton   bool        `json:"showRouteButton"`
	Title             string      `json:"title"`
	Message           string      `json:"message"`
	ShelterQuery      string      `json:"shelterQuery"`
	MapsURL           string      `json:"mapsUrl,omitempty"`
}
