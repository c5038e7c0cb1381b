// Package scorer maps upstream readings onto the 0-5 ft risk scale.
package scorer

import (
	"floodalert/internal/modules/risk/types"
)

const (
	riverSafeDischarge = 5.0  // m3/s at or below: no risk
	riverMaxDischarge  = 30.0 // m3/s at or above: full scale

	rainSafeMillimetres = 50.0
	rainMaxMillimetres  = 150.0

	dangerIncreaseFactor = 1.5
	dangerMinDischarge   = 10.0
)

// RiverLevel scores a peak daily river discharge.
func RiverLevel(discharge float64) float64 {
	return interpolate(discharge, riverSafeDischarge, riverMaxDischarge)
}

// RainLevel scores a peak daily precipitation sum.
func RainLevel(precipitation float64) float64 {
	return interpolate(precipitation, rainSafeMillimetres, rainMaxMillimetres)
}

func interpolate(v, low, high float64) float64 {
	switch {
	case v <= low:
		return 0
	case v >= high:
		return types.MaxLevel
	default:
		return types.MaxLevel * (v - low) / (high - low)
	}
}

// SeriesLevel scores a whole series with the given rule, using its peak.
// An all-null series scores 0.
func SeriesLevel(s types.DailySeries, rule func(float64) float64) float64 {
	peak, _ := s.Max()
	return rule(peak)
}

// Combine folds per-source levels into the combined level and the dominant
// source. A level below zero means the source is unavailable and never wins
// or ties.
func Combine(river, rain float64) (float64, types.Source) {
	riverOK := river >= 0
	rainOK := rain >= 0

	combined := 0.0
	if riverOK && river > combined {
		combined = river
	}
	if rainOK && rain > combined {
		combined = rain
	}

	switch {
	case riverOK && (!rainOK || river > rain) && river > 0:
		return combined, types.SourceRiver
	case rainOK && (!riverOK || rain > river) && rain > 0:
		return combined, types.SourceRain
	case riverOK && rainOK && river == rain && river > 0:
		return combined, types.SourceCombined
	default:
		return combined, types.SourceNone
	}
}

// InDanger reports a sharp forecast rise: the day-2 discharge exceeds today's
// by more than half and is above the minimum danger level. Series shorter
// than three days or with null today/day-2 readings are never in danger.
func InDanger(s types.DailySeries) bool {
	if len(s) < 3 {
		return false
	}
	today, ok := s.At(0)
	if !ok {
		return false
	}
	future, ok := s.At(2)
	if !ok {
		return false
	}
	return future > today*dangerIncreaseFactor && future > dangerMinDischarge
}

// Clamp bounds a level to the displayable range.
func Clamp(level float64) float64 {
	switch {
	case level < 0:
		return 0
	case level > types.MaxLevel:
		return types.MaxLevel
	default:
		return level
	}
}
