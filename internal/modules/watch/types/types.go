package types

import (
	risktypes "floodalert/internal/modules/risk/types"
)

// Place is a named location re-checked on the watch schedule.
type Place struct {
	ID         int64                `json:"id"`
	Name       string               `json:"name"`
	Coordinate risktypes.Coordinate `json:"coordinate"`
}

// PlaceStatus pairs a place with its latest assessment, nil before the first run.
type PlaceStatus struct {
	Place
	Latest *risktypes.RiskAssessment `json:"latest"`
}

// Change is emitted when a place's status or danger flag moves, and on the
// first assessment of a place.
type Change struct {
	Place    Place
	Previous *risktypes.RiskAssessment
	Current  risktypes.RiskAssessment
}

func (c Change) First() bool { return c.Previous == nil }

// Alerting is true when the current assessment warrants attention.
func (c Change) Alerting() bool {
	return c.Current.Status == risktypes.StatusRisk || c.Current.InDanger
}
