package types

import (
	risktypes "floodalert/internal/modules/risk/types"
)

// FloodZone is a reported flood area as a lat/lon bounding box.
type FloodZone struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
	South float64 `json:"south"`
	West  float64 `json:"west"`
}

// Contains reports whether c lies inside the box, edges included.
func (z FloodZone) Contains(c risktypes.Coordinate) bool {
	return c.Latitude <= z.North && c.Latitude >= z.South &&
		c.Longitude <= z.East && c.Longitude >= z.West
}

type SafeZone struct {
	ID         int64                `json:"id"`
	Name       string               `json:"name"`
	Coordinate risktypes.Coordinate `json:"coordinate"`
}

// Route is a driving route; Geometry holds [lon, lat] pairs as GeoJSON does.
type Route struct {
	DistanceMeters  float64      `json:"distanceMeters"`
	DurationSeconds float64      `json:"durationSeconds"`
	Geometry        [][2]float64 `json:"geometry"`
}

type Level string

const (
	LevelSafe   Level = "safe"
	LevelDanger Level = "danger"
)

type NearestSafeZone struct {
	SafeZone
	DistanceMeters float64 `json:"distanceMeters"`
}

// Status is the outcome of checking a position against the flood zones.
type Status struct {
	Status            Level                 `json:"status"`
	Title             string                `json:"title"`
	Description       string                `json:"description"`
	LocationAvailable bool                  `json:"locationAvailable"`
	Coordinate        *risktypes.Coordinate `json:"coordinate,omitempty"`
	FloodZone         *FloodZone            `json:"floodZone,omitempty"`
	NearestSafeZone   *NearestSafeZone      `json:"nearestSafeZone,omitempty"`
	Route             *Route                `json:"route,omitempty"`
}

type Overview struct {
	FloodZones []FloodZone `json:"floodZones"`
	SafeZones  []SafeZone  `json:"safeZones"`
}
