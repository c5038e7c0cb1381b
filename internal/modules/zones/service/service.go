package service

import (
	"context"
	"fmt"
	"log/slog"

	"floodalert/internal/geo"
	risktypes "floodalert/internal/modules/risk/types"
	"floodalert/internal/modules/zones/repository"
	"floodalert/internal/modules/zones/routing"
	"floodalert/internal/modules/zones/types"
)

const (
	titleSafe        = "Location Status: Safe"
	descSafe         = "Your current location appears to be safe from reported flooding. Stay aware and check back if conditions change."
	descNoLocation   = "Could not get your location. Please ensure GPS is enabled."
	titleDanger      = "Warning: Flood Zone Detected"
	descRouteFound   = "Evacuation route calculated. Please proceed to the safe zone with caution."
	descRouteMissing = "Could not calculate a route. Please check your internet connection and try again."
)

type Service struct {
	repository repository.ZonesRepository
	router     routing.Router
}

func NewService(repository repository.ZonesRepository, router routing.Router) *Service {
	return &Service{repository: repository, router: router}
}

func (s *Service) Overview(ctx context.Context) (types.Overview, error) {
	flood, err := s.repository.ListFloodZones(ctx)
	if err != nil {
		return types.Overview{}, fmt.Errorf("list flood zones: %w", err)
	}
	safe, err := s.repository.ListSafeZones(ctx)
	if err != nil {
		return types.Overview{}, fmt.Errorf("list safe zones: %w", err)
	}
	return types.Overview{FloodZones: flood, SafeZones: safe}, nil
}

// Status checks the located position against the flood zones. Inside a zone
// it routes to the nearest safe zone; a failed route only changes the text.
// Storage errors are returned; a missing position is reported as safe.
func (s *Service) Status(ctx context.Context, p geo.Provider) (types.Status, error) {
	c, err := p.Locate(ctx)
	if err != nil {
		if !geo.IsUnavailable(err) {
			slog.Warn("locate failed", "error", err)
		}
		return types.Status{Status: types.LevelSafe, Title: titleSafe, Description: descNoLocation}, nil
	}

	flood, err := s.repository.ListFloodZones(ctx)
	if err != nil {
		return types.Status{}, fmt.Errorf("list flood zones: %w", err)
	}

	out := types.Status{Status: types.LevelSafe, Title: titleSafe, Description: descSafe, LocationAvailable: true, Coordinate: &c}
	for i := range flood {
		if flood[i].Contains(c) {
			out.FloodZone = &flood[i]
			break
		}
	}
	if out.FloodZone == nil {
		return out, nil
	}

	out.Status, out.Title = types.LevelDanger, titleDanger
	out.Description = descRouteMissing

	safe, err := s.repository.ListSafeZones(ctx)
	if err != nil {
		return types.Status{}, fmt.Errorf("list safe zones: %w", err)
	}
	nearest, ok := Nearest(c, safe)
	if !ok {
		slog.Warn("in flood zone but no safe zones configured", "coordinate", c.String())
		return out, nil
	}
	out.NearestSafeZone = &nearest

	route, err := s.router.Route(ctx, c, nearest.Coordinate)
	if err != nil {
		slog.Warn("evacuation route unavailable", "safe_zone", nearest.Name, "error", err)
		return out, nil
	}
	out.Route = route
	out.Description = descRouteFound
	return out, nil
}

// Nearest returns the safe zone closest to c by great-circle distance.
func Nearest(c risktypes.Coordinate, zones []types.SafeZone) (types.NearestSafeZone, bool) {
	var best types.NearestSafeZone
	found := false
	for _, z := range zones {
		d := geo.Distance(c, z.Coordinate)
		if !found || d < best.DistanceMeters {
			best = types.NearestSafeZone{SafeZone: z, DistanceMeters: d}
			found = true
		}
	}
	return best, found
}
