// Package geo supplies the single best-known position for a risk check.
package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"floodalert/internal/modules/risk/types"
)

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrNoFix            = errors.New("no location fix")
)

// IsUnavailable reports whether err means no usable position, which callers
// treat as the safe default rather than a failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrNoFix)
}

type Provider interface {
	Locate(ctx context.Context) (types.Coordinate, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (types.Coordinate, error)

func (f ProviderFunc) Locate(ctx context.Context) (types.Coordinate, error) { return f(ctx) }

// Fixed always reports the same coordinate.
func Fixed(c types.Coordinate) Provider {
	return ProviderFunc(func(context.Context) (types.Coordinate, error) { return c, nil })
}

// Unavailable always fails with err, which should be ErrPermissionDenied or ErrNoFix.
func Unavailable(err error) Provider {
	return ProviderFunc(func(context.Context) (types.Coordinate, error) { return types.Coordinate{}, err })
}

// FromQuery reads lat/lon parameters. Both missing is ErrNoFix; a present but
// unparsable or out of range value is a plain input error.
func FromQuery(q url.Values) (Provider, error) {
	latS := strings.TrimSpace(q.Get("lat"))
	lonS := strings.TrimSpace(q.Get("lon"))
	if latS == "" && lonS == "" {
		return Unavailable(ErrNoFix), nil
	}
	if latS == "" || lonS == "" {
		return nil, errors.New("both 'lat' and 'lon' are required")
	}
	c, err := Parse(latS, lonS)
	if err != nil {
		return nil, err
	}
	return Fixed(c), nil
}

// Parse validates a textual latitude/longitude pair.
func Parse(latS, lonS string) (types.Coordinate, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return types.Coordinate{}, fmt.Errorf("invalid latitude %q", latS)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonS), 64)
	if err != nil || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return types.Coordinate{}, fmt.Errorf("invalid longitude %q", lonS)
	}
	c := types.Coordinate{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return types.Coordinate{}, fmt.Errorf("coordinate %s out of range", c)
	}
	return c, nil
}

// Fix is one reported device position.
type Fix struct {
	Coordinate       types.Coordinate
	At               time.Time
	PermissionDenied bool
}

// LastKnown remembers the most recent fix per device and serves it as a
// Provider. Fixes older than MaxAge are ignored when MaxAge is positive.
type LastKnown struct {
	MaxAge time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	fixes map[string]Fix
}

func NewLastKnown(maxAge time.Duration) *LastKnown {
	return &LastKnown{MaxAge: maxAge, now: time.Now, fixes: make(map[string]Fix)}
}

func (l *LastKnown) Update(deviceID string, fix Fix) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if prev, ok := l.fixes[deviceID]; ok && fix.At.Before(prev.At) {
		return
	}
	l.fixes[deviceID] = fix
}

func (l *LastKnown) For(deviceID string) Provider {
	return ProviderFunc(func(context.Context) (types.Coordinate, error) {
		l.mu.RLock()
		fix, ok := l.fixes[deviceID]
		l.mu.RUnlock()
		switch {
		case !ok:
			return types.Coordinate{}, ErrNoFix
		case fix.PermissionDenied:
			return types.Coordinate{}, ErrPermissionDenied
		case l.MaxAge > 0 && l.now().Sub(fix.At) > l.MaxAge:
			return types.Coordinate{}, ErrNoFix
		}
		return fix.Coordinate, nil
	})
}

const earthRadiusMeters = 6371008.8

// Distance is the great-circle distance between a and b in meters.
func Distance(a, b types.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
