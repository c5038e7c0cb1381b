// Package routing asks an OSRM server for a driving route between two points.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	risktypes "floodalert/internal/modules/risk/types"
	"floodalert/internal/modules/zones/types"
	"floodalert/internal/upstream"
)

// ErrNoRoute means the server answered but found no usable route.
var ErrNoRoute = errors.New("no route")

type Router interface {
	Route(ctx context.Context, from, to risktypes.Coordinate) (*types.Route, error)
}

type getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type osrmClient struct {
	baseURL string
	http    getter
}

func NewOSRMClient(baseURL string, g *upstream.Getter) Router {
	return &osrmClient{baseURL: baseURL, http: g}
}

// RouteURL builds the driving route request; OSRM takes lon,lat pairs.
func RouteURL(base string, from, to risktypes.Coordinate) string {
	return fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		base, from.Longitude, from.Latitude, to.Longitude, to.Latitude)
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

func (o *osrmClient) Route(ctx context.Context, from, to risktypes.Coordinate) (*types.Route, error) {
	url := RouteURL(o.baseURL, from, to)
	slog.Debug("calling routing API", "url", url)

	body, err := o.http.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("route request: %w", err)
	}
	return parseRoute(body)
}

func parseRoute(body []byte) (*types.Route, error) {
	var resp osrmResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode route: %w", err)
	}
	if resp.Code != "Ok" {
		return nil, fmt.Errorf("%w: code %q %s", ErrNoRoute, resp.Code, resp.Message)
	}
	if len(resp.Routes) == 0 {
		return nil, fmt.Errorf("%w: empty routes", ErrNoRoute)
	}
	r := resp.Routes[0]
	return &types.Route{
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Geometry:        r.Geometry.Coordinates,
	}, nil
}
