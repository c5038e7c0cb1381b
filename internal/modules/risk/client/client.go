// Package client calls the river discharge and precipitation forecast
// endpoints. Each call is independent; a failure only affects its own source.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"floodalert/internal/modules/risk/types"
	"floodalert/internal/upstream"
)

const forecastDays = 3

// ErrNetwork covers transport failures and non-200 responses.
var ErrNetwork = errors.New("network failure")

type FetchError struct {
	Source types.Source
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

// Client is what the risk pipeline needs from the forecast provider.
type Client interface {
	FetchRiver(ctx context.Context, c types.Coordinate) ([]byte, error)
	FetchRain(ctx context.Context, c types.Coordinate) ([]byte, error)
}

type getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type openMeteoClient struct {
	riverURL   string
	weatherURL string
	http       getter
}

var _ Client = (*openMeteoClient)(nil)

func NewOpenMeteoClient(riverURL, weatherURL string, g *upstream.Getter) Client {
	return &openMeteoClient{riverURL: riverURL, weatherURL: weatherURL, http: g}
}

func RiverURL(base string, c types.Coordinate) string {
	return fmt.Sprintf("%s?latitude=%f&longitude=%f&daily=river_discharge&forecast_days=%d",
		base, c.Latitude, c.Longitude, forecastDays)
}

func RainURL(base string, c types.Coordinate) string {
	return fmt.Sprintf("%s?latitude=%f&longitude=%f&daily=precipitation_sum&forecast_days=%d&timezone=auto",
		base, c.Latitude, c.Longitude, forecastDays)
}

func (o *openMeteoClient) FetchRiver(ctx context.Context, c types.Coordinate) ([]byte, error) {
	return o.fetch(ctx, types.SourceRiver, RiverURL(o.riverURL, c))
}

func (o *openMeteoClient) FetchRain(ctx context.Context, c types.Coordinate) ([]byte, error) {
	return o.fetch(ctx, types.SourceRain, RainURL(o.weatherURL, c))
}

func (o *openMeteoClient) fetch(ctx context.Context, src types.Source, url string) ([]byte, error) {
	slog.Debug("calling forecast API", "source", src.String(), "url", url)
	body, err := o.http.Get(ctx, url)
	if err != nil {
		slog.Warn("forecast fetch failed", "source", src.String(), "error", err)
		return nil, &FetchError{Source: src, Err: err}
	}
	return body, nil
}
