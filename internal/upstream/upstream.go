// Package upstream holds the HTTP plumbing shared by the forecast and routing
// clients: one client with independent connect and read timeouts, and a GET
// helper that treats anything but 200 as a failure.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const maxBodyBytes = 2 << 20

// ErrStatus wraps non-200 responses.
var ErrStatus = errors.New("unexpected status")

type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
}

// NewHTTPClient bounds connection setup by t.Connect and waiting for response
// headers by t.Read. The overall request is capped at their sum.
func NewHTTPClient(t Timeouts) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   t.Connect,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = t.Connect
	transport.ResponseHeaderTimeout = t.Read

	return &http.Client{
		Transport: transport,
		Timeout:   t.Connect + t.Read,
	}
}

type Getter struct {
	client    *http.Client
	userAgent string
}

func NewGetter(client *http.Client, userAgent string) *Getter {
	if client == nil {
		client = http.DefaultClient
	}
	return &Getter{client: client, userAgent: userAgent}
}

// Get fetches url and returns at most 2 MiB of its body.
func (g *Getter) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Debug("close upstream body", "url", url, "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %w %d", url, ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}

	slog.Debug("upstream response",
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return body, nil
}
