package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"adaremote/internal/domain"
)

// Status is the relay's /status document.
type Status struct {
	Sessions    int `json:"sessions"`
	Connections int `json:"connections"`
}

// HTTP talks to the relay's plain HTTP routes.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for base. hc may be nil.
func NewHTTP(base string, hc *http.Client) *HTTP {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

// HTTPBase turns a signaling URL such as ws://host:8080/ws into the relay's
// HTTP base URL.
func HTTPBase(signalingURL string) (string, error) {
	u, err := url.Parse(signalingURL)
	if err != nil {
		return "", fmt.Errorf("%w: relay url: %v", domain.ErrSerialization, err)
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	case "http", "https":
	default:
		return "", fmt.Errorf("%w: relay url scheme %q", domain.ErrSerialization, u.Scheme)
	}
	u.Path, u.RawQuery, u.Fragment = "", "", ""
	return u.String(), nil
}

// Health reports nil when the relay answers /health.
func (c *HTTP) Health(ctx context.Context) error {
	resp, err := c.get(ctx, "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Status fetches the relay's session and connection counts.
func (c *HTTP) Status(ctx context.Context) (Status, error) {
	var out Status
	resp, err := c.get(ctx, "/status")
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Status{}, fmt.Errorf("%w: relay status: %v", domain.ErrSerialization, err)
	}
	return out, nil
}

func (c *HTTP) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: relay get %s: %v", domain.ErrNetwork, path, err)
	}
	if resp.StatusCode/100 != 2 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: relay get %s: %s", domain.ErrNetwork, path, resp.Status)
	}
	return resp, nil
}
