package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"adaremote/internal/domain"
	"adaremote/internal/ratelimit"
	"adaremote/internal/relay"
	sessionsvc "adaremote/internal/services/session"
	"adaremote/internal/store"
)

// Password attempts a host accepts per session before throttling.
const (
	passwordAttemptsPerMinute = 5
	passwordAttemptBurst      = 5
)

// Wire bundles the stores and clients the CLI needs. The signaling
// connection is opened per command through Dial.
type Wire struct {
	Config   Config
	Sessions domain.SessionStore
	Status   *relay.HTTP
	HTTP     *http.Client
	attempts *ratelimit.Limiter
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base, err := relay.HTTPBase(cfg.SignalingURL())
	if err != nil {
		return nil, err
	}
	return &Wire{
		Config:   cfg,
		Sessions: store.NewSessionFileStore(cfg.Home),
		Status:   relay.NewHTTP(base, httpClient),
		HTTP:     httpClient,
		attempts: ratelimit.New(ratelimit.Config{
			PerMinute: passwordAttemptsPerMinute,
			Burst:     passwordAttemptBurst,
		}),
	}, nil
}

// Dial opens the signaling connection and returns a session service over
// it. The caller closes the returned Conn.
func (w *Wire) Dial(ctx context.Context) (*Conn, error) {
	timeout := w.Config.Client.DialTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	url := w.Config.SignalingURL()
	rc, err := relay.Dial(ctx, url, relay.DialOptions{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("connect to relay %s: %w", url, err)
	}
	return &Conn{
		Relay:    rc,
		Sessions: sessionsvc.New(rc, w.Sessions, w.attempts),
	}, nil
}
