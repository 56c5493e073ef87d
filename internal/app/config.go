package app

import (
	"net/http"

	"adaremote/internal/config"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string        // state directory, e.g. $HOME/.adaremote
	Client   config.Client // loaded from config.yaml
	RelayURL string        // overrides Client.SignalingServer when set
	HTTP     *http.Client  // optional; defaults to http.DefaultClient
}

// SignalingURL is the relay websocket URL after overrides.
func (c Config) SignalingURL() string {
	if c.RelayURL != "" {
		return c.RelayURL
	}
	return c.Client.SignalingServer
}
