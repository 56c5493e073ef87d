package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"adaremote/internal/domain"
	"adaremote/internal/domain/types"
)

// EnvSignalingServer overrides Client.SignalingServer when set.
const EnvSignalingServer = "ADAREMOTE_SIGNALING_SERVER"

// DirName is the per-user configuration directory under $HOME.
const DirName = ".adaremote"

// FileName is the configuration file inside the configuration directory.
const FileName = "config.yaml"

// TURNServer is a relay candidate source for the transport collaborator.
type TURNServer struct {
	URL        string `yaml:"url"`
	Username   string `yaml:"username"`
	Credential string `yaml:"credential"`
}

// Client is the host/client application configuration.
type Client struct {
	SignalingServer    string                `yaml:"signaling_server"`
	STUNServers        []string              `yaml:"stun_servers,omitempty"`
	TURNServers        []TURNServer          `yaml:"turn_servers,omitempty"`
	EnableQUICFallback bool                  `yaml:"enable_quic_fallback"`
	Mode               domain.ConnectionMode `yaml:"mode"`
	Quality            domain.VideoQuality   `yaml:"quality"`
	ClipboardSync      bool                  `yaml:"clipboard_sync"`
	DialTimeout        time.Duration         `yaml:"dial_timeout"`
}

// DefaultClient returns the configuration used when no file exists.
func DefaultClient() Client {
	return Client{
		SignalingServer: "ws://127.0.0.1:8080/ws",
		STUNServers: []string{
			"stun:stun.l.google.com:19302",
			"stun:stun1.l.google.com:19302",
		},
		EnableQUICFallback: true,
		Mode:               domain.ModeFullControl,
		Quality:            domain.QualityAdaptive,
		ClipboardSync:      true,
		DialTimeout:        10 * time.Second,
	}
}

// DefaultPath returns $HOME/.adaremote/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: locating home directory: %v", domain.ErrIO, err)
	}
	return filepath.Join(home, DirName, FileName), nil
}

// Load reads path on top of the defaults. A missing file yields the
// defaults; the environment override is applied last.
func Load(path string) (Client, error) {
	cfg := DefaultClient()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Client{}, fmt.Errorf("%w: reading %s: %v", domain.ErrIO, path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Client{}, fmt.Errorf("%w: parsing %s: %v", domain.ErrSerialization, path, err)
		}
	}
	if v := os.Getenv(EnvSignalingServer); v != "" {
		cfg.SignalingServer = v
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated fields.
func (c Client) Validate() error {
	if c.SignalingServer == "" {
		return fmt.Errorf("%w: signaling_server is required", domain.ErrSerialization)
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrSerialization, c.Mode)
	}
	if _, err := types.ParseVideoQuality(string(c.Quality)); err != nil {
		return err
	}
	if c.DialTimeout < 0 {
		return fmt.Errorf("%w: dial_timeout must not be negative", domain.ErrSerialization)
	}
	return nil
}

// Save writes c to path, creating the directory if needed.
func Save(path string, c Client) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	return nil
}
