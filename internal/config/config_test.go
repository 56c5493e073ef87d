package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaremote/internal/config"
	"adaremote/internal/domain"
)

func TestDefaultRelay(t *testing.T) {
	r := config.DefaultRelay()
	assert.Equal(t, "0.0.0.0:8080", r.Bind)
	assert.Less(t, r.PingPeriod, r.PongWait)
	assert.Positive(t, r.SendBuffer)
}

func TestLoad_MissingFileIsDefaults(t *testing.T) {
	t.Setenv(config.EnvSignalingServer, "")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultClient(), cfg)
}

func TestLoad_FileOverridesAndEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
signaling_server: ws://relay.example:9000/ws
mode: view_only
quality: low
dial_timeout: 3s
turn_servers:
  - url: turn:turn.example:3478
    username: u
    credential: c
`), 0o600))

	t.Setenv(config.EnvSignalingServer, "")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://relay.example:9000/ws", cfg.SignalingServer)
	assert.Equal(t, domain.ModeViewOnly, cfg.Mode)
	assert.Equal(t, domain.QualityLow, cfg.Quality)
	assert.Equal(t, 3*time.Second, cfg.DialTimeout)
	assert.True(t, cfg.ClipboardSync, "unset fields keep defaults")
	require.Len(t, cfg.TURNServers, 1)
	assert.Equal(t, "u", cfg.TURNServers[0].Username)

	t.Setenv(config.EnvSignalingServer, "ws://override/ws")
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://override/ws", cfg.SignalingServer)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(config.EnvSignalingServer, "")
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("mode: [unterminated"), 0o600))
	_, err := config.Load(bad)
	assert.ErrorIs(t, err, domain.ErrSerialization)

	mode := filepath.Join(dir, "mode.yaml")
	require.NoError(t, os.WriteFile(mode, []byte("mode: god_mode\n"), 0o600))
	_, err = config.Load(mode)
	assert.ErrorIs(t, err, domain.ErrSerialization)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv(config.EnvSignalingServer, "")
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	want := config.DefaultClient()
	want.Quality = domain.QualityHigh
	require.NoError(t, config.Save(path, want))

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
