package commands

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaremote/internal/config"
	"adaremote/internal/domain"
	"adaremote/internal/metrics"
	"adaremote/internal/relay/server"
	"adaremote/internal/session/sessiontest"
	"adaremote/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func startRelay(t *testing.T) string {
	t.Helper()
	srv := server.New(config.DefaultRelay(), metrics.Nop{})
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		hs.Close()
	})
	return "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws"
}

func TestPasswordCommand(t *testing.T) {
	out, err := run(t, "--home", t.TempDir(), "password")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{9}\n$`), out)
}

func TestStatusWithoutSession(t *testing.T) {
	url := startRelay(t)
	out, err := run(t, "--home", t.TempDir(), "--relay", url, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No current session.")
	assert.Contains(t, out, "0 sessions, 0 connections")
}

func TestStatusAndDisconnect(t *testing.T) {
	home := t.TempDir()
	cfg := domain.SessionConfig{
		SessionID: sessiontest.NewID(),
		Mode:      domain.ModeViewOnly,
		Quality:   domain.QualityLow,
	}
	require.NoError(t, store.NewSessionFileStore(home).SaveCurrentSession(cfg))

	// relay unreachable is reported, not fatal
	out, err := run(t, "--home", home, "--relay", "ws://127.0.0.1:1/ws", "status")
	require.NoError(t, err)
	assert.Contains(t, out, cfg.SessionID.String())
	assert.Contains(t, out, cfg.SessionID.Code())
	assert.Contains(t, out, "unreachable")

	out, err = run(t, "--home", home, "disconnect")
	require.NoError(t, err)
	assert.Contains(t, out, "Disconnected from session "+cfg.SessionID.Code())

	out, err = run(t, "--home", home, "disconnect")
	require.NoError(t, err)
	assert.Contains(t, out, "No current session.")
}

func TestConfigFileIsHonoured(t *testing.T) {
	home := t.TempDir()
	c := config.DefaultClient()
	c.SignalingServer = "wss://relay.example.com/ws"
	require.NoError(t, config.Save(filepath.Join(home, config.FileName), c))

	_, err := run(t, "--home", home, "password")
	require.NoError(t, err)
	require.NotNil(t, wire)
	assert.Equal(t, "https://relay.example.com", wire.Status.Base)
}

func TestConfigCommandWritesFile(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, config.FileName)

	out, err := run(t, "--home", home, "config")
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+path+"\n", out)

	want, err := config.Load(filepath.Join(t.TempDir(), config.FileName))
	require.NoError(t, err)
	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = run(t, "--home", home, "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "--home", home, "config", "--force")
	require.NoError(t, err)
}

func TestBadLogLevel(t *testing.T) {
	_, err := run(t, "--home", t.TempDir(), "--log-level", "loud", "password")
	require.Error(t, err)
}

func TestConnectUnknownCodeExitStatus(t *testing.T) {
	url := startRelay(t)
	_, err := run(t, "--home", t.TempDir(), "--relay", url, "connect", "123456789")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	silenceStderr(t)
	assert.Equal(t, exitSessionNotFound, ExitCode(err))
}

// silenceStderr discards what ExitCode prints for the rest of the test.
func silenceStderr(t *testing.T) {
	t.Helper()
	devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	stderr := os.Stderr
	os.Stderr = devnull
	t.Cleanup(func() {
		os.Stderr = stderr
		_ = devnull.Close()
	})
}

func TestExitCodes(t *testing.T) {
	silenceStderr(t)

	cases := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{fmt.Errorf("join: %w", domain.ErrSessionNotFound), exitSessionNotFound},
		{domain.ErrAmbiguousSessionCode, exitSessionNotFound},
		{fmt.Errorf("%w: Invalid password", domain.ErrAuthenticationFailed), exitAuthFailed},
		{domain.ErrDecryption, exitDecryption},
		{domain.ErrNetwork, exitFailure},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExitCode(tc.err), "%v", tc.err)
	}
}
