package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaremote/internal/crypto"
	"adaremote/internal/domain"
	"adaremote/internal/session/sessiontest"
	"adaremote/internal/store"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	var s domain.SessionStore = store.NewSessionFileStore(dir)

	_, ok, err := s.LoadCurrentSession()
	require.NoError(t, err)
	assert.False(t, ok)

	hash, err := crypto.HashPassword("123456789")
	require.NoError(t, err)
	cfg := domain.SessionConfig{
		SessionID:     sessiontest.NewID(),
		Mode:          domain.ModeFileTransfer,
		PasswordHash:  hash,
		ClipboardSync: true,
		Quality:       domain.QualityMedium,
	}
	require.NoError(t, s.SaveCurrentSession(cfg))

	got, ok, err := s.LoadCurrentSession()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cfg, got)

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.ClearCurrentSession())
	_, ok, err = s.LoadCurrentSession()
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, s.ClearCurrentSession())
}

func TestSessionStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0o600))

	_, _, err := store.NewSessionFileStore(dir).LoadCurrentSession()
	require.ErrorIs(t, err, domain.ErrSerialization)
}

func TestSessionStoreRejectsBadID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte(`{"session_id":"123"}`), 0o600))

	_, _, err := store.NewSessionFileStore(dir).LoadCurrentSession()
	require.Error(t, err)
}
