package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaremote/internal/logging"
)

func TestInitLog(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	})

	require.NoError(t, logging.InitLog(logging.Level(true), logging.Console))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	path := filepath.Join(t.TempDir(), "adaremote.log")
	require.NoError(t, logging.InitLog("warn", path))
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	log.Warn("hello file")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")

	assert.Error(t, logging.InitLog("loud", ""))
	assert.Equal(t, "info", logging.Level(false))
}
