package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/factoryerp/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONLogger(t *testing.T) {
	log, err := logger.New(&logger.Config{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	})
	require.NoError(t, err)
	require.NotNil(t, log)

	assert.False(t, log.Core().Enabled(-1)) // debug disabled at info level
}

func TestNewConsoleLogger(t *testing.T) {
	log, err := logger.New(&logger.Config{
		Level:  "debug",
		Format: "console",
		Output: "stderr",
	})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(-1))
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := logger.New(&logger.Config{
		Level:  "info",
		Format: "json",
		Output: path,
	})
	require.NoError(t, err)

	log.Info("payment recorded")
	require.NoError(t, logger.Sync(log))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "payment recorded")
	assert.Contains(t, string(data), `"level":"info"`)
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	log, err := logger.New(&logger.Config{
		Level:  "verbose",
		Format: "json",
		Output: "stdout",
	})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1))
	assert.True(t, log.Core().Enabled(0))
}
