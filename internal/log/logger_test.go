package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LeJamon/goMarketd/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggerWritesConsoleAndFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "marketd.log")
	var console bytes.Buffer

	logger, err := newLogger(config.LogConfig{Level: "info", File: file, MaxSizeMB: 1}, false, &console)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("offer created", zap.Uint64("offerId", 7))
	require.NoError(t, logger.Sync())

	assert.Contains(t, console.String(), "offer created")
	assert.NotContains(t, console.String(), "hidden")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "offer created", rec["message"])
	assert.Equal(t, float64(7), rec["offerId"])
}

func TestLoggerDebugOverridesLevel(t *testing.T) {
	var console bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "error"}, true, &console)
	require.NoError(t, err)

	logger.Debug("visible")
	assert.Contains(t, console.String(), "visible")
}

func TestLoggerRejectsBadLevel(t *testing.T) {
	_, err := newLogger(config.LogConfig{Level: "loud"}, false, &bytes.Buffer{})
	assert.Error(t, err)
}
