package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel(" DEBUG "))
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel("warning"))
	assert.Equal(t, LogLevel(""), NormalizeLogLevel("chatty"))
}

func TestMonitoringLogging_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := MonitoringLogging{Level: LogLevelWarn, Format: LogFormatJSON}.NewLogger(&buf, false)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])

	verbose := MonitoringLogging{Level: LogLevelError}.NewLogger(&buf, true)
	assert.True(t, verbose.Enabled(t.Context(), slog.LevelDebug))
}
