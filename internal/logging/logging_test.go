package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		level, err := ParseLevel(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, level, tt.input)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetupTextOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := Setup(Config{Level: "warn", Output: &buf})
	require.NoError(t, err)
	defer cleanup()

	logger.Info("hidden")
	logger.Warn("shown", "sheet", "Sheet1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "sheet=Sheet1")
}

func TestMultiHandler(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	m := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	assert.True(t, m.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(m).With("path", "data.xlsx")
	logger.Debug("loaded")

	assert.Contains(t, debugBuf.String(), "path=data.xlsx")
	assert.Empty(t, errorBuf.String())
}
