package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		expected slog.Level
	}{
		{name: "default log level (info)", logLevel: "", expected: slog.LevelInfo},
		{name: "debug log level", logLevel: "debug", expected: slog.LevelDebug},
		{name: "upper case is accepted", logLevel: "DEBUG", expected: slog.LevelDebug},
		{name: "warn log level", logLevel: "warn", expected: slog.LevelWarn},
		{name: "error log level", logLevel: "error", expected: slog.LevelError},
		{name: "invalid log level defaults to info", logLevel: "invalid", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.logLevel)
			assert.Equal(t, tt.expected, LevelFromEnv())
		})
	}
}

func TestNewLogger_WritesJSON(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	var buf bytes.Buffer

	logger := NewLogger(&buf)
	logger.Info("feed fetched", slog.String("category", "総合"), slog.Int("items", 10))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "feed fetched", entry["msg"])
	assert.Equal(t, "総合", entry["category"])
	assert.Equal(t, float64(10), entry["items"])
	assert.NotContains(t, entry, "source", "source is only attached at debug level")
}

func TestNewLogger_InfoSuppressesDebug(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	var buf bytes.Buffer

	logger := NewLogger(&buf)
	logger.Debug("hidden")

	assert.Empty(t, buf.String())
}

func TestNewLogger_DebugAddsSource(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	var buf bytes.Buffer

	logger := NewLogger(&buf)
	logger.Debug("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Contains(t, entry, "source")
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
