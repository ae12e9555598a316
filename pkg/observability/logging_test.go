package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "INFO", want: slog.LevelInfo},
		{level: "warning", want: slog.LevelWarn},
		{level: "Error", want: slog.LevelError},
		{level: "", want: slog.LevelInfo},
		{level: "verbose", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(LogConfig{Level: tt.level, Output: &bytes.Buffer{}})
			ctx := context.Background()

			assert.True(t, logger.Enabled(ctx, tt.want))
			assert.False(t, logger.Enabled(ctx, tt.want-1))
		})
	}
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Format: "JSON", Output: &buf})

	logger.Info("dropped")
	logger.Warn("debt lock expired before release", "debt_id", "debt-1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "debt lock expired before release", record["msg"])
	assert.Equal(t, "debt-1", record["debt_id"])
}

func TestNewLogger_TextIsDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Output: &buf})

	logger.Info("sweep done", "lines_marked", 2)

	assert.Contains(t, buf.String(), `msg="sweep done"`)
	assert.Contains(t, buf.String(), "lines_marked=2")
}

func TestInitLogger_SetsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Level: "info", Format: "json", Output: &buf})

	assert.Equal(t, logger.Handler(), slog.Default().Handler())
	slog.Info("via default")
	assert.Contains(t, buf.String(), `"msg":"via default"`)
}
