package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickpay/internal/shared/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestInit_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quickpay.log")
	require.NoError(t, Init(&config.LoggerConfig{Level: "debug", Format: "json", OutputPath: path}, false))
	t.Cleanup(func() { Logger = nil })

	NewLogger().Named("orders").Infow("order created", "order_id", "order_abc")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "order created", line["msg"])
	assert.Equal(t, "orders", line["logger"])
	assert.Equal(t, "order_abc", line["order_id"])
	assert.NotContains(t, line, slog.SourceKey)
}
