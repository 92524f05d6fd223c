package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"beacon/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(level string, debug, source bool) *config.Config {
	cfg := &config.Config{}
	cfg.Env.Env = "test"
	cfg.Env.ServiceName = "beacon"
	cfg.Env.Debug = debug
	cfg.Env.Log.Level = level
	cfg.Env.Log.Source = source

	return cfg
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warning", want: slog.LevelWarn},
		{input: " error ", want: slog.LevelError},
		{input: "trace", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLogLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_ServiceAttributesAndSource(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, newTestConfig("info", false, true))
	require.NoError(t, err)

	logger.Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "beacon", line["service"])
	assert.Equal(t, "test", line["env"])

	source, ok := line["source"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "log/logger_test.go", source["file"])
}

func TestNewLogger_DebugModeLowersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, newTestConfig("warn", true, false))
	require.NoError(t, err)

	logger.Debug("visible")
	assert.True(t, strings.Contains(buf.String(), "visible"))

	buf.Reset()
	quiet, err := newLogger(&buf, newTestConfig("warn", false, false))
	require.NoError(t, err)

	quiet.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestNewLogger_UnknownLevel(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, newTestConfig("loud", false, false))
	assert.Error(t, err)
}
