package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/paleolimbot/strativerse/pkg/config"
	"github.com/paleolimbot/strativerse/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, logger.ParseLevel(tt.in), tt.in)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.LoggingConfig{Level: "debug", Format: "json"}
	log := logger.New(cfg, &buf)

	log.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.LoggingConfig{Level: "info", Format: "text"}
	log := logger.New(cfg, &buf)

	log.Debug("suppressed")
	assert.Empty(t, buf.String())

	log.Info("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}
