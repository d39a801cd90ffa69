package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, ColorAlways, cfg.Color)
	assert.Equal(t, "$", cfg.Glyph)
	assert.Equal(t, "#", cfg.RootGlyph)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Zero(t, cfg.MaxPathWidth)
	assert.Zero(t, cfg.MaxKubeWidth, "kube context names are shown in full unless limited")
	assert.Equal(t, "/etc/debian_chroot", cfg.ChrootFile)
	assert.True(t, cfg.Segments.Venv)
	assert.True(t, cfg.Segments.Kube)
	assert.True(t, cfg.Segments.VCS)
	assert.True(t, cfg.Segments.Chroot)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"bad color", func(c *Config) { c.Color = "sometimes" }, "color must be one of"},
		{"empty glyph", func(c *Config) { c.Glyph = "" }, "glyph must not be empty"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout must be positive"},
		{"negative width", func(c *Config) { c.MaxPathWidth = -1 }, "width limits"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_Level(t *testing.T) {
	cfg := DefaultConfig()
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	cfg.LogLevel = "debug"
	level, err = cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)
}
