package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 640, cfg.CaptureWidth)
	assert.Equal(t, 480, cfg.CaptureHeight)
	assert.Equal(t, 30, cfg.CaptureFPS)
	assert.Equal(t, 640, cfg.DisplayWidth)
	assert.Equal(t, 480, cfg.DisplayHeight)
	assert.Empty(t, cfg.CameraDevice, "camera defaults to auto-discovery")

	ok, _ := cfg.Validate()
	assert.True(t, ok, "defaults must validate")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level = "DEBUG"
camera_device = "/dev/video2"
capture_fps = 15
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel, "level is normalized to lower case")
	assert.Equal(t, "/dev/video2", cfg.CameraDevice)
	assert.Equal(t, 15, cfg.CaptureFPS)
	// Untouched keys keep their defaults.
	assert.Equal(t, 640, cfg.CaptureWidth)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "dashboard.toml"))
	if err != nil {
		// An explicitly named but unreadable file is reported; the
		// returned config still carries usable defaults.
		assert.Equal(t, 640, cfg.CaptureWidth)
		return
	}
	assert.Equal(t, DefaultConfig().CaptureFPS, cfg.CaptureFPS)
}

func TestValidateRejectsBadCapture(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CaptureWidth = 10
	cfg.CaptureHeight = 10

	ok, warnings := cfg.Validate()
	assert.False(t, ok)
	assert.NotEmpty(t, warnings)
}

func TestValidateRejectsZeroFPS(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CaptureFPS = 0

	ok, _ := cfg.Validate()
	assert.False(t, ok)
}

func TestValidateWarnsOnDegenerateDisplay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisplayWidth = 0

	ok, warnings := cfg.Validate()
	assert.True(t, ok, "degenerate display clamps at render time, not fatal")
	assert.NotEmpty(t, warnings)
}
