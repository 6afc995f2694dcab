// Package config manages configuration for the resource dashboard.
//
// Defaults live in code; an optional dashboard.toml in the working
// directory or /etc overrides them, and DASHBOARD_* environment
// variables override the file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration values.
//
// Update intervals are deliberately absent: the video and telemetry
// polling rates are fixed design constants, not user settings.
type Config struct {
	// Logging
	LogLevel       string `mapstructure:"log_level"`
	LogFile        string `mapstructure:"log_file"`
	LogMaxBytes    int    `mapstructure:"log_max_bytes"`
	LogBackupCount int    `mapstructure:"log_backup_count"`
	LogToStdout    bool   `mapstructure:"log_stdout"`

	// Camera
	CameraDevice  string `mapstructure:"camera_device"` // empty = auto-discover
	CaptureWidth  int    `mapstructure:"capture_width"`
	CaptureHeight int    `mapstructure:"capture_height"`
	CaptureFPS    int    `mapstructure:"capture_fps"`

	// Display region the camera image is fitted into
	DisplayWidth  int `mapstructure:"display_width"`
	DisplayHeight int `mapstructure:"display_height"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		LogFile:        "./logs/dashboard.log",
		LogMaxBytes:    5 * 1024 * 1024, // 5 MB
		LogBackupCount: 3,
		LogToStdout:    true,

		CameraDevice:  "",
		CaptureWidth:  640,
		CaptureHeight: 480,
		CaptureFPS:    30,

		DisplayWidth:  640,
		DisplayHeight: 480,
	}
}

// Load reads dashboard.toml (if present) and environment overrides and
// returns a fully populated Config. A missing config file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("log_max_bytes", cfg.LogMaxBytes)
	v.SetDefault("log_backup_count", cfg.LogBackupCount)
	v.SetDefault("log_stdout", cfg.LogToStdout)
	v.SetDefault("camera_device", cfg.CameraDevice)
	v.SetDefault("capture_width", cfg.CaptureWidth)
	v.SetDefault("capture_height", cfg.CaptureHeight)
	v.SetDefault("capture_fps", cfg.CaptureFPS)
	v.SetDefault("display_width", cfg.DisplayWidth)
	v.SetDefault("display_height", cfg.DisplayHeight)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dashboard")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc")
	}

	v.SetEnvPrefix("dashboard")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	return cfg, nil
}

// Validate checks whether the Config values are reasonable and returns
// warnings. Returns ok=false if any setting is critically problematic.
func (c *Config) Validate() (ok bool, warnings []string) {
	ok = true

	if c.CaptureWidth < 160 || c.CaptureHeight < 120 {
		ok = false
		warnings = append(warnings, fmt.Sprintf("capture resolution %dx%d below minimum 160x120",
			c.CaptureWidth, c.CaptureHeight))
	}

	if c.CaptureWidth*c.CaptureHeight > 1920*1080 {
		warnings = append(warnings, "high capture resolution may cause USB bandwidth issues")
	}

	if c.CaptureFPS < 1 {
		ok = false
		warnings = append(warnings, fmt.Sprintf("capture fps %d must be at least 1", c.CaptureFPS))
	} else if c.CaptureFPS > 60 {
		warnings = append(warnings, fmt.Sprintf("capture fps %d > 60 is wasteful and likely unsupported", c.CaptureFPS))
	}

	if c.DisplayWidth <= 0 || c.DisplayHeight <= 0 {
		warnings = append(warnings, "non-positive display region; video will clamp to 320x240")
	}

	if c.LogMaxBytes > 0 && c.LogMaxBytes < 1024 {
		warnings = append(warnings, "log_max_bytes below 1 KB rotates constantly")
	}

	return ok, warnings
}
