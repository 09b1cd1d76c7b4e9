package config

import (
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides settings from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TDL_EXIT_KEY"); v != "" {
		cfg.Keymapping.Exit = v
	}
	if v := os.Getenv("TDL_PANEL_TOGGLE_KEY"); v != "" {
		cfg.Keymapping.PanelToggle = v
	}
	if v := os.Getenv("TDL_PALETTE_PRIMARY"); v != "" {
		cfg.Palette.Primary = v
	}
	if v := os.Getenv("TDL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TDL_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TDL_LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}
	if v := os.Getenv("TDL_LOG_TIMESTAMPS"); v != "" {
		cfg.Log.Timestamps = boolFromString(v)
	}
	if v := os.Getenv("TDL_HOOK"); v != "" {
		cfg.Hooks.AfterSave = v
	}
	if v := os.Getenv("TDL_HOOK_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Hooks.TimeoutSeconds = i
		}
	}
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
