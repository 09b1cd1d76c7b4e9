// Package config handles settings loading and defaults.
//
// Settings are loaded in priority order:
//  1. Built-in defaults
//  2. Settings file (TOML)
//  3. Environment variables (TDL_*)
//  4. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// The settings file is found at, in order:
//   - the path given with --config
//   - $TDL_CONFIG
//   - ~/.tdl/config.toml
//   - the OS config directory (e.g. $XDG_CONFIG_HOME/tdl/config.toml) when the
//     home directory cannot be determined
//
// A missing settings file is created with the documented defaults, see
// ExampleConfig.
package config
