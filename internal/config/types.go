package config

// Default values.
const (
	DefaultExitKey        = "ctrl+q"
	DefaultPanelToggleKey = "ctrl+o"
	DefaultPrimaryColor   = "blue"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultLogDir         = "~/.tdl/logs"
	DefaultHookTimeout    = 10
	DefaultConfigFile     = "config.toml"
	DefaultConfigDir      = ".tdl"
)

// Config holds the full settings for tdl.
type Config struct {
	Keymapping Keymapping `toml:"keymapping"`
	Palette    Palette    `toml:"palette"`
	Log        LogConfig  `toml:"log"`
	Hooks      Hooks      `toml:"hooks"`

	// Path is the settings file the values were read from (computed).
	Path string `toml:"-"`
	// Created is true when Load wrote a fresh settings file.
	Created bool `toml:"-"`
	// Undecoded lists keys in the settings file that tdl does not know.
	Undecoded []string `toml:"-"`
}

// Keymapping holds key chords in bubbletea notation ("ctrl+q", "f2", "esc").
type Keymapping struct {
	Exit        string `toml:"exit"`
	PanelToggle string `toml:"panel_toggle"`
}

// Palette holds display colors. Values may be ANSI color names, ANSI
// numbers, or hex codes.
type Palette struct {
	Primary string `toml:"primary"`
}

// LogConfig controls the per-run log file.
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Dir        string `toml:"dir"`
	Timestamps bool   `toml:"timestamps"`
	Caller     bool   `toml:"caller"`
}

// Hooks holds external commands run around task list changes.
type Hooks struct {
	// AfterSave runs after every successful save of the task file.
	AfterSave      string `toml:"after_save"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// setDefaults fills every blank field with its default value.
func setDefaults(cfg *Config) {
	if cfg.Keymapping.Exit == "" {
		cfg.Keymapping.Exit = DefaultExitKey
	}
	if cfg.Keymapping.PanelToggle == "" {
		cfg.Keymapping.PanelToggle = DefaultPanelToggleKey
	}
	if cfg.Palette.Primary == "" {
		cfg.Palette.Primary = DefaultPrimaryColor
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = DefaultLogDir
	}
	if cfg.Hooks.TimeoutSeconds <= 0 {
		cfg.Hooks.TimeoutSeconds = DefaultHookTimeout
	}
}
