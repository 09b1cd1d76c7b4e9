package config

import "flag"

// flagValues holds raw flag values until the file and env are loaded.
type flagValues struct {
	configPath   string
	logLevel     string
	logDir       string
	primaryColor string
	hook         string
}

func registerFlags(fs *flag.FlagSet) *flagValues {
	v := &flagValues{}
	fs.StringVar(&v.configPath, "config", "", "Path to settings file")
	fs.StringVar(&v.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	fs.StringVar(&v.logDir, "log-dir", "", "Log directory")
	fs.StringVar(&v.primaryColor, "color", "", "Accent color (ANSI name, number, or hex)")
	fs.StringVar(&v.hook, "hook", "", "Command to run after every save")
	return v
}

// apply copies explicitly set flags onto cfg.
func (v *flagValues) apply(fs *flag.FlagSet, cfg *Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.Log.Level = v.logLevel
		case "log-dir":
			cfg.Log.Dir = v.logDir
		case "color":
			cfg.Palette.Primary = v.primaryColor
		case "hook":
			cfg.Hooks.AfterSave = v.hook
		}
	})
}
