package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrFlags wraps command line parsing failures.
var ErrFlags = errors.New("invalid flags")

// Flags holds the parsed settings flags of one invocation.
type Flags struct {
	fs     *flag.FlagSet
	values *flagValues
}

// Parse registers the settings flags on fs and parses args. Positional
// arguments are left in fs.Args(). The settings file is not touched until
// Load is called on the result.
func Parse(fs *flag.FlagSet, args []string) (*Flags, error) {
	if fs == nil {
		fs = flag.NewFlagSet("tdl", flag.ContinueOnError)
	}
	values := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFlags, err)
	}
	return &Flags{fs: fs, values: values}, nil
}

// Load resolves the settings file, creating it with defaults when missing,
// and applies environment variables and the parsed flags on top.
func (f *Flags) Load() (*Config, error) {
	path, err := ResolvePath(f.values.configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving settings path: %w", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading settings file %s: %w", path, err)
	}

	loadFromEnv(cfg)
	f.values.apply(f.fs, cfg)
	finalizeConfig(cfg)
	return cfg, nil
}

// Load parses args with Parse and loads the settings they point at.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	flags, err := Parse(fs, args)
	if err != nil {
		return nil, err
	}
	return flags.Load()
}

// LoadFile reads the TOML settings file at path. A missing file is created
// from ExampleConfig first.
func LoadFile(path string) (*Config, error) {
	created := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := writeDefaultFile(path); err != nil {
			return nil, err
		}
		created = true
	} else if err != nil {
		return nil, err
	}

	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	for _, key := range meta.Undecoded() {
		cfg.Undecoded = append(cfg.Undecoded, key.String())
	}

	setDefaults(cfg)
	cfg.Path = path
	cfg.Created = created
	return cfg, nil
}

func writeDefaultFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("write default settings: %w", err)
	}
	return nil
}

// finalizeConfig computes derived values.
func finalizeConfig(cfg *Config) {
	setDefaults(cfg)
	cfg.Log.Dir = expandPath(cfg.Log.Dir)
}
