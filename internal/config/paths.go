package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolvePath picks the settings file location: the explicit path if set,
// then $TDL_CONFIG, then ~/.tdl/config.toml, then the OS config directory.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return expandPath(explicit), nil
	}
	if v := os.Getenv("TDL_CONFIG"); v != "" {
		return expandPath(v), nil
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
	}
	if dir := osUserConfigDir(); dir != "" {
		return filepath.Join(dir, "tdl", DefaultConfigFile), nil
	}
	return "", errors.New("no home or config directory available, use --config")
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return dir
}

// expandPath expands home directory and environment variables in paths.
// It supports ~/ or ~\ prefixes and %VAR% expansion on Windows.
func expandPath(p string) string {
	expanded := expandEnv(p)
	rest, ok := strings.CutPrefix(expanded, "~")
	if !ok || (rest != "" && rest[0] != '/' && !(runtime.GOOS == "windows" && rest[0] == '\\')) {
		return expanded
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return expanded
	}
	return filepath.Join(home, rest)
}

func expandEnv(p string) string {
	expanded := os.ExpandEnv(p)
	if runtime.GOOS != "windows" {
		return expanded
	}
	return expandWindowsEnv(expanded)
}

func expandWindowsEnv(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); {
		if p[i] == '%' {
			end := strings.IndexByte(p[i+1:], '%')
			if end >= 0 {
				key := p[i+1 : i+1+end]
				if key == "" {
					b.WriteByte('%')
					i++
					continue
				}
				if val, ok := os.LookupEnv(key); ok {
					b.WriteString(val)
				} else {
					b.WriteByte('%')
					b.WriteString(key)
					b.WriteByte('%')
				}
				i += end + 2
				continue
			}
		}
		b.WriteByte(p[i])
		i++
	}
	return b.String()
}
