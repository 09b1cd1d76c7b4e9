package config

// ExampleConfig returns the settings file written on first run.
func ExampleConfig() string {
	return `# tdl settings
# Values can be overridden by environment variables or CLI flags.

[keymapping]
# Key chord that quits tdl
exit = "ctrl+q"
# Key chord that shows or hides the info panel
panel_toggle = "ctrl+o"

[palette]
# Accent color: an ANSI name (blue, bright-magenta), an ANSI number, or a hex code
primary = "blue"

[log]
# debug, info, warn, error
level = "info"
# text, json, logfmt
format = "text"
# Per-run log files are written below this directory (supports ~ expansion)
dir = "~/.tdl/logs"
timestamps = true
caller = false

[hooks]
# Command run after every save, called as: <after_save> <todo-file> <verb> <argument>
# after_save = "/path/to/hook.sh"
timeout_seconds = 10
`
}
