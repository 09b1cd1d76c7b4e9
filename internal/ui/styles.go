package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// fallbackColor is ANSI blue, the default palette.primary.
const fallbackColor = lipgloss.Color("4")

var errorColor = lipgloss.Color("1")

// ansiColors maps the sixteen ANSI color names to their numbers.
var ansiColors = map[string]string{
	"black":          "0",
	"red":            "1",
	"green":          "2",
	"yellow":         "3",
	"blue":           "4",
	"magenta":        "5",
	"cyan":           "6",
	"white":          "7",
	"bright-black":   "8",
	"gray":           "8",
	"grey":           "8",
	"bright-red":     "9",
	"bright-green":   "10",
	"bright-yellow":  "11",
	"bright-blue":    "12",
	"bright-magenta": "13",
	"bright-cyan":    "14",
	"bright-white":   "15",
}

// ParseColor turns a palette value into a lipgloss color. It accepts ANSI
// color names, ANSI 256 numbers and #rgb / #rrggbb hex values. Anything else
// gives the default color.
func ParseColor(value string) lipgloss.Color {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, "_", "-")
	if strings.HasPrefix(v, "bright") && !strings.HasPrefix(v, "bright-") {
		v = "bright-" + strings.TrimPrefix(v, "bright")
	}

	if n, ok := ansiColors[v]; ok {
		return lipgloss.Color(n)
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 255 {
		return lipgloss.Color(v)
	}
	if isHexColor(v) {
		return lipgloss.Color(v)
	}
	return fallbackColor
}

func isHexColor(v string) bool {
	if !strings.HasPrefix(v, "#") {
		return false
	}
	digits := v[1:]
	if len(digits) != 3 && len(digits) != 6 {
		return false
	}
	_, err := strconv.ParseUint(digits, 16, 32)
	return err == nil
}

type styles struct {
	title   lipgloss.Style
	id      lipgloss.Style
	done    lipgloss.Style
	pending lipgloss.Style
	panel   lipgloss.Style
	label   lipgloss.Style
	status  lipgloss.Style
	err     lipgloss.Style
	help    lipgloss.Style
}

func newStyles(primary string) styles {
	color := ParseColor(primary)
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(color),
		id:      lipgloss.NewStyle().Foreground(color),
		done:    lipgloss.NewStyle().Faint(true),
		pending: lipgloss.NewStyle(),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Padding(0, 1),
		label:  lipgloss.NewStyle().Bold(true),
		status: lipgloss.NewStyle().Foreground(color),
		err:    lipgloss.NewStyle().Foreground(errorColor),
		help:   lipgloss.NewStyle().Faint(true),
	}
}
