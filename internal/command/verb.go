// Package command applies textual commands to a task list and persists the
// result.
package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCommand is returned for a verb outside the supported set.
var ErrUnknownCommand = errors.New("unknown command")

// Verb is one of the supported command verbs.
type Verb int

const (
	VerbAdd Verb = iota + 1
	VerbCheck
	VerbUncheck
	VerbRemove
)

// malformedVerb is substituted by SplitLine for a line that is not a
// "<verb> <argument>" pair. It contains a space, so it is never the verb half
// of a split line, and it never parses.
const malformedVerb = "<malformed line>"

func (v Verb) String() string {
	switch v {
	case VerbAdd:
		return "add"
	case VerbCheck:
		return "check"
	case VerbUncheck:
		return "uncheck"
	case VerbRemove:
		return "rm"
	default:
		return fmt.Sprintf("verb(%d)", int(v))
	}
}

// ParseVerb maps the textual verb to a Verb. Matching is exact.
func ParseVerb(s string) (Verb, error) {
	switch s {
	case "add":
		return VerbAdd, nil
	case "check":
		return VerbCheck, nil
	case "uncheck":
		return VerbUncheck, nil
	case "rm":
		return VerbRemove, nil
	case malformedVerb:
		return 0, fmt.Errorf("%w: expected \"<verb> <argument>\" (verbs: %s)", ErrUnknownCommand, verbList())
	default:
		return 0, fmt.Errorf("%w: %q (verbs: %s)", ErrUnknownCommand, s, verbList())
	}
}

// SplitLine splits a raw input line once on its first space. Surrounding
// whitespace is trimmed from the line and from the argument.
//
// A line without a space or with a blank argument yields a verb that never
// parses, so the caller still gets an error back from Execute.
func SplitLine(line string) (verb, argument string) {
	line = strings.TrimSpace(line)
	verb, argument, found := strings.Cut(line, " ")
	argument = strings.TrimSpace(argument)
	if !found || argument == "" {
		return malformedVerb, line
	}
	return verb, argument
}

func verbList() string {
	verbs := []Verb{VerbAdd, VerbCheck, VerbUncheck, VerbRemove}
	names := make([]string, len(verbs))
	for i, v := range verbs {
		names[i] = v.String()
	}
	return strings.Join(names, ", ")
}
