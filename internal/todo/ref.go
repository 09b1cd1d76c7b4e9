package todo

import (
	"fmt"
	"strconv"
	"strings"
)

// RefKind says which task field a reference matches against.
type RefKind int

const (
	RefName RefKind = iota
	RefID
)

// Ref is a parsed task reference.
type Ref struct {
	Kind RefKind
	ID   int
	Name string
}

func (r Ref) String() string {
	if r.Kind == RefID {
		return fmt.Sprintf(":%d", r.ID)
	}
	return r.Name
}

// ParseRef classifies s as an id reference (it contains ':') or a name
// reference. An id reference carries the colon as its first or last
// character and an integer in the rest.
func ParseRef(s string) (Ref, error) {
	if !strings.Contains(s, ":") {
		return Ref{Kind: RefName, Name: s}, nil
	}

	var num string
	switch {
	case strings.HasPrefix(s, ":"):
		num = s[1:]
	case strings.HasSuffix(s, ":"):
		num = s[:len(s)-1]
	default:
		return Ref{}, fmt.Errorf("%w: %q (use :<id> or <id>:)", ErrInvalidReference, s)
	}

	id, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %q is not a task id", ErrInvalidReference, s)
	}
	return Ref{Kind: RefID, ID: id}, nil
}

// Resolve returns the first task matching ref in list order.
func (l *List) Resolve(ref Ref) (*Task, error) {
	var t *Task
	if ref.Kind == RefID {
		t = l.FindByID(ref.ID)
	} else {
		t = l.FindByName(ref.Name)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return t, nil
}

// ResolveString parses s and resolves it against the list.
func (l *List) ResolveString(s string) (*Task, error) {
	ref, err := ParseRef(s)
	if err != nil {
		return nil, err
	}
	return l.Resolve(ref)
}
