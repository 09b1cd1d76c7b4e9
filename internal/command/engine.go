package command

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tdl/internal/todo"
)

// Persister writes a whole list somewhere durable.
type Persister interface {
	Save(l *todo.List) error
}

// AfterSaveFunc runs after a command has been saved. Its error does not undo
// the command.
type AfterSaveFunc func(verb Verb, argument string) error

// Result is the outcome of one Execute call.
type Result struct {
	Verb     Verb
	Argument string
	// Task is the task the command touched, as it was after the command.
	Task    todo.Task
	Message string
	Err     error
	// Warning is set when the command succeeded but the after-save step failed.
	Warning string
}

// OK reports whether the command succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Status returns the one-line text shown to the user.
func (r Result) Status() string {
	switch {
	case r.Err != nil:
		return "error: " + r.Err.Error()
	case r.Warning != "":
		return r.Message + " (" + r.Warning + ")"
	default:
		return r.Message
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for executed commands.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAfterSave registers fn to run after every successful save.
func WithAfterSave(fn AfterSaveFunc) Option {
	return func(e *Engine) {
		e.afterSave = fn
	}
}

// Engine executes commands against a task list.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	list      *todo.List
	store     Persister
	logger    *log.Logger
	afterSave AfterSaveFunc
	last      Result
	ran       bool
}

// New returns an engine that owns list and saves it through store.
func New(list *todo.List, store Persister, opts ...Option) *Engine {
	if list == nil {
		list = todo.New("")
	}
	e := &Engine{
		list:   list,
		store:  store,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one command.
//
// The command is applied to a copy of the list. The copy replaces the
// current list only after it has been saved, so a failed command or a failed
// save leaves the list exactly as it was.
func (e *Engine) Execute(verb, argument string) error {
	res := Result{Argument: argument}

	v, err := ParseVerb(verb)
	if err != nil {
		res.Err = err
		return e.finish(verb, res)
	}
	res.Verb = v

	next := e.list.Clone()
	task, err := apply(next, v, argument)
	if err != nil {
		res.Err = err
		return e.finish(verb, res)
	}
	res.Task = task

	if e.store != nil {
		if err := e.store.Save(next); err != nil {
			res.Err = err
			return e.finish(verb, res)
		}
	}
	e.list = next
	res.Message = describe(v, task)

	if e.afterSave != nil {
		if err := e.afterSave(v, argument); err != nil {
			res.Warning = err.Error()
		}
	}
	return e.finish(verb, res)
}

// Submit splits a raw input line and executes it.
func (e *Engine) Submit(line string) error {
	verb, argument := SplitLine(line)
	return e.Execute(verb, argument)
}

// Snapshot returns a copy of the current list for rendering.
func (e *Engine) Snapshot() *todo.List {
	return e.list.Clone()
}

// LastResult returns the result of the most recent Execute call. ok is false
// before the first call.
func (e *Engine) LastResult() (res Result, ok bool) {
	return e.last, e.ran
}

func (e *Engine) finish(verb string, res Result) error {
	e.last = res
	e.ran = true

	switch {
	case res.Err != nil:
		e.logger.Warn("command failed", "verb", verb, "argument", res.Argument, "err", res.Err)
	case res.Warning != "":
		e.logger.Warn("after-save step failed", "verb", verb, "argument", res.Argument, "warning", res.Warning)
	default:
		e.logger.Debug("command executed", "verb", verb, "argument", res.Argument, "task", res.Task.ID)
	}
	return res.Err
}

func apply(l *todo.List, v Verb, argument string) (todo.Task, error) {
	if v == VerbAdd {
		return l.Add(argument)
	}

	t, err := l.ResolveString(argument)
	if err != nil {
		return todo.Task{}, err
	}
	switch v {
	case VerbCheck:
		t.Status = todo.StatusCompleted
	case VerbUncheck:
		t.Status = todo.StatusPending
	case VerbRemove:
		removed := *t
		if err := l.Remove(removed.ID); err != nil {
			return todo.Task{}, err
		}
		return removed, nil
	default:
		return todo.Task{}, fmt.Errorf("%w: %s", ErrUnknownCommand, v)
	}
	return *t, nil
}

func describe(v Verb, t todo.Task) string {
	var action string
	switch v {
	case VerbAdd:
		action = "added"
	case VerbCheck:
		action = "checked"
	case VerbUncheck:
		action = "unchecked"
	case VerbRemove:
		action = "removed"
	}
	return fmt.Sprintf("%s %q (:%d)", action, t.Name, t.ID)
}
