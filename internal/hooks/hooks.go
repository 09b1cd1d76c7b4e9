// Package hooks runs the optional external command configured to fire after
// each saved change to the todo file.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Options describes one hook invocation.
type Options struct {
	// Command is the hook executable. Empty disables the hook.
	Command string
	// TodoPath is the file that was just saved.
	TodoPath string
	// Verb and Argument describe the command that caused the save.
	Verb     string
	Argument string
	// WorkDir defaults to the directory of TodoPath.
	WorkDir string
	// Timeout bounds the hook run. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// Result reports what happened.
type Result struct {
	Ran      bool
	Command  string
	ExitCode int
	Output   string
}

// Invoke runs the hook as `<command> <todo-file> <verb> <argument>`.
//
// The same values are exported as TDL_TODO_FILE, TDL_VERB and TDL_ARGUMENT.
// A non-zero exit status is returned as an error together with the result.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	command := strings.TrimSpace(opts.Command)
	if command == "" {
		return Result{}, nil
	}
	if opts.TodoPath == "" {
		return Result{}, fmt.Errorf("hook %s: todo path is empty", command)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, command, opts.TodoPath, opts.Verb, opts.Argument)
	cmd.Dir = opts.WorkDir
	if cmd.Dir == "" {
		cmd.Dir = filepath.Dir(opts.TodoPath)
	}
	cmd.Env = append(os.Environ(),
		"TDL_TODO_FILE="+opts.TodoPath,
		"TDL_VERB="+opts.Verb,
		"TDL_ARGUMENT="+opts.Argument,
	)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = time.Second

	result := Result{Command: strings.Join(cmd.Args, " ")}
	err := cmd.Run()
	result.Output = strings.TrimSpace(out.String())

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Ran = true
		return result, nil
	case errors.As(err, &exitErr):
		result.Ran = true
		result.ExitCode = exitErr.ExitCode()
		if ctx.Err() != nil {
			return result, fmt.Errorf("hook %s: %w", command, ctx.Err())
		}
		return result, fmt.Errorf("hook %s exited with code %d", command, result.ExitCode)
	default:
		result.ExitCode = -1
		return result, fmt.Errorf("hook %s: %w", command, err)
	}
}
