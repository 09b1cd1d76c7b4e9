// Package cmd implements the CLI command structure for tdl.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tdl/internal/command"
	"github.com/nibzard/tdl/internal/config"
	"github.com/nibzard/tdl/internal/hooks"
	"github.com/nibzard/tdl/internal/logging"
	"github.com/nibzard/tdl/internal/todo"
	"github.com/nibzard/tdl/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrUsage is returned when the command line is incomplete or malformed.
var ErrUsage = errors.New("usage error")

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the tdl CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tdl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	flags, err := config.Parse(fs, args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stderr)
		return fmt.Errorf("%w: missing todo file argument", ErrUsage)
	}

	switch remaining[0] {
	case "exec":
		return execCommand(ctx, flags, remaining[1:])
	case "ls":
		return lsCommand(remaining[1:])
	case "tail":
		return tailCommand(ctx, flags, remaining[1:])
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	}

	if len(remaining) > 1 {
		printUsage(fs, stderr)
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, remaining[1:])
	}
	return tuiCommand(ctx, flags, remaining[0])
}

// loadConfig reads the settings file, creating it on first use.
func loadConfig(flags *config.Flags) (*config.Config, error) {
	cfg, err := flags.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// session bundles what one command needs to work on a todo file.
type session struct {
	todoPath string
	runLog   *logging.RunLogger
	logger   *log.Logger
	engine   *command.Engine
}

// openSession sets up logging, loads (or creates) the todo file and builds
// the engine that mutates it.
func openSession(ctx context.Context, cfg *config.Config, todoPath string) (*session, error) {
	abs, err := filepath.Abs(todoPath)
	if err != nil {
		return nil, fmt.Errorf("resolving todo path: %w", err)
	}

	s := &session{todoPath: abs, logger: logging.Discard()}
	runLog, err := logging.NewRunLogger(cfg.Log.Dir, abs, logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Timestamps: cfg.Log.Timestamps,
		Caller:     cfg.Log.Caller,
	})
	if err != nil {
		fmt.Fprintf(stderr, "warning: logging disabled: %v\n", err)
	} else {
		s.runLog = runLog
		s.logger = runLog.Logger
	}

	if cfg.Created {
		s.logger.Info("wrote default settings", "path", cfg.Path)
	}
	for _, key := range cfg.Undecoded {
		s.logger.Warn("unknown settings key", "key", key, "path", cfg.Path)
	}

	list, err := todo.LoadOrInit(abs, s.logger)
	if err != nil {
		s.Close()
		return nil, err
	}

	opts := []command.Option{command.WithLogger(s.logger)}
	if strings.TrimSpace(cfg.Hooks.AfterSave) != "" {
		opts = append(opts, command.WithAfterSave(s.afterSaveHook(ctx, cfg.Hooks)))
	}
	s.engine = command.New(list, todo.FileStore{Path: abs}, opts...)
	return s, nil
}

func (s *session) afterSaveHook(ctx context.Context, h config.Hooks) command.AfterSaveFunc {
	return func(verb command.Verb, argument string) error {
		result, err := hooks.Invoke(ctx, hooks.Options{
			Command:  h.AfterSave,
			TodoPath: s.todoPath,
			Verb:     verb.String(),
			Argument: argument,
			Timeout:  time.Duration(h.TimeoutSeconds) * time.Second,
		})
		if result.Ran {
			s.logger.Debug("hook ran", "command", result.Command, "exit_code", result.ExitCode, "output", result.Output)
		}
		return err
	}
}

// Close closes the run log.
func (s *session) Close() error {
	return s.runLog.Close()
}

// tuiCommand runs the interactive shell on todoPath.
func tuiCommand(ctx context.Context, flags *config.Flags, todoPath string) error {
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("the interactive shell requires a TTY (use 'tdl exec' for scripting)")
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, cfg, todoPath)
	if err != nil {
		return err
	}
	defer s.Close()

	s.logger.Info("starting shell", "todo", s.todoPath)
	err = ui.RunTUI(ctx, ui.Options{
		Engine:   s.engine,
		TodoPath: s.todoPath,
		Keys:     cfg.Keymapping,
		Palette:  cfg.Palette,
	})
	if err != nil {
		s.logger.Error("shell stopped", "err", err)
		return err
	}
	s.logger.Info("shell closed")
	fmt.Fprintln(stdout, "Thanks for testing...")
	return nil
}

// execCommand runs a single command against a todo file.
func execCommand(ctx context.Context, flags *config.Flags, args []string) error {
	fs := flag.NewFlagSet("tdl exec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	remaining := fs.Args()
	if len(remaining) < 3 {
		return fmt.Errorf("%w: tdl exec <todo-file> <verb> <argument>", ErrUsage)
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, cfg, remaining[0])
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.engine.Execute(remaining[1], strings.Join(remaining[2:], " ")); err != nil {
		return err
	}
	res, _ := s.engine.LastResult()
	fmt.Fprintln(stdout, res.Message)
	if res.Warning != "" {
		fmt.Fprintf(stderr, "warning: %s\n", res.Warning)
	}
	return nil
}

// lsCommand prints the tasks of a todo file without modifying it.
func lsCommand(args []string) error {
	fs := flag.NewFlagSet("tdl ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pending := fs.Bool("pending", false, "Only show pending tasks")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	remaining := fs.Args()
	if len(remaining) != 1 {
		return fmt.Errorf("%w: tdl ls [-pending] <todo-file>", ErrUsage)
	}

	list, err := todo.Load(remaining[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s\n", list.Name)
	shown := 0
	for _, t := range list.Tasks {
		if *pending && t.Done() {
			continue
		}
		printTask(stdout, t)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(stdout, "  No tasks found.")
	}
	return nil
}

// tailCommand tails the latest log file written for a todo file.
func tailCommand(ctx context.Context, flags *config.Flags, args []string) error {
	fs := flag.NewFlagSet("tdl tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	remaining := fs.Args()
	if len(remaining) != 1 {
		return fmt.Errorf("%w: tdl tail [-f] [-n lines] <todo-file>", ErrUsage)
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolving todo path: %w", err)
	}

	logDir, err := logging.FindLogDir(cfg.Log.Dir, abs)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "tdl version %s\n", Version)
	return nil
}

// printTask prints a single task in the same layout as the shell.
func printTask(w io.Writer, t todo.Task) {
	box := "[ ]"
	if t.Done() {
		box = "[x]"
	}
	fmt.Fprintf(w, "  %s %d  %s\n", box, t.ID, t.Name)
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tdl - a terminal task list driven by short commands")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tdl [options] <todo-file>")
	fmt.Fprintln(w, "  tdl [options] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  exec <todo-file> <verb> <argument>  Run one command and exit")
	fmt.Fprintln(w, "  ls [-pending] <todo-file>           List tasks")
	fmt.Fprintln(w, "  tail [-f] [-n lines] <todo-file>    Tail the latest log for a todo file")
	fmt.Fprintln(w, "  version                             Show version information")
	fmt.Fprintln(w, "  help                                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Shell commands:")
	fmt.Fprintln(w, "  add <name>       Add a pending task")
	fmt.Fprintln(w, "  check <ref>      Mark a task completed")
	fmt.Fprintln(w, "  uncheck <ref>    Mark a task pending")
	fmt.Fprintln(w, "  rm <ref>         Remove a task")
	fmt.Fprintln(w, "  A ref is a task name, or an id written as :3 or 3:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(stderr)
}
