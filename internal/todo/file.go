package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// IOError reports a failed read or write of the task file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s todo file %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Load reads, validates, and parses the task file at path.
func Load(path string) (*List, error) {
	l, _, err := load(path)
	return l, err
}

func load(path string) (*List, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &IOError{Op: "read", Path: path, Err: err}
	}

	if res := ValidateDocument(data); !res.Valid {
		return nil, data, fmt.Errorf("invalid todo file %s: %w", path, res.Err())
	}

	var l List
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, data, fmt.Errorf("parse todo file: %w", err)
	}
	l.syncLastID()
	return &l, data, nil
}

// LoadOrInit loads the task file at path. If it is missing or unusable, an
// empty list named after the file is created and written to path. An
// unusable file is kept next to the original with a ".corrupt" suffix.
func LoadOrInit(path string, logger *log.Logger) (*List, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	l, data, err := load(path)
	if err == nil {
		logger.Debug("loaded todo file", "path", path, "tasks", len(l.Tasks))
		return l, nil
	}

	var ioErr *IOError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("creating todo file", "path", path)
	case errors.As(err, &ioErr):
		logger.Warn("todo file unreadable, starting empty", "path", path, "err", err)
	default:
		logger.Warn("todo file invalid, starting empty", "path", path, "err", err)
		backup := path + ".corrupt"
		if werr := os.WriteFile(backup, data, 0644); werr != nil {
			logger.Error("backing up invalid todo file", "path", backup, "err", werr)
		} else {
			logger.Info("backed up invalid todo file", "path", backup)
		}
	}

	l = New(NameFromPath(path))
	if err := l.Save(path); err != nil {
		return nil, err
	}
	return l, nil
}

// Save writes the list to path with 2-space indentation, replacing the whole
// file. The data goes to a temporary file in the same directory first and is
// then renamed over path.
func (l *List) Save(path string) error {
	tasks := l.Tasks
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(struct {
		Name  string `json:"name"`
		Tasks []Task `json:"tasks"`
	}{l.Name, tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal todo file: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(path, data, 0644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// NameFromPath derives a list name from a task file path:
// "lists/groceries.json" becomes "groceries".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return base
	}
	return name
}

// FileStore persists a list to a fixed path.
type FileStore struct {
	Path string
}

// Save writes l to the store's path.
func (s FileStore) Save(l *List) error {
	return l.Save(s.Path)
}
