package todo

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
)

func TestLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")

	original := New("groceries")
	original.Add("Buy milk")
	original.Add("Buy eggs")
	original.Add("Buy bread")
	original.SetStatus(2, StatusCompleted)
	original.Remove(1)

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Name != original.Name {
		t.Errorf("Name: got %q, want %q", loaded.Name, original.Name)
	}
	if diff := cmp.Diff(original.Tasks, loaded.Tasks); diff != "" {
		t.Errorf("tasks mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestSaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")
	l := New("groceries")
	l.Add("Buy milk")

	if err := l.Save(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := `{
  "name": "groceries",
  "tasks": [
    {
      "id": 1,
      "name": "Buy milk",
      "status": "pending"
    }
  ]
}
`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("file content mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveEmptyListWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")
	l := &List{Name: "empty"}
	if err := l.Save(path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"tasks": []`) {
		t.Errorf("expected empty tasks array, got:\n%s", data)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.json")
	l := New("x")
	for i := 0; i < 3; i++ {
		if err := l.Save(path); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only todo.json, got %v", names)
	}
}

func TestSaveIOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "todo.json")
	err := New("x").Save(path)

	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %v", err)
	}
	if ioErr.Op != "write" {
		t.Errorf("Op: got %q, want write", ioErr.Op)
	}
}

func TestLoadTracksHighestID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")
	content := `{
  "name": "x",
  "tasks": [
    {"id": 4, "name": "a", "status": "pending"},
    {"id": 2, "name": "b", "status": "completed"}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	task, err := l.Add("c")
	if err != nil {
		t.Fatal(err)
	}
	if task.ID != 5 {
		t.Errorf("id after load: got %d, want 5", task.ID)
	}
}

func TestLoadOrInitCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groceries.json")

	l, err := LoadOrInit(path, nil)
	if err != nil {
		t.Fatalf("LoadOrInit failed: %v", err)
	}
	if l.Name != "groceries" {
		t.Errorf("Name: got %q, want groceries", l.Name)
	}
	if len(l.Tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(l.Tasks))
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("file was not written: %v", err)
	}
	if reloaded.Name != "groceries" {
		t.Errorf("persisted Name: got %q", reloaded.Name)
	}
}

func TestLoadOrInitKeepsValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")
	existing := New("mine")
	existing.Add("Buy milk")
	if err := existing.Save(path); err != nil {
		t.Fatal(err)
	}

	l, err := LoadOrInit(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(existing.Tasks, l.Tasks); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(path + ".corrupt"); !os.IsNotExist(err) {
		t.Error("valid file should not be backed up")
	}
}

func TestLoadOrInitReplacesInvalidFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "this is not json"},
		{name: "wrong shape", content: `{"name": "x", "tasks": "nope"}`},
		{name: "bad status", content: `{"name": "x", "tasks": [{"id": 1, "name": "a", "status": "done"}]}`},
		{name: "missing status", content: `{"name": "x", "tasks": [{"id": 1, "name": "a"}]}`},
		{name: "zero id", content: `{"name": "x", "tasks": [{"id": 0, "name": "a", "status": "pending"}]}`},
		{name: "duplicate ids", content: `{"name": "x", "tasks": [{"id": 1, "name": "a", "status": "pending"}, {"id": 1, "name": "b", "status": "pending"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "todo.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			var logs bytes.Buffer
			l, err := LoadOrInit(path, log.New(&logs))
			if err != nil {
				t.Fatalf("LoadOrInit failed: %v", err)
			}
			if len(l.Tasks) != 0 {
				t.Errorf("expected fresh list, got %d tasks", len(l.Tasks))
			}
			if !strings.Contains(logs.String(), "todo file invalid") {
				t.Errorf("expected a warning in logs, got %q", logs.String())
			}

			backup, err := os.ReadFile(path + ".corrupt")
			if err != nil {
				t.Fatalf("backup not written: %v", err)
			}
			if string(backup) != tt.content {
				t.Errorf("backup content: got %q, want %q", backup, tt.content)
			}
			if _, err := Load(path); err != nil {
				t.Errorf("reinitialized file does not load: %v", err)
			}
		})
	}
}

func TestLoadOrInitKeepsReadableFile(t *testing.T) {
	content := `{"name": "x", "tasks": [
  {"id": 1, "name": "a:b", "status": "pending", "due": "friday"},
  {"id": 4, "name": "", "status": "completed"}
]}`
	path := filepath.Join(t.TempDir(), "todo.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := LoadOrInit(path, nil)
	if err != nil {
		t.Fatalf("LoadOrInit failed: %v", err)
	}
	want := []Task{
		{ID: 1, Name: "a:b", Status: StatusPending},
		{ID: 4, Name: "", Status: StatusCompleted},
	}
	if diff := cmp.Diff(want, l.Tasks); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(path + ".corrupt"); !os.IsNotExist(err) {
		t.Error("readable file should not be backed up")
	}
	if task, err := l.ResolveString(":1"); err != nil || task.Name != "a:b" {
		t.Errorf("ResolveString(:1): got %+v, %v", task, err)
	}
	if l.NextID() != 5 {
		t.Errorf("NextID: got %d, want 5", l.NextID())
	}
}

func TestValidateDocumentPaths(t *testing.T) {
	doc := `{"name": "x", "tasks": [{"id": 1, "name": "a", "status": "pending"}, {"id": 2, "name": "a", "status": "pending"}]}`
	res := ValidateDocument([]byte(doc))
	if res.Valid {
		t.Fatal("expected invalid result")
	}

	var ve *ValidationError
	if !errors.As(res.Err(), &ve) {
		t.Fatalf("expected *ValidationError, got %v", res.Err())
	}
	if ve.Path != "tasks[1].name" {
		t.Errorf("Path: got %q, want tasks[1].name", ve.Path)
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"#":             "",
		"/tasks":        "tasks",
		"/tasks/0/name": "tasks[0].name",
		"#/tasks/3/id":  "tasks[3].id",
		"/a~1b/c~0d":    "a/b.c~d",
	}
	for in, want := range tests {
		if got := jsonPointerToPath(in); got != want {
			t.Errorf("jsonPointerToPath(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestNameFromPath(t *testing.T) {
	tests := map[string]string{
		"groceries.json":       "groceries",
		"lists/work.todo.json": "work.todo",
		"/tmp/plain":           "plain",
		".hidden.json":         ".hidden",
	}
	for in, want := range tests {
		if got := NameFromPath(in); got != want {
			t.Errorf("NameFromPath(%q): got %q, want %q", in, got, want)
		}
	}
}
