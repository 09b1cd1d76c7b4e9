package todo

import (
	"errors"
	"fmt"
	"strings"
)

// Status represents a task status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

var (
	// ErrNotFound is returned when a reference matches no task.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidReference is returned when an id reference is not a number.
	ErrInvalidReference = errors.New("invalid task reference")
	// ErrDuplicateName is returned when adding a name that is already taken
	// or that would read as an id reference.
	ErrDuplicateName = errors.New("duplicate task name")
	// ErrInvalidName is returned when adding a blank name.
	ErrInvalidName = errors.New("invalid task name")
)

// Task represents a single task in the list.
type Task struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// Done reports whether the task is completed.
func (t *Task) Done() bool {
	return t.Status == StatusCompleted
}

// List is an ordered task collection with a display name.
//
// A List is not safe for concurrent use.
type List struct {
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`

	// lastID is the highest id ever handed out by this list.
	lastID int
}

// New returns an empty list.
func New(name string) *List {
	return &List{Name: name, Tasks: []Task{}}
}

// NextID returns the id the next Add will assign.
func (l *List) NextID() int {
	next := l.lastID
	for _, t := range l.Tasks {
		if t.ID > next {
			next = t.ID
		}
	}
	return next + 1
}

// Add appends a pending task named name and returns a copy of it.
func (l *List) Add(name string) (Task, error) {
	if strings.TrimSpace(name) == "" {
		return Task{}, fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if strings.Contains(name, ":") {
		return Task{}, fmt.Errorf("%w: %q collides with id reference syntax", ErrDuplicateName, name)
	}
	if l.FindByName(name) != nil {
		return Task{}, fmt.Errorf("%w: %q already exists", ErrDuplicateName, name)
	}

	task := Task{ID: l.NextID(), Name: name, Status: StatusPending}
	l.Tasks = append(l.Tasks, task)
	l.lastID = task.ID
	return task, nil
}

// SetStatus updates the status of the task with the given id.
func (l *List) SetStatus(id int, status Status) error {
	t := l.FindByID(id)
	if t == nil {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	t.Status = status
	return nil
}

// Remove deletes the task with the given id. Other ids are left alone.
func (l *List) Remove(id int) error {
	for i := range l.Tasks {
		if l.Tasks[i].ID != id {
			continue
		}
		if id > l.lastID {
			l.lastID = id
		}
		l.Tasks = append(l.Tasks[:i], l.Tasks[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// FindByID returns the first task with the given id, or nil.
func (l *List) FindByID(id int) *Task {
	for i := range l.Tasks {
		if l.Tasks[i].ID == id {
			return &l.Tasks[i]
		}
	}
	return nil
}

// FindByName returns the first task with exactly the given name, or nil.
func (l *List) FindByName(name string) *Task {
	for i := range l.Tasks {
		if l.Tasks[i].Name == name {
			return &l.Tasks[i]
		}
	}
	return nil
}

// Counts returns the number of tasks per status.
func (l *List) Counts() map[Status]int {
	counts := map[Status]int{
		StatusPending:   0,
		StatusCompleted: 0,
	}
	for _, t := range l.Tasks {
		counts[t.Status]++
	}
	return counts
}

// Clone returns a deep copy of the list, including its id high-water mark.
func (l *List) Clone() *List {
	tasks := make([]Task, len(l.Tasks))
	copy(tasks, l.Tasks)
	return &List{Name: l.Name, Tasks: tasks, lastID: l.lastID}
}

// syncLastID raises the high-water mark to the largest id present.
func (l *List) syncLastID() {
	for _, t := range l.Tasks {
		if t.ID > l.lastID {
			l.lastID = t.ID
		}
	}
}
