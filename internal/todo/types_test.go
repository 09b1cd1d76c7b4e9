package todo

import (
	"errors"
	"testing"
)

func TestAddAssignsSequentialIDs(t *testing.T) {
	l := New("test")
	names := []string{"Buy milk", "Walk dog", "Write report", "Call mom"}

	for i, name := range names {
		task, err := l.Add(name)
		if err != nil {
			t.Fatalf("Add(%q) failed: %v", name, err)
		}
		if task.ID != i+1 {
			t.Errorf("Add(%q) id: got %d, want %d", name, task.ID, i+1)
		}
		if task.Status != StatusPending {
			t.Errorf("Add(%q) status: got %s, want pending", name, task.Status)
		}
	}

	for i := 1; i < len(l.Tasks); i++ {
		if l.Tasks[i].ID <= l.Tasks[i-1].ID {
			t.Errorf("ids not increasing at %d: %d then %d", i, l.Tasks[i-1].ID, l.Tasks[i].ID)
		}
	}
}

func TestAddRejects(t *testing.T) {
	tests := []struct {
		name    string
		add     string
		wantErr error
	}{
		{name: "colon in name", add: "a:b", wantErr: ErrDuplicateName},
		{name: "leading colon", add: ":1", wantErr: ErrDuplicateName},
		{name: "existing name", add: "Buy milk", wantErr: ErrDuplicateName},
		{name: "empty name", add: "", wantErr: ErrInvalidName},
		{name: "blank name", add: "   ", wantErr: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New("test")
			if _, err := l.Add("Buy milk"); err != nil {
				t.Fatalf("seed Add failed: %v", err)
			}

			_, err := l.Add(tt.add)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Add(%q) error: got %v, want %v", tt.add, err, tt.wantErr)
			}
			if len(l.Tasks) != 1 {
				t.Errorf("list mutated: got %d tasks, want 1", len(l.Tasks))
			}
		})
	}
}

func TestNamesAreCaseSensitive(t *testing.T) {
	l := New("test")
	if _, err := l.Add("milk"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Add("Milk"); err != nil {
		t.Fatalf("Add(Milk) should succeed, got %v", err)
	}
	if len(l.Tasks) != 2 {
		t.Errorf("got %d tasks, want 2", len(l.Tasks))
	}
}

func TestRemoveDoesNotReuseIDs(t *testing.T) {
	l := New("test")
	first, _ := l.Add("Buy milk")
	if err := l.Remove(first.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(l.Tasks) != 0 {
		t.Fatalf("got %d tasks after remove, want 0", len(l.Tasks))
	}

	again, err := l.Add("Buy milk")
	if err != nil {
		t.Fatalf("re-Add failed: %v", err)
	}
	if again.ID != 2 {
		t.Errorf("re-added id: got %d, want 2", again.ID)
	}
}

func TestRemoveKeepsOtherIDs(t *testing.T) {
	l := New("test")
	for _, name := range []string{"a", "b", "c"} {
		if _, err := l.Add(name); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.Remove(2); err != nil {
		t.Fatal(err)
	}

	got := []int{l.Tasks[0].ID, l.Tasks[1].ID}
	if got[0] != 1 || got[1] != 3 {
		t.Errorf("ids after remove: got %v, want [1 3]", got)
	}

	if err := l.Remove(2); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove(2): got %v, want ErrNotFound", err)
	}
}

func TestSetStatusRoundTrip(t *testing.T) {
	l := New("test")
	task, _ := l.Add("Buy milk")

	if err := l.SetStatus(task.ID, StatusCompleted); err != nil {
		t.Fatal(err)
	}
	if !l.FindByID(task.ID).Done() {
		t.Error("task should be completed")
	}
	if err := l.SetStatus(task.ID, StatusPending); err != nil {
		t.Fatal(err)
	}
	if got := l.FindByID(task.ID).Status; got != StatusPending {
		t.Errorf("status: got %s, want pending", got)
	}

	if err := l.SetStatus(99, StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetStatus(99): got %v, want ErrNotFound", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := New("test")
	l.Add("a")
	l.Add("b")
	l.Remove(2)

	c := l.Clone()
	c.Tasks[0].Status = StatusCompleted
	if l.Tasks[0].Status != StatusPending {
		t.Error("clone shares task storage with original")
	}
	if c.NextID() != 3 {
		t.Errorf("clone NextID: got %d, want 3", c.NextID())
	}
}

func TestCounts(t *testing.T) {
	l := New("test")
	l.Add("a")
	l.Add("b")
	l.Add("c")
	l.SetStatus(2, StatusCompleted)

	counts := l.Counts()
	if counts[StatusPending] != 2 || counts[StatusCompleted] != 1 {
		t.Errorf("counts: got %v", counts)
	}
}
