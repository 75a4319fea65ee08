package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus is the state of a task. Any status may follow any other.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task is a to-do item owned by a trip.
type Task struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Status   TaskStatus `json:"status"`
	Priority Priority   `json:"priority"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
	Subtasks []Subtask  `json:"subtasks"`
}

// Subtask is addressed only through its parent task, by position.
type Subtask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TaskPatch holds optional task changes. Nil fields are left untouched.
type TaskPatch struct {
	Title    *string
	Status   *TaskStatus
	Priority *Priority
	DueDate  *time.Time
	ClearDue bool
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	return s == TaskTodo || s == TaskInProgress || s == TaskDone
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Validate enforces task business rules.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, t.Status)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, t.Priority)
	}
	return nil
}

// Apply returns a copy of t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDue {
		t.DueDate = nil
	} else if p.DueDate != nil {
		d := Date(*p.DueDate)
		t.DueDate = &d
	}
	return t
}
