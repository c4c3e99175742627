// Package service defines the backend-agnostic interface for list and task operations.
package service

import (
	"github.com/bytedance/sonic"
)

// Task represents a single to-do entry.
type Task struct {
	ID          int64  `json:"id"`
	TaskListID  int64  `json:"taskListId,omitempty"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// UnmarshalJSON accepts both task payload shapes the API emits: the task
// endpoints use "description", tasks nested in a list use "title".
func (t *Task) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID          int64  `json:"id"`
		TaskListID  int64  `json:"taskListId"`
		Description string `json:"description"`
		Title       string `json:"title"`
		Completed   *bool  `json:"completed"`
	}
	if err := sonic.ConfigStd.Unmarshal(data, &wire); err != nil {
		return err
	}
	t.ID = wire.ID
	t.TaskListID = wire.TaskListID
	t.Description = wire.Description
	if t.Description == "" {
		t.Description = wire.Title
	}
	t.Completed = wire.Completed != nil && *wire.Completed
	return nil
}

// TaskList represents a named list of tasks.
type TaskList struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
	Deleted   bool   `json:"deleted"`
	Tasks     []Task `json:"tasks"`
}

// Clone returns a copy of the list that shares no task storage with l.
func (l TaskList) Clone() TaskList {
	if l.Tasks != nil {
		tasks := make([]Task, len(l.Tasks))
		copy(tasks, l.Tasks)
		l.Tasks = tasks
	}
	return l
}

// ListUpdate is the payload for a list update. Nil fields are not sent.
type ListUpdate struct {
	Name    *string `json:"name,omitempty"`
	Deleted *bool   `json:"deleted,omitempty"`
}

// TaskUpdate is the payload for a task update. Nil fields are not sent.
type TaskUpdate struct {
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// NewTask is the payload for task creation.
type NewTask struct {
	TaskListID  int64  `json:"taskListId"`
	Description string `json:"description"`
}
