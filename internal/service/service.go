// Package service defines the backend-agnostic interface for list and task operations.
package service

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a list or task does not exist.
var ErrNotFound = errors.New("not found")

// Lists defines the remote operations on task lists.
type Lists interface {
	// ListLists returns every list of the user, active and trashed, in API order.
	ListLists(ctx context.Context) ([]TaskList, error)

	// DefaultList returns the user's default list.
	DefaultList(ctx context.Context) (TaskList, error)

	// CreateList creates a list and returns it as stored.
	CreateList(ctx context.Context, name string) (TaskList, error)

	// UpdateList sends the non-nil fields of upd.
	UpdateList(ctx context.Context, id int64, upd ListUpdate) (TaskList, error)

	// SetListDeleted flips the soft-delete flag.
	SetListDeleted(ctx context.Context, id int64, deleted bool) error

	// DeleteList permanently deletes a list and its tasks.
	DeleteList(ctx context.Context, id int64) error
}

// Tasks defines the remote operations on tasks.
type Tasks interface {
	// ListTasks returns the tasks of one list.
	ListTasks(ctx context.Context, listID int64) ([]Task, error)

	// CreateTask creates a task in the given list and returns it as stored.
	CreateTask(ctx context.Context, listID int64, description string) (Task, error)

	// UpdateTask sends the non-nil fields of upd.
	UpdateTask(ctx context.Context, id int64, upd TaskUpdate) (Task, error)

	// SetTaskCompleted sets the completed flag.
	SetTaskCompleted(ctx context.Context, id int64, completed bool) error

	// DeleteTask permanently deletes a task.
	DeleteTask(ctx context.Context, id int64) error
}

// Service is the full remote surface the workspace controller depends on.
// Commands and the controller never talk HTTP directly.
type Service interface {
	Lists
	Tasks
}

// Bool returns a pointer to b, for building update payloads.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for building update payloads.
func String(s string) *string { return &s }
