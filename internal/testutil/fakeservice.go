// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"showmetasks/internal/service"
	"showmetasks/internal/session"
)

// DefaultListID is the ID of the list every FakeService starts with.
const DefaultListID int64 = 1

// DefaultListName is the name of that list.
const DefaultListName = "Default Task List"

// ErrInjected is a convenient error for failure injection.
var ErrInjected = errors.New("injected failure")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	nextID int64
	lists  []service.TaskList
	tasks  map[int64][]service.Task // listID -> tasks

	calls  map[string]int
	tokens []string

	// Error injection for testing
	ListListsErr      error
	DefaultListErr    error
	CreateListErr     error
	UpdateListErr     map[int64]error
	SetListDeletedErr map[int64]error
	DeleteListErr     map[int64]error
	ListTasksErr      map[int64]error // listID -> error
	CreateTaskErr     error
	UpdateTaskErr     map[int64]error
	DeleteTaskErr     map[int64]error

	// Hooks run before a call returns, with no lock held. Tests use them to
	// hold a call open or to change server state mid-flight.
	BeforeListLists func(ctx context.Context)
	BeforeListTasks func(ctx context.Context, listID int64)
}

// NewFakeService creates a new FakeService with a default list.
func NewFakeService() *FakeService {
	fs := NewEmptyFakeService()
	fs.lists = []service.TaskList{
		{ID: DefaultListID, Name: DefaultListName, IsDefault: true},
	}
	fs.nextID = DefaultListID
	return fs
}

// NewEmptyFakeService creates a FakeService holding no lists at all.
func NewEmptyFakeService() *FakeService {
	return &FakeService{
		tasks:             make(map[int64][]service.Task),
		calls:             make(map[string]int),
		UpdateListErr:     make(map[int64]error),
		SetListDeletedErr: make(map[int64]error),
		DeleteListErr:     make(map[int64]error),
		ListTasksErr:      make(map[int64]error),
		UpdateTaskErr:     make(map[int64]error),
		DeleteTaskErr:     make(map[int64]error),
	}
}

// AddList adds a list and returns its ID.
func (f *FakeService) AddList(name string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.lists = append(f.lists, service.TaskList{ID: f.nextID, Name: name})
	return f.nextID
}

// AddListWithID adds a list with a fixed ID.
func (f *FakeService) AddListWithID(id int64, name string, deleted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.TaskList{ID: id, Name: name, Deleted: deleted})
	if id > f.nextID {
		f.nextID = id
	}
}

// AddTask adds a task to a list and returns its ID.
func (f *FakeService) AddTask(listID int64, description string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.tasks[listID] = append(f.tasks[listID], service.Task{
		ID:          f.nextID,
		TaskListID:  listID,
		Description: description,
	})
	return f.nextID
}

// Calls returns how many times method was called.
func (f *FakeService) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// Tokens returns the access tokens seen by each call, in call order.
func (f *FakeService) Tokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tokens...)
}

// Lists returns the current server-side lists.
func (f *FakeService) Lists() []service.TaskList {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Tasks returns the current server-side tasks of a list.
func (f *FakeService) Tasks(listID int64) []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks[listID]...)
}

// record counts a call and the token carried by ctx.
func (f *FakeService) record(ctx context.Context, method string) {
	tok := ""
	if s, ok := session.FromContext(ctx); ok {
		tok, _ = s.AccessToken(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	f.tokens = append(f.tokens, tok)
}

func (f *FakeService) snapshotLocked() []service.TaskList {
	result := make([]service.TaskList, len(f.lists))
	for i, l := range f.lists {
		l.Tasks = append([]service.Task(nil), f.tasks[l.ID]...)
		result[i] = l
	}
	return result
}

func (f *FakeService) indexLocked(id int64) int {
	for i, l := range f.lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// ListLists implements service.Service.
func (f *FakeService) ListLists(ctx context.Context) ([]service.TaskList, error) {
	f.record(ctx, "ListLists")
	if f.BeforeListLists != nil {
		f.BeforeListLists(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.ListListsErr != nil {
		return nil, f.ListListsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked(), nil
}

// DefaultList implements service.Service.
func (f *FakeService) DefaultList(ctx context.Context) (service.TaskList, error) {
	f.record(ctx, "DefaultList")
	if f.DefaultListErr != nil {
		return service.TaskList{}, f.DefaultListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.snapshotLocked() {
		if l.IsDefault {
			return l, nil
		}
	}
	return service.TaskList{}, service.ErrNotFound
}

// CreateList implements service.Service.
func (f *FakeService) CreateList(ctx context.Context, name string) (service.TaskList, error) {
	f.record(ctx, "CreateList")
	if f.CreateListErr != nil {
		return service.TaskList{}, f.CreateListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l := service.TaskList{ID: f.nextID, Name: name, Tasks: []service.Task{}}
	f.lists = append(f.lists, service.TaskList{ID: l.ID, Name: name})
	return l, nil
}

// UpdateList implements service.Service.
func (f *FakeService) UpdateList(ctx context.Context, id int64, upd service.ListUpdate) (service.TaskList, error) {
	f.record(ctx, "UpdateList")
	if err := f.UpdateListErr[id]; err != nil {
		return service.TaskList{}, err
	}
	return f.updateList(id, upd)
}

// SetListDeleted implements service.Service.
func (f *FakeService) SetListDeleted(ctx context.Context, id int64, deleted bool) error {
	f.record(ctx, "SetListDeleted")
	f.mu.Lock()
	err := f.SetListDeletedErr[id]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	_, err = f.updateList(id, service.ListUpdate{Deleted: service.Bool(deleted)})
	return err
}

func (f *FakeService) updateList(id int64, upd service.ListUpdate) (service.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return service.TaskList{}, service.ErrNotFound
	}
	if upd.Name != nil {
		f.lists[i].Name = *upd.Name
	}
	if upd.Deleted != nil {
		f.lists[i].Deleted = *upd.Deleted
	}
	return f.lists[i], nil
}

// DeleteList implements service.Service.
func (f *FakeService) DeleteList(ctx context.Context, id int64) error {
	f.record(ctx, "DeleteList")
	if err := f.DeleteListErr[id]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.lists = append(f.lists[:i], f.lists[i+1:]...)
	delete(f.tasks, id)
	return nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, listID int64) ([]service.Task, error) {
	f.record(ctx, "ListTasks")
	if f.BeforeListTasks != nil {
		f.BeforeListTasks(ctx, listID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ListTasksErr[listID]; err != nil {
		return nil, err
	}
	if f.indexLocked(listID) < 0 {
		return nil, service.ErrNotFound
	}
	return append([]service.Task{}, f.tasks[listID]...), nil
}

// CreateTask implements service.Service. Like the real API it does not
// echo the list ID back.
func (f *FakeService) CreateTask(ctx context.Context, listID int64, description string) (service.Task, error) {
	f.record(ctx, "CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexLocked(listID) < 0 {
		return service.Task{}, service.ErrNotFound
	}
	f.nextID++
	t := service.Task{ID: f.nextID, TaskListID: listID, Description: description}
	f.tasks[listID] = append(f.tasks[listID], t)
	t.TaskListID = 0
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, upd service.TaskUpdate) (service.Task, error) {
	f.record(ctx, "UpdateTask")
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.UpdateTaskErr[id]; err != nil {
		return service.Task{}, err
	}
	for listID, tasks := range f.tasks {
		for i := range tasks {
			if tasks[i].ID != id {
				continue
			}
			if upd.Description != nil {
				tasks[i].Description = *upd.Description
			}
			if upd.Completed != nil {
				tasks[i].Completed = *upd.Completed
			}
			f.tasks[listID] = tasks
			return tasks[i], nil
		}
	}
	return service.Task{}, service.ErrNotFound
}

// SetTaskCompleted implements service.Service.
func (f *FakeService) SetTaskCompleted(ctx context.Context, id int64, completed bool) error {
	_, err := f.UpdateTask(ctx, id, service.TaskUpdate{Completed: service.Bool(completed)})
	return err
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.record(ctx, "DeleteTask")
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.DeleteTaskErr[id]; err != nil {
		return err
	}
	for listID, tasks := range f.tasks {
		for i := range tasks {
			if tasks[i].ID == id {
				f.tasks[listID] = append(tasks[:i], tasks[i+1:]...)
				return nil
			}
		}
	}
	return service.ErrNotFound
}
