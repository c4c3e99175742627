package workspace

import (
	"context"
	"strings"

	"showmetasks/internal/service"
)

// SelectList makes id the selected list and fetches its tasks. A fetch
// started by an earlier SelectList is cancelled and its result discarded.
func (c *Controller) SelectList(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return service.ErrNotFound
	}
	sel := c.lists[i].Clone()
	c.selected = &sel

	if c.taskCancel != nil {
		c.taskCancel()
	}
	c.taskGen++
	gen := c.taskGen
	tctx, cancel := c.deriveLocked(ctx)
	c.taskCancel = cancel
	c.mu.Unlock()

	tasks, err := c.svc.ListTasks(tctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if gen != c.taskGen {
		return ErrSuperseded
	}
	cancel()
	c.taskCancel = nil
	if err != nil {
		c.reporter.Report(tctx, "fetch_tasks", err)
		return err
	}

	for k := range tasks {
		if tasks[k].TaskListID == 0 {
			tasks[k].TaskListID = id
		}
	}
	if c.selected != nil && c.selected.ID == id {
		c.selected.Tasks = append([]service.Task(nil), tasks...)
	}
	if i := c.indexLocked(id); i >= 0 {
		c.lists[i].Tasks = append([]service.Task(nil), tasks...)
	}
	return nil
}

// AddTask creates a task in the selected list. Without a selected list or
// with a blank description it does nothing. On success the task is
// appended to the selected list and to its entry in the list collection.
func (c *Controller) AddTask(ctx context.Context, description string) (service.Task, error) {
	description = strings.TrimSpace(description)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return service.Task{}, ErrClosed
	}
	if c.selected == nil || description == "" {
		c.mu.Unlock()
		return service.Task{}, nil
	}
	listID := c.selected.ID
	rctx, cancel := c.deriveLocked(ctx)
	c.mu.Unlock()
	defer cancel()

	task, err := c.svc.CreateTask(rctx, listID, description)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return service.Task{}, ErrClosed
	}
	if err != nil {
		c.reporter.Report(rctx, "add_task", err)
		return service.Task{}, err
	}
	if task.TaskListID == 0 {
		task.TaskListID = listID
	}
	if c.selected != nil && c.selected.ID == listID {
		c.selected.Tasks = append(c.selected.Tasks, task)
	}
	if i := c.indexLocked(listID); i >= 0 {
		c.lists[i].Tasks = append(c.lists[i].Tasks, task)
	}
	return task, nil
}

// ToggleTask flips the completed flag of a task before the server confirms
// it, and puts the old value back if the update fails.
func (c *Controller) ToggleTask(ctx context.Context, id int64) error {
	return c.setCompleted(ctx, "toggle_task", id, func(prev bool) bool { return !prev })
}

// SetTaskCompleted is ToggleTask with an explicit target value.
func (c *Controller) SetTaskCompleted(ctx context.Context, id int64, completed bool) error {
	return c.setCompleted(ctx, "complete_task", id, func(bool) bool { return completed })
}

func (c *Controller) setCompleted(ctx context.Context, op string, id int64, next func(bool) bool) error {
	var prev, want bool
	return c.optimistic(ctx, op, mutation{
		apply: func() bool {
			t := c.findTaskLocked(id)
			if t == nil {
				return false
			}
			prev = t.Completed
			want = next(prev)
			c.eachTaskLocked(id, func(t *service.Task) { t.Completed = want })
			return true
		},
		rollback: func() {
			c.eachTaskLocked(id, func(t *service.Task) { t.Completed = prev })
		},
	}, func(ctx context.Context) error {
		return c.svc.SetTaskCompleted(ctx, id, want)
	})
}

// RenameTask updates a task's description. The cached task changes only
// after the server accepted it.
func (c *Controller) RenameTask(ctx context.Context, id int64, description string) error {
	description = strings.TrimSpace(description)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if description == "" || c.findTaskLocked(id) == nil {
		c.mu.Unlock()
		return nil
	}
	rctx, cancel := c.deriveLocked(ctx)
	c.mu.Unlock()
	defer cancel()

	_, err := c.svc.UpdateTask(rctx, id, service.TaskUpdate{Description: service.String(description)})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err != nil {
		c.reporter.Report(rctx, "rename_task", err)
		return err
	}
	c.eachTaskLocked(id, func(t *service.Task) { t.Description = description })
	return nil
}

// DeleteTask permanently deletes a task and drops it from the cache once
// the server confirms.
func (c *Controller) DeleteTask(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.findTaskLocked(id) == nil {
		c.mu.Unlock()
		return nil
	}
	rctx, cancel := c.deriveLocked(ctx)
	c.mu.Unlock()
	defer cancel()

	err := c.svc.DeleteTask(rctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err != nil {
		c.reporter.Report(rctx, "delete_task", err)
		return err
	}
	if c.selected != nil {
		c.selected.Tasks = removeTask(c.selected.Tasks, id)
	}
	for i := range c.lists {
		c.lists[i].Tasks = removeTask(c.lists[i].Tasks, id)
	}
	return nil
}

// findTaskLocked returns the task in the selected list, falling back to
// the list collection.
func (c *Controller) findTaskLocked(id int64) *service.Task {
	if c.selected != nil {
		for k := range c.selected.Tasks {
			if c.selected.Tasks[k].ID == id {
				return &c.selected.Tasks[k]
			}
		}
	}
	for i := range c.lists {
		for k := range c.lists[i].Tasks {
			if c.lists[i].Tasks[k].ID == id {
				return &c.lists[i].Tasks[k]
			}
		}
	}
	return nil
}

// eachTaskLocked applies fn to every cached copy of task id.
func (c *Controller) eachTaskLocked(id int64, fn func(*service.Task)) {
	if c.selected != nil {
		for k := range c.selected.Tasks {
			if c.selected.Tasks[k].ID == id {
				fn(&c.selected.Tasks[k])
			}
		}
	}
	for i := range c.lists {
		for k := range c.lists[i].Tasks {
			if c.lists[i].Tasks[k].ID == id {
				fn(&c.lists[i].Tasks[k])
			}
		}
	}
}

func removeTask(tasks []service.Task, id int64) []service.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
