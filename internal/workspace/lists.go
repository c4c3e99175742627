package workspace

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"showmetasks/internal/service"
)

const (
	// FirstListName is the name of the list created by CreateFirstList.
	FirstListName = "My First List"

	// TodayLayout formats the name of the list created by CreateTodayList.
	TodayLayout = "Mon, Jan 2, 2006"
)

// CreateList creates a list, appends it to the collection and selects it.
// The search text is cleared so the new list is visible.
func (c *Controller) CreateList(ctx context.Context, name string) (service.TaskList, error) {
	name = strings.TrimSpace(name)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return service.TaskList{}, ErrClosed
	}
	if name == "" {
		c.mu.Unlock()
		return service.TaskList{}, nil
	}
	rctx, cancel := c.deriveLocked(ctx)
	c.mu.Unlock()
	defer cancel()

	created, err := c.svc.CreateList(rctx, name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return service.TaskList{}, ErrClosed
	}
	if err != nil {
		c.reporter.Report(rctx, "create_list", err)
		return service.TaskList{}, err
	}
	c.lists = append(c.lists, created.Clone())
	sel := created.Clone()
	c.selected = &sel
	c.search = ""
	return created, nil
}

// CreateTodayList creates a list named after the current date.
func (c *Controller) CreateTodayList(ctx context.Context) (service.TaskList, error) {
	return c.CreateList(ctx, c.now().Format(TodayLayout))
}

// CreateFirstList is the first-run convenience action.
func (c *Controller) CreateFirstList(ctx context.Context) (service.TaskList, error) {
	return c.CreateList(ctx, FirstListName)
}

// RenameList sets a list's name once the server accepted it.
func (c *Controller) RenameList(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if name == "" || c.indexLocked(id) < 0 {
		c.mu.Unlock()
		return nil
	}
	rctx, cancel := c.deriveLocked(ctx)
	c.mu.Unlock()
	defer cancel()

	_, err := c.svc.UpdateList(rctx, id, service.ListUpdate{Name: service.String(name)})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err != nil {
		c.reporter.Report(rctx, "rename_list", err)
		return err
	}
	if i := c.indexLocked(id); i >= 0 {
		c.lists[i].Name = name
	}
	if c.selected != nil && c.selected.ID == id {
		c.selected.Name = name
	}
	return nil
}

// SoftDeleteList moves a list to the trash before the server confirms it.
// The default list is never deleted. A failed update is corrected by
// refetching every list.
func (c *Controller) SoftDeleteList(ctx context.Context, id int64) error {
	return c.optimistic(ctx, "soft_delete_list", mutation{
		apply: func() bool { return c.trashLocked(id) },
	}, func(ctx context.Context) error {
		return c.svc.SetListDeleted(ctx, id, true)
	})
}

// SoftDeleteSelected trashes every list in the selected set at once. The
// selection is cleared immediately. The updates run concurrently and any
// failure among them leads to a single refetch of all lists.
func (c *Controller) SoftDeleteSelected(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	var ids []int64
	for _, id := range c.selectedIDsLocked() {
		if c.trashLocked(id) {
			ids = append(ids, id)
		}
	}
	c.clearSelectionLocked()
	if len(ids) == 0 {
		c.mu.Unlock()
		return nil
	}
	rctx, cancel := c.deriveLocked(ctx)
	c.mu.Unlock()
	defer cancel()

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			return c.svc.SetListDeleted(rctx, id, true)
		})
	}
	err := g.Wait()
	if err == nil {
		return nil
	}
	c.reporter.Report(rctx, "soft_delete_lists", err)
	if rerr := c.resync(ctx); rerr != nil && !errors.Is(rerr, ErrClosed) && !errors.Is(rerr, ErrSuperseded) {
		c.logger.WithError(rerr).Warn("workspace.resync.failed")
	}
	return err
}

// RestoreList takes a list out of the trash. The flag is cleared locally
// first; a failed update is corrected by refetching every list.
func (c *Controller) RestoreList(ctx context.Context, id int64) error {
	return c.optimistic(ctx, "restore_list", mutation{
		apply: func() bool {
			i := c.indexLocked(id)
			if i < 0 || !c.lists[i].Deleted {
				return false
			}
			c.lists[i].Deleted = false
			return true
		},
	}, func(ctx context.Context) error {
		return c.svc.SetListDeleted(ctx, id, false)
	})
}

// PurgeList permanently deletes a list. It is removed locally first; a
// failed delete is corrected by refetching every list.
func (c *Controller) PurgeList(ctx context.Context, id int64) error {
	return c.optimistic(ctx, "purge_list", mutation{
		apply: func() bool {
			i := c.indexLocked(id)
			if i < 0 || c.lists[i].IsDefault {
				return false
			}
			c.lists = append(c.lists[:i], c.lists[i+1:]...)
			if c.selected != nil && c.selected.ID == id {
				c.selected = nil
			}
			delete(c.selectedIDs, id)
			return true
		},
	}, func(ctx context.Context) error {
		return c.svc.DeleteList(ctx, id)
	})
}

// trashLocked flags list id as deleted and drops it from the selection.
// It reports false for unknown, default or already trashed lists.
func (c *Controller) trashLocked(id int64) bool {
	i := c.indexLocked(id)
	if i < 0 || c.lists[i].IsDefault || c.lists[i].Deleted {
		return false
	}
	c.lists[i].Deleted = true
	if c.selected != nil && c.selected.ID == id {
		c.selected = nil
	}
	delete(c.selectedIDs, id)
	return true
}
