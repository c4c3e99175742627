package workspace

import (
	"context"
	"strings"
)

type editTarget int

const (
	editList editTarget = iota
	editTask
)

// InlineEdit is an edit-in-place session for a list name or a task
// description. Begin captures the current text, SetDraft follows what the
// user types, Commit sends it and Cancel puts the original back without a
// network call. An InlineEdit belongs to one caller and is not safe for
// concurrent use.
type InlineEdit struct {
	c        *Controller
	target   editTarget
	id       int64
	original string
	draft    string
	editing  bool
}

// EditListName returns an edit session for the name of list id.
func (c *Controller) EditListName(id int64) *InlineEdit {
	return &InlineEdit{c: c, target: editList, id: id}
}

// EditTask returns an edit session for the description of task id.
func (c *Controller) EditTask(id int64) *InlineEdit {
	return &InlineEdit{c: c, target: editTask, id: id}
}

// Begin enters edit mode. It reports false when the target is not cached.
func (e *InlineEdit) Begin() bool {
	text, ok := e.current()
	if !ok {
		return false
	}
	e.original = text
	e.draft = text
	e.editing = true
	return true
}

// SetDraft records the text typed so far.
func (e *InlineEdit) SetDraft(text string) {
	if e.editing {
		e.draft = text
	}
}

// Draft is the text to display while editing.
func (e *InlineEdit) Draft() string { return e.draft }

// Editing reports whether the session is in edit mode.
func (e *InlineEdit) Editing() bool { return e.editing }

// Commit sends the draft. On success edit mode ends; on failure it stays
// so the user can retry or cancel. A blank or unchanged draft sends
// nothing.
func (e *InlineEdit) Commit(ctx context.Context) error {
	if !e.editing {
		return nil
	}
	text := strings.TrimSpace(e.draft)
	if text == "" {
		return nil
	}
	if text == e.original {
		e.editing = false
		return nil
	}

	var err error
	switch e.target {
	case editList:
		err = e.c.RenameList(ctx, e.id, text)
	case editTask:
		err = e.c.RenameTask(ctx, e.id, text)
	}
	if err != nil {
		return err
	}
	e.original = text
	e.draft = text
	e.editing = false
	return nil
}

// Cancel leaves edit mode and restores the original text.
func (e *InlineEdit) Cancel() {
	e.draft = e.original
	e.editing = false
}

func (e *InlineEdit) current() (string, bool) {
	c := e.c
	c.mu.Lock()
	defer c.mu.Unlock()
	switch e.target {
	case editList:
		if i := c.indexLocked(e.id); i >= 0 {
			return c.lists[i].Name, true
		}
	case editTask:
		if t := c.findTaskLocked(e.id); t != nil {
			return t.Description, true
		}
	}
	return "", false
}
