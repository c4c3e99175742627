package workspace

import (
	"slices"
	"strings"

	"showmetasks/internal/service"
)

// PanelView chooses which partition of the lists is shown.
type PanelView string

const (
	ActiveView PanelView = "active"
	TrashView  PanelView = "trash"
)

// SetSelectionMode turns multi-select on or off. Turning it off drops the
// selected set.
func (c *Controller) SetSelectionMode(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectionMode = on
	if !on {
		clear(c.selectedIDs)
	}
}

// ToggleSelected adds id to the bulk selection or removes it. Default
// lists and unknown ids are ignored. Selecting enables selection mode.
func (c *Controller) ToggleSelected(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 || c.lists[i].IsDefault {
		return
	}
	if _, ok := c.selectedIDs[id]; ok {
		delete(c.selectedIDs, id)
		return
	}
	c.selectedIDs[id] = struct{}{}
	c.selectionMode = true
}

// ClearSelection empties the bulk selection and leaves selection mode.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearSelectionLocked()
}

// SetPanelView switches between the active and trashed partitions.
// Changing the view clears the bulk selection.
func (c *Controller) SetPanelView(v PanelView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v != TrashView {
		v = ActiveView
	}
	if v != c.panel {
		c.clearSelectionLocked()
	}
	c.panel = v
}

// SetSearch sets the list filter text.
func (c *Controller) SetSearch(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = q
}

// VisibleLists returns the lists of the current panel view whose name
// contains the search text, ignoring case. A blank search matches all.
func (c *Controller) VisibleLists() []service.TaskList {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filterLists(c.lists, c.panel == TrashView, c.search)
}

// ActiveLists returns the lists not in the trash.
func (c *Controller) ActiveLists() []service.TaskList {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filterLists(c.lists, false, "")
}

// TrashedLists returns the soft-deleted lists.
func (c *Controller) TrashedLists() []service.TaskList {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filterLists(c.lists, true, "")
}

// SelectedIDs returns the bulk selection in ascending order.
func (c *Controller) SelectedIDs() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedIDsLocked()
}

func (c *Controller) selectedIDsLocked() []int64 {
	ids := make([]int64, 0, len(c.selectedIDs))
	for id := range c.selectedIDs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (c *Controller) clearSelectionLocked() {
	clear(c.selectedIDs)
	c.selectionMode = false
}

func filterLists(lists []service.TaskList, trashed bool, search string) []service.TaskList {
	// Only a blank query is special; otherwise spaces are part of the match.
	blank := strings.TrimSpace(search) == ""
	q := strings.ToLower(search)
	out := []service.TaskList{}
	for _, l := range lists {
		if l.Deleted != trashed {
			continue
		}
		if !blank && !strings.Contains(strings.ToLower(l.Name), q) {
			continue
		}
		out = append(out, l.Clone())
	}
	return out
}
