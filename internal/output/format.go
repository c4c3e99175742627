// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"showmetasks/internal/service"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"
)

// FormatTask formats a numbered task line.
// Format: "{N:>4}  [x] {DESCRIPTION}\n", "[ ]" when open.
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, mark(task.Completed), normalizeTitle(task.Description))
}

// FormatListHeader formats a list section header.
func FormatListHeader(w io.Writer, list service.TaskList) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, listTitle(list))
	fmt.Fprintln(w, ListSeparator)
}

// FormatListName formats a list name for the lists command.
func FormatListName(w io.Writer, list service.TaskList) {
	fmt.Fprintln(w, listTitle(list))
}

func listTitle(list service.TaskList) string {
	title := normalizeListTitle(list.Name)
	if list.IsDefault {
		title += " [default]"
	}
	if list.Deleted {
		title += " [trash]"
	}
	return title
}

func mark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task description for display.
// - Empty or whitespace-only descriptions become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeListTitle normalizes a list name for display.
// Empty or whitespace-only names become "(untitled)".
func normalizeListTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
