package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"showmetasks/internal/apiclient"
	"showmetasks/internal/exitcode"
	"showmetasks/internal/service"
	"showmetasks/internal/session"
	"showmetasks/internal/workspace"
)

var (
	errListNotFound  = errors.New("list not found")
	errAmbiguousList = errors.New("ambiguous list name")
)

// load runs the initial list fetch every authenticated command starts with.
func load(ctx context.Context, ws *workspace.Controller, errOut io.Writer) int {
	if err := ws.Refresh(ctx); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}

// findList matches name against list names, ignoring case and surrounding space.
func findList(lists []service.TaskList, name string) (service.TaskList, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	var matches []service.TaskList
	for _, l := range lists {
		if strings.ToLower(strings.TrimSpace(l.Name)) == want {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return service.TaskList{}, errListNotFound
	case 1:
		return matches[0], nil
	default:
		return service.TaskList{}, errAmbiguousList
	}
}

// lookupList resolves name in lists and prints the user error when it can't.
func lookupList(lists []service.TaskList, name string, errOut io.Writer) (service.TaskList, int) {
	l, err := findList(lists, name)
	switch {
	case errors.Is(err, errListNotFound):
		fmt.Fprintf(errOut, "error: list not found: %s\n", strings.TrimSpace(name))
		return l, exitcode.UserError
	case errors.Is(err, errAmbiguousList):
		fmt.Fprintf(errOut, "error: ambiguous list name: %s\n", strings.TrimSpace(name))
		return l, exitcode.UserError
	}
	return l, exitcode.Success
}

// openList selects the named active list, or the default list when name is
// empty, and returns it with its tasks.
func openList(ctx context.Context, ws *workspace.Controller, name string, errOut io.Writer) (service.TaskList, int) {
	lists := ws.ActiveLists()

	var target service.TaskList
	if name != "" {
		l, code := lookupList(lists, name, errOut)
		if code != exitcode.Success {
			return l, code
		}
		target = l
	} else {
		found := false
		for _, l := range lists {
			if l.IsDefault {
				target, found = l, true
				break
			}
		}
		if !found {
			sel, ok := ws.Selected()
			if !ok {
				fmt.Fprintln(errOut, "error: no lists (run: showmetasks firstlist)")
				return service.TaskList{}, exitcode.UserError
			}
			target = sel
		}
	}

	if err := ws.SelectList(ctx, target.ID); err != nil {
		return service.TaskList{}, fail(errOut, err)
	}
	sel, _ := ws.Selected()
	return sel, exitcode.Success
}

// fail prints err and maps it to an exit code.
func fail(errOut io.Writer, err error) int {
	status := apiclient.StatusOf(err)
	switch {
	case errors.Is(err, session.ErrExpired), errors.Is(err, session.ErrNotLoggedIn),
		status == http.StatusUnauthorized, status == http.StatusForbidden:
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, service.ErrNotFound), status == http.StatusBadRequest, status == http.StatusNotFound:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
