package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"showmetasks/internal/config"
	"showmetasks/internal/exitcode"
	"showmetasks/internal/service"
	"showmetasks/internal/workspace"
)

func init() {
	Register(&CreateListCmd{})
	Register(&TodayCmd{})
	Register(&FirstListCmd{})
	Register(&RenameListCmd{})
}

// CreateListCmd implements the createlist command.
type CreateListCmd struct{}

func (c *CreateListCmd) Name() string      { return "createlist" }
func (c *CreateListCmd) Aliases() []string { return []string{"addlist"} }
func (c *CreateListCmd) Synopsis() string  { return "Create a new list" }
func (c *CreateListCmd) Usage() string     { return "showmetasks createlist <list-name>" }
func (c *CreateListCmd) NeedsAuth() bool   { return true }

func (c *CreateListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CreateListCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}
	return runCreateList(ctx, cfg, ws, out, errOut, name, func(ctx context.Context) (service.TaskList, error) {
		return ws.CreateList(ctx, name)
	})
}

// TodayCmd implements the today command.
type TodayCmd struct{}

func (c *TodayCmd) Name() string      { return "today" }
func (c *TodayCmd) Aliases() []string { return nil }
func (c *TodayCmd) Synopsis() string  { return "Create a list named after today's date" }
func (c *TodayCmd) Usage() string     { return "showmetasks today" }
func (c *TodayCmd) NeedsAuth() bool   { return true }

func (c *TodayCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TodayCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	return runCreateList(ctx, cfg, ws, out, errOut, "", ws.CreateTodayList)
}

// FirstListCmd implements the firstlist command.
type FirstListCmd struct{}

func (c *FirstListCmd) Name() string      { return "firstlist" }
func (c *FirstListCmd) Aliases() []string { return nil }
func (c *FirstListCmd) Synopsis() string  { return "Create a starter list" }
func (c *FirstListCmd) Usage() string     { return "showmetasks firstlist" }
func (c *FirstListCmd) NeedsAuth() bool   { return true }

func (c *FirstListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *FirstListCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	return runCreateList(ctx, cfg, ws, out, errOut, workspace.FirstListName, ws.CreateFirstList)
}

// runCreateList is the shared implementation of the list-creating commands.
// A known name is checked against existing lists first; the dated name of
// today is only known after creation.
func runCreateList(ctx context.Context, cfg *config.Config, ws *workspace.Controller, out, errOut io.Writer, name string, create func(context.Context) (service.TaskList, error)) int {
	if code := load(ctx, ws, errOut); code != exitcode.Success {
		return code
	}
	if name != "" {
		if _, err := findList(ws.Snapshot().Lists, name); err == nil || errors.Is(err, errAmbiguousList) {
			fmt.Fprintf(errOut, "error: list already exists: %s\n", name)
			return exitcode.UserError
		}
	}

	list, err := create(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok: %s\n", list.Name)
	}
	return exitcode.Success
}

// RenameListCmd implements the renamelist command.
type RenameListCmd struct{}

func (c *RenameListCmd) Name() string      { return "renamelist" }
func (c *RenameListCmd) Aliases() []string { return nil }
func (c *RenameListCmd) Synopsis() string  { return "Rename a list" }
func (c *RenameListCmd) Usage() string     { return "showmetasks renamelist <old-name> <new-name>" }
func (c *RenameListCmd) NeedsAuth() bool   { return true }

func (c *RenameListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RenameListCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	if len(args) != 2 || strings.TrimSpace(args[0]) == "" || strings.TrimSpace(args[1]) == "" {
		fmt.Fprintln(errOut, "error: old and new list name required")
		return exitcode.UserError
	}

	if code := load(ctx, ws, errOut); code != exitcode.Success {
		return code
	}
	list, code := lookupList(ws.Snapshot().Lists, args[0], errOut)
	if code != exitcode.Success {
		return code
	}

	e := ws.EditListName(list.ID)
	e.Begin()
	e.SetDraft(args[1])
	if err := e.Commit(ctx); err != nil {
		e.Cancel()
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
