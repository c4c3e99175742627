package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"showmetasks/internal/config"
	"showmetasks/internal/exitcode"
	"showmetasks/internal/service"
	"showmetasks/internal/workspace"
)

func init() {
	Register(&DoneCmd{})
	Register(&ToggleCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	listName string
}

// SetListName sets the list name (for testing).
func (c *DoneCmd) SetListName(name string) {
	c.listName = name
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "showmetasks done [--list <list-name>] <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	task, _, code := resolveTask(ctx, ws, c.listName, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if err := ws.SetTaskCompleted(ctx, task.ID, true); err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct {
	listName string
}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return nil }
func (c *ToggleCmd) Synopsis() string  { return "Flip a task between open and completed" }
func (c *ToggleCmd) Usage() string     { return "showmetasks toggle [--list <list-name>] <ref>" }
func (c *ToggleCmd) NeedsAuth() bool   { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	task, _, code := resolveTask(ctx, ws, c.listName, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if err := ws.ToggleTask(ctx, task.ID); err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		if task.Completed {
			fmt.Fprintln(out, "open")
		} else {
			fmt.Fprintln(out, "done")
		}
	}
	return exitcode.Success
}

// resolveTask loads the workspace, opens the target list and picks the
// task named by the reference at the start of args.
func resolveTask(ctx context.Context, ws *workspace.Controller, listName string, args []string, errOut io.Writer) (service.Task, []string, int) {
	num, rest, err := ParseTaskRef(args)
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return service.Task{}, nil, exitcode.UserError
	}
	if num < 1 {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return service.Task{}, nil, exitcode.UserError
	}

	if code := load(ctx, ws, errOut); code != exitcode.Success {
		return service.Task{}, nil, code
	}
	list, code := openList(ctx, ws, listName, errOut)
	if code != exitcode.Success {
		return service.Task{}, nil, code
	}
	task, err := TaskAt(list, num)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, nil, exitcode.UserError
	}
	return task, rest, exitcode.Success
}
