package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"showmetasks/internal/config"
	"showmetasks/internal/exitcode"
	"showmetasks/internal/workspace"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	listName string
}

// SetListName sets the list name (for testing).
func (c *EditCmd) SetListName(name string) {
	c.listName = name
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task description" }
func (c *EditCmd) Usage() string {
	return "showmetasks edit [--list <list-name>] <ref> <description...>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	if len(args) > 0 && strings.TrimSpace(strings.Join(args[1:], " ")) == "" {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}
	task, rest, code := resolveTask(ctx, ws, c.listName, args, errOut)
	if code != exitcode.Success {
		return code
	}

	e := ws.EditTask(task.ID)
	if !e.Begin() {
		fmt.Fprintf(errOut, "error: task not found: %d\n", task.ID)
		return exitcode.UserError
	}
	e.SetDraft(strings.Join(rest, " "))
	if err := e.Commit(ctx); err != nil {
		e.Cancel()
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
