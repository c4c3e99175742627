package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"showmetasks/internal/config"
	"showmetasks/internal/exitcode"
	"showmetasks/internal/output"
	"showmetasks/internal/workspace"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `showmetasks` (no args) and `showmetasks list <list-name>`.
type ListCmd struct{}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return nil }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "showmetasks list [list-name]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	if code := load(ctx, ws, errOut); code != exitcode.Success {
		return code
	}
	list, code := openList(ctx, ws, strings.Join(args, " "), errOut)
	if code != exitcode.Success {
		return code
	}

	// Print list section (even if empty)
	output.FormatListHeader(out, list)
	for i, task := range list.Tasks {
		output.FormatTask(out, i+1, task)
	}
	return exitcode.Success
}
