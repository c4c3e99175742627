package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"showmetasks/internal/config"
	"showmetasks/internal/exitcode"
	"showmetasks/internal/output"
	"showmetasks/internal/workspace"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct {
	trash  bool
	search string
}

// SetTrash selects the trash view (for testing).
func (c *ListsCmd) SetTrash(trash bool) {
	c.trash = trash
}

// SetSearch sets the name filter (for testing).
func (c *ListsCmd) SetSearch(q string) {
	c.search = q
}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print all lists" }
func (c *ListsCmd) Usage() string     { return "showmetasks lists [--trash] [--search <text>]" }
func (c *ListsCmd) NeedsAuth() bool   { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.trash, "trash", false, "")
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	if code := load(ctx, ws, errOut); code != exitcode.Success {
		return code
	}

	if c.trash {
		ws.SetPanelView(workspace.TrashView)
	}
	ws.SetSearch(c.search)

	lists := ws.VisibleLists()
	if len(lists) == 0 && !cfg.Quiet {
		if c.trash {
			fmt.Fprintln(out, "trash is empty")
		} else {
			fmt.Fprintln(out, "no lists found")
		}
	}
	for _, list := range lists {
		output.FormatListName(out, list)
	}
	return exitcode.Success
}
