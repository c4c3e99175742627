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
	Register(&TrashCmd{})
	Register(&RestoreCmd{})
	Register(&PurgeCmd{})
}

// TrashCmd implements the trash command. Several names are trashed as one
// bulk operation.
type TrashCmd struct{}

func (c *TrashCmd) Name() string      { return "trash" }
func (c *TrashCmd) Aliases() []string { return []string{"rmlist"} }
func (c *TrashCmd) Synopsis() string  { return "Move lists to the trash" }
func (c *TrashCmd) Usage() string     { return "showmetasks trash <list-name>..." }
func (c *TrashCmd) NeedsAuth() bool   { return true }

func (c *TrashCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TrashCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}
	if code := load(ctx, ws, errOut); code != exitcode.Success {
		return code
	}

	active := ws.ActiveLists()
	targets := make([]service.TaskList, 0, len(args))
	seen := make(map[int64]bool, len(args))
	for _, name := range args {
		list, code := lookupList(active, name, errOut)
		if code != exitcode.Success {
			return code
		}
		if list.IsDefault {
			fmt.Fprintln(errOut, "error: cannot delete default list")
			return exitcode.UserError
		}
		// A name given twice would toggle the list back out of the selection.
		if seen[list.ID] {
			continue
		}
		seen[list.ID] = true
		targets = append(targets, list)
	}

	var err error
	if len(targets) == 1 {
		err = ws.SoftDeleteList(ctx, targets[0].ID)
	} else {
		ws.SetSelectionMode(true)
		for _, l := range targets {
			ws.ToggleSelected(l.ID)
		}
		err = ws.SoftDeleteSelected(ctx)
	}
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// RestoreCmd implements the restore command.
type RestoreCmd struct{}

func (c *RestoreCmd) Name() string      { return "restore" }
func (c *RestoreCmd) Aliases() []string { return nil }
func (c *RestoreCmd) Synopsis() string  { return "Take a list out of the trash" }
func (c *RestoreCmd) Usage() string     { return "showmetasks restore <list-name>" }
func (c *RestoreCmd) NeedsAuth() bool   { return true }

func (c *RestoreCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RestoreCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	return runTrashed(ctx, cfg, ws, args, out, errOut, ws.RestoreList)
}

// PurgeCmd implements the purge command.
type PurgeCmd struct{}

func (c *PurgeCmd) Name() string      { return "purge" }
func (c *PurgeCmd) Aliases() []string { return nil }
func (c *PurgeCmd) Synopsis() string  { return "Permanently delete a trashed list" }
func (c *PurgeCmd) Usage() string     { return "showmetasks purge <list-name>" }
func (c *PurgeCmd) NeedsAuth() bool   { return true }

func (c *PurgeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PurgeCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	return runTrashed(ctx, cfg, ws, args, out, errOut, ws.PurgeList)
}

// runTrashed applies op to the named list from the trash.
func runTrashed(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer, op func(context.Context, int64) error) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}
	if code := load(ctx, ws, errOut); code != exitcode.Success {
		return code
	}

	trashed := ws.TrashedLists()
	if _, err := findList(trashed, name); errors.Is(err, errListNotFound) {
		if _, err := findList(ws.ActiveLists(), name); err == nil {
			fmt.Fprintf(errOut, "error: list not in trash: %s\n", name)
			return exitcode.UserError
		}
	}
	list, code := lookupList(trashed, name, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := op(ctx, list.ID); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
