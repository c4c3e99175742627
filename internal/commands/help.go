package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"showmetasks/internal/config"
	"showmetasks/internal/exitcode"
	"showmetasks/internal/workspace"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "showmetasks help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  showmetasks                                    List tasks in the default list
  showmetasks list [common flags] [list-name]    List tasks in a specific list
  showmetasks add [common flags] [--list <list-name>] <description...>
  showmetasks done [common flags] [--list <list-name>] <ref>
  showmetasks toggle [common flags] [--list <list-name>] <ref>
  showmetasks edit [common flags] [--list <list-name>] <ref> <description...>
  showmetasks rm [common flags] [--list <list-name>] <ref>
  showmetasks lists [common flags] [--trash] [--search <text>]
  showmetasks createlist [common flags] <list-name>
  showmetasks today [common flags]
  showmetasks firstlist [common flags]
  showmetasks renamelist [common flags] <old-name> <new-name>
  showmetasks trash [common flags] <list-name>...
  showmetasks restore [common flags] <list-name>
  showmetasks purge [common flags] <list-name>
  showmetasks login [common flags] [--token <token>]
  showmetasks logout [common flags]
  showmetasks devserver [common flags] [--addr <host:port>]
  showmetasks help
  showmetasks version

Task refs are 1-based positions in the list, as printed by list.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  SHOWMETASKS_API_URL   API base URL (default http://localhost:8080/api/todos)
`
