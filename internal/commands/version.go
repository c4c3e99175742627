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

// Version is overridden at link time with
// -ldflags "-X showmetasks/internal/commands.Version=<v>".
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print the version" }
func (c *VersionCmd) Usage() string     { return "showmetasks version" }
func (c *VersionCmd) NeedsAuth() bool   { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "showmetasks %s\n", Version)
	return exitcode.Success
}
