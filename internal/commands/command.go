// Package commands implements the showmetasks subcommands. Each command is
// a thin adapter from arguments to workspace.Controller operations.
package commands

import (
	"context"
	"flag"
	"io"

	"showmetasks/internal/config"
	"showmetasks/internal/workspace"
)

// Command is one subcommand.
type Command interface {
	Name() string
	Aliases() []string

	// Synopsis and Usage feed the help text.
	Synopsis() string
	Usage() string

	// NeedsAuth reports whether Run needs a workspace. When false, Run
	// receives a nil controller.
	NeedsAuth() bool

	// RegisterFlags adds command flags next to the common ones.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with the positional args left after flag
	// parsing and returns the process exit code. ws has fetched nothing yet.
	Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int
}
