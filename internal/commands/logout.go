package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"

	"showmetasks/internal/config"
	"showmetasks/internal/exitcode"
	"showmetasks/internal/workspace"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd forgets the stored token. config.yaml is left alone.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove the stored token" }
func (c *LogoutCmd) Usage() string     { return "showmetasks logout" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	msg := "ok"
	if err := cfg.RemoveToken(); errors.Is(err, fs.ErrNotExist) {
		msg = "not logged in"
	} else if err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, msg)
	}
	return exitcode.Success
}
