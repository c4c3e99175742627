package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"showmetasks/internal/config"
	"showmetasks/internal/exitcode"
	"showmetasks/internal/session"
	"showmetasks/internal/workspace"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command. Tokens are issued by the external
// auth API; login only stores one.
type LoginCmd struct {
	token string
	in    io.Reader
}

// SetToken sets the token (for testing).
func (c *LoginCmd) SetToken(token string) {
	c.token = token
}

// SetInput sets where the token is read from when --token is absent (for testing).
func (c *LoginCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Store an access token" }
func (c *LoginCmd) Usage() string     { return "showmetasks login [--token <token>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.token, "token", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	raw := strings.TrimSpace(c.token)
	if raw == "" {
		in := c.in
		if in == nil {
			in = os.Stdin
		}
		fmt.Fprintln(errOut, "Paste the access token issued by the ShowMeTasks auth API:")
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			fmt.Fprintf(errOut, "error: failed to read token: %v\n", err)
			return exitcode.AuthError
		}
		raw = strings.TrimSpace(line)
	}
	if raw == "" {
		fmt.Fprintln(errOut, "error: token required")
		return exitcode.AuthError
	}

	tok := session.TokenFromRaw(raw)
	if !tok.Expiry.IsZero() && time.Now().After(tok.Expiry) {
		fmt.Fprintln(errOut, "error: token expired")
		return exitcode.AuthError
	}

	// Ensure config directory exists
	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}

	if err := session.Save(cfg.TokenPath(), tok); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		if tok.Expiry.IsZero() {
			fmt.Fprintln(out, "ok")
		} else {
			fmt.Fprintf(out, "ok (expires %s)\n", tok.Expiry.Local().Format(time.RFC3339))
		}
	}
	return exitcode.Success
}
