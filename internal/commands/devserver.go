package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"showmetasks/internal/config"
	"showmetasks/internal/exitcode"
	"showmetasks/internal/mockapi"
	"showmetasks/internal/workspace"
)

const devServerShutdownTimeout = 5 * time.Second

func init() {
	Register(&DevServerCmd{})
}

// DevServerCmd implements the devserver command: an in-memory API for
// trying the client without the real backend. Any bearer token is accepted
// and names its own user.
type DevServerCmd struct {
	addr string
}

func (c *DevServerCmd) Name() string      { return "devserver" }
func (c *DevServerCmd) Aliases() []string { return nil }
func (c *DevServerCmd) Synopsis() string  { return "Serve an in-memory API" }
func (c *DevServerCmd) Usage() string     { return "showmetasks devserver [--addr <host:port>]" }
func (c *DevServerCmd) NeedsAuth() bool   { return false }

func (c *DevServerCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "localhost:8080", "")
}

func (c *DevServerCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Controller, args []string, out, errOut io.Writer) int {
	e := mockapi.New(log.StandardLogger()).Handler()

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(c.addr)
	}()
	if !cfg.Quiet {
		fmt.Fprintf(out, "serving http://%s%s\n", c.addr, mockapi.BasePath)
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		return exitcode.Success
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), devServerShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
