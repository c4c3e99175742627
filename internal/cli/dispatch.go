// Package cli parses the command line and runs commands against a workspace.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"showmetasks/internal/apiclient"
	"showmetasks/internal/backend/restapi"
	"showmetasks/internal/commands"
	"showmetasks/internal/config"
	"showmetasks/internal/exitcode"
	"showmetasks/internal/service"
	"showmetasks/internal/session"
	"showmetasks/internal/telemetry"
	"showmetasks/internal/workspace"
)

// ServiceFactory creates a Service and the session it authenticates with.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, *session.Session, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
// A nil factory selects RESTFactory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Look up command
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Parse flags
	remaining := args[1:]
	return d.dispatchCommand(ctx, cmd, remaining, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var common struct {
		configDir string
		quiet     bool
		debug     bool
	}
	fs.StringVar(&common.configDir, "config", "", "")
	fs.BoolVar(&common.quiet, "quiet", false, "")
	fs.BoolVar(&common.debug, "debug", false, "")
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leftover dash-prefixed token means a flag after "--" or a lone "-".
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug

	logger := newLogger(errOut, common.debug)

	// Authenticated commands get a workspace bound to the stored session.
	var ws *workspace.Controller
	if cmd.NeedsAuth() {
		factory := d.factory
		if factory == nil {
			factory = RESTFactory
		}
		svc, sess, err := factory(ctx, cfg, logger)
		if err != nil {
			if errors.Is(err, session.ErrNotLoggedIn) || errors.Is(err, session.ErrExpired) {
				fmt.Fprintf(errOut, "error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
		ws = workspace.New(svc, sess,
			workspace.WithLogger(logger),
			workspace.WithReporter(telemetry.NewLogReporter(logger)),
		)
		defer ws.Close()
	}

	return cmd.Run(ctx, cfg, ws, positionalArgs, out, errOut)
}

// RESTFactory builds the HTTP backend from the stored token and the
// configured API URL.
func RESTFactory(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, *session.Session, error) {
	sess, err := session.LoadFile(cfg.TokenPath())
	if err != nil {
		return nil, nil, err
	}
	api := apiclient.New(cfg.APIURL())
	api.Logger = logger
	return restapi.New(api, sess), sess, nil
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	msg := err.Error()
	if name, ok := strings.CutPrefix(msg, "flag provided but not defined: "); ok {
		return "unknown flag: " + name
	}
	if name, ok := strings.CutPrefix(msg, "flag needs an argument: "); ok {
		return "flag needs an argument: " + name
	}
	return msg
}

// newLogger returns the logger for one run. Without --debug nothing is written.
func newLogger(errOut io.Writer, debug bool) *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	if debug {
		logger.SetOutput(errOut)
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
