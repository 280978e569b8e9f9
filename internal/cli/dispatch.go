// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"taskboard/internal/app"
	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/logging"
	"taskboard/internal/output"
)

// DefaultCommand runs when no command is given.
const DefaultCommand = "projects"

// AppFactory builds the App a command runs against.
// Used to inject fakes during dispatch.
type AppFactory func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app.App, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  AppFactory
}

// NewDispatcher creates a new dispatcher with the given registry and app
// factory. A nil factory builds the real App with app.New.
func NewDispatcher(registry *commands.Registry, factory AppFactory) *Dispatcher {
	if factory == nil {
		factory = app.New
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return d.dispatch(ctx, DefaultCommand, nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command.
	if strings.HasPrefix(cmdName, "-") {
		output.Errorf(errOut, "unknown command: %s", cmdName)
		return exitcode.UserError
	}
	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		if s := d.registry.Suggest(cmdName); len(s) > 0 {
			output.Errorf(errOut, "unknown command: %s (did you mean: %s?)", cmdName, strings.Join(s, ", "))
		} else {
			output.Errorf(errOut, "unknown command: %s", cmdName)
		}
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(out, "Usage: %s\n", cmd.Usage())
			return exitcode.Success
		}
		output.Errorf(errOut, "%s", flagError(err))
		return exitcode.UserError
	}

	// A leading "-" left after parsing is a flag placed after "--" or a
	// lone "-".
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		output.Errorf(errOut, "unknown flag: %s", positionalArgs[0])
		return exitcode.UserError
	}

	if commands.IsStandalone(cmd) {
		return cmd.Run(ctx, nil, positionalArgs, out, errOut)
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		output.Errorf(errOut, "%s", err)
		return exitcode.AuthError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger, err := logging.New(cfg.Logging.Level, cfg.Debug)
	if err != nil {
		output.Errorf(errOut, "%s", err)
		return exitcode.AuthError
	}
	defer logger.Sync() //nolint:errcheck

	a, err := d.factory(ctx, cfg, logger)
	if err != nil {
		output.Errorf(errOut, "%s", err)
		return exitcode.BackendError
	}
	defer a.Close()

	code := d.runWithApp(ctx, cmd, a, positionalArgs, out, errOut)

	if cfg.Debug && a.Metrics != nil {
		stats, err := a.Metrics.Snapshot()
		if err != nil {
			logger.Debug("request summary unavailable", zap.Error(err))
		} else {
			output.FormatRequestStats(errOut, stats)
		}
	}
	return code
}

func (d *Dispatcher) runWithApp(ctx context.Context, cmd commands.Command, a *app.App, args []string, out, errOut io.Writer) int {
	if cmd.NeedsAuth() && !a.Auth.Restore(ctx) {
		if a.SessionEnded() {
			output.Errorf(errOut, "session expired, log in again (run: taskboard login)")
		} else {
			output.Errorf(errOut, "not logged in (run: taskboard login)")
		}
		return exitcode.AuthError
	}

	code := cmd.Run(ctx, a, args, out, errOut)

	if a.SessionEnded() {
		output.Errorf(errOut, "session expired, log in again (run: taskboard login)")
		return exitcode.AuthError
	}
	return code
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()
	if name, ok := strings.CutPrefix(errStr, "flag provided but not defined: "); ok {
		return "unknown flag: " + name
	}
	return errStr
}
