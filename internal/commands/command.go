// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/app"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a session.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// a is nil for Standalone commands.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int
}

// Standalone is implemented by commands that run without an App, so they
// work even when the configuration is broken.
type Standalone interface {
	Standalone() bool
}

// IsStandalone reports whether cmd runs without an App.
func IsStandalone(cmd Command) bool {
	s, ok := cmd.(Standalone)
	return ok && s.Standalone()
}

// storeFailed reports a failed store operation. When the server ended the
// session the dispatcher prints the message, so nothing is written here.
func storeFailed(a *app.App, errOut io.Writer, msg string) int {
	if a.SessionEnded() {
		return exitcode.AuthError
	}
	if msg == "" {
		msg = "request failed"
	}
	output.Errorf(errOut, "%s", msg)
	return exitcode.BackendError
}

// printOK prints "ok" unless quiet.
func printOK(a *app.App, out io.Writer) {
	if !a.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
}

// errMessage returns the server detail carried by err, or err's text.
func errMessage(err error) string {
	if d := service.ErrorDetail(err); d != "" {
		return d
	}
	return err.Error()
}
