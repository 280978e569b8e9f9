package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"taskboard/internal/app"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
)

func init() {
	Register(&WhoamiCmd{})
	Register(&StatusCmd{})
}

// WhoamiCmd implements the whoami command.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show the logged-in user" }
func (c *WhoamiCmd) Usage() string     { return "taskboard whoami" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	u := a.Auth.User()
	if u == nil {
		return storeFailed(a, errOut, a.Auth.Error())
	}
	output.FormatUser(out, *u)
	return exitcode.Success
}

// StatusCmd implements the status command. It reads local state only.
type StatusCmd struct {
	now func() time.Time
}

// SetClock sets the time used for expiry (for testing).
func (c *StatusCmd) SetClock(now func() time.Time) { c.now = now }

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Show API endpoint and session state" }
func (c *StatusCmd) Usage() string     { return "taskboard status" }
func (c *StatusCmd) NeedsAuth() bool   { return false }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	now := time.Now
	if c.now != nil {
		now = c.now
	}

	fmt.Fprintf(out, "api:      %s\n", a.Config.APIURL)
	fmt.Fprintf(out, "storage:  %s\n", a.Config.Storage.Backend)

	if !a.Auth.IsAuthenticated() {
		fmt.Fprintln(out, "session:  none")
		return exitcode.Success
	}

	a.Auth.Restore(ctx)
	if u := a.Auth.User(); u != nil {
		fmt.Fprintf(out, "user:     %s\n", u.Username)
	}
	if !a.Auth.IsAuthenticated() {
		fmt.Fprintln(out, "session:  ended")
		return exitcode.Success
	}

	claims, ok := a.Auth.TokenClaims()
	switch {
	case !ok:
		fmt.Fprintln(out, "session:  active")
	case claims.ExpiresAt.IsZero():
		fmt.Fprintln(out, "session:  active, no expiry")
	case claims.ExpiresAt.Before(now()):
		fmt.Fprintf(out, "session:  expired at %s\n", claims.ExpiresAt.Local().Format(time.RFC3339))
	default:
		fmt.Fprintf(out, "session:  active until %s\n", claims.ExpiresAt.Local().Format(time.RFC3339))
	}
	return exitcode.Success
}
