package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/app"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
)

func init() {
	Register(&UsersCmd{})
}

// UsersCmd implements the users command.
type UsersCmd struct{}

func (c *UsersCmd) Name() string      { return "users" }
func (c *UsersCmd) Aliases() []string { return nil }
func (c *UsersCmd) Synopsis() string  { return "Search users by name" }
func (c *UsersCmd) Usage() string     { return "taskboard users <query>" }
func (c *UsersCmd) NeedsAuth() bool   { return true }

func (c *UsersCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UsersCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		output.Errorf(errOut, "search query required")
		return exitcode.UserError
	}

	users, err := a.API.SearchUsers(ctx, query)
	if err != nil {
		return storeFailed(a, errOut, errMessage(err))
	}
	if len(users) == 0 {
		if !a.Config.Quiet {
			fmt.Fprintln(out, "no users")
		}
		return exitcode.Success
	}
	for _, u := range users {
		output.FormatUser(out, u)
	}
	return exitcode.Success
}
