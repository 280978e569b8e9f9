package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/app"
	"taskboard/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskboard help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }
func (c *HelpCmd) Standalone() bool  { return true }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskboard                                          List projects
  taskboard login [--password <pw>] [--force] <username>
  taskboard register [--password <pw>] <username>
  taskboard logout
  taskboard whoami
  taskboard status

  taskboard projects
  taskboard project <project-id>
  taskboard addproject [--description <text>] <name...>
  taskboard editproject [--name <name>] [--description <text>] <project-id>
  taskboard rmproject <project-id>
  taskboard addmember <project-id> <user>
  taskboard rmmember <project-id> <user>

  taskboard tasks [--board] <project-id>
  taskboard task <ref>
  taskboard add [task flags] <project-id> <title...>
  taskboard edit [--title <t>] [task flags] <ref>
  taskboard done <ref>
  taskboard rm <ref>

  taskboard users <query>
  taskboard help
  taskboard version

A <ref> is "<project-id>/<task-id>" or "<project-id> <task-id>".
A <user> is a user id or an exact username.

Task flags:
  --description <text>   --priority <p>   --status <todo|in_progress|review|done>
  --assignee <user>      --due <YYYY-MM-DD>

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs and a request summary to stderr

Login reads the password from the first line of stdin when --password is
not given.
`
