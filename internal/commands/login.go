package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskboard/internal/app"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

func init() {
	Register(&LoginCmd{})
	Register(&RegisterCmd{})
}

// credentials holds the flags shared by login and register.
type credentials struct {
	password string
	in       io.Reader
}

func (c *credentials) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

// read returns the username from args and the password from the flag or,
// when the flag is empty, the first line of input.
func (c *credentials) read(args []string) (string, string, error) {
	if len(args) == 0 {
		return "", "", errors.New("username required")
	}
	if len(args) > 1 {
		return "", "", fmt.Errorf("unexpected argument: %s", args[1])
	}
	username := strings.TrimSpace(args[0])
	if username == "" {
		return "", "", errors.New("username required")
	}

	if c.password != "" {
		return username, c.password, nil
	}
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", "", errors.New("password required")
	}
	return username, password, nil
}

// LoginCmd implements the login command.
type LoginCmd struct {
	credentials
	force bool
}

// SetInput sets where the password is read from (for testing).
func (c *LoginCmd) SetInput(r io.Reader) { c.in = r }

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in and store the session" }
func (c *LoginCmd) Usage() string {
	return "taskboard login [--password <pw>] [--force] <username>"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	c.registerFlags(fs)
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	if a.Auth.IsAuthenticated() && !c.force {
		if !a.Config.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	username, password, err := c.read(args)
	if err != nil {
		output.Errorf(errOut, "%v", err)
		return exitcode.UserError
	}

	if !a.Auth.Login(ctx, username, password) {
		output.Errorf(errOut, "%s", a.Auth.Error())
		return exitcode.AuthError
	}

	if !a.Config.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", usernameOr(a, username))
	}
	return exitcode.Success
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	credentials
}

// SetInput sets where the password is read from (for testing).
func (c *RegisterCmd) SetInput(r io.Reader) { c.in = r }

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return nil }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and log in" }
func (c *RegisterCmd) Usage() string {
	return "taskboard register [--password <pw>] <username>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	c.registerFlags(fs)
}

func (c *RegisterCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	username, password, err := c.read(args)
	if err != nil {
		output.Errorf(errOut, "%v", err)
		return exitcode.UserError
	}

	if !a.Auth.Register(ctx, service.RegisterInput{Username: username, Password: password}) {
		output.Errorf(errOut, "%s", a.Auth.Error())
		return exitcode.AuthError
	}

	if !a.Config.Quiet {
		fmt.Fprintf(out, "registered and logged in as %s\n", usernameOr(a, username))
	}
	return exitcode.Success
}

// usernameOr returns the signed-in username, or fallback when the user
// record could not be loaded.
func usernameOr(a *app.App, fallback string) string {
	if u := a.Auth.User(); u != nil {
		return u.Username
	}
	return fallback
}
