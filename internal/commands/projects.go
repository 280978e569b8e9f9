package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/app"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

func init() {
	Register(&ProjectsCmd{})
	Register(&ProjectCmd{})
	Register(&AddProjectCmd{})
	Register(&EditProjectCmd{})
	Register(&RmProjectCmd{})
	Register(&AddMemberCmd{})
	Register(&RmMemberCmd{})
}

// ProjectsCmd implements the projects command.
// It is also what `taskboard` with no args runs.
type ProjectsCmd struct{}

func (c *ProjectsCmd) Name() string      { return "projects" }
func (c *ProjectsCmd) Aliases() []string { return []string{"ls"} }
func (c *ProjectsCmd) Synopsis() string  { return "List projects" }
func (c *ProjectsCmd) Usage() string     { return "taskboard projects" }
func (c *ProjectsCmd) NeedsAuth() bool   { return true }

func (c *ProjectsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectsCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	a.Projects.FetchProjects(ctx)
	if msg := a.Projects.Error(); msg != "" || a.SessionEnded() {
		return storeFailed(a, errOut, msg)
	}

	projects := a.Projects.Projects()
	if len(projects) == 0 {
		if !a.Config.Quiet {
			fmt.Fprintln(out, "no projects")
		}
		return exitcode.Success
	}
	for _, p := range projects {
		output.FormatProject(out, p)
	}
	return exitcode.Success
}

// ProjectCmd implements the project command.
type ProjectCmd struct{}

func (c *ProjectCmd) Name() string      { return "project" }
func (c *ProjectCmd) Aliases() []string { return []string{"show"} }
func (c *ProjectCmd) Synopsis() string  { return "Show a project and its members" }
func (c *ProjectCmd) Usage() string     { return "taskboard project <project-id>" }
func (c *ProjectCmd) NeedsAuth() bool   { return true }

func (c *ProjectCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	id, rest, err := ParseProjectID(args)
	if err != nil {
		output.Errorf(errOut, "%v", err)
		return exitcode.UserError
	}
	if len(rest) > 0 {
		output.Errorf(errOut, "unexpected argument: %s", rest[0])
		return exitcode.UserError
	}

	p := a.Projects.FetchProject(ctx, id)
	if p == nil {
		return storeFailed(a, errOut, a.Projects.Error())
	}
	output.FormatProjectDetail(out, *p)
	return exitcode.Success
}

// AddProjectCmd implements the addproject command.
type AddProjectCmd struct {
	description string
}

func (c *AddProjectCmd) Name() string      { return "addproject" }
func (c *AddProjectCmd) Aliases() []string { return []string{"createproject"} }
func (c *AddProjectCmd) Synopsis() string  { return "Create a project" }
func (c *AddProjectCmd) Usage() string {
	return "taskboard addproject [--description <text>] <name...>"
}
func (c *AddProjectCmd) NeedsAuth() bool { return true }

func (c *AddProjectCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *AddProjectCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		output.Errorf(errOut, "project name required")
		return exitcode.UserError
	}

	in := service.ProjectInput{Name: service.String(name)}
	if c.description != "" {
		in.Description = service.String(c.description)
	}
	p := a.Projects.CreateProject(ctx, in)
	if p == nil {
		return storeFailed(a, errOut, a.Projects.Error())
	}

	if !a.Config.Quiet {
		fmt.Fprintf(out, "created project %d\n", p.ID)
	}
	return exitcode.Success
}

// EditProjectCmd implements the editproject command. Only flags given on
// the command line are sent.
type EditProjectCmd struct {
	name        string
	description string
	set         map[string]bool
}

func (c *EditProjectCmd) Name() string      { return "editproject" }
func (c *EditProjectCmd) Aliases() []string { return nil }
func (c *EditProjectCmd) Synopsis() string  { return "Rename or describe a project" }
func (c *EditProjectCmd) Usage() string {
	return "taskboard editproject [--name <name>] [--description <text>] <project-id>"
}
func (c *EditProjectCmd) NeedsAuth() bool { return true }

func (c *EditProjectCmd) RegisterFlags(fs *flag.FlagSet) {
	c.set = make(map[string]bool)
	fs.Var(trackedString{&c.name, c.set, "name"}, "name", "")
	fs.Var(trackedString{&c.description, c.set, "description"}, "description", "")
}

func (c *EditProjectCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	id, rest, err := ParseProjectID(args)
	if err != nil {
		output.Errorf(errOut, "%v", err)
		return exitcode.UserError
	}
	if len(rest) > 0 {
		output.Errorf(errOut, "unexpected argument: %s", rest[0])
		return exitcode.UserError
	}

	var in service.ProjectInput
	if c.set["name"] {
		if strings.TrimSpace(c.name) == "" {
			output.Errorf(errOut, "project name cannot be empty")
			return exitcode.UserError
		}
		in.Name = service.String(c.name)
	}
	if c.set["description"] {
		in.Description = service.String(c.description)
	}
	if in.Name == nil && in.Description == nil {
		output.Errorf(errOut, "nothing to change (use --name or --description)")
		return exitcode.UserError
	}

	if a.Projects.UpdateProject(ctx, id, in) == nil {
		return storeFailed(a, errOut, a.Projects.Error())
	}
	printOK(a, out)
	return exitcode.Success
}

// RmProjectCmd implements the rmproject command.
type RmProjectCmd struct{}

func (c *RmProjectCmd) Name() string      { return "rmproject" }
func (c *RmProjectCmd) Aliases() []string { return nil }
func (c *RmProjectCmd) Synopsis() string  { return "Delete a project and its tasks" }
func (c *RmProjectCmd) Usage() string     { return "taskboard rmproject <project-id>" }
func (c *RmProjectCmd) NeedsAuth() bool   { return true }

func (c *RmProjectCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmProjectCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	id, rest, err := ParseProjectID(args)
	if err != nil {
		output.Errorf(errOut, "%v", err)
		return exitcode.UserError
	}
	if len(rest) > 0 {
		output.Errorf(errOut, "unexpected argument: %s", rest[0])
		return exitcode.UserError
	}

	if !a.Projects.DeleteProject(ctx, id) {
		return storeFailed(a, errOut, a.Projects.Error())
	}
	printOK(a, out)
	return exitcode.Success
}

// AddMemberCmd implements the addmember command.
type AddMemberCmd struct{}

func (c *AddMemberCmd) Name() string      { return "addmember" }
func (c *AddMemberCmd) Aliases() []string { return nil }
func (c *AddMemberCmd) Synopsis() string  { return "Add a user to a project" }
func (c *AddMemberCmd) Usage() string     { return "taskboard addmember <project-id> <user>" }
func (c *AddMemberCmd) NeedsAuth() bool   { return true }

func (c *AddMemberCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddMemberCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	return runMember(ctx, a, args, out, errOut, a.Projects.AddMember)
}

// RmMemberCmd implements the rmmember command.
type RmMemberCmd struct{}

func (c *RmMemberCmd) Name() string      { return "rmmember" }
func (c *RmMemberCmd) Aliases() []string { return nil }
func (c *RmMemberCmd) Synopsis() string  { return "Remove a user from a project" }
func (c *RmMemberCmd) Usage() string     { return "taskboard rmmember <project-id> <user>" }
func (c *RmMemberCmd) NeedsAuth() bool   { return true }

func (c *RmMemberCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmMemberCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	return runMember(ctx, a, args, out, errOut, a.Projects.RemoveMember)
}

// runMember is the shared implementation for addmember and rmmember.
func runMember(ctx context.Context, a *app.App, args []string, out, errOut io.Writer, op func(context.Context, int, int) bool) int {
	projectID, rest, err := ParseProjectID(args)
	if err != nil {
		output.Errorf(errOut, "%v", err)
		return exitcode.UserError
	}
	if len(rest) != 1 {
		output.Errorf(errOut, "exactly one user required")
		return exitcode.UserError
	}

	userID, err := resolveUserID(ctx, a, rest[0])
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrAmbiguousUser) {
			output.Errorf(errOut, "%v", err)
			return exitcode.UserError
		}
		return storeFailed(a, errOut, errMessage(err))
	}

	if !op(ctx, projectID, userID) {
		return storeFailed(a, errOut, a.Projects.Error())
	}
	printOK(a, out)
	return exitcode.Success
}

// trackedString is a string flag that records whether it was set, so an
// explicit empty value can be told apart from an absent flag.
type trackedString struct {
	p    *string
	set  map[string]bool
	name string
}

func (f trackedString) String() string {
	if f.p == nil {
		return ""
	}
	return *f.p
}

func (f trackedString) Set(v string) error {
	*f.p = v
	f.set[f.name] = true
	return nil
}
