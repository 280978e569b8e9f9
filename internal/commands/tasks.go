package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskboard/internal/app"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

func init() {
	Register(&TasksCmd{})
	Register(&TaskCmd{})
	Register(&AddCmd{})
	Register(&EditCmd{})
	Register(&DoneCmd{})
	Register(&RmCmd{})
}

// dueLayout is the accepted --due format.
const dueLayout = "2006-01-02"

// TasksCmd implements the tasks command.
type TasksCmd struct {
	board bool
}

// SetBoard selects board output (for testing).
func (c *TasksCmd) SetBoard(board bool) { c.board = board }

func (c *TasksCmd) Name() string      { return "tasks" }
func (c *TasksCmd) Aliases() []string { return []string{"list"} }
func (c *TasksCmd) Synopsis() string  { return "List tasks in a project" }
func (c *TasksCmd) Usage() string     { return "taskboard tasks [--board] <project-id>" }
func (c *TasksCmd) NeedsAuth() bool   { return true }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.board, "board", false, "")
	fs.BoolVar(&c.board, "b", false, "")
}

func (c *TasksCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	projectID, rest, err := ParseProjectID(args)
	if err != nil {
		output.Errorf(errOut, "%v", err)
		return exitcode.UserError
	}
	if len(rest) > 0 {
		output.Errorf(errOut, "unexpected argument: %s", rest[0])
		return exitcode.UserError
	}

	a.Tasks.FetchTasks(ctx, projectID)
	if msg := a.Tasks.Error(); msg != "" || a.SessionEnded() {
		return storeFailed(a, errOut, msg)
	}

	if c.board {
		output.FormatBoard(out, a.Tasks.TasksByStatus())
		return exitcode.Success
	}

	tasks := a.Tasks.Tasks()
	if len(tasks) == 0 {
		if !a.Config.Quiet {
			fmt.Fprintln(out, "no tasks")
		}
		return exitcode.Success
	}
	for _, t := range tasks {
		output.FormatTask(out, t)
	}
	return exitcode.Success
}

// TaskCmd implements the task command. A single task has no store, so
// it is read through the API directly.
type TaskCmd struct{}

func (c *TaskCmd) Name() string      { return "task" }
func (c *TaskCmd) Aliases() []string { return nil }
func (c *TaskCmd) Synopsis() string  { return "Show a task" }
func (c *TaskCmd) Usage() string     { return "taskboard task <ref>" }
func (c *TaskCmd) NeedsAuth() bool   { return true }

func (c *TaskCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TaskCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	ref, ok := parseOnlyRef(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	t, err := a.API.GetTask(ctx, ref.ProjectID, ref.TaskID)
	if err != nil {
		return storeFailed(a, errOut, errMessage(err))
	}
	output.FormatTaskDetail(out, t)
	return exitcode.Success
}

// taskFields holds the flags shared by add and edit.
type taskFields struct {
	title       string
	description string
	priority    string
	status      string
	assignee    string
	due         string
	set         map[string]bool
}

func (f *taskFields) registerFlags(fs *flag.FlagSet, withTitle bool) {
	f.set = make(map[string]bool)
	if withTitle {
		fs.Var(trackedString{&f.title, f.set, "title"}, "title", "")
	}
	fs.Var(trackedString{&f.description, f.set, "description"}, "description", "")
	fs.Var(trackedString{&f.description, f.set, "description"}, "d", "")
	fs.Var(trackedString{&f.priority, f.set, "priority"}, "priority", "")
	fs.Var(trackedString{&f.status, f.set, "status"}, "status", "")
	fs.Var(trackedString{&f.assignee, f.set, "assignee"}, "assignee", "")
	fs.Var(trackedString{&f.due, f.set, "due"}, "due", "")
}

// input builds a TaskInput from the flags that were given. A user error
// is reported through errOut; ok is false when the command should stop.
func (f *taskFields) input(ctx context.Context, a *app.App, errOut io.Writer) (in service.TaskInput, code int, ok bool) {
	if f.set["title"] {
		if strings.TrimSpace(f.title) == "" {
			output.Errorf(errOut, "title cannot be empty")
			return in, exitcode.UserError, false
		}
		in.Title = service.String(f.title)
	}
	if f.set["description"] {
		in.Description = service.String(f.description)
	}
	if f.set["priority"] {
		in.Priority = service.String(f.priority)
	}
	if f.set["status"] {
		s := service.TaskStatus(f.status)
		if !s.Known() {
			output.Errorf(errOut, "invalid status: %s (want todo, in_progress, review or done)", f.status)
			return in, exitcode.UserError, false
		}
		in.Status = service.Status(s)
	}
	if f.set["due"] {
		if _, err := time.Parse(dueLayout, f.due); err != nil {
			output.Errorf(errOut, "invalid due date: %s (want YYYY-MM-DD)", f.due)
			return in, exitcode.UserError, false
		}
		in.DueDate = service.String(f.due)
	}
	if f.set["assignee"] {
		id, err := resolveUserID(ctx, a, f.assignee)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrAmbiguousUser) {
				output.Errorf(errOut, "%v", err)
				return in, exitcode.UserError, false
			}
			return in, storeFailed(a, errOut, errMessage(err)), false
		}
		in.AssigneeID = &id
	}
	return in, exitcode.Success, true
}

// AddCmd implements the add command.
type AddCmd struct {
	taskFields
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskboard add [--description <text>] [--priority <p>] [--status <s>] [--assignee <user>] [--due <YYYY-MM-DD>] <project-id> <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.registerFlags(fs, false)
}

func (c *AddCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	projectID, rest, err := ParseProjectID(args)
	if err != nil {
		output.Errorf(errOut, "%v", err)
		return exitcode.UserError
	}
	title := strings.TrimSpace(strings.Join(rest, " "))
	if title == "" {
		output.Errorf(errOut, "title required")
		return exitcode.UserError
	}

	in, code, ok := c.input(ctx, a, errOut)
	if !ok {
		return code
	}
	in.Title = service.String(title)

	t := a.Tasks.CreateTask(ctx, projectID, in)
	if t == nil {
		return storeFailed(a, errOut, a.Tasks.Error())
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "created task %d/%d\n", projectID, t.ID)
	}
	return exitcode.Success
}

// EditCmd implements the edit command. Only flags given on the command
// line are sent.
type EditCmd struct {
	taskFields
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change task fields" }
func (c *EditCmd) Usage() string {
	return "taskboard edit [--title <t>] [--description <text>] [--priority <p>] [--status <s>] [--assignee <user>] [--due <YYYY-MM-DD>] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.registerFlags(fs, true)
}

func (c *EditCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	ref, ok := parseOnlyRef(args, errOut)
	if !ok {
		return exitcode.UserError
	}
	if len(c.set) == 0 {
		output.Errorf(errOut, "nothing to change")
		return exitcode.UserError
	}

	in, code, ok := c.input(ctx, a, errOut)
	if !ok {
		return code
	}
	return updateTask(ctx, a, ref, in, out, errOut)
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string  { return "Move a task to done" }
func (c *DoneCmd) Usage() string     { return "taskboard done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	ref, ok := parseOnlyRef(args, errOut)
	if !ok {
		return exitcode.UserError
	}
	return updateTask(ctx, a, ref, service.TaskInput{Status: service.Status(service.StatusDone)}, out, errOut)
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskboard rm <ref>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	ref, ok := parseOnlyRef(args, errOut)
	if !ok {
		return exitcode.UserError
	}
	if !a.Tasks.DeleteTask(ctx, ref.ProjectID, ref.TaskID) {
		return storeFailed(a, errOut, a.Tasks.Error())
	}
	printOK(a, out)
	return exitcode.Success
}

func updateTask(ctx context.Context, a *app.App, ref TaskRef, in service.TaskInput, out, errOut io.Writer) int {
	if a.Tasks.UpdateTask(ctx, ref.ProjectID, ref.TaskID, in) == nil {
		return storeFailed(a, errOut, a.Tasks.Error())
	}
	printOK(a, out)
	return exitcode.Success
}

// parseOnlyRef parses a task reference that must be the only argument.
func parseOnlyRef(args []string, errOut io.Writer) (TaskRef, bool) {
	ref, rest, err := ParseTaskRef(args)
	if err != nil {
		output.Errorf(errOut, "%v", err)
		return TaskRef{}, false
	}
	if len(rest) > 0 {
		output.Errorf(errOut, "unexpected argument: %s", rest[0])
		return TaskRef{}, false
	}
	return ref, true
}
