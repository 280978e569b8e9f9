package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/commands"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/testutil"
)

// withProject logs in and adds project 2 with tasks 3 (todo) and 4 (review).
func withProject(t *testing.T, quiet bool) *env {
	t.Helper()
	e := newEnv(t, quiet)
	e.login(t)
	p := e.svc.AddProject("Alpha", e.alice.ID)
	e.svc.AddTask(p.ID, "Write docs", service.StatusTodo)
	e.svc.AddTask(p.ID, "Fix login", service.StatusReview)
	return e
}

func TestTasksCommand(t *testing.T) {
	e := withProject(t, false)

	stdout, stderr, code := runCommand(t, &commands.TasksCmd{}, e.app, "2")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "   3  To do        Write docs\n   4  Review       Fix login\n", stdout)
	assert.Equal(t, 2, e.app.Tasks.ProjectID())
}

func TestTasksCommand_Board(t *testing.T) {
	e := withProject(t, false)

	stdout, _, code := runCommand(t, &commands.TasksCmd{}, e.app, "--board", "2")

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, ""+
		"------------\nTo do (1)\n------------\n"+
		"       3  Write docs\n"+
		"------------\nIn progress (0)\n------------\n"+
		"------------\nReview (1)\n------------\n"+
		"       4  Fix login\n"+
		"------------\nDone (0)\n------------\n", stdout)
}

func TestTasksCommand_Empty(t *testing.T) {
	e := newEnv(t, false)
	e.login(t)
	e.svc.AddProject("Alpha", e.alice.ID)

	stdout, _, code := runCommand(t, &commands.TasksCmd{}, e.app, "2")

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "no tasks\n", stdout)
}

func TestTasksCommand_UnknownProject(t *testing.T) {
	e := withProject(t, false)

	_, stderr, code := runCommand(t, &commands.TasksCmd{}, e.app, "99")

	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: Project not found\n", stderr)
}

func TestTasksCommand_SessionEnded(t *testing.T) {
	e := withProject(t, false)
	e.svc.ListTasksErr = testutil.SessionExpired()
	e.expireOn("ListTasks")

	_, stderr, code := runCommand(t, &commands.TasksCmd{}, e.app, "2")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Empty(t, stderr)
	assert.True(t, e.app.SessionEnded())
	assert.Empty(t, e.app.Tasks.Tasks())
}

func TestTaskCommand(t *testing.T) {
	e := withProject(t, false)

	for _, args := range [][]string{{"2/4"}, {"2", "4"}} {
		stdout, stderr, code := runCommand(t, &commands.TaskCmd{}, e.app, args...)
		assert.Equal(t, exitcode.Success, code)
		assert.Empty(t, stderr)
		assert.Equal(t, "Fix login (#4)\nstatus:   Review\n", stdout)
	}
}

func TestTaskCommand_Errors(t *testing.T) {
	e := withProject(t, false)

	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{"missing", nil, exitcode.UserError, "error: task reference required\n"},
		{"project only", []string{"2"}, exitcode.UserError, "error: task reference required\n"},
		{"bad ref", []string{"2/x"}, exitcode.UserError, "error: invalid task reference: 2/x\n"},
		{"extra", []string{"2/3", "now"}, exitcode.UserError, "error: unexpected argument: now\n"},
		{"not found", []string{"2/99"}, exitcode.BackendError, "error: Task not found\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runCommand(t, &commands.TaskCmd{}, e.app, tt.args...)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.stderr, stderr)
		})
	}
}

func TestAddCommand(t *testing.T) {
	e := withProject(t, false)
	bob := e.svc.AddUser("bob", "pw")
	require.Equal(t, 5, bob.ID)

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, e.app,
		"--priority", "high", "--status", "in_progress", "--assignee", "bob", "--due", "2026-11-01",
		"-d", "all of it", "2", "Ship", "release")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "created task 2/6\n", stdout)

	tasks := e.svc.Tasks(2)
	require.Len(t, tasks, 3)
	created := tasks[2]
	assert.Equal(t, "Ship release", created.Title)
	assert.Equal(t, "all of it", created.Description)
	assert.Equal(t, "high", created.Priority)
	assert.Equal(t, service.StatusInProgress, created.Status)
	assert.Equal(t, "2026-11-01", created.DueDate)
	require.NotNil(t, created.AssigneeID)
	assert.Equal(t, bob.ID, *created.AssigneeID)
}

func TestAddCommand_PrependsToLoadedList(t *testing.T) {
	e := withProject(t, true)
	_, _, code := runCommand(t, &commands.TasksCmd{}, e.app, "2")
	require.Equal(t, exitcode.Success, code)

	stdout, _, code := runCommand(t, &commands.AddCmd{}, e.app, "2", "New")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stdout)
	tasks := e.app.Tasks.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "New", tasks[0].Title)
	assert.Equal(t, service.StatusTodo, tasks[0].Status)
}

func TestAddCommand_Validation(t *testing.T) {
	e := withProject(t, false)

	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{"no project", nil, "error: project id required\n"},
		{"no title", []string{"2"}, "error: title required\n"},
		{"bad status", []string{"--status", "blocked", "2", "x"}, "error: invalid status: blocked (want todo, in_progress, review or done)\n"},
		{"bad due", []string{"--due", "tomorrow", "2", "x"}, "error: invalid due date: tomorrow (want YYYY-MM-DD)\n"},
		{"unknown assignee", []string{"--assignee", "zed", "2", "x"}, "error: user not found: zed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runCommand(t, &commands.AddCmd{}, e.app, tt.args...)
			assert.Equal(t, exitcode.UserError, code)
			assert.Equal(t, tt.stderr, stderr)
		})
	}
	assert.Len(t, e.svc.Tasks(2), 2)
}

func TestAddCommand_Failure(t *testing.T) {
	e := withProject(t, false)
	e.svc.CreateTaskErr = serverError("")

	_, stderr, code := runCommand(t, &commands.AddCmd{}, e.app, "2", "x")

	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: Failed to create task\n", stderr)
}

func TestEditCommand(t *testing.T) {
	e := withProject(t, false)

	stdout, stderr, code := runCommand(t, &commands.EditCmd{}, e.app, "--title", "Write more docs", "--status", "review", "2/3")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "ok\n", stdout)
	task := e.svc.Tasks(2)[0]
	assert.Equal(t, "Write more docs", task.Title)
	assert.Equal(t, service.StatusReview, task.Status)
}

func TestEditCommand_NothingToChange(t *testing.T) {
	e := withProject(t, false)

	_, stderr, code := runCommand(t, &commands.EditCmd{}, e.app, "2/3")
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: nothing to change\n", stderr)

	_, stderr, code = runCommand(t, &commands.EditCmd{}, e.app, "--title", "", "2/3")
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: title cannot be empty\n", stderr)
}

func TestDoneCommand(t *testing.T) {
	e := withProject(t, false)
	_, _, code := runCommand(t, &commands.TasksCmd{}, e.app, "2")
	require.Equal(t, exitcode.Success, code)

	stdout, _, code := runCommand(t, &commands.DoneCmd{}, e.app, "2", "3")

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", stdout)
	assert.Equal(t, service.StatusDone, e.svc.Tasks(2)[0].Status)

	byStatus := e.app.Tasks.TasksByStatus()
	assert.Len(t, byStatus[service.StatusDone], 1)
	assert.Empty(t, byStatus[service.StatusTodo])
}

func TestDoneCommand_NotFound(t *testing.T) {
	e := withProject(t, false)

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, e.app, "2/42")

	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: Task not found\n", stderr)
}

func TestRmCommand(t *testing.T) {
	e := withProject(t, false)

	stdout, _, code := runCommand(t, &commands.RmCmd{}, e.app, "2/4")

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", stdout)
	tasks := e.svc.Tasks(2)
	require.Len(t, tasks, 1)
	assert.Equal(t, 3, tasks[0].ID)
}
