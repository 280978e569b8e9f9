package restapi

import (
	"context"
	"fmt"
	"net/http"

	"taskboard/internal/service"
)

// TasksAPI calls the task endpoints nested under a project.
type TasksAPI struct {
	c *Client
}

// NewTasksAPI creates the tasks resource client.
func NewTasksAPI(c *Client) *TasksAPI {
	return &TasksAPI{c: c}
}

func tasksPath(projectID int) string {
	return fmt.Sprintf("/projects/%d/tasks/", projectID)
}

func taskPath(projectID, taskID int) string {
	return fmt.Sprintf("/projects/%d/tasks/%d", projectID, taskID)
}

const (
	tasksRoute = "/projects/{id}/tasks/"
	taskRoute  = "/projects/{id}/tasks/{task_id}"
)

// ListTasks implements service.Tasks.
func (t *TasksAPI) ListTasks(ctx context.Context, projectID int) ([]service.Task, error) {
	var out []service.Task
	err := t.c.Send(ctx, Request{
		Method: http.MethodGet,
		Path:   tasksPath(projectID),
		Route:  tasksRoute,
	}, &out)
	return out, err
}

// GetTask implements service.Tasks.
func (t *TasksAPI) GetTask(ctx context.Context, projectID, taskID int) (service.Task, error) {
	var out service.Task
	err := t.c.Send(ctx, Request{
		Method: http.MethodGet,
		Path:   taskPath(projectID, taskID),
		Route:  taskRoute,
	}, &out)
	return out, err
}

// CreateTask implements service.Tasks.
func (t *TasksAPI) CreateTask(ctx context.Context, projectID int, in service.TaskInput) (service.Task, error) {
	var out service.Task
	err := t.c.Send(ctx, Request{
		Method: http.MethodPost,
		Path:   tasksPath(projectID),
		Route:  tasksRoute,
		Body:   in,
	}, &out)
	return out, err
}

// UpdateTask implements service.Tasks.
func (t *TasksAPI) UpdateTask(ctx context.Context, projectID, taskID int, in service.TaskInput) (service.Task, error) {
	var out service.Task
	err := t.c.Send(ctx, Request{
		Method: http.MethodPut,
		Path:   taskPath(projectID, taskID),
		Route:  taskRoute,
		Body:   in,
	}, &out)
	return out, err
}

// DeleteTask implements service.Tasks.
func (t *TasksAPI) DeleteTask(ctx context.Context, projectID, taskID int) error {
	return t.c.Send(ctx, Request{
		Method: http.MethodDelete,
		Path:   taskPath(projectID, taskID),
		Route:  taskRoute,
	}, nil)
}
