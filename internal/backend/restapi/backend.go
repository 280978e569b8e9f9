package restapi

import "taskboard/internal/service"

// Backend bundles the resource clients over one transport.
type Backend struct {
	*AuthAPI
	*ProjectsAPI
	*TasksAPI
	*UsersAPI

	Transport *Client
}

var _ service.Service = (*Backend)(nil)

// NewBackend creates all resource clients sharing c.
func NewBackend(c *Client) *Backend {
	return &Backend{
		AuthAPI:     NewAuthAPI(c),
		ProjectsAPI: NewProjectsAPI(c),
		TasksAPI:    NewTasksAPI(c),
		UsersAPI:    NewUsersAPI(c),
		Transport:   c,
	}
}
