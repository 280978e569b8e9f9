package restapi

import (
	"context"
	"fmt"
	"net/http"

	"taskboard/internal/service"
)

// ProjectsAPI calls the /projects endpoints.
type ProjectsAPI struct {
	c *Client
}

// NewProjectsAPI creates the projects resource client.
func NewProjectsAPI(c *Client) *ProjectsAPI {
	return &ProjectsAPI{c: c}
}

func projectPath(id int) string {
	return fmt.Sprintf("/projects/%d", id)
}

// ListProjects implements service.Projects.
func (p *ProjectsAPI) ListProjects(ctx context.Context) ([]service.Project, error) {
	var out []service.Project
	err := p.c.Send(ctx, Request{Method: http.MethodGet, Path: "/projects/"}, &out)
	return out, err
}

// GetProject implements service.Projects.
func (p *ProjectsAPI) GetProject(ctx context.Context, id int) (service.Project, error) {
	var out service.Project
	err := p.c.Send(ctx, Request{
		Method: http.MethodGet,
		Path:   projectPath(id),
		Route:  "/projects/{id}",
	}, &out)
	return out, err
}

// CreateProject implements service.Projects.
func (p *ProjectsAPI) CreateProject(ctx context.Context, in service.ProjectInput) (service.Project, error) {
	var out service.Project
	err := p.c.Send(ctx, Request{Method: http.MethodPost, Path: "/projects/", Body: in}, &out)
	return out, err
}

// UpdateProject implements service.Projects.
func (p *ProjectsAPI) UpdateProject(ctx context.Context, id int, in service.ProjectInput) (service.Project, error) {
	var out service.Project
	err := p.c.Send(ctx, Request{
		Method: http.MethodPut,
		Path:   projectPath(id),
		Route:  "/projects/{id}",
		Body:   in,
	}, &out)
	return out, err
}

// DeleteProject implements service.Projects.
func (p *ProjectsAPI) DeleteProject(ctx context.Context, id int) error {
	return p.c.Send(ctx, Request{
		Method: http.MethodDelete,
		Path:   projectPath(id),
		Route:  "/projects/{id}",
	}, nil)
}

type memberRequest struct {
	UserID int `json:"user_id"`
}

// AddMember implements service.Projects.
func (p *ProjectsAPI) AddMember(ctx context.Context, projectID, userID int) error {
	return p.c.Send(ctx, Request{
		Method: http.MethodPost,
		Path:   projectPath(projectID) + "/members",
		Route:  "/projects/{id}/members",
		Body:   memberRequest{UserID: userID},
	}, nil)
}

// RemoveMember implements service.Projects.
func (p *ProjectsAPI) RemoveMember(ctx context.Context, projectID, userID int) error {
	return p.c.Send(ctx, Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("%s/members/%d", projectPath(projectID), userID),
		Route:  "/projects/{id}/members/{user_id}",
	}, nil)
}
