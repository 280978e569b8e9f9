// Package service defines the backend-agnostic interfaces for the tracker API.
package service

import "context"

// Auth defines the authentication endpoints.
// Stores never import the HTTP backend directly.
type Auth interface {
	// Register creates a new account. It does not log in.
	Register(ctx context.Context, in RegisterInput) (User, error)

	// Login exchanges credentials for a session token.
	Login(ctx context.Context, username, password string) (Token, error)

	// Me returns the user the current token belongs to.
	Me(ctx context.Context) (User, error)
}

// Projects defines the project and membership endpoints.
type Projects interface {
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id int) (Project, error)
	CreateProject(ctx context.Context, in ProjectInput) (Project, error)

	// UpdateProject sends only the fields set in in.
	UpdateProject(ctx context.Context, id int, in ProjectInput) (Project, error)
	DeleteProject(ctx context.Context, id int) error

	AddMember(ctx context.Context, projectID, userID int) error
	RemoveMember(ctx context.Context, projectID, userID int) error
}

// Tasks defines the task endpoints. All tasks are scoped to a project.
type Tasks interface {
	ListTasks(ctx context.Context, projectID int) ([]Task, error)
	GetTask(ctx context.Context, projectID, taskID int) (Task, error)
	CreateTask(ctx context.Context, projectID int, in TaskInput) (Task, error)

	// UpdateTask sends only the fields set in in.
	UpdateTask(ctx context.Context, projectID, taskID int, in TaskInput) (Task, error)
	DeleteTask(ctx context.Context, projectID, taskID int) error
}

// Users defines the user directory endpoints.
type Users interface {
	// SearchUsers returns users whose username matches query.
	SearchUsers(ctx context.Context, query string) ([]User, error)
}

// Service is the full tracker API.
type Service interface {
	Auth
	Projects
	Tasks
	Users
}
