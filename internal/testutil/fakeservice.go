// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"

	"taskboard/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu        sync.Mutex
	nextID    int
	users     []service.User
	passwords map[string]string
	session   *service.User
	projects  []service.Project
	tasks     map[int][]service.Task // projectID -> tasks
	calls     []string

	// Error injection for testing
	RegisterErr      error
	LoginErr         error
	MeErr            error
	ListProjectsErr  error
	GetProjectErr    error
	CreateProjectErr error
	UpdateProjectErr error
	DeleteProjectErr error
	AddMemberErr     error
	RemoveMemberErr  error
	ListTasksErr     error
	GetTaskErr       error
	CreateTaskErr    error
	UpdateTaskErr    error
	DeleteTaskErr    error
	SearchUsersErr   error

	// BeforeCall, when set, runs at the start of every call with the
	// operation name. It runs without the fake's lock held, so it may
	// inspect caller state while the call is in flight.
	BeforeCall func(op string)
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID:    1,
		passwords: make(map[string]string),
		tasks:     make(map[int][]service.Task),
	}
}

// NotFound builds the error the server sends for a missing resource.
func NotFound(what string) error {
	return &service.APIError{StatusCode: http.StatusNotFound, Detail: what + " not found"}
}

// SessionExpired builds the error the transport returns after a 401 ended
// the session.
func SessionExpired() error {
	return &service.APIError{
		StatusCode:   http.StatusUnauthorized,
		Detail:       "Could not validate credentials",
		SessionEnded: true,
	}
}

// AddUser adds an account that can log in with password.
func (f *FakeService) AddUser(username, password string) service.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addUserLocked(username, password)
}

func (f *FakeService) addUserLocked(username, password string) service.User {
	u := service.User{
		ID:       f.id(),
		Username: username,
		Email:    username + "@example.com",
	}
	f.users = append(f.users, u)
	f.passwords[username] = password
	return u
}

// AddProject adds a project owned by ownerID.
func (f *FakeService) AddProject(name string, ownerID int) service.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := service.Project{ID: f.id(), Name: name, OwnerID: ownerID, Members: []service.Membership{}}
	f.projects = append(f.projects, p)
	return p
}

// AddTask adds a task to a project.
func (f *FakeService) AddTask(projectID int, title string, status service.TaskStatus) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{ID: f.id(), Title: title, Status: status, ProjectID: projectID}
	f.tasks[projectID] = append(f.tasks[projectID], t)
	return t
}

// Calls returns the operations invoked so far, in order.
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// Projects returns the server-side projects.
func (f *FakeService) Projects() []service.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.projects)
}

// Tasks returns the server-side tasks of a project.
func (f *FakeService) Tasks(projectID int) []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.tasks[projectID])
}

func (f *FakeService) id() int {
	id := f.nextID
	f.nextID++
	return id
}

// enter records op and runs the BeforeCall hook.
func (f *FakeService) enter(op string) {
	if f.BeforeCall != nil {
		f.BeforeCall(op)
	}
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.mu.Unlock()
}

// Register implements service.Auth.
func (f *FakeService) Register(ctx context.Context, in service.RegisterInput) (service.User, error) {
	f.enter("Register")
	if f.RegisterErr != nil {
		return service.User{}, f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.passwords[in.Username]; ok {
		return service.User{}, &service.APIError{StatusCode: http.StatusBadRequest, Detail: "Username already registered"}
	}
	return f.addUserLocked(in.Username, in.Password), nil
}

// Login implements service.Auth.
func (f *FakeService) Login(ctx context.Context, username, password string) (service.Token, error) {
	f.enter("Login")
	if f.LoginErr != nil {
		return service.Token{}, f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.passwords[username]; !ok || pw != password {
		return service.Token{}, &service.APIError{StatusCode: http.StatusUnauthorized, Detail: "Incorrect username or password"}
	}
	for i := range f.users {
		if f.users[i].Username == username {
			u := f.users[i]
			f.session = &u
		}
	}
	return service.Token{AccessToken: "token-" + username, TokenType: "Bearer"}, nil
}

// Me implements service.Auth. It returns the user of the last login.
func (f *FakeService) Me(ctx context.Context) (service.User, error) {
	f.enter("Me")
	if f.MeErr != nil {
		return service.User{}, f.MeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return service.User{}, SessionExpired()
	}
	return *f.session, nil
}

// SetSessionUser makes Me return u, as if a token for u were active.
func (f *FakeService) SetSessionUser(u service.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = &u
}

// ListProjects implements service.Projects.
func (f *FakeService) ListProjects(ctx context.Context) ([]service.Project, error) {
	f.enter("ListProjects")
	if f.ListProjectsErr != nil {
		return nil, f.ListProjectsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.Project, len(f.projects))
	copy(result, f.projects)
	return result, nil
}

func (f *FakeService) projectIndex(id int) int {
	return slices.IndexFunc(f.projects, func(p service.Project) bool { return p.ID == id })
}

// GetProject implements service.Projects.
func (f *FakeService) GetProject(ctx context.Context, id int) (service.Project, error) {
	f.enter("GetProject")
	if f.GetProjectErr != nil {
		return service.Project{}, f.GetProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.projectIndex(id)
	if i < 0 {
		return service.Project{}, NotFound("Project")
	}
	p := f.projects[i]
	p.Members = slices.Clone(p.Members)
	return p, nil
}

// CreateProject implements service.Projects.
func (f *FakeService) CreateProject(ctx context.Context, in service.ProjectInput) (service.Project, error) {
	f.enter("CreateProject")
	if f.CreateProjectErr != nil {
		return service.Project{}, f.CreateProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return service.Project{}, &service.APIError{StatusCode: http.StatusUnprocessableEntity, Detail: "field required"}
	}
	p := service.Project{ID: f.id(), Name: *in.Name, Members: []service.Membership{}}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if f.session != nil {
		p.OwnerID = f.session.ID
	}
	f.projects = append(f.projects, p)
	return p, nil
}

// UpdateProject implements service.Projects.
func (f *FakeService) UpdateProject(ctx context.Context, id int, in service.ProjectInput) (service.Project, error) {
	f.enter("UpdateProject")
	if f.UpdateProjectErr != nil {
		return service.Project{}, f.UpdateProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.projectIndex(id)
	if i < 0 {
		return service.Project{}, NotFound("Project")
	}
	if in.Name != nil {
		f.projects[i].Name = *in.Name
	}
	if in.Description != nil {
		f.projects[i].Description = *in.Description
	}
	return f.projects[i], nil
}

// DeleteProject implements service.Projects.
func (f *FakeService) DeleteProject(ctx context.Context, id int) error {
	f.enter("DeleteProject")
	if f.DeleteProjectErr != nil {
		return f.DeleteProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.projectIndex(id)
	if i < 0 {
		return NotFound("Project")
	}
	f.projects = slices.Delete(f.projects, i, i+1)
	delete(f.tasks, id)
	return nil
}

// AddMember implements service.Projects.
func (f *FakeService) AddMember(ctx context.Context, projectID, userID int) error {
	f.enter("AddMember")
	if f.AddMemberErr != nil {
		return f.AddMemberErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.projectIndex(projectID)
	if i < 0 {
		return NotFound("Project")
	}
	ui := slices.IndexFunc(f.users, func(u service.User) bool { return u.ID == userID })
	if ui < 0 {
		return NotFound("User")
	}
	for _, m := range f.projects[i].Members {
		if m.UserID == userID {
			return &service.APIError{StatusCode: http.StatusBadRequest, Detail: "User is already a member"}
		}
	}
	u := f.users[ui]
	f.projects[i].Members = append(slices.Clone(f.projects[i].Members), service.Membership{
		ID:        f.id(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      "member",
		User:      &u,
	})
	return nil
}

// RemoveMember implements service.Projects.
func (f *FakeService) RemoveMember(ctx context.Context, projectID, userID int) error {
	f.enter("RemoveMember")
	if f.RemoveMemberErr != nil {
		return f.RemoveMemberErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.projectIndex(projectID)
	if i < 0 {
		return NotFound("Project")
	}
	members := slices.DeleteFunc(slices.Clone(f.projects[i].Members), func(m service.Membership) bool {
		return m.UserID == userID
	})
	if len(members) == len(f.projects[i].Members) {
		return NotFound("Member")
	}
	f.projects[i].Members = members
	return nil
}

// ListTasks implements service.Tasks.
func (f *FakeService) ListTasks(ctx context.Context, projectID int) ([]service.Task, error) {
	f.enter("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.projectIndex(projectID) < 0 {
		return nil, NotFound("Project")
	}
	result := make([]service.Task, len(f.tasks[projectID]))
	copy(result, f.tasks[projectID])
	return result, nil
}

func (f *FakeService) taskIndex(projectID, taskID int) int {
	return slices.IndexFunc(f.tasks[projectID], func(t service.Task) bool { return t.ID == taskID })
}

// GetTask implements service.Tasks.
func (f *FakeService) GetTask(ctx context.Context, projectID, taskID int) (service.Task, error) {
	f.enter("GetTask")
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.taskIndex(projectID, taskID)
	if i < 0 {
		return service.Task{}, NotFound("Task")
	}
	return f.tasks[projectID][i], nil
}

// CreateTask implements service.Tasks.
func (f *FakeService) CreateTask(ctx context.Context, projectID int, in service.TaskInput) (service.Task, error) {
	f.enter("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.projectIndex(projectID) < 0 {
		return service.Task{}, NotFound("Project")
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return service.Task{}, &service.APIError{StatusCode: http.StatusUnprocessableEntity, Detail: "field required"}
	}
	t := service.Task{ID: f.id(), Title: *in.Title, Status: service.StatusTodo, ProjectID: projectID}
	applyTaskInput(&t, in)
	f.tasks[projectID] = append(f.tasks[projectID], t)
	return t, nil
}

// UpdateTask implements service.Tasks.
func (f *FakeService) UpdateTask(ctx context.Context, projectID, taskID int, in service.TaskInput) (service.Task, error) {
	f.enter("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.taskIndex(projectID, taskID)
	if i < 0 {
		return service.Task{}, NotFound("Task")
	}
	tasks := slices.Clone(f.tasks[projectID])
	applyTaskInput(&tasks[i], in)
	f.tasks[projectID] = tasks
	return tasks[i], nil
}

// DeleteTask implements service.Tasks.
func (f *FakeService) DeleteTask(ctx context.Context, projectID, taskID int) error {
	f.enter("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.taskIndex(projectID, taskID)
	if i < 0 {
		return NotFound("Task")
	}
	f.tasks[projectID] = slices.Delete(slices.Clone(f.tasks[projectID]), i, i+1)
	return nil
}

// SearchUsers implements service.Users.
func (f *FakeService) SearchUsers(ctx context.Context, query string) ([]service.User, error) {
	f.enter("SearchUsers")
	if f.SearchUsersErr != nil {
		return nil, f.SearchUsersErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	var result []service.User
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Username), q) {
			result = append(result, u)
		}
	}
	return result, nil
}

func applyTaskInput(t *service.Task, in service.TaskInput) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.AssigneeID != nil {
		id := *in.AssigneeID
		t.AssigneeID = &id
	}
	if in.DueDate != nil {
		t.DueDate = *in.DueDate
	}
}
