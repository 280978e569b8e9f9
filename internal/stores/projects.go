package stores

import (
	"context"
	"slices"

	"taskboard/internal/service"
)

// ProjectsStore owns the project list and the currently open project.
// Mutations replace the list rather than editing it, so a slice returned
// by Projects is never changed afterwards.
type ProjectsStore struct {
	*state

	api service.Projects

	projects []service.Project
	current  *service.Project
}

// NewProjectsStore creates an empty projects store.
func NewProjectsStore(api service.Projects, opts Options) *ProjectsStore {
	return &ProjectsStore{
		state:    newState(StoreProjects, opts),
		api:      api,
		projects: []service.Project{},
	}
}

// Projects returns the project list.
func (s *ProjectsStore) Projects() []service.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects
}

// CurrentProject returns a copy of the open project, or nil.
func (s *ProjectsStore) CurrentProject() *service.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	p := *s.current
	return &p
}

// FetchProjects replaces the list with the server's. On failure the list
// is left as it was.
func (s *ProjectsStore) FetchProjects(ctx context.Context) {
	s.begin()
	defer s.end()

	list, err := s.api.ListProjects(ctx)
	if err != nil {
		s.fail("fetch_projects", err, MsgLoadProjectsFailed)
		return
	}
	if list == nil {
		list = []service.Project{}
	}
	s.update(func() { s.projects = list }, FieldProjects)
}

// FetchProject loads a project and makes it the current one.
func (s *ProjectsStore) FetchProject(ctx context.Context, id int) *service.Project {
	s.begin()
	defer s.end()

	p, err := s.api.GetProject(ctx, id)
	if err != nil {
		s.fail("fetch_project", err, MsgLoadProjectFailed)
		return nil
	}
	s.update(func() { s.current = &p }, FieldCurrentProject)
	return copyProject(p)
}

// CreateProject creates a project and puts it at the front of the list.
func (s *ProjectsStore) CreateProject(ctx context.Context, in service.ProjectInput) *service.Project {
	s.begin()
	defer s.end()

	p, err := s.api.CreateProject(ctx, in)
	if err != nil {
		s.fail("create_project", err, MsgCreateProjectFailed)
		return nil
	}
	s.update(func() {
		s.projects = append([]service.Project{p}, s.projects...)
	}, FieldProjects)
	return copyProject(p)
}

// UpdateProject applies a partial update. The list entry and the current
// project, when they match, are replaced together.
func (s *ProjectsStore) UpdateProject(ctx context.Context, id int, in service.ProjectInput) *service.Project {
	s.begin()
	defer s.end()

	p, err := s.api.UpdateProject(ctx, id, in)
	if err != nil {
		s.fail("update_project", err, MsgUpdateProjectFailed)
		return nil
	}

	s.update(func() {
		if i := slices.IndexFunc(s.projects, func(x service.Project) bool { return x.ID == id }); i >= 0 {
			list := slices.Clone(s.projects)
			list[i] = p
			s.projects = list
		}
		if s.current != nil && s.current.ID == id {
			updated := p
			s.current = &updated
		}
	}, FieldProjects, FieldCurrentProject)
	return copyProject(p)
}

// DeleteProject deletes a project and drops it from the list. The current
// project is kept even when it is the one deleted.
func (s *ProjectsStore) DeleteProject(ctx context.Context, id int) bool {
	s.begin()
	defer s.end()

	if err := s.api.DeleteProject(ctx, id); err != nil {
		s.fail("delete_project", err, MsgDeleteProjectFailed)
		return false
	}
	s.update(func() {
		s.projects = slices.DeleteFunc(slices.Clone(s.projects), func(x service.Project) bool {
			return x.ID == id
		})
	}, FieldProjects)
	return true
}

// AddMember adds a user to a project and reloads the project. It does not
// set Loading itself; the reload does. A failed reload still reports true.
func (s *ProjectsStore) AddMember(ctx context.Context, projectID, userID int) bool {
	if err := s.api.AddMember(ctx, projectID, userID); err != nil {
		s.fail("add_member", err, MsgAddMemberFailed)
		return false
	}
	s.FetchProject(ctx, projectID)
	return true
}

// RemoveMember removes a user from a project and reloads the project,
// like AddMember.
func (s *ProjectsStore) RemoveMember(ctx context.Context, projectID, userID int) bool {
	if err := s.api.RemoveMember(ctx, projectID, userID); err != nil {
		s.fail("remove_member", err, MsgRemoveMemberFailed)
		return false
	}
	s.FetchProject(ctx, projectID)
	return true
}

// Reset forgets all projects, e.g. after logout.
func (s *ProjectsStore) Reset() {
	s.update(func() {
		s.projects = []service.Project{}
		s.current = nil
		s.err = ""
	}, FieldProjects, FieldCurrentProject, FieldError)
}

func copyProject(p service.Project) *service.Project {
	return &p
}
