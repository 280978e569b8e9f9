package stores

import (
	"context"
	"slices"

	"taskboard/internal/service"
)

// TasksStore owns the tasks of the project fetched last.
type TasksStore struct {
	*state

	api service.Tasks

	projectID int
	tasks     []service.Task
}

// NewTasksStore creates an empty tasks store.
func NewTasksStore(api service.Tasks, opts Options) *TasksStore {
	return &TasksStore{
		state: newState(StoreTasks, opts),
		api:   api,
		tasks: []service.Task{},
	}
}

// Tasks returns the task list. The slice is never modified afterwards.
func (s *TasksStore) Tasks() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks
}

// ProjectID returns the project the tasks were last fetched for, or 0.
func (s *TasksStore) ProjectID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectID
}

// TasksByStatus partitions the tasks into the four board columns, keeping
// list order. Every column is present; tasks with an unknown status are
// left out.
func (s *TasksStore) TasksByStatus() map[service.TaskStatus][]service.Task {
	s.mu.RLock()
	tasks := s.tasks
	s.mu.RUnlock()

	grouped := make(map[service.TaskStatus][]service.Task, len(service.Statuses))
	for _, st := range service.Statuses {
		grouped[st] = []service.Task{}
	}
	for _, t := range tasks {
		if bucket, ok := grouped[t.Status]; ok {
			grouped[t.Status] = append(bucket, t)
		}
	}
	return grouped
}

// FetchTasks replaces the list with the tasks of projectID. On failure
// the list is left as it was.
func (s *TasksStore) FetchTasks(ctx context.Context, projectID int) {
	s.begin()
	defer s.end()

	list, err := s.api.ListTasks(ctx, projectID)
	if err != nil {
		s.fail("fetch_tasks", err, MsgLoadTasksFailed)
		return
	}
	if list == nil {
		list = []service.Task{}
	}
	s.update(func() {
		s.tasks = list
		s.projectID = projectID
	}, FieldTasks)
}

// CreateTask creates a task and puts it at the front of the list.
func (s *TasksStore) CreateTask(ctx context.Context, projectID int, in service.TaskInput) *service.Task {
	s.begin()
	defer s.end()

	t, err := s.api.CreateTask(ctx, projectID, in)
	if err != nil {
		s.fail("create_task", err, MsgCreateTaskFailed)
		return nil
	}
	s.update(func() {
		s.tasks = append([]service.Task{t}, s.tasks...)
	}, FieldTasks)
	return &t
}

// UpdateTask applies a partial update and rebuilds the list with the
// server's version of the task.
func (s *TasksStore) UpdateTask(ctx context.Context, projectID, taskID int, in service.TaskInput) *service.Task {
	s.begin()
	defer s.end()

	t, err := s.api.UpdateTask(ctx, projectID, taskID, in)
	if err != nil {
		s.fail("update_task", err, MsgUpdateTaskFailed)
		return nil
	}
	s.update(func() {
		list := make([]service.Task, len(s.tasks))
		for i, x := range s.tasks {
			if x.ID == taskID {
				x = t
			}
			list[i] = x
		}
		s.tasks = list
	}, FieldTasks)
	return &t
}

// DeleteTask deletes a task and drops it from the list.
func (s *TasksStore) DeleteTask(ctx context.Context, projectID, taskID int) bool {
	s.begin()
	defer s.end()

	if err := s.api.DeleteTask(ctx, projectID, taskID); err != nil {
		s.fail("delete_task", err, MsgDeleteTaskFailed)
		return false
	}
	s.update(func() {
		s.tasks = slices.DeleteFunc(slices.Clone(s.tasks), func(x service.Task) bool {
			return x.ID == taskID
		})
	}, FieldTasks)
	return true
}

// ClearTasks empties the list, e.g. when switching projects.
func (s *TasksStore) ClearTasks() {
	s.update(func() {
		s.tasks = []service.Task{}
		s.projectID = 0
	}, FieldTasks)
}
