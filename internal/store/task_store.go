package store

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
)

func (s *Store) CreateTask(t *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[t.ProjectID]; !ok {
		return ErrNotFound
	}

	cp := cloneTask(t)
	s.tasks[t.ID] = &cp
	s.tasksByProject[t.ProjectID] = append(s.tasksByProject[t.ProjectID], t.ID)

	s.logger.Info("Task created",
		zap.String("task_id", t.ID.String()),
		zap.String("project_id", t.ProjectID.String()),
		zap.String("title", t.Title),
	)
	return nil
}

func (s *Store) GetTask(id uuid.UUID) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return cloneTask(t), nil
}

// ListTasksByProject returns the project's tasks in creation order.
func (s *Store) ListTasksByProject(projectID uuid.UUID) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.tasksByProject[projectID]
	out := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.tasks[id]; ok {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

// ListTasksForUser returns every task the user is currently assigned to,
// in creation order within each project.
func (s *Store) ListTasksForUser(userID uuid.UUID) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Task
	for _, ids := range s.tasksByProject {
		for _, id := range ids {
			t, ok := s.tasks[id]
			if !ok {
				continue
			}
			if t.HasAssignee(userID) {
				out = append(out, cloneTask(t))
			}
		}
	}
	return out
}

// MutateTask applies fn to the task under the write lock, so each task
// operation is a single atomic step. Returns ErrNotFound if the task
// does not exist.
func (s *Store) MutateTask(id uuid.UUID, fn func(*model.Task) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}
	return fn(t)
}

func (s *Store) DeleteTask(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)

	ids := s.tasksByProject[t.ProjectID]
	for i, tid := range ids {
		if tid == id {
			s.tasksByProject[t.ProjectID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	s.logger.Info("Task deleted",
		zap.String("task_id", id.String()),
		zap.String("project_id", t.ProjectID.String()),
	)
	return nil
}
