package store

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
)

func (s *Store) CreateProject(p *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := cloneProject(p)
	s.projects[p.ID] = &cp

	s.logger.Info("Project created",
		zap.String("project_id", p.ID.String()),
		zap.String("name", p.Name),
		zap.String("created_by", p.CreatedBy.String()),
	)
	return nil
}

func (s *Store) GetProject(id uuid.UUID) (model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	return cloneProject(p), nil
}

// ListProjectsForUser returns every project the user is a member of.
func (s *Store) ListProjectsForUser(userID uuid.UUID) []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Project
	for _, p := range s.projects {
		if p.HasMember(userID) {
			out = append(out, cloneProject(p))
		}
	}
	return out
}

// MutateProject applies fn to the project under the write lock.
// Returns ErrNotFound if the project does not exist.
func (s *Store) MutateProject(id uuid.UUID, fn func(*model.Project) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return ErrNotFound
	}
	return fn(p)
}
