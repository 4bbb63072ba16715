package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/store"
	"taskboard/pkg/rbac"
)

type ProjectService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewProjectService(st *store.Store, logger *zap.Logger) *ProjectService {
	return &ProjectService{store: st, logger: logger}
}

// Role resolves the actor's role within a project.
// Returns "" if the actor is not a member.
func Role(p *model.Project, userID uuid.UUID) string {
	if p.CreatedBy == userID {
		return rbac.RoleOwner
	}
	if p.HasMember(userID) {
		return rbac.RoleMember
	}
	return ""
}

func (s *ProjectService) CreateProject(ctx context.Context, name string, creator uuid.UUID) (model.Project, error) {
	if name == "" {
		return model.Project{}, ErrInvalidInput
	}

	p := &model.Project{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: creator,
		Members:   []uuid.UUID{creator},
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateProject(p); err != nil {
		return model.Project{}, err
	}
	return *p, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id, viewer uuid.UUID) (model.Project, error) {
	p, err := s.store.GetProject(id)
	if err != nil {
		return model.Project{}, err
	}
	if !p.HasMember(viewer) {
		return model.Project{}, ErrForbidden
	}
	return p, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, userID uuid.UUID) []model.Project {
	return s.store.ListProjectsForUser(userID)
}

// AddMember adds a user to the project. Idempotent.
func (s *ProjectService) AddMember(ctx context.Context, projectID, actor, userID uuid.UUID) error {
	if _, err := s.store.GetUser(userID); err != nil {
		return err
	}

	return s.store.MutateProject(projectID, func(p *model.Project) error {
		role := Role(p, actor)
		if err := rbac.CheckPermission(role, rbac.PermissionAddMember); err != nil {
			return ErrForbidden
		}
		if p.HasMember(userID) {
			return nil
		}
		p.Members = append(p.Members, userID)

		s.logger.Info("Member added",
			zap.String("project_id", projectID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil
	})
}

// RemoveMember removes a user from the project member list. Owner only.
// The project creator cannot be removed. Removing a member does not touch
// task assignee lists or acknowledgment entries.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, actor, userID uuid.UUID) error {
	return s.store.MutateProject(projectID, func(p *model.Project) error {
		role := Role(p, actor)
		if err := rbac.CheckPermission(role, rbac.PermissionRemoveMember); err != nil {
			return ErrForbidden
		}
		if userID == p.CreatedBy {
			return errors.New("cannot remove project creator")
		}
		for i, id := range p.Members {
			if id == userID {
				p.Members = append(p.Members[:i], p.Members[i+1:]...)

				s.logger.Info("Member removed",
					zap.String("project_id", projectID.String()),
					zap.String("user_id", userID.String()),
				)
				return nil
			}
		}
		return nil
	})
}
