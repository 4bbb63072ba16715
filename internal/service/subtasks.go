package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/store"
	"taskboard/pkg/rbac"
)

type SubtaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Assignees   []uuid.UUID
}

// AddSubtask appends a subtask to the task. Project members only; subtask
// assignees must be a subset of the parent task's assignees.
func (s *TaskService) AddSubtask(ctx context.Context, taskID, creator uuid.UUID, in SubtaskInput) (model.Subtask, error) {
	if in.Title == "" {
		return model.Subtask{}, ErrInvalidInput
	}
	if _, _, err := s.authorizeTask(taskID, creator, rbac.PermissionUpdateTask); err != nil {
		return model.Subtask{}, err
	}

	sub := model.Subtask{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		CreatedBy:   creator,
		CreatedAt:   time.Now(),
	}

	err := s.store.MutateTask(taskID, func(t *model.Task) error {
		seen := make(map[uuid.UUID]struct{})
		for _, id := range in.Assignees {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			if !t.HasAssignee(id) {
				return fmt.Errorf("%w: subtask assignee %s is not assigned to the task", ErrInvalidInput, id)
			}
			sub.Assignees = append(sub.Assignees, id)
		}
		t.Subtasks = append(t.Subtasks, sub)
		return nil
	})
	if err != nil {
		return model.Subtask{}, err
	}

	s.logger.Info("Subtask added",
		zap.String("task_id", taskID.String()),
		zap.String("subtask_id", sub.ID.String()),
	)
	return sub, nil
}

// ToggleSubtask flips the subtask's done flag. Project members only;
// missing task or subtask is a guarded no-op.
func (s *TaskService) ToggleSubtask(ctx context.Context, taskID, subtaskID, actor uuid.UUID) (bool, error) {
	_, _, err := s.authorizeTask(taskID, actor, rbac.PermissionUpdateTask)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("ToggleSubtask: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	applied := false

	err = s.store.MutateTask(taskID, func(t *model.Task) error {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID == subtaskID {
				t.Subtasks[i].Done = !t.Subtasks[i].Done
				applied = true
				return nil
			}
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("ToggleSubtask: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return applied, nil
}

// RemoveSubtask deletes the subtask from the task. Project members only;
// guarded no-op on missing ids.
func (s *TaskService) RemoveSubtask(ctx context.Context, taskID, subtaskID, actor uuid.UUID) (bool, error) {
	_, _, err := s.authorizeTask(taskID, actor, rbac.PermissionUpdateTask)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("RemoveSubtask: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	applied := false

	err = s.store.MutateTask(taskID, func(t *model.Task) error {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID == subtaskID {
				t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
				applied = true
				return nil
			}
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("RemoveSubtask: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return applied, nil
}
