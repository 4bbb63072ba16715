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

type AttachmentInput struct {
	MediaType string
	Category  string
	FileName  string
	SizeBytes int64
	Caption   string
}

func (in AttachmentInput) build(uploader uuid.UUID) (model.Attachment, error) {
	mt := model.MediaType(in.MediaType)
	if !mt.Valid() {
		return model.Attachment{}, fmt.Errorf("%w: unknown media type %q", ErrInvalidInput, in.MediaType)
	}
	cat := model.AttachmentCategory(in.Category)
	if !cat.Valid() {
		return model.Attachment{}, fmt.Errorf("%w: unknown attachment category %q", ErrInvalidInput, in.Category)
	}
	if in.FileName == "" || in.SizeBytes < 0 {
		return model.Attachment{}, ErrInvalidInput
	}

	return model.Attachment{
		ID:         uuid.New(),
		MediaType:  mt,
		Category:   cat,
		FileName:   in.FileName,
		SizeBytes:  in.SizeBytes,
		UploadedBy: uploader,
		UploadedAt: time.Now(),
		Caption:    in.Caption,
	}, nil
}

// AddAttachment records attachment metadata on the task. Project members
// only.
func (s *TaskService) AddAttachment(ctx context.Context, taskID, uploader uuid.UUID, in AttachmentInput) (model.Attachment, error) {
	if _, _, err := s.authorizeTask(taskID, uploader, rbac.PermissionAddAttachment); err != nil {
		return model.Attachment{}, err
	}

	att, err := in.build(uploader)
	if err != nil {
		return model.Attachment{}, err
	}

	err = s.store.MutateTask(taskID, func(t *model.Task) error {
		t.Attachments = append(t.Attachments, att)
		return nil
	})
	if err != nil {
		return model.Attachment{}, err
	}

	s.logger.Info("Attachment added",
		zap.String("task_id", taskID.String()),
		zap.String("attachment_id", att.ID.String()),
		zap.String("category", string(att.Category)),
	)
	return att, nil
}

// RemoveAttachment deletes attachment metadata from the task. Project
// members only; guarded no-op on missing ids.
func (s *TaskService) RemoveAttachment(ctx context.Context, taskID, attachmentID, actor uuid.UUID) (bool, error) {
	_, _, err := s.authorizeTask(taskID, actor, rbac.PermissionAddAttachment)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("RemoveAttachment: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	applied := false

	err = s.store.MutateTask(taskID, func(t *model.Task) error {
		for i := range t.Attachments {
			if t.Attachments[i].ID == attachmentID {
				t.Attachments = append(t.Attachments[:i], t.Attachments[i+1:]...)
				applied = true
				return nil
			}
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("RemoveAttachment: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return applied, nil
}

// ListAttachments returns the task's attachments, optionally filtered by
// category. The viewer must be a member of the task's project.
func (s *TaskService) ListAttachments(ctx context.Context, taskID, viewer uuid.UUID, category string) ([]model.Attachment, error) {
	t, err := s.store.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetProject(t.ProjectID)
	if err != nil {
		return nil, err
	}
	if Role(&p, viewer) == "" {
		return nil, ErrForbidden
	}
	if category == "" {
		return t.Attachments, nil
	}

	cat := model.AttachmentCategory(category)
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: unknown attachment category %q", ErrInvalidInput, category)
	}
	out := make([]model.Attachment, 0, len(t.Attachments))
	for _, a := range t.Attachments {
		if a.Category == cat {
			out = append(out, a)
		}
	}
	return out, nil
}
