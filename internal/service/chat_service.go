package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "taskboard/contracts/mq"
	"taskboard/internal/model"
	"taskboard/internal/store"
	"taskboard/pkg/rbac"
)

type ChatService struct {
	store    *store.Store
	producer EventPublisher
	logger   *zap.Logger
}

func NewChatService(st *store.Store, producer EventPublisher, logger *zap.Logger) *ChatService {
	return &ChatService{store: st, producer: producer, logger: logger}
}

type MessageInput struct {
	Content    string
	TaskID     *uuid.UUID
	SubtaskID  *uuid.UUID
	Attachment *AttachmentInput
}

// PostMessage appends a chat message to the project transcript. A message
// may reference a task and/or one of its subtasks and may carry
// attachment metadata.
func (s *ChatService) PostMessage(ctx context.Context, projectID, sender uuid.UUID, in MessageInput) (model.Message, error) {
	p, err := s.store.GetProject(projectID)
	if err != nil {
		return model.Message{}, err
	}
	role := Role(&p, sender)
	if err := rbac.CheckPermission(role, rbac.PermissionPostMessage); err != nil {
		return model.Message{}, ErrForbidden
	}

	content := strings.TrimSpace(in.Content)
	if content == "" && in.Attachment == nil {
		return model.Message{}, ErrInvalidInput
	}

	m := model.Message{
		ID:        uuid.New(),
		ProjectID: projectID,
		Content:   content,
		SenderID:  sender,
		SentAt:    time.Now(),
	}

	if in.TaskID != nil {
		t, err := s.store.GetTask(*in.TaskID)
		if err != nil {
			return model.Message{}, fmt.Errorf("%w: referenced task does not exist", ErrInvalidInput)
		}
		if t.ProjectID != projectID {
			return model.Message{}, fmt.Errorf("%w: referenced task belongs to another project", ErrInvalidInput)
		}
		m.TaskID = in.TaskID

		if in.SubtaskID != nil {
			found := false
			for _, st := range t.Subtasks {
				if st.ID == *in.SubtaskID {
					found = true
					break
				}
			}
			if !found {
				return model.Message{}, fmt.Errorf("%w: referenced subtask does not exist", ErrInvalidInput)
			}
			m.SubtaskID = in.SubtaskID
		}
	} else if in.SubtaskID != nil {
		return model.Message{}, fmt.Errorf("%w: subtask reference requires a task reference", ErrInvalidInput)
	}

	if in.Attachment != nil {
		att, err := in.Attachment.build(sender)
		if err != nil {
			return model.Message{}, err
		}
		m.Attachment = &att
	}

	if err := s.store.AppendMessage(&m); err != nil {
		return model.Message{}, err
	}

	s.publishPosted(&m)
	return m, nil
}

// ListMessages returns the project chat transcript in send order.
func (s *ChatService) ListMessages(ctx context.Context, projectID, viewer uuid.UUID) ([]model.Message, error) {
	p, err := s.store.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	if !p.HasMember(viewer) {
		return nil, ErrForbidden
	}
	return s.store.ListMessages(projectID), nil
}

func (s *ChatService) publishPosted(m *model.Message) {
	if s.producer == nil {
		return
	}

	payload := mqcontracts.MessagePostedPayload{
		EventID:   uuid.NewString(),
		MessageID: m.ID.String(),
		ProjectID: m.ProjectID.String(),
		SenderID:  m.SenderID.String(),
		Content:   m.Content,
		SentAt:    m.SentAt,
	}
	if m.TaskID != nil {
		payload.TaskID = m.TaskID.String()
	}
	if m.SubtaskID != nil {
		payload.SubtaskID = m.SubtaskID.String()
	}

	if err := s.producer.Publish(mqcontracts.RoutingKeyMessagePosted, payload); err != nil {
		s.logger.Warn("Failed to publish message.posted",
			zap.String("message_id", m.ID.String()),
			zap.Error(err),
		)
	}
}
