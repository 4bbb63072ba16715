package store

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
)

// AppendMessage appends a message to the project's chat transcript.
func (s *Store) AppendMessage(m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[m.ProjectID]; !ok {
		return ErrNotFound
	}

	s.messages[m.ProjectID] = append(s.messages[m.ProjectID], *m)

	s.logger.Debug("Message appended",
		zap.String("message_id", m.ID.String()),
		zap.String("project_id", m.ProjectID.String()),
		zap.String("sender_id", m.SenderID.String()),
	)
	return nil
}

// ListMessages returns the project's chat transcript in send order.
func (s *Store) ListMessages(projectID uuid.UUID) []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[projectID]
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out
}
