package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID         uuid.UUID   `json:"id"`
	ProjectID  uuid.UUID   `json:"project_id"`
	Content    string      `json:"content"`
	SenderID   uuid.UUID   `json:"sender_id"`
	SentAt     time.Time   `json:"sent_at"`
	TaskID     *uuid.UUID  `json:"task_id,omitempty"`
	SubtaskID  *uuid.UUID  `json:"subtask_id,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
}
