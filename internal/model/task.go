package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusDone    TaskStatus = "done"
)

type Task struct {
	ID           uuid.UUID    `json:"id"`
	ProjectID    uuid.UUID    `json:"project_id"`
	Title        string       `json:"title"`
	Notes        string       `json:"notes,omitempty"`
	Status       TaskStatus   `json:"status"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
	Assignees    []uuid.UUID  `json:"assignees"`
	Acknowledged []uuid.UUID  `json:"acknowledged"`
	Subtasks     []Subtask    `json:"subtasks"`
	Attachments  []Attachment `json:"attachments"`
	CreatedBy    uuid.UUID    `json:"created_by"`
	CreatedAt    time.Time    `json:"created_at"`
}

// HasAssignee reports whether the user is currently assigned to the task.
func (t *Task) HasAssignee(userID uuid.UUID) bool {
	for _, id := range t.Assignees {
		if id == userID {
			return true
		}
	}
	return false
}

// HasAcknowledged reports whether the user has accepted the assignment.
// Acknowledgment entries survive un-assignment; membership in the
// assignee list is checked separately.
func (t *Task) HasAcknowledged(userID uuid.UUID) bool {
	for _, id := range t.Acknowledged {
		if id == userID {
			return true
		}
	}
	return false
}

// IsNewFor reports whether the task is "new" for the user:
// assigned but not yet acknowledged.
func (t *Task) IsNewFor(userID uuid.UUID) bool {
	return t.HasAssignee(userID) && !t.HasAcknowledged(userID)
}

type Subtask struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Done        bool        `json:"done"`
	Description string      `json:"description,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	Assignees   []uuid.UUID `json:"assignees"`
	CreatedBy   uuid.UUID   `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
}
