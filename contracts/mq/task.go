package mq

import "time"

// TaskAssignedPayload 任务分配事件的 payload
type TaskAssignedPayload struct {
	EventID    string    `json:"event_id"`
	TaskID     string    `json:"task_id"`
	ProjectID  string    `json:"project_id"`
	UserID     string    `json:"user_id"`
	AssignedBy string    `json:"assigned_by"`
	Title      string    `json:"title"`
	AssignedAt time.Time `json:"assigned_at"`
}

// TaskAckPayload covers task.accepted and task.declined.
type TaskAckPayload struct {
	EventID   string    `json:"event_id"`
	TaskID    string    `json:"task_id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	CreatedBy string    `json:"created_by"` // task creator, the notification target
	Title     string    `json:"title"`
	AckedAt   time.Time `json:"acked_at"`
}

// TaskStatusPayload covers task.completed and task.reopened.
type TaskStatusPayload struct {
	EventID   string    `json:"event_id"`
	TaskID    string    `json:"task_id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"` // actor who flipped the status
	Title     string    `json:"title"`
	Status    string    `json:"status"` // pending / done
	Assignees []string  `json:"assignees"`
	ChangedAt time.Time `json:"changed_at"`
}
