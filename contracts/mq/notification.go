package mq

import "time"

type NotificationCreatedPayload struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	ProjectID      string    `json:"project_id"`
	TaskID         string    `json:"task_id,omitempty"`
	Kind           string    `json:"kind"` // task_assigned / task_accepted / task_declined / task_completed / task_reopened / message_posted
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}
