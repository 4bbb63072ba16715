package mq

import "time"

// MessagePostedPayload 聊天消息事件的 payload
type MessagePostedPayload struct {
	EventID   string    `json:"event_id"`
	MessageID string    `json:"message_id"`
	ProjectID string    `json:"project_id"`
	SenderID  string    `json:"sender_id"`
	TaskID    string    `json:"task_id,omitempty"`
	SubtaskID string    `json:"subtask_id,omitempty"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sent_at"`
}
