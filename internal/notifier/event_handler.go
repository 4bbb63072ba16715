package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "taskboard/contracts/mq"
	"taskboard/pkg/circuitbreaker"
	"taskboard/pkg/logger"
	"taskboard/pkg/metrics"
	"taskboard/pkg/util"
)

// eventPublisher is the slice of pkg/mq.Publisher the notifier needs to
// announce delivered notifications.
type eventPublisher interface {
	Publish(routingKey string, payload any) error
}

// EventHandler turns board events into webhook notifications. Each event
// is processed at most once (redis dedup) and retried through the MQ
// requeue path only while the error classifier says it is worth it.
// Delivered notifications are announced on `notification.created`.
type EventHandler struct {
	sender     *WebhookSender
	producer   eventPublisher
	deduper    *util.Deduper
	retries    *util.RetryCounter
	maxRetries int64
	logger     *zap.Logger
}

func NewEventHandler(
	sender *WebhookSender,
	producer eventPublisher,
	deduper *util.Deduper,
	retries *util.RetryCounter,
	maxRetries int64,
	logger *zap.Logger,
) *EventHandler {
	return &EventHandler{
		sender:     sender,
		producer:   producer,
		deduper:    deduper,
		retries:    retries,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (h *EventHandler) HandleTaskAssigned(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.TaskAssignedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal TaskAssignedPayload", zap.Error(err))
		return err
	}

	notif := mqcontracts.NotificationCreatedPayload{
		NotificationID: uuid.NewString(),
		UserID:         p.UserID,
		ProjectID:      p.ProjectID,
		TaskID:         p.TaskID,
		Kind:           "task_assigned",
		Message:        fmt.Sprintf("You were assigned to task %q", p.Title),
		CreatedAt:      time.Now(),
	}
	return h.deliver(ctx, "task_assigned", p.EventID, notif)
}

func (h *EventHandler) HandleTaskAccepted(ctx context.Context, raw json.RawMessage) error {
	return h.handleAck(ctx, raw, "task_accepted", "accepted")
}

func (h *EventHandler) HandleTaskDeclined(ctx context.Context, raw json.RawMessage) error {
	return h.handleAck(ctx, raw, "task_declined", "declined")
}

// handleAck notifies the task creator that an assignee accepted or
// declined the assignment.
func (h *EventHandler) handleAck(ctx context.Context, raw json.RawMessage, kind, verb string) error {
	var p mqcontracts.TaskAckPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal TaskAckPayload",
			zap.String("kind", kind),
			zap.Error(err),
		)
		return err
	}

	notif := mqcontracts.NotificationCreatedPayload{
		NotificationID: uuid.NewString(),
		UserID:         p.CreatedBy,
		ProjectID:      p.ProjectID,
		TaskID:         p.TaskID,
		Kind:           kind,
		Message:        fmt.Sprintf("Task %q was %s", p.Title, verb),
		CreatedAt:      time.Now(),
	}
	return h.deliver(ctx, kind, p.EventID, notif)
}

func (h *EventHandler) HandleTaskCompleted(ctx context.Context, raw json.RawMessage) error {
	return h.handleStatus(ctx, raw, "task_completed", "marked done")
}

func (h *EventHandler) HandleTaskReopened(ctx context.Context, raw json.RawMessage) error {
	return h.handleStatus(ctx, raw, "task_reopened", "reopened")
}

// handleStatus notifies every assignee except the actor that the task
// status flipped. Delivery is deduped per (event, user), so a partial
// failure requeues the message without re-notifying anyone.
func (h *EventHandler) handleStatus(ctx context.Context, raw json.RawMessage, kind, verb string) error {
	var p mqcontracts.TaskStatusPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal TaskStatusPayload",
			zap.String("kind", kind),
			zap.Error(err),
		)
		return err
	}

	var firstErr error
	for _, userID := range p.Assignees {
		if userID == p.UserID {
			// 操作者自己不需要通知
			continue
		}
		notif := mqcontracts.NotificationCreatedPayload{
			NotificationID: uuid.NewString(),
			UserID:         userID,
			ProjectID:      p.ProjectID,
			TaskID:         p.TaskID,
			Kind:           kind,
			Message:        fmt.Sprintf("Task %q was %s", p.Title, verb),
			CreatedAt:      time.Now(),
		}
		if err := h.deliver(ctx, kind, p.EventID+":"+userID, notif); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *EventHandler) HandleMessagePosted(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.MessagePostedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal MessagePostedPayload", zap.Error(err))
		return err
	}

	notif := mqcontracts.NotificationCreatedPayload{
		NotificationID: uuid.NewString(),
		UserID:         p.SenderID,
		ProjectID:      p.ProjectID,
		TaskID:         p.TaskID,
		Kind:           "message_posted",
		Message:        p.Content,
		CreatedAt:      time.Now(),
	}
	return h.deliver(ctx, "message_posted", p.EventID, notif)
}

// deliver sends the notification. Returning a non-nil error nacks the MQ
// message and requeues it; returning nil acks it.
func (h *EventHandler) deliver(ctx context.Context, handlerName, eventID string, notif mqcontracts.NotificationCreatedPayload) error {
	log := logger.WithTrace(ctx, h.logger)

	if h.deduper != nil && !h.deduper.AcquireOnce(ctx, handlerName, eventID) {
		log.Debug("Duplicate event skipped",
			zap.String("handler", handlerName),
			zap.String("event_id", eventID),
		)
		metrics.IncrementNotificationSent("skipped")
		return nil
	}

	err := h.sender.Send(ctx, notif)
	if err == nil {
		metrics.IncrementNotificationSent("success")
		if h.retries != nil {
			_ = h.retries.Reset(ctx, util.FormatRetryKey(handlerName, eventID))
		}
		if h.producer != nil {
			if perr := h.producer.Publish(mqcontracts.RoutingKeyNotificationCreated, notif); perr != nil {
				log.Warn("Failed to publish notification.created",
					zap.String("notification_id", notif.NotificationID),
					zap.Error(perr),
				)
			}
		}
		return nil
	}

	// 熔断打开：直接重新入队，等待恢复
	if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) {
		log.Warn("Circuit breaker open, requeueing notification",
			zap.String("handler", handlerName),
			zap.String("event_id", eventID),
		)
		return err
	}

	retryable, errType := util.IsRetryableError(err)

	var count int64
	if h.retries != nil {
		count, _ = h.retries.IncrementAndGet(ctx, util.FormatRetryKey(handlerName, eventID))
	}

	if util.ShouldRetry(count, h.maxRetries, retryable) {
		log.Warn("Notification delivery failed, will retry",
			zap.String("handler", handlerName),
			zap.String("event_id", eventID),
			zap.String("error_type", errType),
			zap.Int64("retry_count", count),
			zap.Error(err),
		)
		return err
	}

	// 不可重试或已超过最大重试次数：记录并丢弃
	log.Error("Dropping notification",
		zap.String("handler", handlerName),
		zap.String("event_id", eventID),
		zap.String("error_type", errType),
		zap.Int64("retry_count", count),
		zap.Error(err),
	)
	metrics.IncrementNotificationSent("failed")
	return nil
}
