package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mqcontracts "taskboard/contracts/mq"
	"taskboard/pkg/circuitbreaker"
)

func marshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func assignedPayload() mqcontracts.TaskAssignedPayload {
	return mqcontracts.TaskAssignedPayload{
		EventID:    uuid.NewString(),
		TaskID:     uuid.NewString(),
		ProjectID:  uuid.NewString(),
		UserID:     uuid.NewString(),
		AssignedBy: uuid.NewString(),
		Title:      "review PR",
		AssignedAt: time.Now(),
	}
}

func TestHandleTaskAssignedDeliversWebhook(t *testing.T) {
	var received atomic.Int64
	var last mqcontracts.NotificationCreatedPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&last))
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	log := zap.NewNop()
	h := NewEventHandler(NewWebhookSender(srv.URL, log), nil, nil, nil, 3, log)

	p := assignedPayload()
	err := h.HandleTaskAssigned(context.Background(), marshal(t, p))
	require.NoError(t, err)

	assert.Equal(t, int64(1), received.Load())
	assert.Equal(t, p.UserID, last.UserID, "assignee is the notification target")
	assert.Equal(t, "task_assigned", last.Kind)
	assert.Contains(t, last.Message, "review PR")
}

func TestHandleAckNotifiesCreator(t *testing.T) {
	var last mqcontracts.NotificationCreatedPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&last)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	log := zap.NewNop()
	h := NewEventHandler(NewWebhookSender(srv.URL, log), nil, nil, nil, 3, log)

	p := mqcontracts.TaskAckPayload{
		EventID:   uuid.NewString(),
		TaskID:    uuid.NewString(),
		ProjectID: uuid.NewString(),
		UserID:    uuid.NewString(),
		CreatedBy: uuid.NewString(),
		Title:     "ship release",
		AckedAt:   time.Now(),
	}
	require.NoError(t, h.HandleTaskDeclined(context.Background(), marshal(t, p)))

	assert.Equal(t, p.CreatedBy, last.UserID, "the task creator is notified, not the decliner")
	assert.Equal(t, "task_declined", last.Kind)
}

type fakeProducer struct {
	events []struct {
		routingKey string
		payload    any
	}
}

func (f *fakeProducer) Publish(routingKey string, payload any) error {
	f.events = append(f.events, struct {
		routingKey string
		payload    any
	}{routingKey, payload})
	return nil
}

func TestHandleStatusNotifiesAssigneesExceptActor(t *testing.T) {
	var targets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var notif mqcontracts.NotificationCreatedPayload
		_ = json.NewDecoder(r.Body).Decode(&notif)
		targets = append(targets, notif.UserID)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	log := zap.NewNop()
	h := NewEventHandler(NewWebhookSender(srv.URL, log), nil, nil, nil, 3, log)

	actor := uuid.NewString()
	other1 := uuid.NewString()
	other2 := uuid.NewString()

	p := mqcontracts.TaskStatusPayload{
		EventID:   uuid.NewString(),
		TaskID:    uuid.NewString(),
		ProjectID: uuid.NewString(),
		UserID:    actor,
		Title:     "ship release",
		Status:    "done",
		Assignees: []string{actor, other1, other2},
		ChangedAt: time.Now(),
	}
	require.NoError(t, h.HandleTaskCompleted(context.Background(), marshal(t, p)))

	assert.Equal(t, []string{other1, other2}, targets, "every assignee except the actor is notified")
}

func TestDeliveredNotificationIsAnnounced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	log := zap.NewNop()
	producer := &fakeProducer{}
	h := NewEventHandler(NewWebhookSender(srv.URL, log), producer, nil, nil, 3, log)

	require.NoError(t, h.HandleTaskAssigned(context.Background(), marshal(t, assignedPayload())))

	require.Len(t, producer.events, 1)
	assert.Equal(t, mqcontracts.RoutingKeyNotificationCreated, producer.events[0].routingKey)
	notif, ok := producer.events[0].payload.(mqcontracts.NotificationCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, "task_assigned", notif.Kind)
}

func TestMalformedPayloadIsFatal(t *testing.T) {
	log := zap.NewNop()
	h := NewEventHandler(NewWebhookSender("http://localhost:0", log), nil, nil, nil, 3, log)

	err := h.HandleTaskAssigned(context.Background(), json.RawMessage(`{"event_id": 42`))
	assert.Error(t, err, "unparseable payloads are nacked back to the queue")
}

func TestClientErrorDropsNotification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	log := zap.NewNop()
	h := NewEventHandler(NewWebhookSender(srv.URL, log), nil, nil, nil, 3, log)

	// 4xx is not retryable: the message is dropped, so the handler acks (nil)
	err := h.HandleTaskAssigned(context.Background(), marshal(t, assignedPayload()))
	assert.NoError(t, err)
}

func TestServerErrorRequeues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	log := zap.NewNop()
	h := NewEventHandler(NewWebhookSender(srv.URL, log), nil, nil, nil, 3, log)

	// 5xx is retryable: the handler nacks so MQ requeues the message
	err := h.HandleTaskAssigned(context.Background(), marshal(t, assignedPayload()))
	assert.Error(t, err)
}

func TestWebhookSenderBreakerOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	log := zap.NewNop()
	sender := NewWebhookSender(srv.URL, log)

	payload := mqcontracts.NotificationCreatedPayload{
		NotificationID: uuid.NewString(),
		UserID:         uuid.NewString(),
		Kind:           "task_assigned",
		Message:        "x",
		CreatedAt:      time.Now(),
	}

	// default breaker opens after 5 consecutive failures
	for i := 0; i < 6; i++ {
		_ = sender.Send(context.Background(), payload)
	}
	assert.Equal(t, circuitbreaker.StateOpen, sender.BreakerState())
}
