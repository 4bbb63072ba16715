package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	mqcontracts "taskboard/contracts/mq"
	"taskboard/pkg/circuitbreaker"
)

// WebhookSender delivers notifications to the configured webhook endpoint
// behind a circuit breaker.
type WebhookSender struct {
	url     string
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewWebhookSender(url string, logger *zap.Logger) *WebhookSender {
	return &WebhookSender{
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger:  logger,
	}
}

// BreakerState exposes the breaker state for readiness/diagnostics.
func (s *WebhookSender) BreakerState() circuitbreaker.State {
	return s.breaker.GetState()
}

func (s *WebhookSender) Send(ctx context.Context, payload mqcontracts.NotificationCreatedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return s.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to call webhook: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("webhook returned server error: %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			return fmt.Errorf("webhook returned client error: %d", resp.StatusCode)
		}

		s.logger.Debug("Webhook delivered",
			zap.String("notification_id", payload.NotificationID),
			zap.Int("status", resp.StatusCode),
		)
		return nil
	})
}
