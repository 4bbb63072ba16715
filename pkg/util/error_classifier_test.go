package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
		errType   string
	}{
		{"nil", nil, false, ""},
		{"json syntax", &json.SyntaxError{}, false, "json_decode_error"},
		{"json type", &json.UnmarshalTypeError{}, false, "json_decode_error"},
		{"url error", &url.Error{Op: "Post", URL: "http://x", Err: errors.New("connection refused")}, true, "network_error"},
		{"deadline", context.DeadlineExceeded, true, "timeout"},
		{"canceled", context.Canceled, false, "context_canceled"},
		{"webhook 5xx", fmt.Errorf("webhook returned server error: 503"), true, "webhook_server_error"},
		{"webhook 4xx", fmt.Errorf("webhook returned client error: 422"), false, "webhook_client_error"},
		{"webhook transport", fmt.Errorf("failed to call webhook: %w", errors.New("eof")), true, "webhook_unavailable"},
		{"unknown", errors.New("something odd"), false, "unknown_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retryable, errType := IsRetryableError(tt.err)
			assert.Equal(t, tt.retryable, retryable)
			assert.Equal(t, tt.errType, errType)
		})
	}
}

func TestShouldRetry(t *testing.T) {
	assert.False(t, ShouldRetry(0, 5, false), "fatal errors never retry")
	assert.True(t, ShouldRetry(0, 5, true))
	assert.True(t, ShouldRetry(5, 5, true))
	assert.False(t, ShouldRetry(6, 5, true), "max retries exceeded")
}

func TestFormatRetryKey(t *testing.T) {
	assert.Equal(t, "retry:task_assigned:abc", FormatRetryKey("task_assigned", "abc"))
}
