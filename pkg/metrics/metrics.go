package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// MQ 消费延迟（毫秒）
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	// 任务状态流转计数
	TaskTransitionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_transition_count",
			Help: "Total number of task state transitions",
		},
		[]string{"action"}, // action: assigned, accepted, declined, completed, reopened
	)

	// 通知发送计数
	NotificationSentCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_sent_count",
			Help: "Total number of notifications sent",
		},
		[]string{"status"}, // status: success, failed, skipped
	)

	// Activity 视图缓存命中计数
	ActivityCacheCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_cache_count",
			Help: "Activity view cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordMQConsumeLatency 记录 MQ 消费延迟
func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

// IncrementTaskTransition 增加任务状态流转计数
func IncrementTaskTransition(action string) {
	TaskTransitionCount.WithLabelValues(action).Inc()
}

// IncrementNotificationSent 增加通知发送计数
func IncrementNotificationSent(status string) {
	NotificationSentCount.WithLabelValues(status).Inc()
}

// IncrementActivityCache 增加 Activity 缓存计数
func IncrementActivityCache(result string) {
	ActivityCacheCount.WithLabelValues(result).Inc()
}
