package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskboard/config"
	mqcontracts "taskboard/contracts/mq"
	"taskboard/internal/notifier"
	"taskboard/pkg/logger"
	"taskboard/pkg/mq"
	"taskboard/pkg/redis"
	"taskboard/pkg/util"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting taskboard notifier...",
		zap.String("mq_url", cfg.MQ.URL),
		zap.String("webhook_url", cfg.Notifier.WebhookURL),
		zap.Int64("max_retries", cfg.Notifier.MaxRetries),
	)

	rdb := redis.NewRedisClient(cfg.Redis)

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	sender := notifier.NewWebhookSender(cfg.Notifier.WebhookURL, log)
	deduper := util.NewDeduper(rdb, 24*time.Hour)
	retries := util.NewRetryCounter(rdb, 1*time.Hour)

	events := notifier.NewEventHandler(sender, publisher, deduper, retries, cfg.Notifier.MaxRetries, log)

	type consumerSpec struct {
		queue      string
		routingKey string
		handler    mq.MessageHandler
	}

	specs := []consumerSpec{
		{"notifier.task.assigned.q", mqcontracts.RoutingKeyTaskAssigned, events.HandleTaskAssigned},
		{"notifier.task.accepted.q", mqcontracts.RoutingKeyTaskAccepted, events.HandleTaskAccepted},
		{"notifier.task.declined.q", mqcontracts.RoutingKeyTaskDeclined, events.HandleTaskDeclined},
		{"notifier.task.completed.q", mqcontracts.RoutingKeyTaskCompleted, events.HandleTaskCompleted},
		{"notifier.task.reopened.q", mqcontracts.RoutingKeyTaskReopened, events.HandleTaskReopened},
		{"notifier.message.posted.q", mqcontracts.RoutingKeyMessagePosted, events.HandleMessagePosted},
	}

	consumers := make([]*mq.Consumer, 0, len(specs))
	for _, spec := range specs {
		log.Info("Initializing MQ consumer...",
			zap.String("queue", spec.queue),
			zap.String("routing_key", spec.routingKey),
		)
		consumer, err := mq.NewConsumer(cfg.MQ.URL, spec.queue, spec.routingKey, log)
		if err != nil {
			log.Fatal("Failed to init consumer",
				zap.String("routing_key", spec.routingKey),
				zap.Error(err),
			)
		}
		consumer.SetHandler(spec.handler)
		consumers = append(consumers, consumer)

		go func(c *mq.Consumer, routingKey string) {
			if err := c.StartConsuming(); err != nil {
				log.Fatal("Consumer failed",
					zap.String("routing_key", routingKey),
					zap.Error(err),
				)
			}
		}(consumer, spec.routingKey)
	}

	log.Info("taskboard notifier is fully initialized and running")

	// 优雅退出处理
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down notifier gracefully...")

	for _, c := range consumers {
		c.Close()
	}

	if err := rdb.Close(); err != nil {
		log.Error("Redis close error", zap.Error(err))
	}

	log.Info("notifier shutdown complete")
}
