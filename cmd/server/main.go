package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskboard/config"
	"taskboard/internal/handler"
	"taskboard/internal/httpserver"
	"taskboard/internal/service"
	"taskboard/internal/store"
	"taskboard/pkg/logger"
	"taskboard/pkg/mq"
	"taskboard/pkg/redis"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting taskboard server...",
		zap.String("port", cfg.Server.Port),
		zap.String("mq_url", cfg.MQ.URL),
		zap.String("redis_addr", cfg.Redis.Addr),
	)

	// Redis
	rdb := redis.NewRedisClient(cfg.Redis)

	// MQ Publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// In-memory board store
	st := store.NewStore(log)

	// Services
	authService := service.NewAuthService(st, cfg.JWT.Secret)
	projectService := service.NewProjectService(st, log)
	taskService := service.NewTaskService(st, publisher, log)
	chatService := service.NewChatService(st, publisher, log)
	activityService := service.NewActivityService(st, rdb, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	projectHandler := handler.NewProjectHandler(projectService, log)
	taskHandler := handler.NewTaskHandler(taskService, log)
	chatHandler := handler.NewChatHandler(chatService, log)
	activityHandler := handler.NewActivityHandler(activityService, log)

	// Router
	router := httpserver.NewRouter(
		authHandler,
		projectHandler,
		taskHandler,
		chatHandler,
		activityHandler,
		cfg.JWT.Secret,
		log,
		rdb,
		publisher,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 优雅退出处理
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down taskboard server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	if err := rdb.Close(); err != nil {
		log.Error("Redis close error", zap.Error(err))
	}

	log.Info("taskboard server shutdown complete")
}
