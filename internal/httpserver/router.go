package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taskboard/internal/handler"
	"taskboard/pkg/mq"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	taskHandler *handler.TaskHandler,
	chatHandler *handler.ChatHandler,
	activityHandler *handler.ActivityHandler,
	jwtSecret string,
	logger *zap.Logger,
	rdb *redis.Client,
	publisher *mq.Publisher,
) *Router {
	r := gin.Default()

	r.Use(TraceMiddleware())
	r.Use(RequestLogger(logger))

	// Health endpoints (放在最前面)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				c.JSON(500, gin.H{"status": "redis_not_ready", "error": err.Error()})
				return
			}
		}

		if publisher != nil && !publisher.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.POST("/projects", projectHandler.Create)
		auth.GET("/projects", projectHandler.List)
		auth.GET("/projects/:id", projectHandler.Get)
		auth.POST("/projects/:id/members", projectHandler.AddMember)
		auth.DELETE("/projects/:id/members/:userID", projectHandler.RemoveMember)

		auth.POST("/projects/:id/tasks", taskHandler.Create)
		auth.GET("/projects/:id/tasks", taskHandler.ListProjectTasks)
		auth.GET("/tasks/:id", taskHandler.Get)
		auth.DELETE("/tasks/:id", taskHandler.Delete)
		auth.POST("/tasks/:id/assign", taskHandler.Assign)
		auth.POST("/tasks/:id/accept", taskHandler.Accept)
		auth.POST("/tasks/:id/decline", taskHandler.Decline)
		auth.POST("/tasks/:id/toggle", taskHandler.Toggle)
		auth.POST("/tasks/:id/comment", taskHandler.Comment)

		auth.POST("/tasks/:id/subtasks", taskHandler.AddSubtask)
		auth.POST("/tasks/:id/subtasks/:subtaskID/toggle", taskHandler.ToggleSubtask)
		auth.DELETE("/tasks/:id/subtasks/:subtaskID", taskHandler.RemoveSubtask)

		auth.POST("/tasks/:id/attachments", taskHandler.AddAttachment)
		auth.GET("/tasks/:id/attachments", taskHandler.ListAttachments)
		auth.DELETE("/tasks/:id/attachments/:attachmentID", taskHandler.RemoveAttachment)

		auth.POST("/projects/:id/messages", chatHandler.Post)
		auth.GET("/projects/:id/messages", chatHandler.List)

		auth.GET("/activity", activityHandler.Inbox)
	}

	return &Router{Engine: r}
}
