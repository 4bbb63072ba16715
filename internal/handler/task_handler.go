package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/service"
)

type TaskHandler struct {
	tasks  *service.TaskService
	logger *zap.Logger
}

func NewTaskHandler(tasks *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

type createTaskRequest struct {
	Title     string      `json:"title" binding:"required"`
	Notes     string      `json:"notes"`
	DueDate   *time.Time  `json:"due_date"`
	Assignees []uuid.UUID `json:"assignees"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.tasks.CreateTask(c.Request.Context(), projectID, userID, service.CreateTaskInput{
		Title:     req.Title,
		Notes:     req.Notes,
		DueDate:   req.DueDate,
		Assignees: req.Assignees,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("Task created",
		zap.String("task_id", t.ID.String()),
		zap.String("project_id", projectID.String()),
	)
	c.JSON(http.StatusCreated, t)
}

func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	t, err := h.tasks.GetTask(c.Request.Context(), taskID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ackAction wraps the guarded state-machine operations: a missing task or
// a non-applicable transition answers 200 with status "noop" instead of
// an error, matching the machine's total-function contract.
func (h *TaskHandler) ackAction(c *gin.Context, action string, fn func(taskID, userID uuid.UUID) (bool, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	applied, err := fn(taskID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := "ok"
	if !applied {
		status = "noop"
	}
	h.logger.Info("Task action",
		zap.String("action", action),
		zap.String("task_id", taskID.String()),
		zap.String("user_id", userID.String()),
		zap.String("result", status),
	)
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *TaskHandler) Accept(c *gin.Context) {
	h.ackAction(c, "accept", func(taskID, userID uuid.UUID) (bool, error) {
		return h.tasks.Accept(c.Request.Context(), taskID, userID)
	})
}

func (h *TaskHandler) Decline(c *gin.Context) {
	h.ackAction(c, "decline", func(taskID, userID uuid.UUID) (bool, error) {
		return h.tasks.Decline(c.Request.Context(), taskID, userID)
	})
}

func (h *TaskHandler) Toggle(c *gin.Context) {
	h.ackAction(c, "toggle", func(taskID, userID uuid.UUID) (bool, error) {
		return h.tasks.ToggleStatus(c.Request.Context(), taskID, userID)
	})
}

type assignRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

func (h *TaskHandler) Assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.ackAction(c, "assign", func(taskID, actor uuid.UUID) (bool, error) {
		return h.tasks.Assign(c.Request.Context(), taskID, actor, req.UserID)
	})
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *TaskHandler) Comment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.ackAction(c, "comment", func(taskID, userID uuid.UUID) (bool, error) {
		return h.tasks.Comment(c.Request.Context(), taskID, userID, req.Text)
	})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), taskID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
