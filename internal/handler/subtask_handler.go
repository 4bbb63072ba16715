package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/service"
)

func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	tasks, err := h.tasks.ListProjectTasks(c.Request.Context(), projectID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("ListProjectTasks: success",
		zap.String("project_id", projectID.String()),
		zap.Int("task_count", len(tasks)),
	)
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

type addSubtaskRequest struct {
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description"`
	DueDate     *time.Time  `json:"due_date"`
	Assignees   []uuid.UUID `json:"assignees"`
}

func (h *TaskHandler) AddSubtask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req addSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.tasks.AddSubtask(c.Request.Context(), taskID, userID, service.SubtaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Assignees:   req.Assignees,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *TaskHandler) ToggleSubtask(c *gin.Context) {
	var subtaskID uuid.UUID
	if id, ok := parseUUIDParam(c, "subtaskID"); ok {
		subtaskID = id
	} else {
		return
	}

	h.ackAction(c, "subtask_toggle", func(taskID, userID uuid.UUID) (bool, error) {
		return h.tasks.ToggleSubtask(c.Request.Context(), taskID, subtaskID, userID)
	})
}

func (h *TaskHandler) RemoveSubtask(c *gin.Context) {
	var subtaskID uuid.UUID
	if id, ok := parseUUIDParam(c, "subtaskID"); ok {
		subtaskID = id
	} else {
		return
	}

	h.ackAction(c, "subtask_remove", func(taskID, userID uuid.UUID) (bool, error) {
		return h.tasks.RemoveSubtask(c.Request.Context(), taskID, subtaskID, userID)
	})
}
