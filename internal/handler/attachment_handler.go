package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/service"
)

type addAttachmentRequest struct {
	MediaType string `json:"media_type" binding:"required"`
	Category  string `json:"category" binding:"required"`
	FileName  string `json:"file_name" binding:"required"`
	SizeBytes int64  `json:"size_bytes"`
	Caption   string `json:"caption"`
}

func (h *TaskHandler) AddAttachment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req addAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	att, err := h.tasks.AddAttachment(c.Request.Context(), taskID, userID, service.AttachmentInput{
		MediaType: req.MediaType,
		Category:  req.Category,
		FileName:  req.FileName,
		SizeBytes: req.SizeBytes,
		Caption:   req.Caption,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, att)
}

func (h *TaskHandler) RemoveAttachment(c *gin.Context) {
	var attachmentID uuid.UUID
	if id, ok := parseUUIDParam(c, "attachmentID"); ok {
		attachmentID = id
	} else {
		return
	}

	h.ackAction(c, "attachment_remove", func(taskID, userID uuid.UUID) (bool, error) {
		return h.tasks.RemoveAttachment(c.Request.Context(), taskID, attachmentID, userID)
	})
}

func (h *TaskHandler) ListAttachments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	atts, err := h.tasks.ListAttachments(c.Request.Context(), taskID, userID, c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachments": atts})
}
