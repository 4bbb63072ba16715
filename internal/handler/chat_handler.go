package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/service"
)

type ChatHandler struct {
	chat   *service.ChatService
	logger *zap.Logger
}

func NewChatHandler(chat *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

type postMessageRequest struct {
	Content    string                `json:"content"`
	TaskID     *uuid.UUID            `json:"task_id"`
	SubtaskID  *uuid.UUID            `json:"subtask_id"`
	Attachment *addAttachmentRequest `json:"attachment"`
}

func (h *ChatHandler) Post(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.MessageInput{
		Content:   req.Content,
		TaskID:    req.TaskID,
		SubtaskID: req.SubtaskID,
	}
	if req.Attachment != nil {
		in.Attachment = &service.AttachmentInput{
			MediaType: req.Attachment.MediaType,
			Category:  req.Attachment.Category,
			FileName:  req.Attachment.FileName,
			SizeBytes: req.Attachment.SizeBytes,
			Caption:   req.Attachment.Caption,
		}
	}

	m, err := h.chat.PostMessage(c.Request.Context(), projectID, userID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("Message posted",
		zap.String("message_id", m.ID.String()),
		zap.String("project_id", projectID.String()),
	)
	c.JSON(http.StatusCreated, m)
}

func (h *ChatHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	msgs, err := h.chat.ListMessages(c.Request.Context(), projectID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
