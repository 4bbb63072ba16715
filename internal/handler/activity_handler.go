package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/service"
)

type ActivityHandler struct {
	activity *service.ActivityService
	logger   *zap.Logger
}

func NewActivityHandler(activity *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{activity: activity, logger: logger}
}

// Inbox serves the per-user activity view: assigned tasks bucketed into
// new / active / done, grouped by project.
func (h *ActivityHandler) Inbox(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	view, err := h.activity.Inbox(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Debug("Activity inbox served",
		zap.String("user_id", userID.String()),
		zap.Int("project_count", len(view.Projects)),
	)
	c.JSON(http.StatusOK, view)
}
