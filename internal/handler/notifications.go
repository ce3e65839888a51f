package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hadiwyne/write-space/internal/dto"
)

func (h *Handler) notificationsGet(c *gin.Context) {
	viewer := h.getViewer(c)
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.services.Notification.FindByUser(c.Request.Context(), *viewer.ID, limit, offset, unreadOnly)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *Handler) notificationsUnreadCount(c *gin.Context) {
	viewer := h.getViewer(c)

	count, err := h.services.Notification.UnreadCount(c.Request.Context(), *viewer.ID)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.UnreadCountResponse{Unread: count})
}

func (h *Handler) notificationsMarkRead(c *gin.Context) {
	viewer := h.getViewer(c)

	notificationIDString := strings.TrimSpace(c.Param("notificationID"))
	notificationID, err := strconv.ParseInt(notificationIDString, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidNotificationID.Error()))
		return
	}

	if err := h.services.Notification.MarkRead(c.Request.Context(), notificationID, *viewer.ID); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) notificationsMarkAllRead(c *gin.Context) {
	viewer := h.getViewer(c)

	if err := h.services.Notification.MarkAllRead(c.Request.Context(), *viewer.ID); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}
