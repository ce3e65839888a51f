package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hadiwyne/write-space/internal/dto"
)

func (h *Handler) follow(c *gin.Context) {
	viewer := h.getViewer(c)
	username := strings.TrimSpace(c.Param("username"))

	if err := h.services.Follow.Follow(c.Request.Context(), *viewer.ID, username); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) unfollow(c *gin.Context) {
	viewer := h.getViewer(c)
	username := strings.TrimSpace(c.Param("username"))

	if err := h.services.Follow.Unfollow(c.Request.Context(), *viewer.ID, username); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) isFollowing(c *gin.Context) {
	viewer := h.getViewer(c)
	username := strings.TrimSpace(c.Param("username"))

	following, err := h.services.Follow.IsFollowing(c.Request.Context(), *viewer.ID, username)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

func (h *Handler) usersGetFollowers(c *gin.Context) {
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	followers, err := h.services.Follow.FindFollowers(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, followers)
}

func (h *Handler) usersGetFollowing(c *gin.Context) {
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	following, err := h.services.Follow.FindFollowing(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, following)
}

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	userIDString := strings.TrimSpace(c.Param("userID"))
	userID, err := uuid.Parse(userIDString)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return uuid.Nil, false
	}

	return userID, true
}
