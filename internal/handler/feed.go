package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hadiwyne/write-space/internal/dto"
	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/service"
)

func (h *Handler) feedGet(c *gin.Context) {
	viewer := h.getViewer(c)
	limit := intQuery(c, "limit", service.DEFAULT_FEED_LIMIT)
	offset := intQuery(c, "offset", 0)
	tag := c.Query("tag")
	sort := c.DefaultQuery("sort", "latest")

	h.metrics.RecordFeedRequest(c.Request.Context(), sort)

	var items []*model.FeedItem
	var err error
	switch sort {
	case "popular":
		items, err = h.services.Feed.GetPopular(c.Request.Context(), viewer, tag, limit, offset)
	case "friends":
		items, err = h.services.Feed.GetFriends(c.Request.Context(), viewer, tag, limit, offset)
	default:
		items, err = h.services.Feed.GetChronological(c.Request.Context(), viewer, tag, limit, offset)
	}
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) feedTrendingPosts(c *gin.Context) {
	viewer := h.getViewer(c)
	limit := intQuery(c, "limit", 0)

	items, err := h.services.Feed.GetTrendingPosts(c.Request.Context(), viewer, limit)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) feedTrendingTags(c *gin.Context) {
	viewer := h.getViewer(c)
	limit := intQuery(c, "limit", 0)

	tags, err := h.services.Feed.GetTrendingTags(c.Request.Context(), viewer, limit)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, tags)
}
