package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hadiwyne/write-space/internal/dto"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	viewer := h.getViewer(c)

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), *viewer.ID, input)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, *comment)
}

func (h *Handler) commentsGet(c *gin.Context) {
	viewer := h.getViewer(c)
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	comments, err := h.services.Comment.FindPostComments(c.Request.Context(), postID, viewer, limit, offset)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) commentsDelete(c *gin.Context) {
	viewer := h.getViewer(c)

	commentIDString := strings.TrimSpace(c.Param("commentID"))
	commentID, err := strconv.ParseInt(commentIDString, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidCommentID.Error()))
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), commentID, viewer); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}
