package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hadiwyne/write-space/internal/dto"
)

func postIDParam(c *gin.Context) (int64, bool) {
	postIDString := strings.TrimSpace(c.Param("postID"))
	postID, err := strconv.ParseInt(postIDString, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return 0, false
	}

	return postID, true
}

func (h *Handler) postsCreate(c *gin.Context) {
	viewer := h.getViewer(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), *viewer.ID, input)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, *createdPost)
}

func (h *Handler) postsEdit(c *gin.Context) {
	viewer := h.getViewer(c)

	var input dto.EditPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	updatedPost, err := h.services.Post.Edit(c.Request.Context(), *viewer.ID, input)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *updatedPost)
}

func (h *Handler) postsDelete(c *gin.Context) {
	viewer := h.getViewer(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), postID, viewer); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) postsArchive(c *gin.Context) {
	h.setArchived(c, true)
}

func (h *Handler) postsUnarchive(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *Handler) setArchived(c *gin.Context, archived bool) {
	viewer := h.getViewer(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := h.services.Post.SetArchived(c.Request.Context(), postID, *viewer.ID, archived)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *post)
}

func (h *Handler) postsGetByID(c *gin.Context) {
	viewer := h.getViewer(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), postID, viewer)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *post)
}

func (h *Handler) postsGetByAuthor(c *gin.Context) {
	viewer := h.getViewer(c)
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	authorIDString := strings.TrimSpace(c.Param("userID"))
	authorID, err := uuid.Parse(authorIDString)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	posts, err := h.services.Post.FindAuthorPosts(c.Request.Context(), authorID, viewer, limit, offset)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetArchived(c *gin.Context) {
	viewer := h.getViewer(c)
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	posts, err := h.services.Post.FindArchivedPosts(c.Request.Context(), *viewer.ID, limit, offset)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsSearch(c *gin.Context) {
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)
	term := c.Query("q")
	tag := c.Query("tag")

	posts, err := h.services.Post.Search(c.Request.Context(), term, tag, limit, offset)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetBookmarked(c *gin.Context) {
	viewer := h.getViewer(c)
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	posts, err := h.services.Reaction.FindUserBookmarks(c.Request.Context(), *viewer.ID, limit, offset)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetReposted(c *gin.Context) {
	viewer := h.getViewer(c)
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	posts, err := h.services.Reaction.FindUserReposts(c.Request.Context(), *viewer.ID, limit, offset)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsToggleLike(c *gin.Context) {
	viewer := h.getViewer(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	result, err := h.services.Reaction.ToggleLike(c.Request.Context(), postID, *viewer.ID)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *result)
}

func (h *Handler) postsToggleBookmark(c *gin.Context) {
	viewer := h.getViewer(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	result, err := h.services.Reaction.ToggleBookmark(c.Request.Context(), postID, *viewer.ID)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *result)
}

func (h *Handler) postsToggleRepost(c *gin.Context) {
	viewer := h.getViewer(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	result, err := h.services.Reaction.ToggleRepost(c.Request.Context(), postID, *viewer.ID)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *result)
}
