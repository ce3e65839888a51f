package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hadiwyne/write-space/internal/dto"
)

func collectionIDParam(c *gin.Context) (int64, bool) {
	collectionIDString := strings.TrimSpace(c.Param("collectionID"))
	collectionID, err := strconv.ParseInt(collectionIDString, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidCollectionID.Error()))
		return 0, false
	}

	return collectionID, true
}

func (h *Handler) collectionsCreate(c *gin.Context) {
	viewer := h.getViewer(c)

	var input dto.CreateCollectionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	collection, err := h.services.Collection.Create(c.Request.Context(), *viewer.ID, input)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, *collection)
}

func (h *Handler) collectionsEdit(c *gin.Context) {
	viewer := h.getViewer(c)

	var input dto.EditCollectionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	collection, err := h.services.Collection.Edit(c.Request.Context(), *viewer.ID, input)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *collection)
}

func (h *Handler) collectionsDelete(c *gin.Context) {
	viewer := h.getViewer(c)

	collectionID, ok := collectionIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Collection.Delete(c.Request.Context(), collectionID, viewer); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) collectionsGetPosts(c *gin.Context) {
	viewer := h.getViewer(c)
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	collectionID, ok := collectionIDParam(c)
	if !ok {
		return
	}

	posts, err := h.services.Collection.FindPosts(c.Request.Context(), collectionID, viewer, limit, offset)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) collectionsAddPost(c *gin.Context) {
	viewer := h.getViewer(c)

	collectionID, ok := collectionIDParam(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Collection.AddPost(c.Request.Context(), viewer, collectionID, postID); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) collectionsRemovePost(c *gin.Context) {
	viewer := h.getViewer(c)

	collectionID, ok := collectionIDParam(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Collection.RemovePost(c.Request.Context(), viewer, collectionID, postID); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) usersGetCollections(c *gin.Context) {
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	userIDString := strings.TrimSpace(c.Param("userID"))
	userID, err := uuid.Parse(userIDString)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	collections, err := h.services.Collection.FindUserCollections(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, collections)
}

func (h *Handler) usersGetCollectionBySlug(c *gin.Context) {
	userIDString := strings.TrimSpace(c.Param("userID"))
	userID, err := uuid.Parse(userIDString)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	collection, err := h.services.Collection.FindBySlug(c.Request.Context(), userID, strings.TrimSpace(c.Param("slug")))
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *collection)
}
