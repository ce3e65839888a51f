package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hadiwyne/write-space/internal/dto"
)

func draftIDParam(c *gin.Context) (int64, bool) {
	draftIDString := strings.TrimSpace(c.Param("draftID"))
	draftID, err := strconv.ParseInt(draftIDString, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidDraftID.Error()))
		return 0, false
	}

	return draftID, true
}

func (h *Handler) draftsSave(c *gin.Context) {
	viewer := h.getViewer(c)

	var input dto.SaveDraftRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	draft, err := h.services.Draft.Save(c.Request.Context(), *viewer.ID, input)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *draft)
}

func (h *Handler) draftsGetAll(c *gin.Context) {
	viewer := h.getViewer(c)
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	drafts, err := h.services.Draft.FindAll(c.Request.Context(), *viewer.ID, limit, offset)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, drafts)
}

func (h *Handler) draftsGetByID(c *gin.Context) {
	viewer := h.getViewer(c)

	draftID, ok := draftIDParam(c)
	if !ok {
		return
	}

	draft, err := h.services.Draft.FindByID(c.Request.Context(), draftID, *viewer.ID)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *draft)
}

func (h *Handler) draftsDelete(c *gin.Context) {
	viewer := h.getViewer(c)

	draftID, ok := draftIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Draft.Delete(c.Request.Context(), draftID, *viewer.ID); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) draftsGetVersions(c *gin.Context) {
	viewer := h.getViewer(c)
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	draftID, ok := draftIDParam(c)
	if !ok {
		return
	}

	versions, err := h.services.Draft.GetVersions(c.Request.Context(), draftID, *viewer.ID, limit, offset)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, versions)
}
