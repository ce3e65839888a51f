package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hadiwyne/write-space/internal/dto"
)

func (h *Handler) wsConnect(c *gin.Context) {
	viewer := h.getViewer(c)

	h.hub.HandleConnection(c.Writer, c.Request, *viewer.ID)
}

func (h *Handler) presenceOnline(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OnlineResponse{Online: h.hub.OnlineCount()})
}
