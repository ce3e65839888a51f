package handler

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	viewer, err := viewerFromRequest(c)
	if err != nil || viewer == nil {
		c.Next()
		return
	}

	c.Set("viewer", *viewer)

	c.Next()
}
