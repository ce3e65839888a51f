package handler

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hadiwyne/write-space/internal/dto"
	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/pkg/utils"
)

func (h *Handler) authMiddleware(c *gin.Context) {
	viewer, err := viewerFromRequest(c)
	if err != nil || viewer == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errUnauthorized.Error()))
		return
	}

	c.Set("viewer", *viewer)

	c.Next()
}

func viewerFromRequest(c *gin.Context) (*model.Viewer, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, nil
	}

	accessToken := strings.TrimPrefix(header, "Bearer ")
	if accessToken == "" {
		return nil, nil
	}

	claims, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("JWT_SIGNING_KEY")))
	if err != nil {
		return nil, err
	}

	idString, ok := claims["id"].(string)
	if !ok {
		return nil, errInvalidToken
	}
	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, err
	}

	role, _ := claims["role"].(string)

	viewer := model.UserViewer(id, role == "ADMIN")
	return &viewer, nil
}
