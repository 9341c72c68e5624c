package handler

import (
	"net/http"

	"sports_community/internal/service"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	svc *service.GameService
}

func NewGameHandler(svc *service.GameService) *GameHandler {
	return &GameHandler{svc: svc}
}

func (h *GameHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), c.Query("sports"), c.Query("league"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
