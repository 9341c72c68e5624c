package handler

import (
	"net/http"

	"sports_community/internal/middleware"
	"sports_community/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

type CommunityWriteReq struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content"`
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

func (h *CommunityHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommunityHandler) Write(c *gin.Context) {
	var req CommunityWriteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	if _, err := h.svc.Write(c.Request.Context(), middleware.CurrentNickname(c), req.Title, req.Content); err != nil {
		fail(c, err)
		return
	}
	ok(c)
}

// Detail 查看即计一次浏览
func (h *CommunityHandler) Detail(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	b, err := h.svc.Detail(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *CommunityHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentNickname(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c)
}
