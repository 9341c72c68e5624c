package handler

import (
	"encoding/json"
	"net/http"

	"sports_community/internal/middleware"
	"sports_community/internal/service"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	svc *service.BoardService
}

type BoardSaveReq struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content"`
}

type BoardModifyReq struct {
	BoardNum json.Number `json:"boardNum" binding:"required"`
	Title    string      `json:"title" binding:"required,max=200"`
	Content  string      `json:"content"`
}

func NewBoardHandler(svc *service.BoardService) *BoardHandler {
	return &BoardHandler{svc: svc}
}

// Save 发帖接口
func (h *BoardHandler) Save(c *gin.Context) {
	var req BoardSaveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	if _, err := h.svc.Create(c.Request.Context(), middleware.CurrentNickname(c), req.Title, req.Content); err != nil {
		fail(c, err)
		return
	}
	ok(c)
}

func (h *BoardHandler) Modify(c *gin.Context) {
	var req BoardModifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	id, valid := numberID(req.BoardNum)
	if !valid {
		invalidParams(c)
		return
	}
	if err := h.svc.Modify(c.Request.Context(), middleware.CurrentNickname(c), id, req.Title, req.Content); err != nil {
		fail(c, err)
		return
	}
	ok(c)
}

func (h *BoardHandler) Delete(c *gin.Context) {
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

func (h *BoardHandler) FindAll(c *gin.Context) {
	list, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BoardHandler) FindOne(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	b, err := h.svc.FindOne(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// IncrementView 浏览数 +1
func (h *BoardHandler) IncrementView(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.IncrementView(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c)
}
