package handler

import (
	"encoding/json"
	"net/http"

	"sports_community/internal/middleware"
	"sports_community/internal/service"

	"github.com/gin-gonic/gin"
)

type ReplyHandler struct {
	svc *service.ReplyService
}

type ReplySaveReq struct {
	BoardNum json.Number `json:"boardNum" binding:"required"`
	Content  string      `json:"content" binding:"required"`
}

// ReplyModifyReq writer 字段即使传了也不参与归属判断
type ReplyModifyReq struct {
	ReplyNum json.Number `json:"replyNum" binding:"required"`
	Content  string      `json:"content" binding:"required"`
}

func NewReplyHandler(svc *service.ReplyService) *ReplyHandler {
	return &ReplyHandler{svc: svc}
}

func (h *ReplyHandler) Save(c *gin.Context) {
	var req ReplySaveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	boardID, valid := numberID(req.BoardNum)
	if !valid {
		invalidParams(c)
		return
	}
	if _, err := h.svc.Create(c.Request.Context(), middleware.CurrentNickname(c), boardID, req.Content); err != nil {
		fail(c, err)
		return
	}
	ok(c)
}

func (h *ReplyHandler) Modify(c *gin.Context) {
	var req ReplyModifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	id, valid := numberID(req.ReplyNum)
	if !valid {
		invalidParams(c)
		return
	}
	if err := h.svc.Modify(c.Request.Context(), middleware.CurrentNickname(c), id, req.Content); err != nil {
		fail(c, err)
		return
	}
	ok(c)
}

func (h *ReplyHandler) Delete(c *gin.Context) {
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

func (h *ReplyHandler) FindAll(c *gin.Context) {
	boardID, valid := paramID(c, "boardId")
	if !valid {
		return
	}
	list, err := h.svc.FindAllForBoard(c.Request.Context(), boardID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
