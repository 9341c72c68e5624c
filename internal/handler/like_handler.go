package handler

import (
	"context"
	"net/http"

	"sports_community/internal/middleware"
	"sports_community/internal/service"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	boards  *service.BoardLikeService
	replies *service.ReplyLikeService
}

func NewLikeHandler(boards *service.BoardLikeService, replies *service.ReplyLikeService) *LikeHandler {
	return &LikeHandler{boards: boards, replies: replies}
}

func toggle(c *gin.Context, op func(ctx context.Context, nickName string, id uint64) error) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := op(c.Request.Context(), middleware.CurrentNickname(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c)
}

func (h *LikeHandler) LikeBoard(c *gin.Context)   { toggle(c, h.boards.MakeLike) }
func (h *LikeHandler) UnlikeBoard(c *gin.Context) { toggle(c, h.boards.RemoveLike) }
func (h *LikeHandler) LikeReply(c *gin.Context)   { toggle(c, h.replies.MakeLike) }
func (h *LikeHandler) UnlikeReply(c *gin.Context) { toggle(c, h.replies.RemoveLike) }

// BoardStatus 200 success 表示已点赞，200 failed 表示未点赞
func (h *LikeHandler) BoardStatus(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	liked, err := h.boards.IsLiked(c.Request.Context(), middleware.CurrentNickname(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	if !liked {
		c.String(http.StatusOK, bodyFailed)
		return
	}
	ok(c)
}

// ReplyStatus 返回当前用户在该帖子下点赞过的回复 ID
func (h *LikeHandler) ReplyStatus(c *gin.Context) {
	boardID, valid := paramID(c, "boardId")
	if !valid {
		return
	}
	ids, err := h.replies.LikedReplyIDs(c.Request.Context(), middleware.CurrentNickname(c), boardID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}
