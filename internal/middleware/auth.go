package middleware

import (
	"net/http"

	"sports_community/internal/observability"
	"sports_community/internal/pkg"
	"sports_community/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ContextNicknameKey  = "nickname"
	ContextUserIDKey    = "user_id"
	ContextSessionIDKey = "session_id"
)

// Session 每个请求都解析会话，解析不到身份时放行，由 RequireLogin 决定是否拦截
func Session(sessions *service.SessionService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}
		c.Set(ContextSessionIDKey, sessionID)

		// redis校验会话，命中后自动续期；用户ID随 context 下传，业务层据此核对昵称归属
		id, ok := sessions.Resolve(c.Request.Context(), sessionID)
		if ok {
			c.Set(ContextNicknameKey, id.Nickname)
			c.Set(ContextUserIDKey, id.UserID)
			ctx := observability.WithNickname(c.Request.Context(), id.Nickname)
			c.Request = c.Request.WithContext(service.WithIdentity(ctx, id))
		}
		c.Next()
	}
}

// RequireLogin 未登录返回 400 failed，与其他失败保持同一响应格式
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentNickname(c) == "" {
			c.Header(pkg.ErrorCodeHeader, string(pkg.CodeUnauthorized))
			c.String(http.StatusBadRequest, "failed")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentNickname(c *gin.Context) string {
	return c.GetString(ContextNicknameKey)
}

func CurrentUserID(c *gin.Context) uint64 {
	return c.GetUint64(ContextUserIDKey)
}

// CurrentSession cookie 中的会话 ID，会话已失效时也会返回
func CurrentSession(c *gin.Context) string {
	return c.GetString(ContextSessionIDKey)
}
