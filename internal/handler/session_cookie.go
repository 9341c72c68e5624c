package handler

import (
	"net/http"
	"time"

	"sports_community/internal/service"

	"github.com/gin-gonic/gin"
)

// CookieConfig 会话 cookie 的属性
type CookieConfig struct {
	Name   string
	Secure bool
	// AutoLoginMaxAge 自动登录时的 Max-Age，否则为浏览器会话 cookie
	AutoLoginMaxAge time.Duration
}

func (cc CookieConfig) set(c *gin.Context, sess *service.Session) {
	maxAge := 0
	if sess.AutoLogin {
		maxAge = int(cc.AutoLoginMaxAge.Seconds())
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cc.Name,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (cc CookieConfig) expire(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cc.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
