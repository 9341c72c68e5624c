package handler

import (
	"net/http"
	"strconv"

	"sports_community/internal/service"

	"github.com/gin-gonic/gin"
)

type KakaoHandler struct {
	svc    *service.KakaoService
	cookie CookieConfig
}

func NewKakaoHandler(svc *service.KakaoService, cookie CookieConfig) *KakaoHandler {
	return &KakaoHandler{svc: svc, cookie: cookie}
}

// SignUp 返回 kakao 授权地址，前端自行跳转
func (h *KakaoHandler) SignUp(c *gin.Context) {
	autoLogin, _ := strconv.ParseBool(c.DefaultQuery("auto_login", "false"))
	authURL, err := h.svc.AuthURL(c.Request.Context(), c.Query("redirectUri"), autoLogin)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirectUri": authURL})
}

// Code kakao 回调，登录成功后带 cookie 重定向回前端
func (h *KakaoHandler) Code(c *gin.Context) {
	sess, redirect, err := h.svc.Complete(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		fail(c, err)
		return
	}
	h.cookie.set(c, sess)
	c.Redirect(http.StatusFound, redirect)
}
