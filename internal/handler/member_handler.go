package handler

import (
	"context"
	"net/http"
	"strings"

	"sports_community/internal/middleware"
	"sports_community/internal/pkg"
	"sports_community/internal/service"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	svc    *service.MemberService
	cookie CookieConfig
}

// SignUpReq 注册请求体
type SignUpReq struct {
	NickName string `json:"nickName" binding:"required,max=32"`
	Password string `json:"password" binding:"required,max=72"`
	Email    string `json:"email" binding:"required,email,max=128"`
	Profile  string `json:"profile"`
	MlbTeam  string `json:"mlbTeam"`
	KboTeam  string `json:"kboTeam"`
	KlTeam   string `json:"klTeam"`
	PlTeam   string `json:"plTeam"`
	KblTeam  string `json:"kblTeam"`
	NbaTeam  string `json:"nbaTeam"`
	VmanTeam string `json:"vmanTeam"`
	VwoTeam  string `json:"vwoTeam"`
}

type LoginReq struct {
	NickName  string       `json:"nickName" binding:"required"`
	Password  string       `json:"password" binding:"required"`
	AutoLogin pkg.FlexBool `json:"autoLogin"`
}

// ModifyReq 字段缺省表示不修改
type ModifyReq struct {
	NickName *string `json:"nickName"`
	Password *string `json:"password"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Profile  *string `json:"profile"`
	MlbTeam  *string `json:"mlbTeam"`
	KboTeam  *string `json:"kboTeam"`
	KlTeam   *string `json:"klTeam"`
	PlTeam   *string `json:"plTeam"`
	KblTeam  *string `json:"kblTeam"`
	NbaTeam  *string `json:"nbaTeam"`
	VmanTeam *string `json:"vmanTeam"`
	VwoTeam  *string `json:"vwoTeam"`
}

func NewMemberHandler(svc *service.MemberService, cookie CookieConfig) *MemberHandler {
	return &MemberHandler{svc: svc, cookie: cookie}
}

// SignUp 注册接口
func (h *MemberHandler) SignUp(c *gin.Context) {
	var req SignUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	_, err := h.svc.Register(c.Request.Context(), service.SignUp{
		NickName: req.NickName,
		Password: req.Password,
		Email:    req.Email,
		Profile:  req.Profile,
		Teams: service.Teams{
			MlbTeam: req.MlbTeam, KboTeam: req.KboTeam, KlTeam: req.KlTeam, PlTeam: req.PlTeam,
			KblTeam: req.KblTeam, NbaTeam: req.NbaTeam, VmanTeam: req.VmanTeam, VwoTeam: req.VwoTeam,
		},
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c)
}

// ValidNickname 昵称是否已被占用
func (h *MemberHandler) ValidNickname(c *gin.Context) {
	h.availability(c, strings.TrimSpace(c.Query("nick_name")), h.svc.IsNicknameTaken)
}

func (h *MemberHandler) ValidEmail(c *gin.Context) {
	h.availability(c, strings.TrimSpace(c.Query("email")), h.svc.IsEmailTaken)
}

func (h *MemberHandler) availability(c *gin.Context, v string, taken func(ctx context.Context, v string) (bool, error)) {
	if v == "" {
		invalidParams(c)
		return
	}
	exists, err := taken(c.Request.Context(), v)
	if err != nil {
		fail(c, err)
		return
	}
	if exists {
		c.String(http.StatusOK, "existed")
		return
	}
	c.String(http.StatusOK, "able")
}

// Login 登录接口，成功后下发会话 cookie
func (h *MemberHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	sess, err := h.svc.Login(c.Request.Context(), req.NickName, req.Password, req.AutoLogin.Bool())
	if err != nil {
		fail(c, err)
		return
	}
	h.cookie.set(c, sess)
	ok(c)
}

func (h *MemberHandler) Logout(c *gin.Context) {
	if err := h.svc.TerminateSession(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		fail(c, err)
		return
	}
	h.cookie.expire(c)
	ok(c)
}

// CheckLogin 返回当前登录用户的资料
func (h *MemberHandler) CheckLogin(c *gin.Context) {
	u, err := h.svc.Profile(c.Request.Context(), middleware.CurrentNickname(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"nickName":    u.NickName,
		"email":       u.Email,
		"profile":     u.Profile,
		"auth":        u.Auth,
		"loginMethod": u.LoginMethod,
		"mlbTeam":     u.MlbTeam,
		"kboTeam":     u.KboTeam,
		"klTeam":      u.KlTeam,
		"plTeam":      u.PlTeam,
		"kblTeam":     u.KblTeam,
		"nbaTeam":     u.NbaTeam,
		"vmanTeam":    u.VmanTeam,
		"vwoTeam":     u.VwoTeam,
	})
}

// Modify 修改资料后需要重新登录
func (h *MemberHandler) Modify(c *gin.Context) {
	var req ModifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}
	err := h.svc.ModifyProfile(c.Request.Context(), middleware.CurrentNickname(c), middleware.CurrentSession(c), service.ProfileUpdate{
		NickName: req.NickName,
		Password: req.Password,
		Email:    req.Email,
		Profile:  req.Profile,
		MlbTeam:  req.MlbTeam,
		KboTeam:  req.KboTeam,
		KlTeam:   req.KlTeam,
		PlTeam:   req.PlTeam,
		KblTeam:  req.KblTeam,
		NbaTeam:  req.NbaTeam,
		VmanTeam: req.VmanTeam,
		VwoTeam:  req.VwoTeam,
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.cookie.expire(c)
	ok(c)
}

func (h *MemberHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteAccount(c.Request.Context(), middleware.CurrentNickname(c)); err != nil {
		fail(c, err)
		return
	}
	h.cookie.expire(c)
	ok(c)
}
