package router

import (
	"net/http"

	"sports_community/internal/handler"
	"sports_community/internal/middleware"
	"sports_community/internal/pkg"
	"sports_community/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Sessions       *service.SessionService
	Cookie         handler.CookieConfig
	AllowedOrigins []string

	Member    *handler.MemberHandler
	Board     *handler.BoardHandler
	Reply     *handler.ReplyHandler
	Like      *handler.LikeHandler
	Kakao     *handler.KakaoHandler
	Community *handler.CommunityHandler
	Game      *handler.GameHandler
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	// 前端跨域携带 cookie
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = d.AllowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.ExposeHeaders = []string{pkg.ErrorCodeHeader, middleware.RequestIDHeader}
	if len(corsCfg.AllowOrigins) > 0 {
		r.Use(cors.New(corsCfg))
	}
	r.Use(middleware.Session(d.Sessions, d.Cookie.Name))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.RequireLogin()

	// 会员相关接口
	member := r.Group("/member")
	{
		member.POST("/signup", d.Member.SignUp)
		member.GET("/valid_id", d.Member.ValidNickname)
		member.GET("/valid_email", d.Member.ValidEmail)
		member.POST("/login", d.Member.Login)
		member.POST("/logout", auth, d.Member.Logout)
		member.GET("/check_login", auth, d.Member.CheckLogin)
		member.PUT("/modify", auth, d.Member.Modify)
		member.DELETE("/delete", auth, d.Member.Delete)
	}

	// 帖子与帖子点赞
	board := r.Group("/board")
	{
		board.POST("/save", auth, d.Board.Save)
		board.PUT("/modify", auth, d.Board.Modify)
		board.DELETE("/delete/:id", auth, d.Board.Delete)
		board.GET("/find_all", d.Board.FindAll)
		board.GET("/find/:id", d.Board.FindOne)
		board.PUT("/view/:id", d.Board.IncrementView)
		board.POST("/like/:id", auth, d.Like.LikeBoard)
		board.DELETE("/unlike/:id", auth, d.Like.UnlikeBoard)
		board.GET("/like_status/:id", auth, d.Like.BoardStatus)
	}

	// 回复与回复点赞
	reply := r.Group("/reply")
	{
		reply.POST("/save", auth, d.Reply.Save)
		reply.PUT("/modify", auth, d.Reply.Modify)
		reply.DELETE("/delete/:id", auth, d.Reply.Delete)
		reply.GET("/find_all/:boardId", d.Reply.FindAll)
		reply.POST("/like/:id", auth, d.Like.LikeReply)
		reply.DELETE("/unlike/:id", auth, d.Like.UnlikeReply)
		reply.GET("/like_status/:boardId", auth, d.Like.ReplyStatus)
	}

	kakao := r.Group("/kakao")
	{
		kakao.GET("/signup", d.Kakao.SignUp)
		kakao.GET("/code", d.Kakao.Code)
	}

	community := r.Group("/communityBoard")
	{
		community.GET("/list", d.Community.List)
		community.POST("/write", auth, d.Community.Write)
		community.GET("/detail/:id", d.Community.Detail)
		community.DELETE("/delete/:id", auth, d.Community.Delete)
	}

	r.GET("/game/list", d.Game.List)

	return r
}
