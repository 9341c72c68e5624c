package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sports_community/internal/config"
	"sports_community/internal/handler"
	"sports_community/internal/httpserver"
	"sports_community/internal/observability"
	"sports_community/internal/pkg"
	"sports_community/internal/repository/mysql"
	"sports_community/internal/repository/redis"
	"sports_community/internal/router"
	"sports_community/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.Init(cfg.AppEnv, os.Stdout)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err = mysql.InitDB(cfg.DBDriver, cfg.DBDSN); err != nil {
		logger.Error("init db", slog.Any("error", err))
		os.Exit(1)
	}
	defer mysql.Close()

	// 连接redis
	rdb, err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("init redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer redis.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := mysql.DB
	email := service.NewEmailService(pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	sessions := service.NewSessionService(rdb, cfg.SessionTTL, cfg.AutoLoginTTL)
	members := service.NewMemberService(db, rdb, sessions, email)
	boards := service.NewBoardService(db, rdb)
	replies := service.NewReplyService(db)
	kakao := service.NewKakaoService(
		pkg.NewKakaoClient(pkg.KakaoConfig{
			ClientID:     cfg.KakaoAppKey,
			ClientSecret: cfg.KakaoClientSecret,
			RedirectURL:  cfg.KakaoRedirectURI,
			AuthURL:      cfg.KakaoAuthURL,
			TokenURL:     cfg.KakaoTokenURL,
			UserInfoURL:  cfg.KakaoUserInfoURL,
		}),
		pkg.NewStateSigner(cfg.StateSecret, cfg.StateTTL),
		rdb, members, cfg.Redirects(),
	)

	// 后台任务：outbox 投递与点赞计数对账
	sender := service.LogSender
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: brokers, Topic: cfg.KafkaTopic})
		defer producer.Close()
		sender = service.KafkaSender(producer)
		logger.Info("outbox relays to kafka", slog.String("topic", producer.Topic()))
	}
	go service.NewOutboxRelayer(db, sender, cfg.OutboxInterval, cfg.OutboxBatch, cfg.OutboxRetention).Run(ctx)
	go service.NewLikeCountReconciler(db, rdb, cfg.ReconcileInterval, cfg.ReconcileBatch).Run(ctx)

	cookie := handler.CookieConfig{
		Name:            cfg.SessionCookieName,
		Secure:          cfg.CookieSecure,
		AutoLoginMaxAge: cfg.AutoLoginTTL,
	}
	r := router.InitRouter(router.Deps{
		Sessions:       sessions,
		Cookie:         cookie,
		AllowedOrigins: cfg.Origins(),
		Member:         handler.NewMemberHandler(members, cookie),
		Board:          handler.NewBoardHandler(boards),
		Reply:          handler.NewReplyHandler(replies),
		Like:           handler.NewLikeHandler(service.NewBoardLikeService(db, rdb, boards), service.NewReplyLikeService(db, replies, boards)),
		Kakao:          handler.NewKakaoHandler(kakao, cookie),
		Community:      handler.NewCommunityHandler(service.NewCommunityService(db)),
		Game:           handler.NewGameHandler(service.NewGameService(db)),
	})

	if err = httpserver.New(":"+cfg.Port, r).Run(ctx); err != nil {
		logger.Error("http server", slog.Any("error", err))
	}
}
