// seed 向本地开发库写入假数据：用户、帖子、回复和赛程。
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"sports_community/internal/config"
	"sports_community/internal/model"
	"sports_community/internal/observability"
	"sports_community/internal/repository/mysql"
	"sports_community/internal/repository/redis"
	"sports_community/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

var leagues = []struct {
	sports, league string
	teams          []string
}{
	{"baseball", "KBO", []string{"LG", "KT", "SSG", "NC", "두산", "KIA", "롯데", "삼성", "한화", "키움"}},
	{"baseball", "MLB", []string{"LAD", "NYY", "SD", "SF", "TOR", "BOS"}},
	{"soccer", "KL", []string{"울산", "전북", "포항", "서울", "인천"}},
	{"basketball", "NBA", []string{"LAL", "BOS", "GSW", "MIA", "DEN"}},
}

func main() {
	users := flag.Int("users", 10, "number of users")
	boards := flag.Int("boards", 30, "number of boards")
	replies := flag.Int("replies", 3, "max replies per board")
	games := flag.Int("games", 20, "games per league")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.Init(cfg.AppEnv, os.Stdout)
	if err = mysql.InitDB(cfg.DBDriver, cfg.DBDSN); err != nil {
		logger.Error("init db", slog.Any("error", err))
		os.Exit(1)
	}
	defer mysql.Close()
	rdb, err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("init redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer redis.Close()

	ctx := context.Background()
	gofakeit.Seed(time.Now().UnixNano())
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	db := mysql.DB
	sessions := service.NewSessionService(rdb, cfg.SessionTTL, cfg.AutoLoginTTL)
	members := service.NewMemberService(db, rdb, sessions, nil)
	boardSvc := service.NewBoardService(db, rdb)
	replySvc := service.NewReplyService(db)
	gameSvc := service.NewGameService(db)

	var nicks []string
	for i := 0; i < *users; i++ {
		nick := fmt.Sprintf("%s%d", gofakeit.Username(), rng.Intn(1000))
		_, err := members.Register(ctx, service.SignUp{
			NickName: nick,
			Password: "password1234",
			Email:    gofakeit.Email(),
			Profile:  gofakeit.Sentence(6),
			Teams: service.Teams{
				KboTeam: pick(rng, leagues[0].teams),
				MlbTeam: pick(rng, leagues[1].teams),
				KlTeam:  pick(rng, leagues[2].teams),
				NbaTeam: pick(rng, leagues[3].teams),
			},
		})
		if err != nil {
			logger.Warn("seed user skipped", slog.String("nickname", nick), slog.Any("error", err))
			continue
		}
		nicks = append(nicks, nick)
	}
	if len(nicks) == 0 {
		logger.Error("no users seeded")
		os.Exit(1)
	}

	for i := 0; i < *boards; i++ {
		id, err := boardSvc.Create(ctx, pick(rng, nicks), gofakeit.Sentence(4), gofakeit.Paragraph(1, 3, 8, "\n"))
		if err != nil {
			logger.Warn("seed board failed", slog.Any("error", err))
			continue
		}
		for j := rng.Intn(*replies + 1); j > 0; j-- {
			if _, err = replySvc.Create(ctx, pick(rng, nicks), id, gofakeit.Sentence(8)); err != nil {
				logger.Warn("seed reply failed", slog.Any("error", err))
			}
		}
	}

	start := time.Now().Truncate(24 * time.Hour)
	var list []model.GameList
	for _, l := range leagues {
		for i := 0; i < *games; i++ {
			home := pick(rng, l.teams)
			away := pick(rng, l.teams)
			for away == home {
				away = pick(rng, l.teams)
			}
			list = append(list, model.GameList{
				GameID:   fmt.Sprintf("%s-%s-%03d", l.sports, l.league, i),
				HomeTeam: home,
				AwayTeam: away,
				Sports:   l.sports,
				League:   l.league,
				Status:   "scheduled",
				Datetime: start.Add(time.Duration(i)*24*time.Hour + 18*time.Hour),
				Stadium:  gofakeit.City() + " Stadium",
			})
		}
	}
	if err = gameSvc.Import(ctx, list); err != nil {
		logger.Error("seed games failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("seed done", slog.Int("users", len(nicks)), slog.Int("games", len(list)))
}

func pick[T any](rng *rand.Rand, xs []T) T {
	return xs[rng.Intn(len(xs))]
}
