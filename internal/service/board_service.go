package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"sports_community/internal/model"
	"sports_community/internal/observability"
	"sports_community/internal/pkg"
	"sports_community/internal/repository/mysql"
	"sports_community/internal/repository/redis"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type BoardResponse struct {
	BoardNum   uint64    `json:"boardNum"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Writer     string    `json:"writer"`
	RegDate    time.Time `json:"regDate"`
	ModDate    time.Time `json:"modDate"`
	GoodCount  int64     `json:"goodCount"`
	ViewCount  int64     `json:"viewCount"`
	ReplyCount int64     `json:"replyCount"`
}

type BoardService struct {
	boards    *mysql.BoardRepository
	users     *mysql.UserRepository
	likeCache *redis.LikeCacheRepository
}

func NewBoardService(db *gorm.DB, rdb *goredis.Client) *BoardService {
	return &BoardService{
		boards:    &mysql.BoardRepository{DB: db},
		users:     &mysql.UserRepository{DB: db},
		likeCache: redis.NewLikeCacheRepository(rdb),
	}
}

func (s *BoardService) Create(ctx context.Context, nickName, title, content string) (uint64, error) {
	user, err := currentUser(ctx, s.users, nickName)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(title) == "" {
		return 0, pkg.NewValidation("title is required")
	}
	board := &model.Board{UserID: user.ID, Title: title, Content: content}
	if err = s.boards.Create(ctx, board); err != nil {
		return 0, translate(err, "board")
	}
	return board.ID, nil
}

// ownedBoard 只有作者本人可以修改或删除
func (s *BoardService) ownedBoard(ctx context.Context, nickName string, id uint64) (*model.Board, error) {
	user, err := currentUser(ctx, s.users, nickName)
	if err != nil {
		return nil, err
	}
	board, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "board")
	}
	if board.UserID != user.ID {
		return nil, pkg.NewForbidden("not the board owner")
	}
	return board, nil
}

func (s *BoardService) Modify(ctx context.Context, nickName string, id uint64, title, content string) error {
	if strings.TrimSpace(title) == "" {
		return pkg.NewValidation("title is required")
	}
	if _, err := s.ownedBoard(ctx, nickName, id); err != nil {
		return err
	}
	return translate(s.boards.Update(ctx, id, title, content), "board")
}

func (s *BoardService) Delete(ctx context.Context, nickName string, id uint64) error {
	if _, err := s.ownedBoard(ctx, nickName, id); err != nil {
		return err
	}
	if err := s.boards.Delete(ctx, id); err != nil {
		return translate(err, "board")
	}
	if err := s.likeCache.Invalidate(ctx, id); err != nil {
		observability.Logger.WarnContext(ctx, "invalidate like cache failed",
			slog.Uint64("board_id", id), slog.Any("error", err))
	}
	return nil
}

func (s *BoardService) FindAll(ctx context.Context) ([]BoardResponse, error) {
	rows, err := s.boards.List(ctx)
	if err != nil {
		return nil, translate(err, "board")
	}
	out := make([]BoardResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toBoardResponse(&rows[i]))
	}
	return out, nil
}

func (s *BoardService) FindOne(ctx context.Context, id uint64) (*BoardResponse, error) {
	row, err := s.boards.FindRow(ctx, id)
	if err != nil {
		return nil, translate(err, "board")
	}
	resp := toBoardResponse(row)
	return &resp, nil
}

// IncrementView 每次调用 +1，去重由调用方负责
func (s *BoardService) IncrementView(ctx context.Context, id uint64) error {
	return translate(s.boards.IncrementView(ctx, id), "board")
}

// EnsureExists 点赞流程在事务内确认帖子存在
func (s *BoardService) EnsureExists(ctx context.Context, tx *gorm.DB, id uint64) error {
	_, err := s.boards.WithTx(tx).FindByID(ctx, id)
	return translate(err, "board")
}

// BumpLikeCounter 仅供点赞服务在同一事务内调用，不做归属和重复校验
func (s *BoardService) BumpLikeCounter(ctx context.Context, tx *gorm.DB, id uint64, delta int64) error {
	return translate(s.boards.WithTx(tx).AdjustGoodCount(ctx, id, delta), "board")
}

func toBoardResponse(r *mysql.BoardRow) BoardResponse {
	return BoardResponse{
		BoardNum:   r.ID,
		Title:      r.Title,
		Content:    r.Content,
		Writer:     r.Writer,
		RegDate:    r.CreatedAt,
		ModDate:    r.UpdatedAt,
		GoodCount:  r.GoodCount,
		ViewCount:  r.ViewCount,
		ReplyCount: r.ReplyCount,
	}
}
