package service

import (
	"context"
	"strings"
	"time"

	"sports_community/internal/model"
	"sports_community/internal/pkg"
	"sports_community/internal/repository/mysql"

	"gorm.io/gorm"
)

const listTitleRunes = 7

type CommunityBoardSummary struct {
	ID        uint64    `json:"id"`
	Writer    string    `json:"writer"`
	Title     string    `json:"title"`
	ViewCount int64     `json:"viewCount"`
	GoodCount int64     `json:"goodBoard"`
	RegDate   time.Time `json:"regDate"`
}

type CommunityService struct {
	repo  *mysql.CommunityBoardRepository
	users *mysql.UserRepository
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{
		repo:  &mysql.CommunityBoardRepository{DB: db},
		users: &mysql.UserRepository{DB: db},
	}
}

// List 列表页标题超过 7 个字截断
func (s *CommunityService) List(ctx context.Context) ([]CommunityBoardSummary, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, translate(err, "community board")
	}
	out := make([]CommunityBoardSummary, 0, len(list))
	for _, b := range list {
		out = append(out, CommunityBoardSummary{
			ID:        b.ID,
			Writer:    b.Writer,
			Title:     truncateTitle(b.Title),
			ViewCount: b.ViewCount,
			GoodCount: b.GoodCount,
			RegDate:   b.CreatedAt,
		})
	}
	return out, nil
}

func truncateTitle(title string) string {
	r := []rune(title)
	if len(r) <= listTitleRunes {
		return title
	}
	return string(r[:listTitleRunes]) + "..."
}

func (s *CommunityService) Write(ctx context.Context, nickName, title, content string) (uint64, error) {
	user, err := currentUser(ctx, s.users, nickName)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(title) == "" {
		return 0, pkg.NewValidation("title is required")
	}
	b := &model.CommunityBoard{UserID: user.ID, Title: title, Content: content}
	if err = s.repo.Create(ctx, b); err != nil {
		return 0, translate(err, "community board")
	}
	return b.ID, nil
}

// Detail 查看详情即计一次浏览
func (s *CommunityService) Detail(ctx context.Context, id uint64) (*model.CommunityBoard, error) {
	if err := s.repo.IncrementView(ctx, id); err != nil {
		return nil, translate(err, "community board")
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "community board")
	}
	return b, nil
}

func (s *CommunityService) Delete(ctx context.Context, nickName string, id uint64) error {
	user, err := currentUser(ctx, s.users, nickName)
	if err != nil {
		return err
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return translate(err, "community board")
	}
	if b.UserID != user.ID {
		return pkg.NewForbidden("not the community board owner")
	}
	return translate(s.repo.Delete(ctx, id), "community board")
}
