package service

import (
	"context"
	"strings"

	"sports_community/internal/model"
	"sports_community/internal/repository/mysql"

	"gorm.io/gorm"
)

type GameService struct {
	repo *mysql.GameRepository
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{repo: &mysql.GameRepository{DB: db}}
}

func (s *GameService) List(ctx context.Context, sports, league string) ([]model.GameList, error) {
	list, err := s.repo.List(ctx, strings.TrimSpace(sports), strings.TrimSpace(league))
	if err != nil {
		return nil, translate(err, "game")
	}
	if list == nil {
		list = []model.GameList{}
	}
	return list, nil
}

func (s *GameService) Import(ctx context.Context, games []model.GameList) error {
	return translate(s.repo.Upsert(ctx, games), "game")
}
