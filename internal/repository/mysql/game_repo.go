package mysql

import (
	"context"

	"sports_community/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GameRepository struct {
	DB *gorm.DB
}

// List sports/league 为空时不过滤
func (r *GameRepository) List(ctx context.Context, sports, league string) ([]model.GameList, error) {
	q := r.DB.WithContext(ctx).Model(&model.GameList{})
	if sports != "" {
		q = q.Where("sports = ?", sports)
	}
	if league != "" {
		q = q.Where("league = ?", league)
	}
	var list []model.GameList
	err := q.Order("datetime ASC").Find(&list).Error
	return list, err
}

// Upsert 以 game_id 为键写入比分，重复导入只更新
func (r *GameRepository) Upsert(ctx context.Context, games []model.GameList) error {
	if len(games) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"home_score", "away_score", "status", "datetime", "stadium"}),
	}).Create(&games).Error
}
