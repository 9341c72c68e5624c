package mysql

import (
	"context"

	"sports_community/internal/model"

	"gorm.io/gorm"
)

type CommunityBoardRepository struct {
	DB *gorm.DB
}

func (r *CommunityBoardRepository) Create(ctx context.Context, b *model.CommunityBoard) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

// withWriter 作者昵称联表读取，改名后立即生效
func (r *CommunityBoardRepository) withWriter(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&model.CommunityBoard{}).
		Select("com_board.*, u.nick_name AS writer").
		Joins("JOIN users u ON u.id = com_board.user_id")
}

func (r *CommunityBoardRepository) FindByID(ctx context.Context, id uint64) (*model.CommunityBoard, error) {
	var b model.CommunityBoard
	if err := r.withWriter(ctx).Where("com_board.id = ?", id).Take(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *CommunityBoardRepository) List(ctx context.Context) ([]model.CommunityBoard, error) {
	var list []model.CommunityBoard
	err := r.withWriter(ctx).Order("com_board.id DESC").Find(&list).Error
	return list, err
}

func (r *CommunityBoardRepository) IncrementView(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Model(&model.CommunityBoard{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CommunityBoardRepository) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.CommunityBoard{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
