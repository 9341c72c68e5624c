package mysql

import (
	"context"
	"time"

	"sports_community/internal/model"

	"gorm.io/gorm"
)

type ReplyRepository struct {
	DB *gorm.DB
}

type ReplyRow struct {
	ID        uint64
	BoardID   uint64
	Content   string
	Writer    string
	CreatedAt time.Time
	UpdatedAt time.Time
	GoodCount int64
}

func (r *ReplyRepository) WithTx(tx *gorm.DB) *ReplyRepository {
	return &ReplyRepository{DB: tx}
}

func (r *ReplyRepository) Create(ctx context.Context, reply *model.Reply) error {
	return r.DB.WithContext(ctx).Create(reply).Error
}

func (r *ReplyRepository) FindByID(ctx context.Context, id uint64) (*model.Reply, error) {
	var reply model.Reply
	if err := r.DB.WithContext(ctx).First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *ReplyRepository) Update(ctx context.Context, id uint64, content string) error {
	return r.DB.WithContext(ctx).Model(&model.Reply{}).Where("id = ?", id).
		Update("content", content).Error
}

// ListByBoard 按时间正序
func (r *ReplyRepository) ListByBoard(ctx context.Context, boardID uint64) ([]ReplyRow, error) {
	var rows []ReplyRow
	err := r.DB.WithContext(ctx).Table("replies AS r").
		Select("r.id, r.board_id, r.content, u.nick_name AS writer, r.created_at, r.updated_at, r.good_count").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.board_id = ?", boardID).
		Order("r.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *ReplyRepository) AdjustGoodCount(ctx context.Context, id uint64, delta int64) error {
	return adjustGoodCount(r.DB.WithContext(ctx), &model.Reply{}, id, delta)
}

// Delete 删除回复及其点赞
func (r *ReplyRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reply_id = ?", id).Delete(&model.ReplyLike{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Reply{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
