package mysql

import (
	"context"
	"time"

	"sports_community/internal/model"

	"gorm.io/gorm"
)

type BoardRepository struct {
	DB *gorm.DB
}

// BoardRow 列表/详情投影，reply_count 读时实时统计
type BoardRow struct {
	ID         uint64
	Title      string
	Content    string
	Writer     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	GoodCount  int64
	ViewCount  int64
	ReplyCount int64
}

const boardRowSelect = "b.id, b.title, b.content, u.nick_name AS writer, b.created_at, b.updated_at, " +
	"b.good_count, b.view_count, (SELECT COUNT(*) FROM replies r WHERE r.board_id = b.id) AS reply_count"

func (r *BoardRepository) WithTx(tx *gorm.DB) *BoardRepository {
	return &BoardRepository{DB: tx}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.DB.WithContext(ctx).Create(board).Error
}

func (r *BoardRepository) FindByID(ctx context.Context, id uint64) (*model.Board, error) {
	var board model.Board
	if err := r.DB.WithContext(ctx).First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// Update 覆盖标题和内容，updated_at 由 gorm 自动刷新
func (r *BoardRepository) Update(ctx context.Context, id uint64, title, content string) error {
	return r.DB.WithContext(ctx).Model(&model.Board{}).Where("id = ?", id).
		Updates(map[string]any{"title": title, "content": content}).Error
}

func (r *BoardRepository) List(ctx context.Context) ([]BoardRow, error) {
	var rows []BoardRow
	err := r.DB.WithContext(ctx).Table("boards AS b").
		Select(boardRowSelect).
		Joins("JOIN users u ON u.id = b.user_id").
		Order("b.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *BoardRepository) FindRow(ctx context.Context, id uint64) (*BoardRow, error) {
	var rows []BoardRow
	err := r.DB.WithContext(ctx).Table("boards AS b").
		Select(boardRowSelect).
		Joins("JOIN users u ON u.id = b.user_id").
		Where("b.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// IncrementView 原子自增浏览数，帖子不存在返回 ErrRecordNotFound
func (r *BoardRepository) IncrementView(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Model(&model.Board{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustGoodCount 只供点赞流程在事务内调用，计数不会小于 0
func (r *BoardRepository) AdjustGoodCount(ctx context.Context, id uint64, delta int64) error {
	return adjustGoodCount(r.DB.WithContext(ctx), &model.Board{}, id, delta)
}

// Delete 删除帖子及其回复、回复点赞、帖子点赞
func (r *BoardRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.deleteCascade(tx, id)
	})
}

func (r *BoardRepository) deleteCascade(tx *gorm.DB, id uint64) error {
	replyIDs := tx.Model(&model.Reply{}).Select("id").Where("board_id = ?", id)
	if err := tx.Where("reply_id IN (?)", replyIDs).Delete(&model.ReplyLike{}).Error; err != nil {
		return err
	}
	if err := tx.Where("board_id = ?", id).Delete(&model.Reply{}).Error; err != nil {
		return err
	}
	if err := tx.Where("board_id = ?", id).Delete(&model.BoardLike{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.Board{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// 值未变化时 mysql 的 RowsAffected 为 0，这里不据此判断存在性
func adjustGoodCount(db *gorm.DB, m any, id uint64, delta int64) error {
	return db.Model(m).Where("id = ?", id).
		UpdateColumn("good_count", gorm.Expr("CASE WHEN good_count + ? < 0 THEN 0 ELSE good_count + ? END", delta, delta)).
		Error
}
