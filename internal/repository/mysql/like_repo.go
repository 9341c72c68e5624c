package mysql

import (
	"context"

	"sports_community/internal/model"

	"gorm.io/gorm"
)

// LikeTarget 描述一种可点赞实体：点赞表、外键列、被点赞的主表
type LikeTarget struct {
	Name        string // board / reply
	LikeTable   string
	Column      string
	TargetTable string
	newRow      func(userID, targetID uint64) any
}

var (
	BoardLikes = LikeTarget{
		Name:        "board",
		LikeTable:   "board_likes",
		Column:      "board_id",
		TargetTable: "boards",
		newRow: func(userID, targetID uint64) any {
			return &model.BoardLike{UserID: userID, BoardID: targetID}
		},
	}
	ReplyLikes = LikeTarget{
		Name:        "reply",
		LikeTable:   "reply_likes",
		Column:      "reply_id",
		TargetTable: "replies",
		newRow: func(userID, targetID uint64) any {
			return &model.ReplyLike{UserID: userID, ReplyID: targetID}
		},
	}
)

type LikeRepository struct {
	DB     *gorm.DB
	Target LikeTarget
}

func NewLikeRepository(db *gorm.DB, target LikeTarget) *LikeRepository {
	return &LikeRepository{DB: db, Target: target}
}

func (r *LikeRepository) WithTx(tx *gorm.DB) *LikeRepository {
	return &LikeRepository{DB: tx, Target: r.Target}
}

// Insert 依赖唯一索引 (user_id, target) 幂等，重复点赞返回 gorm.ErrDuplicatedKey
func (r *LikeRepository) Insert(ctx context.Context, userID, targetID uint64) error {
	return r.DB.WithContext(ctx).Create(r.Target.newRow(userID, targetID)).Error
}

// Remove 未删除任何行时返回 false
func (r *LikeRepository) Remove(ctx context.Context, userID, targetID uint64) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND "+r.Target.Column+" = ?", userID, targetID).
		Delete(r.Target.newRow(0, 0))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *LikeRepository) IsLiked(ctx context.Context, userID, targetID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Table(r.Target.LikeTable).
		Where("user_id = ? AND "+r.Target.Column+" = ?", userID, targetID).
		Count(&n).Error
	return n > 0, err
}

// UserIDs 点赞了某实体的全部用户，用于回填缓存集合
func (r *LikeRepository) UserIDs(ctx context.Context, targetID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Table(r.Target.LikeTable).
		Where(r.Target.Column+" = ?", targetID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *LikeRepository) Count(ctx context.Context, targetID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Table(r.Target.LikeTable).
		Where(r.Target.Column+" = ?", targetID).
		Count(&n).Error
	return n, err
}

// LikedReplyIDs 某帖子下用户点赞过的回复 ID，一次查询
func (r *LikeRepository) LikedReplyIDs(ctx context.Context, userID, boardID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := r.DB.WithContext(ctx).Table("reply_likes AS rl").
		Joins("JOIN replies r ON r.id = rl.reply_id").
		Where("rl.user_id = ? AND r.board_id = ?", userID, boardID).
		Order("rl.reply_id ASC").
		Pluck("rl.reply_id", &ids).Error
	return ids, err
}
