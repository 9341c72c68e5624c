package mysql

import (
	"context"

	"sports_community/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

// Create 昵称/邮箱重复时返回 gorm.ErrDuplicatedKey
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByNickName(ctx context.Context, nickName string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("nick_name = ?", nickName).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsNickName(ctx context.Context, nickName string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("nick_name = ?", nickName).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

// Update 只更新 fields 中出现的列
func (r *UserRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteCascade 删除用户及其帖子、回复、点赞记录，并回退该用户在他人内容上的点赞计数。
// 返回受影响的帖子 ID（用户点赞过的 + 用户自己的），供调用方清理缓存。
func (r *UserRepository) DeleteCascade(ctx context.Context, userID uint64) ([]uint64, error) {
	var touched []uint64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var likedBoards []uint64
		if err := tx.Model(&model.BoardLike{}).Where("user_id = ?", userID).
			Pluck("board_id", &likedBoards).Error; err != nil {
			return err
		}
		var likedReplies []uint64
		if err := tx.Model(&model.ReplyLike{}).Where("user_id = ?", userID).
			Pluck("reply_id", &likedReplies).Error; err != nil {
			return err
		}

		// 先回退计数，再删点赞行
		boards := &BoardRepository{DB: tx}
		for _, id := range likedBoards {
			if err := boards.AdjustGoodCount(ctx, id, -1); err != nil {
				return err
			}
		}
		replies := &ReplyRepository{DB: tx}
		for _, id := range likedReplies {
			if err := replies.AdjustGoodCount(ctx, id, -1); err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.BoardLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.ReplyLike{}).Error; err != nil {
			return err
		}

		var ownBoards []uint64
		if err := tx.Model(&model.Board{}).Where("user_id = ?", userID).
			Pluck("id", &ownBoards).Error; err != nil {
			return err
		}
		for _, id := range ownBoards {
			if err := boards.deleteCascade(tx, id); err != nil {
				return err
			}
		}

		// 用户在他人帖子下的回复
		var ownReplies []uint64
		if err := tx.Model(&model.Reply{}).Where("user_id = ?", userID).
			Pluck("id", &ownReplies).Error; err != nil {
			return err
		}
		if len(ownReplies) > 0 {
			if err := tx.Where("reply_id IN ?", ownReplies).Delete(&model.ReplyLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ownReplies).Delete(&model.Reply{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.CommunityBoard{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.User{}, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		touched = append(likedBoards, ownBoards...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return touched, nil
}
