package mysql

import (
	"context"

	"gorm.io/gorm"
)

type LikeCountReconcilerRepo struct {
	DB *gorm.DB
}

// Pair 对账批次中的一行
type Pair struct {
	ID        uint64
	GoodCount int64
}

// ReconcileList 按 ID 游标分批扫描主表
func (r *LikeCountReconcilerRepo) ReconcileList(ctx context.Context, t LikeTarget, batchSize int, lastID uint64) ([]Pair, uint64, error) {
	var list []Pair
	if err := r.DB.WithContext(ctx).Table(t.TargetTable).
		Select("id", "good_count").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Scan(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealCount 点赞表中的真实数量
func (r *LikeCountReconcilerRepo) RealCount(ctx context.Context, t LikeTarget, id uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Table(t.LikeTable).Where(t.Column+" = ?", id).Count(&n).Error
	return n, err
}

// Fix 在同一条语句里重新计数并写回，调用方的比对只用于筛选。
// 比对之后提交的点赞也会被计入，不会被旧的计数覆盖
func (r *LikeCountReconcilerRepo) Fix(ctx context.Context, t LikeTarget, id uint64) error {
	recount := gorm.Expr("(SELECT COUNT(*) FROM " + t.LikeTable + " WHERE " + t.LikeTable + "." + t.Column + " = " + t.TargetTable + ".id)")
	return r.DB.WithContext(ctx).Table(t.TargetTable).Where("id = ?", id).
		UpdateColumn("good_count", recount).Error
}
