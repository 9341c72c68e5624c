package mysql

import (
	"context"
	"encoding/json"
	"time"

	"sports_community/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

func (r *OutboxRepository) WithTx(tx *gorm.DB) *OutboxRepository {
	return &OutboxRepository{DB: tx}
}

// Insert 写 outbox 事件，需与点赞写入处于同一事务
func (r *OutboxRepository) Insert(ctx context.Context, event string, targetID, userID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"event":      event,
		"target_id":  targetID,
		"user_id":    userID,
	})
	ob := &model.LikeOutbox{
		EventType: event,
		TargetID:  targetID,
		UserID:    userID,
		Payload:   string(payload),
		Status:    model.OutboxPending,
	}
	return r.DB.WithContext(ctx).Create(ob).Error
}

// List outbox 待投递查询
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.LikeOutbox, error) {
	var list []model.LikeOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ?", model.OutboxPending).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败，重试次数用尽后标记为失败
func (r *OutboxRepository) RetryUpdate(ctx context.Context, ob *model.LikeOutbox, maxRetry int) error {
	next := ob.Retry + 1
	status := model.OutboxPending
	if next >= maxRetry {
		status = model.OutboxFailed
	}
	return r.DB.WithContext(ctx).Model(&model.LikeOutbox{}).Where("id = ?", ob.ID).
		Updates(map[string]any{"status": status, "retry": next}).Error
}

func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.LikeOutbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}

// PurgeSent 分批删除早于 before 的已投递事件，失败事件保留供排查
func (r *OutboxRepository) PurgeSent(ctx context.Context, before time.Time, batchSize int) (int64, error) {
	var total int64
	for {
		var ids []uint64
		if err := r.DB.WithContext(ctx).Model(&model.LikeOutbox{}).
			Where("status = ? AND updated_at < ?", model.OutboxSent, before).
			Order("id ASC").
			Limit(batchSize).
			Pluck("id", &ids).Error; err != nil {
			return total, err
		}
		if len(ids) == 0 {
			return total, nil
		}
		res := r.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&model.LikeOutbox{})
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected
		if len(ids) < batchSize {
			return total, nil
		}
	}
}
