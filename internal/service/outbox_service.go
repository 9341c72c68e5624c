package service

import (
	"context"
	"log/slog"
	"time"

	"sports_community/internal/model"
	"sports_community/internal/observability"
	"sports_community/internal/pkg"
	"sports_community/internal/repository/mysql"
	"sports_community/internal/repository/redis"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	defaultOutboxBatch    = 200
	defaultOutboxInterval = time.Second
	defaultMaxRetry       = 5
	defaultRetention      = 7 * 24 * time.Hour
	sweepInterval         = time.Hour

	defaultReconcileBatch    = 500
	defaultReconcileInterval = 5 * time.Minute
	reconcileLockName        = "reconcile:like_count"
)

type Sender func(ctx context.Context, ob *model.LikeOutbox) error

// OutboxRelayer 从 like_outbox 读取事件异步投递
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	maxRetry  int
	retention time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, interval time.Duration, batchSize int, retention time.Duration) *OutboxRelayer {
	if interval <= 0 {
		interval = defaultOutboxInterval
	}
	if batchSize <= 0 {
		batchSize = defaultOutboxBatch
	}
	if retention <= 0 {
		retention = defaultRetention
	}
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: batchSize,
		interval:  interval,
		maxRetry:  defaultMaxRetry,
		retention: retention,
		sender:    sender,
	}
}

// Run outbox启动器，顺带定期清理过期的已投递事件
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	sweep := time.NewTicker(sweepInterval)
	defer sweep.Stop()
	r.sweepOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		case <-sweep.C:
			r.sweepOnce(ctx)
		}
	}
}

// sweepOnce 返回删除的行数
func (r *OutboxRelayer) sweepOnce(ctx context.Context) int64 {
	n, err := r.repo.PurgeSent(ctx, time.Now().Add(-r.retention), r.batchSize)
	if err != nil {
		observability.Logger.ErrorContext(ctx, "outbox sweep failed", slog.Any("error", err))
	}
	if n > 0 {
		observability.Logger.InfoContext(ctx, "outbox swept", slog.Int64("deleted", n))
	}
	return n
}

// drainOnce 返回本轮投递成功的条数
func (r *OutboxRelayer) drainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		observability.Logger.ErrorContext(ctx, "outbox query failed", slog.Any("error", err))
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			observability.OutboxRelayed.WithLabelValues("retry").Inc()
			observability.Logger.WarnContext(ctx, "outbox send failed",
				slog.Uint64("outbox_id", ob.ID), slog.Int("retry", ob.Retry+1), slog.Any("error", err))
			if err = r.repo.RetryUpdate(ctx, &ob, r.maxRetry); err != nil {
				observability.Logger.ErrorContext(ctx, "outbox retry update failed", slog.Any("error", err))
			}
			continue
		}
		if err = r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			observability.Logger.ErrorContext(ctx, "outbox success update failed", slog.Any("error", err))
			continue
		}
		observability.OutboxRelayed.WithLabelValues("sent").Inc()
		sent++
	}
	return sent
}

// LogSender 未配置 kafka 时的默认 sender
func LogSender(ctx context.Context, ob *model.LikeOutbox) error {
	observability.Logger.InfoContext(ctx, "outbox event",
		slog.String("type", ob.EventType), slog.Uint64("target_id", ob.TargetID),
		slog.Uint64("user_id", ob.UserID), slog.String("payload", ob.Payload))
	return nil
}

// KafkaSender 以目标 ID 为 key，同一帖子/回复的事件有序
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.LikeOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.TargetID), []byte(ob.Payload), map[string]string{
			"event_type": ob.EventType,
			"outbox_id":  pkg.MakeKeyFromID(ob.ID),
		})
	}
}

// LikeCountReconciler 定时按点赞表修正帖子/回复的冗余计数
type LikeCountReconciler struct {
	repo      *mysql.LikeCountReconcilerRepo
	lock      *redis.DistLock
	batchSize int
	interval  time.Duration
}

func NewLikeCountReconciler(db *gorm.DB, rdb *goredis.Client, interval time.Duration, batchSize int) *LikeCountReconciler {
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	if batchSize <= 0 {
		batchSize = defaultReconcileBatch
	}
	return &LikeCountReconciler{
		repo:      &mysql.LikeCountReconcilerRepo{DB: db},
		lock:      &redis.DistLock{RDB: rdb},
		batchSize: batchSize,
		interval:  interval,
	}
}

// Run 对账定时任务启动器
func (r *LikeCountReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.reconcileOnce(ctx)
		}
	}
}

// reconcileOnce 多实例时只有拿到锁的实例执行，返回修正条数
func (r *LikeCountReconciler) reconcileOnce(ctx context.Context) int {
	token := uuid.NewString()
	got, err := r.lock.Acquire(ctx, reconcileLockName, token, r.interval)
	if err != nil {
		observability.Logger.ErrorContext(ctx, "reconcile lock failed", slog.Any("error", err))
		return 0
	}
	if !got {
		return 0
	}
	defer func() {
		if err := r.lock.Release(context.WithoutCancel(ctx), reconcileLockName, token); err != nil {
			observability.Logger.WarnContext(ctx, "reconcile unlock failed", slog.Any("error", err))
		}
	}()

	fixed := 0
	for _, t := range []mysql.LikeTarget{mysql.BoardLikes, mysql.ReplyLikes} {
		fixed += r.reconcileTarget(ctx, t)
	}
	if fixed > 0 {
		observability.Logger.InfoContext(ctx, "like counters reconciled", slog.Int("fixed", fixed))
	}
	return fixed
}

func (r *LikeCountReconciler) reconcileTarget(ctx context.Context, t mysql.LikeTarget) int {
	fixed := 0
	var lastID uint64
	for {
		if ctx.Err() != nil {
			return fixed
		}
		rows, next, err := r.repo.ReconcileList(ctx, t, r.batchSize, lastID)
		if err != nil {
			observability.Logger.ErrorContext(ctx, "reconcile list failed",
				slog.String("table", t.TargetTable), slog.Any("error", err))
			return fixed
		}
		if len(rows) == 0 {
			return fixed
		}
		for _, row := range rows {
			real, err := r.repo.RealCount(ctx, t, row.ID)
			if err != nil {
				continue
			}
			// 只是预筛，真正写回的值由 Fix 在语句内重新计算
			if real == row.GoodCount {
				continue
			}
			if err = r.repo.Fix(ctx, t, row.ID); err != nil {
				observability.Logger.ErrorContext(ctx, "reconcile fix failed",
					slog.String("table", t.TargetTable), slog.Uint64("id", row.ID), slog.Any("error", err))
				continue
			}
			observability.ReconcileFixes.WithLabelValues(t.TargetTable).Inc()
			fixed++
		}
		lastID = next
	}
}
