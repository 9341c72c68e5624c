package service

import (
	"context"
	"errors"
	"log/slog"

	"sports_community/internal/observability"
	"sports_community/internal/pkg"
	"sports_community/internal/repository/mysql"
	"sports_community/internal/repository/redis"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// likeOwner 被点赞实体所属的服务，计数修改必须在点赞事务内
type likeOwner interface {
	EnsureExists(ctx context.Context, tx *gorm.DB, id uint64) error
	BumpLikeCounter(ctx context.Context, tx *gorm.DB, id uint64, delta int64) error
}

// likeToggle 点赞状态机：未点赞 -> MakeLike -> 已点赞 -> RemoveLike -> 未点赞。
// 点赞行、计数、outbox 事件在同一事务内提交。
type likeToggle struct {
	db     *gorm.DB
	users  *mysql.UserRepository
	likes  *mysql.LikeRepository
	outbox *mysql.OutboxRepository
	owner  likeOwner
	// afterCommit 事务提交后的回调，用于同步缓存
	afterCommit func(ctx context.Context, liked bool, userID, targetID uint64)
}

func newLikeToggle(db *gorm.DB, target mysql.LikeTarget, owner likeOwner) likeToggle {
	return likeToggle{
		db:     db,
		users:  &mysql.UserRepository{DB: db},
		likes:  mysql.NewLikeRepository(db, target),
		outbox: &mysql.OutboxRepository{DB: db},
		owner:  owner,
	}
}

func (s *likeToggle) name() string { return s.likes.Target.Name }

func (s *likeToggle) MakeLike(ctx context.Context, nickName string, id uint64) error {
	err := s.toggle(ctx, nickName, id, true)
	s.record(ctx, "like", id, err)
	return err
}

func (s *likeToggle) RemoveLike(ctx context.Context, nickName string, id uint64) error {
	err := s.toggle(ctx, nickName, id, false)
	s.record(ctx, "unlike", id, err)
	return err
}

func (s *likeToggle) toggle(ctx context.Context, nickName string, id uint64, like bool) error {
	user, err := currentUser(ctx, s.users, nickName)
	if err != nil {
		return err
	}
	event := s.name() + ".unlike"
	delta := int64(-1)
	if like {
		event = s.name() + ".like"
		delta = 1
	}

	err = mysql.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.owner.EnsureExists(ctx, tx, id); err != nil {
			return err
		}
		likes := s.likes.WithTx(tx)
		if like {
			if err := likes.Insert(ctx, user.ID, id); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return pkg.NewConflict("already liked")
				}
				return err
			}
		} else {
			removed, err := likes.Remove(ctx, user.ID, id)
			if err != nil {
				return err
			}
			if !removed {
				return pkg.NewNotFound("like not found")
			}
		}
		if err := s.owner.BumpLikeCounter(ctx, tx, id, delta); err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Insert(ctx, event, id, user.ID)
	})
	if err != nil {
		return translate(err, s.name())
	}
	if s.afterCommit != nil {
		s.afterCommit(ctx, like, user.ID, id)
	}
	return nil
}

func (s *likeToggle) record(ctx context.Context, action string, id uint64, err error) {
	result := "ok"
	if err != nil {
		result = string(pkg.CodeOf(err))
		if pkg.IsCode(err, pkg.CodeInternal) {
			observability.Logger.ErrorContext(ctx, "like toggle failed",
				slog.String("target", s.name()), slog.String("action", action),
				slog.Uint64("id", id), slog.Any("error", err))
		}
	}
	observability.LikeToggles.WithLabelValues(s.name(), action, result).Inc()
}

type BoardLikeService struct {
	likeToggle
	boards *BoardService
	cache  *redis.LikeCacheRepository
}

func NewBoardLikeService(db *gorm.DB, rdb *goredis.Client, boards *BoardService) *BoardLikeService {
	s := &BoardLikeService{
		likeToggle: newLikeToggle(db, mysql.BoardLikes, boards),
		boards:     boards,
		cache:      redis.NewLikeCacheRepository(rdb),
	}
	s.afterCommit = s.syncCache
	return s
}

// syncCache 缓存同步失败只影响读路径，读侧会回源
func (s *BoardLikeService) syncCache(ctx context.Context, liked bool, userID, boardID uint64) {
	var err error
	if liked {
		err = s.cache.AddLike(ctx, userID, boardID)
	} else {
		err = s.cache.RemoveLike(ctx, userID, boardID)
	}
	if err != nil {
		observability.Logger.WarnContext(ctx, "like cache update failed",
			slog.Uint64("board_id", boardID), slog.Any("error", err))
		_ = s.cache.Invalidate(ctx, boardID)
	}
}

// IsLiked true 表示当前用户已点赞
func (s *BoardLikeService) IsLiked(ctx context.Context, nickName string, boardID uint64) (bool, error) {
	user, err := currentUser(ctx, s.users, nickName)
	if err != nil {
		return false, err
	}
	// 先查缓存集合（命中才用）
	if liked, hit, err := s.cache.IsLikedCached(ctx, user.ID, boardID); err == nil && hit {
		return liked, nil
	}
	if err = s.boards.EnsureExists(ctx, s.db, boardID); err != nil {
		return false, err
	}
	// 版本号必须在读库之前取，期间有点赞写入时回填会被拒绝
	ver, verErr := s.cache.Version(ctx, boardID)
	ids, err := s.likes.UserIDs(ctx, boardID)
	if err != nil {
		return false, translate(err, "like")
	}
	if verErr == nil {
		_, verErr = s.cache.Fill(ctx, boardID, ver, ids)
	}
	if verErr != nil {
		observability.Logger.WarnContext(ctx, "like cache fill failed",
			slog.Uint64("board_id", boardID), slog.Any("error", verErr))
	}
	for _, id := range ids {
		if id == user.ID {
			return true, nil
		}
	}
	return false, nil
}

type ReplyLikeService struct {
	likeToggle
	boards *BoardService
}

func NewReplyLikeService(db *gorm.DB, replies *ReplyService, boards *BoardService) *ReplyLikeService {
	return &ReplyLikeService{
		likeToggle: newLikeToggle(db, mysql.ReplyLikes, replies),
		boards:     boards,
	}
}

// LikedReplyIDs 某帖子下当前用户点赞过的回复 ID 集合
func (s *ReplyLikeService) LikedReplyIDs(ctx context.Context, nickName string, boardID uint64) ([]uint64, error) {
	user, err := currentUser(ctx, s.users, nickName)
	if err != nil {
		return nil, err
	}
	if err = s.boards.EnsureExists(ctx, s.db, boardID); err != nil {
		return nil, err
	}
	ids, err := s.likes.LikedReplyIDs(ctx, user.ID, boardID)
	if err != nil {
		return nil, translate(err, "like")
	}
	if ids == nil {
		ids = []uint64{}
	}
	return ids, nil
}
