package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LikeSetTTL       = 24 * time.Hour
	LikeSetKeyPrefix = "like:set:board" // 存放某个帖子已点赞的用户ID集合
	LikeVerKeyPrefix = "like:ver:board" // 每次写都自增，回填时比对
	// 空集合也要占位，否则无法区分"没人点赞"和"未缓存"
	likeSetSentinel = "0"
)

// 惰性回填：只在集合已存在时写，避免无界扩张。
// 集合不存在也要推进版本号，让进行中的回填作废
var touchLikeSet = redis.NewScript(`
redis.call("INCR", KEYS[2])
redis.call("EXPIRE", KEYS[2], ARGV[3])
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
if ARGV[1] == "add" then
  redis.call("SADD", KEYS[1], ARGV[2])
else
  redis.call("SREM", KEYS[1], ARGV[2])
end
redis.call("EXPIRE", KEYS[1], ARGV[3])
return 1
`)

// 读库前取的版本号与当前一致才回填，否则说明期间有写入，快照已过期
var fillLikeSet = redis.NewScript(`
local cur = redis.call("GET", KEYS[2]) or "0"
if cur ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
redis.call("SADD", KEYS[1], unpack(ARGV, 3))
redis.call("EXPIRE", KEYS[1], ARGV[2])
return 1
`)

type LikeCacheRepository struct {
	RDB        *redis.Client
	likeSetTTL time.Duration
}

func NewLikeCacheRepository(rdb *redis.Client) *LikeCacheRepository {
	return &LikeCacheRepository{RDB: rdb, likeSetTTL: LikeSetTTL}
}

func (r *LikeCacheRepository) likeSetKey(boardID uint64) string {
	return fmt.Sprintf("%s:%d", LikeSetKeyPrefix, boardID)
}

func (r *LikeCacheRepository) versionKey(boardID uint64) string {
	return fmt.Sprintf("%s:%d", LikeVerKeyPrefix, boardID)
}

// IsLikedCached 第二个返回值表示是否命中缓存
func (r *LikeCacheRepository) IsLikedCached(ctx context.Context, userID, boardID uint64) (bool, bool, error) {
	k := r.likeSetKey(boardID)
	exists, err := r.RDB.Exists(ctx, k).Result()
	if err != nil {
		return false, false, err
	}
	if exists == 0 {
		return false, false, nil
	}
	b, err := r.RDB.SIsMember(ctx, k, userID).Result()
	return b, true, err
}

// Version 回源前调用，结果交给 Fill
func (r *LikeCacheRepository) Version(ctx context.Context, boardID uint64) (string, error) {
	v, err := r.RDB.Get(ctx, r.versionKey(boardID)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return v, err
}

// Fill 回源后整体回填集合，版本号变化时放弃并返回 false
func (r *LikeCacheRepository) Fill(ctx context.Context, boardID uint64, version string, userIDs []uint64) (bool, error) {
	args := make([]any, 0, len(userIDs)+3)
	args = append(args, version, int64(r.likeSetTTL/time.Second), likeSetSentinel)
	for _, id := range userIDs {
		args = append(args, id)
	}
	keys := []string{r.likeSetKey(boardID), r.versionKey(boardID)}
	n, err := fillLikeSet.Run(ctx, r.RDB, keys, args...).Int()
	return n == 1, err
}

// AddLike 写路径：事务提交后再调用
func (r *LikeCacheRepository) AddLike(ctx context.Context, userID, boardID uint64) error {
	return r.touch(ctx, "add", userID, boardID)
}

func (r *LikeCacheRepository) RemoveLike(ctx context.Context, userID, boardID uint64) error {
	return r.touch(ctx, "rem", userID, boardID)
}

func (r *LikeCacheRepository) touch(ctx context.Context, op string, userID, boardID uint64) error {
	ttl := int64(r.likeSetTTL / time.Second)
	keys := []string{r.likeSetKey(boardID), r.versionKey(boardID)}
	return touchLikeSet.Run(ctx, r.RDB, keys, op, userID, ttl).Err()
}

// Invalidate 帖子删除或用户注销后清理集合，同时推进版本号
func (r *LikeCacheRepository) Invalidate(ctx context.Context, boardIDs ...uint64) error {
	if len(boardIDs) == 0 {
		return nil
	}
	_, err := r.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range boardIDs {
			p.Del(ctx, r.likeSetKey(id))
			p.Incr(ctx, r.versionKey(id))
			p.Expire(ctx, r.versionKey(id), r.likeSetTTL)
		}
		return nil
	})
	return err
}
