package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const (
	SessionPrefix     = "login:session"
	UserSessionPrefix = "login:user" // 用户ID -> 会话ID集合，用于一次性注销全部会话
)

// 索引的过期时间不短于其中任何一个会话
var createSession = redis.NewScript(`
redis.call("HSET", KEYS[1], "nickname", ARGV[1], "uid", ARGV[2], "ttl", ARGV[3])
redis.call("EXPIRE", KEYS[1], ARGV[3])
redis.call("SADD", KEYS[2], ARGV[4])
if redis.call("TTL", KEYS[2]) < tonumber(ARGV[3]) then
  redis.call("EXPIRE", KEYS[2], ARGV[3])
end
return 1
`)

// 读取身份的同时按会话自身的 ttl 续期
var resolveSession = redis.NewScript(`
local v = redis.call("HMGET", KEYS[1], "nickname", "uid", "ttl")
if not v[1] or not v[2] then
  return false
end
local ttl = tonumber(v[3])
if ttl and ttl > 0 then
  redis.call("EXPIRE", KEYS[1], ttl)
  local idx = ARGV[1] .. ":" .. v[2]
  if redis.call("TTL", idx) < ttl then
    redis.call("EXPIRE", idx, ttl)
  end
end
return {v[1], v[2]}
`)

var deleteSession = redis.NewScript(`
local uid = redis.call("HGET", KEYS[1], "uid")
redis.call("DEL", KEYS[1])
if uid then
  redis.call("SREM", ARGV[1] .. ":" .. uid, ARGV[2])
end
return 1
`)

var deleteUserSessions = redis.NewScript(`
local ids = redis.call("SMEMBERS", KEYS[1])
for _, id in ipairs(ids) do
  redis.call("DEL", ARGV[1] .. ":" .. id)
end
redis.call("DEL", KEYS[1])
return #ids
`)

// SessionRecord 会话绑定的身份，昵称可能被改名或释放，UserID 不会复用
type SessionRecord struct {
	UserID   uint64
	Nickname string
}

type SessionRepository struct {
	RDB *redis.Client
}

func (r *SessionRepository) key(id string) string {
	return fmt.Sprintf("%s:%s", SessionPrefix, id)
}

func (r *SessionRepository) userKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserSessionPrefix, userID)
}

func (r *SessionRepository) Create(ctx context.Context, id string, rec SessionRecord, ttl time.Duration) error {
	keys := []string{r.key(id), r.userKey(rec.UserID)}
	err := createSession.Run(ctx, r.RDB, keys, rec.Nickname, rec.UserID, int64(ttl/time.Second), id).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Resolve 返回会话绑定的身份并滑动过期时间
func (r *SessionRepository) Resolve(ctx context.Context, id string) (SessionRecord, error) {
	vals, err := resolveSession.Run(ctx, r.RDB, []string{r.key(id)}, UserSessionPrefix).StringSlice()
	if errors.Is(err, redis.Nil) {
		return SessionRecord{}, ErrSessionNotFound
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(vals) != 2 {
		return SessionRecord{}, ErrSessionNotFound
	}
	uid, err := strconv.ParseUint(vals[1], 10, 64)
	if err != nil {
		return SessionRecord{}, ErrSessionNotFound
	}
	return SessionRecord{UserID: uid, Nickname: vals[0]}, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := deleteSession.Run(ctx, r.RDB, []string{r.key(id)}, UserSessionPrefix, id).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// DeleteAllForUser 删除用户的全部会话，返回索引中的会话数
func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID uint64) (int64, error) {
	n, err := deleteUserSessions.Run(ctx, r.RDB, []string{r.userKey(userID)}, SessionPrefix).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n, nil
}
