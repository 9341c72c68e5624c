package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const LockKeyPrefix = "lock"

var releaseLock = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`)

// DistLock 基于 SET NX 的分布式锁，多实例部署时保证定时任务只跑一份
type DistLock struct {
	RDB *redis.Client
}

func (l *DistLock) key(name string) string {
	return fmt.Sprintf("%s:%s", LockKeyPrefix, name)
}

// Acquire 请求加分布式锁
func (l *DistLock) Acquire(ctx context.Context, name, token string, ttl time.Duration) (bool, error) {
	return l.RDB.SetNX(ctx, l.key(name), token, ttl).Result()
}

// Release 用lua保证原子性，只释放自己持有的锁
func (l *DistLock) Release(ctx context.Context, name, token string) error {
	return releaseLock.Run(ctx, l.RDB, []string{l.key(name)}, token).Err()
}
