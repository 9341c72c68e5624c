package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrStateReused = errors.New("oauth state already used or expired")

const OAuthStatePrefix = "oauth:state"

// 取值并删除，保证 nonce 只能消费一次
var consumeState = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if not val then
  return 0
end
redis.call("DEL", KEYS[1])
return 1
`)

type OAuthStateRepository struct {
	RDB *redis.Client
}

func (r *OAuthStateRepository) key(nonce string) string {
	return fmt.Sprintf("%s:%s", OAuthStatePrefix, nonce)
}

func (r *OAuthStateRepository) Save(ctx context.Context, nonce string, ttl time.Duration) error {
	ok, err := r.RDB.SetNX(ctx, r.key(nonce), "1", ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrStateReused
	}
	return nil
}

func (r *OAuthStateRepository) Consume(ctx context.Context, nonce string) error {
	n, err := consumeState.Run(ctx, r.RDB, []string{r.key(nonce)}).Int()
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrStateReused
	}
	return nil
}
