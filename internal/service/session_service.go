package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sports_community/internal/observability"
	"sports_community/internal/pkg"
	"sports_community/internal/repository/redis"

	goredis "github.com/redis/go-redis/v9"
)

const sessionIDBytes = 32

type Session struct {
	ID        string
	UserID    uint64
	Nickname  string
	AutoLogin bool
	TTL       time.Duration
}

// Identity 会话解析出的身份
type Identity struct {
	UserID   uint64
	Nickname string
}

type identityKey struct{}

// WithIdentity 由会话中间件写入请求 context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func identityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != 0
}

// SessionService 服务端会话，cookie 只携带随机会话 ID
type SessionService struct {
	repo    *redis.SessionRepository
	ttl     time.Duration
	autoTTL time.Duration
}

func NewSessionService(rdb *goredis.Client, ttl, autoTTL time.Duration) *SessionService {
	return &SessionService{
		repo:    &redis.SessionRepository{RDB: rdb},
		ttl:     ttl,
		autoTTL: autoTTL,
	}
}

func (s *SessionService) Establish(ctx context.Context, userID uint64, nickname string, autoLogin bool) (*Session, error) {
	if userID == 0 || nickname == "" {
		return nil, pkg.NewUnauthorized("no identity")
	}
	id, err := pkg.RandToken(sessionIDBytes)
	if err != nil {
		return nil, pkg.NewInternal(err)
	}
	ttl := s.ttl
	if autoLogin {
		ttl = s.autoTTL
	}
	rec := redis.SessionRecord{UserID: userID, Nickname: nickname}
	if err = s.repo.Create(ctx, id, rec, ttl); err != nil {
		return nil, pkg.NewInternal(err)
	}
	return &Session{ID: id, UserID: userID, Nickname: nickname, AutoLogin: autoLogin, TTL: ttl}, nil
}

// Resolve 没有身份是正常结果，存储异常只记日志
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (Identity, bool) {
	if sessionID == "" {
		return Identity{}, false
	}
	rec, err := s.repo.Resolve(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, redis.ErrSessionNotFound) {
			observability.Logger.ErrorContext(ctx, "session resolve failed", slog.Any("error", err))
		}
		return Identity{}, false
	}
	return Identity{UserID: rec.UserID, Nickname: rec.Nickname}, true
}

func (s *SessionService) Terminate(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkg.NewUnauthorized("no session")
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return pkg.NewInternal(err)
	}
	return nil
}

// TerminateAll 注销用户在所有设备上的会话
func (s *SessionService) TerminateAll(ctx context.Context, userID uint64) error {
	n, err := s.repo.DeleteAllForUser(ctx, userID)
	if err != nil {
		return pkg.NewInternal(err)
	}
	observability.Logger.InfoContext(ctx, "sessions terminated",
		slog.Uint64("user_id", userID), slog.Int64("count", n))
	return nil
}
