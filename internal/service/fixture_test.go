package service

import (
	"testing"
	"time"

	"sports_community/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	rdb        *goredis.Client
	mr         *miniredis.Miniredis
	sessions   *SessionService
	members    *MemberService
	boards     *BoardService
	replies    *ReplyService
	boardLikes *BoardLikeService
	replyLikes *ReplyLikeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	rdb, mr := testutil.NewRedis(t)
	sessions := NewSessionService(rdb, 30*time.Minute, 7*24*time.Hour)
	boards := NewBoardService(db, rdb)
	replies := NewReplyService(db)
	return &fixture{
		db:         db,
		rdb:        rdb,
		mr:         mr,
		sessions:   sessions,
		members:    NewMemberService(db, rdb, sessions, nil),
		boards:     boards,
		replies:    replies,
		boardLikes: NewBoardLikeService(db, rdb, boards),
		replyLikes: NewReplyLikeService(db, replies, boards),
	}
}

func ptr[T any](v T) *T { return &v }
