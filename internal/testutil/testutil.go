// Package testutil 提供测试用的 sqlite 内存库和 miniredis。
package testutil

import (
	"testing"

	"sports_community/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每次返回独立的内存库，连接数固定为 1 以保证同一个库
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err = db.AutoMigrate(model.Tables()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// SeedUser 直接写库，跳过注册流程
func SeedUser(t testing.TB, db *gorm.DB, nickName string) *model.User {
	t.Helper()
	u := &model.User{
		NickName:    nickName,
		Password:    "x",
		Email:       nickName + "@example.com",
		Auth:        model.RoleCommon,
		LoginMethod: model.LoginEmail,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", nickName, err)
	}
	return u
}

func SeedBoard(t testing.TB, db *gorm.DB, owner *model.User, title string) *model.Board {
	t.Helper()
	b := &model.Board{UserID: owner.ID, Title: title, Content: title + " content"}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed board: %v", err)
	}
	return b
}

func SeedReply(t testing.TB, db *gorm.DB, owner *model.User, board *model.Board, content string) *model.Reply {
	t.Helper()
	r := &model.Reply{UserID: owner.ID, BoardID: board.ID, Content: content}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("seed reply: %v", err)
	}
	return r
}
