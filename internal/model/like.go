package model

import "time"

// BoardLike 唯一索引 (user_id, board_id) 保证同一用户只能点赞一次
type BoardLike struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_board_likes_user_board,priority:1"`
	BoardID   uint64 `gorm:"not null;uniqueIndex:uk_board_likes_user_board,priority:2;index:idx_board_likes_board"`
	CreatedAt time.Time
}

func (BoardLike) TableName() string { return "board_likes" }

type ReplyLike struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_reply_likes_user_reply,priority:1"`
	ReplyID   uint64 `gorm:"not null;uniqueIndex:uk_reply_likes_user_reply,priority:2;index:idx_reply_likes_reply"`
	CreatedAt time.Time
}

func (ReplyLike) TableName() string { return "reply_likes" }

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// LikeOutbox 点赞事件表，与点赞写入同一事务
type LikeOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"` // board.like / board.unlike / reply.like / reply.unlike
	TargetID  uint64 `gorm:"not null"`
	UserID    uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;index:idx_like_outbox_status"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LikeOutbox) TableName() string { return "like_outbox" }
