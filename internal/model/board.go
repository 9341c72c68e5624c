package model

import "time"

type Board struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index:idx_boards_user"`
	Title     string `gorm:"size:200;not null"`
	Content   string `gorm:"type:text"`
	ViewCount int64  `gorm:"not null;default:0"`
	GoodCount int64  `gorm:"not null;default:0"` // 冗余计数，真实值以 board_likes 为准
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Board) TableName() string { return "boards" }

type Reply struct {
	ID        uint64 `gorm:"primaryKey"`
	BoardID   uint64 `gorm:"not null;index:idx_replies_board"`
	UserID    uint64 `gorm:"not null;index:idx_replies_user"`
	Content   string `gorm:"type:text;not null"`
	GoodCount int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Reply) TableName() string { return "replies" }
