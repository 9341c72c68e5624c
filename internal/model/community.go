package model

import "time"

// CommunityBoard 简易版社区帖子，没有点赞子系统
type CommunityBoard struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_com_board_user" json:"-"`
	Writer    string    `gorm:"->;-:migration" json:"writer"` // 查询时联表取作者当前昵称，不落库
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	ViewCount int64     `gorm:"not null;default:0" json:"viewCount"`
	GoodCount int64     `gorm:"not null;default:0" json:"goodBoard"`
	CreatedAt time.Time `json:"regDate"`
	UpdatedAt time.Time `json:"modDate"`
}

func (CommunityBoard) TableName() string { return "com_board" }
