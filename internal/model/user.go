package model

import "time"

const (
	RoleCommon = "COMMON"

	LoginEmail = "EMAIL"
	LoginKakao = "KAKAO"
	LoginNaver = "NAVER"
)

type User struct {
	ID          uint64 `gorm:"primaryKey"`
	NickName    string `gorm:"uniqueIndex;size:32;not null"`
	Password    string `gorm:"size:255;not null"`
	Email       string `gorm:"uniqueIndex;size:64;not null"`
	Auth        string `gorm:"size:16;not null"`
	LoginMethod string `gorm:"size:16;not null"`
	Profile     string `gorm:"size:255"`

	// 各联赛的主队
	MlbTeam  string `gorm:"size:32"`
	KboTeam  string `gorm:"size:32"`
	KlTeam   string `gorm:"size:32"`
	PlTeam   string `gorm:"size:32"`
	KblTeam  string `gorm:"size:32"`
	NbaTeam  string `gorm:"size:32"`
	VmanTeam string `gorm:"size:32"`
	VwoTeam  string `gorm:"size:32"`

	CreatedAt time.Time // 注册时间
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }
