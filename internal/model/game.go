package model

import "time"

type GameList struct {
	GameID    string    `gorm:"primaryKey;size:64" json:"gameId"`
	HomeTeam  string    `gorm:"size:64" json:"homeTeam"`
	AwayTeam  string    `gorm:"size:64" json:"awayTeam"`
	HomeScore int       `json:"homeScore"`
	AwayScore int       `json:"awayScore"`
	Sports    string    `gorm:"size:32;index:idx_game_list_sports_league,priority:1" json:"sports"`
	League    string    `gorm:"size:32;index:idx_game_list_sports_league,priority:2" json:"league"`
	Status    string    `gorm:"size:32" json:"status"`
	Datetime  time.Time `gorm:"index:idx_game_list_datetime" json:"datetime"`
	Stadium   string    `gorm:"size:128" json:"stadium"`
}

func (GameList) TableName() string { return "game_list" }
