package model

// Tables 需要自动建表的模型
func Tables() []any {
	return []any{
		&User{},
		&Board{},
		&Reply{},
		&BoardLike{},
		&ReplyLike{},
		&LikeOutbox{},
		&CommunityBoard{},
		&GameList{},
	}
}
