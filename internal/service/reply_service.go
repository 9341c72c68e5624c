package service

import (
	"context"
	"strings"
	"time"

	"sports_community/internal/model"
	"sports_community/internal/pkg"
	"sports_community/internal/repository/mysql"

	"gorm.io/gorm"
)

type ReplyResponse struct {
	ReplyNum  uint64    `json:"replyNum"`
	BoardNum  uint64    `json:"boardNum"`
	Content   string    `json:"content"`
	Writer    string    `json:"writer"`
	RegDate   time.Time `json:"regDate"`
	ModDate   time.Time `json:"modDate"`
	GoodCount int64     `json:"goodCount"`
}

type ReplyService struct {
	replies *mysql.ReplyRepository
	boards  *mysql.BoardRepository
	users   *mysql.UserRepository
}

func NewReplyService(db *gorm.DB) *ReplyService {
	return &ReplyService{
		replies: &mysql.ReplyRepository{DB: db},
		boards:  &mysql.BoardRepository{DB: db},
		users:   &mysql.UserRepository{DB: db},
	}
}

func (s *ReplyService) Create(ctx context.Context, nickName string, boardID uint64, content string) (uint64, error) {
	user, err := currentUser(ctx, s.users, nickName)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(content) == "" {
		return 0, pkg.NewValidation("content is required")
	}
	if _, err = s.boards.FindByID(ctx, boardID); err != nil {
		return 0, translate(err, "board")
	}
	reply := &model.Reply{BoardID: boardID, UserID: user.ID, Content: content}
	if err = s.replies.Create(ctx, reply); err != nil {
		return 0, translate(err, "reply")
	}
	return reply.ID, nil
}

// ownedReply 按库中真实作者校验，不信任客户端传来的 writer
func (s *ReplyService) ownedReply(ctx context.Context, nickName string, id uint64) (*model.Reply, error) {
	user, err := currentUser(ctx, s.users, nickName)
	if err != nil {
		return nil, err
	}
	reply, err := s.replies.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "reply")
	}
	if reply.UserID != user.ID {
		return nil, pkg.NewForbidden("not the reply owner")
	}
	return reply, nil
}

func (s *ReplyService) Modify(ctx context.Context, nickName string, id uint64, content string) error {
	if strings.TrimSpace(content) == "" {
		return pkg.NewValidation("content is required")
	}
	if _, err := s.ownedReply(ctx, nickName, id); err != nil {
		return err
	}
	return translate(s.replies.Update(ctx, id, content), "reply")
}

func (s *ReplyService) Delete(ctx context.Context, nickName string, id uint64) error {
	if _, err := s.ownedReply(ctx, nickName, id); err != nil {
		return err
	}
	return translate(s.replies.Delete(ctx, id), "reply")
}

func (s *ReplyService) FindAllForBoard(ctx context.Context, boardID uint64) ([]ReplyResponse, error) {
	if _, err := s.boards.FindByID(ctx, boardID); err != nil {
		return nil, translate(err, "board")
	}
	rows, err := s.replies.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, translate(err, "reply")
	}
	out := make([]ReplyResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ReplyResponse{
			ReplyNum:  r.ID,
			BoardNum:  r.BoardID,
			Content:   r.Content,
			Writer:    r.Writer,
			RegDate:   r.CreatedAt,
			ModDate:   r.UpdatedAt,
			GoodCount: r.GoodCount,
		})
	}
	return out, nil
}

func (s *ReplyService) EnsureExists(ctx context.Context, tx *gorm.DB, id uint64) error {
	_, err := s.replies.WithTx(tx).FindByID(ctx, id)
	return translate(err, "reply")
}

// BumpLikeCounter 仅供点赞服务在同一事务内调用
func (s *ReplyService) BumpLikeCounter(ctx context.Context, tx *gorm.DB, id uint64, delta int64) error {
	return translate(s.replies.WithTx(tx).AdjustGoodCount(ctx, id, delta), "reply")
}
