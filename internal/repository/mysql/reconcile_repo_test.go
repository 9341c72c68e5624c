package mysql

import (
	"context"
	"testing"

	"sports_community/internal/model"
	"sports_community/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 比对之后、写回之前提交的点赞要计入，不能被比对时的旧计数覆盖
func TestReconcileFixRecountsInStatement(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := testutil.SeedUser(t, db, "alice")
	bob := testutil.SeedUser(t, db, "bob")
	b := testutil.SeedBoard(t, db, alice, "t")
	require.NoError(t, db.Model(&model.Board{}).Where("id = ?", b.ID).UpdateColumn("good_count", 5).Error)
	repo := &LikeCountReconcilerRepo{DB: db}

	rows, last, err := repo.ReconcileList(ctx, BoardLikes, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, b.ID, last)
	assert.EqualValues(t, 5, rows[0].GoodCount)
	real, err := repo.RealCount(ctx, BoardLikes, b.ID)
	require.NoError(t, err)
	assert.Zero(t, real)

	require.NoError(t, NewLikeRepository(db, BoardLikes).Insert(ctx, bob.ID, b.ID))

	require.NoError(t, repo.Fix(ctx, BoardLikes, b.ID))
	var got model.Board
	require.NoError(t, db.First(&got, b.ID).Error)
	assert.EqualValues(t, 1, got.GoodCount)
}

func TestReconcileFixReplies(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := testutil.SeedUser(t, db, "alice")
	b := testutil.SeedBoard(t, db, alice, "t")
	r := testutil.SeedReply(t, db, alice, b, "c")
	other := testutil.SeedReply(t, db, alice, b, "d")
	require.NoError(t, db.Model(&model.Reply{}).Where("id IN ?", []uint64{r.ID, other.ID}).UpdateColumn("good_count", 3).Error)
	require.NoError(t, NewLikeRepository(db, ReplyLikes).Insert(ctx, alice.ID, r.ID))
	repo := &LikeCountReconcilerRepo{DB: db}

	require.NoError(t, repo.Fix(ctx, ReplyLikes, r.ID))
	var got []model.Reply
	require.NoError(t, db.Order("id").Find(&got).Error)
	require.Len(t, got, 2)
	assert.EqualValues(t, 1, got[0].GoodCount)
	// 只改目标行
	assert.EqualValues(t, 3, got[1].GoodCount)

	_, last, err := repo.ReconcileList(ctx, ReplyLikes, 10, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, last)
}
