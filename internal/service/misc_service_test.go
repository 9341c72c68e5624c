package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sports_community/internal/model"
	"sports_community/internal/pkg"
	"sports_community/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunityBoard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.SeedUser(t, f.db, "alice")
	testutil.SeedUser(t, f.db, "bob")
	svc := NewCommunityService(f.db)

	id, err := svc.Write(ctx, "alice", "오늘 경기 어땠나요 여러분", "본문")
	require.NoError(t, err)
	_, err = svc.Write(ctx, "alice", "짧은글", "")
	require.NoError(t, err)
	_, err = svc.Write(ctx, "", "anon", "")
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "짧은글", list[0].Title)
	assert.Equal(t, "오늘 경기 어...", list[1].Title)
	assert.Equal(t, "alice", list[1].Writer)

	d, err := svc.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "오늘 경기 어땠나요 여러분", d.Title)
	assert.Equal(t, int64(1), d.ViewCount)
	_, err = svc.Detail(ctx, id+100)
	assert.True(t, pkg.IsCode(err, pkg.CodeNotFound))

	assert.Equal(t, "alice", d.Writer)

	err = svc.Delete(ctx, "bob", id)
	assert.True(t, pkg.IsCode(err, pkg.CodeForbidden))
	require.NoError(t, svc.Delete(ctx, "alice", id))
	err = svc.Delete(ctx, "alice", id)
	assert.True(t, pkg.IsCode(err, pkg.CodeNotFound))
}

func TestGameList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewGameService(f.db)

	empty, err := svc.List(ctx, "baseball", "KBO")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	day := time.Date(2026, 4, 1, 18, 30, 0, 0, time.UTC)
	require.NoError(t, svc.Import(ctx, []model.GameList{
		{GameID: "kbo-2", HomeTeam: "LG", AwayTeam: "KT", Sports: "baseball", League: "KBO", Status: "scheduled", Datetime: day.Add(24 * time.Hour)},
		{GameID: "kbo-1", HomeTeam: "두산", AwayTeam: "SSG", Sports: "baseball", League: "KBO", Status: "scheduled", Datetime: day},
		{GameID: "nba-1", HomeTeam: "LAL", AwayTeam: "BOS", Sports: "basketball", League: "NBA", Datetime: day},
	}))

	kbo, err := svc.List(ctx, "baseball", " KBO ")
	require.NoError(t, err)
	require.Len(t, kbo, 2)
	assert.Equal(t, "kbo-1", kbo[0].GameID)

	all, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// 作者改名后社区帖子显示新昵称
func TestCommunityWriterFollowsRename(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.SeedUser(t, f.db, "alice")
	svc := NewCommunityService(f.db)

	id, err := svc.Write(ctx, "alice", "직관", "")
	require.NoError(t, err)
	require.NoError(t, f.members.ModifyProfile(ctx, "alice", "", ProfileUpdate{NickName: ptr("alice2")}))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice2", list[0].Writer)
	d, err := svc.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice2", d.Writer)

	require.NoError(t, svc.Delete(ctx, "alice2", id))
}

func TestSessionService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.sessions.Establish(ctx, 1, "", false)
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))
	_, err = f.sessions.Establish(ctx, 0, "alice", false)
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))

	sess, err := f.sessions.Establish(ctx, 1, "alice", false)
	require.NoError(t, err)
	assert.Len(t, sess.ID, 64)
	assert.Equal(t, 30*time.Minute, sess.TTL)
	id, ok := f.sessions.Resolve(ctx, sess.ID)
	assert.True(t, ok)
	assert.Equal(t, Identity{UserID: 1, Nickname: "alice"}, id)

	_, ok = f.sessions.Resolve(ctx, "")
	assert.False(t, ok)
	_, ok = f.sessions.Resolve(ctx, "unknown")
	assert.False(t, ok)

	require.NoError(t, f.sessions.Terminate(ctx, sess.ID))
	_, ok = f.sessions.Resolve(ctx, sess.ID)
	assert.False(t, ok)
	assert.True(t, pkg.IsCode(f.sessions.Terminate(ctx, ""), pkg.CodeUnauthorized))

	a, err := f.sessions.Establish(ctx, 1, "alice", false)
	require.NoError(t, err)
	b, err := f.sessions.Establish(ctx, 1, "alice", true)
	require.NoError(t, err)
	other, err := f.sessions.Establish(ctx, 2, "bob", false)
	require.NoError(t, err)
	require.NoError(t, f.sessions.TerminateAll(ctx, 1))
	for _, sid := range []string{a.ID, b.ID} {
		_, ok = f.sessions.Resolve(ctx, sid)
		assert.False(t, ok)
	}
	_, ok = f.sessions.Resolve(ctx, other.ID)
	assert.True(t, ok)
}

func TestEmailService(t *testing.T) {
	type mail struct{ to, subject, body string }
	sent := make(chan mail, 1)
	fake := func(_ pkg.SMTPConfig, to, subject, body string) error {
		sent <- mail{to, subject, body}
		return nil
	}

	off := NewEmailService(pkg.SMTPConfig{})
	off.send = func(pkg.SMTPConfig, string, string, string) error { return errors.New("must not send") }
	require.NoError(t, off.SendWelcome("a@example.com", "alice"))

	on := NewEmailService(pkg.SMTPConfig{Host: "smtp.example.com", Port: 465, From: "noreply@example.com"})
	on.send = fake

	f := newFixture(t)
	members := NewMemberService(f.db, f.rdb, f.sessions, on)
	_, err := members.Register(context.Background(), SignUp{NickName: "alice", Password: "pw", Email: "alice@example.com"})
	require.NoError(t, err)

	select {
	case m := <-sent:
		assert.Equal(t, "alice@example.com", m.to)
		assert.Contains(t, m.body, "alice")
	case <-time.After(2 * time.Second):
		t.Fatal("welcome mail not sent")
	}

	// 占位邮箱不发信
	_, err = members.Register(context.Background(), SignUp{
		NickName: "k", Password: "pw", Email: "1@kakao.local", LoginMethod: model.LoginKakao,
	})
	require.NoError(t, err)
	select {
	case m := <-sent:
		t.Fatalf("unexpected mail to %s", m.to)
	case <-time.After(100 * time.Millisecond):
	}
}
