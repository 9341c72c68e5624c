package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"sports_community/internal/model"
	"sports_community/internal/pkg"
	"sports_community/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeKakao struct {
	profile     *pkg.KakaoProfile
	exchangeErr error
}

func (f *fakeKakao) AuthCodeURL(state string) string {
	return "https://kauth.example.com/oauth/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeKakao) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &oauth2.Token{AccessToken: "tok-" + code}, nil
}

func (f *fakeKakao) Profile(_ context.Context, _ *oauth2.Token) (*pkg.KakaoProfile, error) {
	return f.profile, nil
}

func newKakaoFixture(t *testing.T, p *fakeKakao) (*fixture, *KakaoService) {
	t.Helper()
	f := newFixture(t)
	signer := pkg.NewStateSigner("kakao-state-test-secret-0123456789", time.Minute)
	svc := NewKakaoService(p, signer, f.rdb, f.members, []string{"http://localhost:3000"})
	return f, svc
}

func stateFrom(t *testing.T, authURL string) string {
	t.Helper()
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestKakaoLoginProvisionsOnce(t *testing.T) {
	p := &fakeKakao{profile: &pkg.KakaoProfile{ID: 4242, Nickname: "야구팬", Email: "fan@kakao.com", EmailVerified: true}}
	f, svc := newKakaoFixture(t, p)
	ctx := context.Background()

	authURL, err := svc.AuthURL(ctx, "http://localhost:3000/home", true)
	require.NoError(t, err)
	sess, redirect, err := svc.Complete(ctx, "code1", stateFrom(t, authURL))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/home", redirect)
	assert.Equal(t, "야구팬", sess.Nickname)
	assert.True(t, sess.AutoLogin)

	id, ok := f.sessions.Resolve(ctx, sess.ID)
	assert.True(t, ok)
	assert.Equal(t, "야구팬", id.Nickname)
	assert.Equal(t, sess.UserID, id.UserID)

	// 第二次登录复用同一账号
	authURL, err = svc.AuthURL(ctx, "", false)
	require.NoError(t, err)
	sess, redirect, err = svc.Complete(ctx, "code2", stateFrom(t, authURL))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", redirect)
	assert.Equal(t, "야구팬", sess.Nickname)

	var users []model.User
	require.NoError(t, f.db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, model.LoginKakao, users[0].LoginMethod)
}

func TestKakaoStateSingleUse(t *testing.T) {
	p := &fakeKakao{profile: &pkg.KakaoProfile{ID: 1, Nickname: "k"}}
	_, svc := newKakaoFixture(t, p)
	ctx := context.Background()

	authURL, err := svc.AuthURL(ctx, "", false)
	require.NoError(t, err)
	state := stateFrom(t, authURL)
	_, _, err = svc.Complete(ctx, "c", state)
	require.NoError(t, err)

	_, _, err = svc.Complete(ctx, "c", state)
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))
	_, _, err = svc.Complete(ctx, "c", "forged")
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))
	_, _, err = svc.Complete(ctx, "", state)
	assert.True(t, pkg.IsCode(err, pkg.CodeValidation))
}

func TestKakaoNicknameCollision(t *testing.T) {
	p := &fakeKakao{profile: &pkg.KakaoProfile{ID: 4242, Nickname: "alice"}}
	f, svc := newKakaoFixture(t, p)
	ctx := context.Background()
	testutil.SeedUser(t, f.db, "alice")

	authURL, err := svc.AuthURL(ctx, "", false)
	require.NoError(t, err)
	sess, _, err := svc.Complete(ctx, "c", stateFrom(t, authURL))
	require.NoError(t, err)
	assert.Equal(t, "alice_4242", sess.Nickname)

	u, err := f.members.Profile(ctx, "alice_4242")
	require.NoError(t, err)
	assert.Equal(t, "4242@kakao.local", u.Email)
}

func TestKakaoLinksOnlyVerifiedEmail(t *testing.T) {
	p := &fakeKakao{profile: &pkg.KakaoProfile{ID: 9001, Nickname: "intruder", Email: "alice@example.com"}}
	f, svc := newKakaoFixture(t, p)
	ctx := context.Background()
	alice := testutil.SeedUser(t, f.db, "alice")

	// 未验证的邮箱不能登录同邮箱的已有账号
	authURL, err := svc.AuthURL(ctx, "", false)
	require.NoError(t, err)
	sess, _, err := svc.Complete(ctx, "c1", stateFrom(t, authURL))
	require.NoError(t, err)
	assert.NotEqual(t, alice.ID, sess.UserID)
	assert.Equal(t, "intruder", sess.Nickname)
	u, err := f.members.Profile(ctx, "intruder")
	require.NoError(t, err)
	assert.Equal(t, "9001@kakao.local", u.Email)

	// 验证过的邮箱关联到已有账号
	p.profile = &pkg.KakaoProfile{ID: 9002, Nickname: "whatever", Email: "alice@example.com", EmailVerified: true}
	authURL, err = svc.AuthURL(ctx, "", false)
	require.NoError(t, err)
	sess, _, err = svc.Complete(ctx, "c2", stateFrom(t, authURL))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, sess.UserID)
	assert.Equal(t, "alice", sess.Nickname)
}

func TestKakaoRejects(t *testing.T) {
	p := &fakeKakao{exchangeErr: errors.New("invalid_grant")}
	_, svc := newKakaoFixture(t, p)
	ctx := context.Background()

	_, err := svc.AuthURL(ctx, "https://evil.example.com/", false)
	assert.True(t, pkg.IsCode(err, pkg.CodeValidation))
	_, err = svc.AuthURL(ctx, "http://localhost:3000.evil.com/", false)
	assert.True(t, pkg.IsCode(err, pkg.CodeValidation))

	authURL, err := svc.AuthURL(ctx, "", false)
	require.NoError(t, err)
	_, _, err = svc.Complete(ctx, "c", stateFrom(t, authURL))
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))
}
