package service

import (
	"context"
	"testing"

	"sports_community/internal/model"
	"sports_community/internal/pkg"
	"sports_community/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.members.Register(ctx, SignUp{
		NickName: "alice", Password: "pw1234", Email: "alice@example.com",
		Teams: Teams{KboTeam: "LG"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "pw1234", u.Password)
	assert.Equal(t, model.LoginEmail, u.LoginMethod)
	assert.Equal(t, model.RoleCommon, u.Auth)

	taken, err := f.members.IsNicknameTaken(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = f.members.IsEmailTaken(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, taken)

	sess, err := f.members.Login(ctx, "alice", "pw1234", false)
	require.NoError(t, err)
	id, ok := f.sessions.Resolve(ctx, sess.ID)
	assert.True(t, ok)
	assert.Equal(t, Identity{UserID: u.ID, Nickname: "alice"}, id)

	_, err = f.members.Login(ctx, "alice", "wrong", false)
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))
	_, err = f.members.Login(ctx, "ghost", "pw1234", false)
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))
}

func TestRegisterConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.members.Register(ctx, SignUp{NickName: "alice", Password: "p", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = f.members.Register(ctx, SignUp{NickName: "alice", Password: "p", Email: "other@example.com"})
	assert.True(t, pkg.IsCode(err, pkg.CodeConflict))
	_, err = f.members.Register(ctx, SignUp{NickName: "alice2", Password: "p", Email: "a@example.com"})
	assert.True(t, pkg.IsCode(err, pkg.CodeConflict))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.members.Register(ctx, SignUp{NickName: " ", Password: "p", Email: "a@example.com"})
	assert.True(t, pkg.IsCode(err, pkg.CodeValidation))
	_, err = f.members.Register(ctx, SignUp{NickName: "a", Password: "p", Email: "a@example.com", LoginMethod: "GOOGLE"})
	assert.True(t, pkg.IsCode(err, pkg.CodeValidation))
}

func TestAutoLoginSessionTTL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.members.Register(ctx, SignUp{NickName: "alice", Password: "pw", Email: "a@example.com"})
	require.NoError(t, err)

	short, err := f.members.Login(ctx, "alice", "pw", false)
	require.NoError(t, err)
	long, err := f.members.Login(ctx, "alice", "pw", true)
	require.NoError(t, err)
	assert.Greater(t, long.TTL, short.TTL)
	assert.NotEqual(t, short.ID, long.ID)
}

func TestModifyProfileKeepsAbsentFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.members.Register(ctx, SignUp{
		NickName: "alice", Password: "pw", Email: "a@example.com", Profile: "hello",
		Teams: Teams{KboTeam: "LG", NbaTeam: "LAL"},
	})
	require.NoError(t, err)
	sess, err := f.members.Login(ctx, "alice", "pw", false)
	require.NoError(t, err)

	err = f.members.ModifyProfile(ctx, "alice", sess.ID, ProfileUpdate{
		KboTeam: ptr("Doosan"),
		NbaTeam: ptr(""),
	})
	require.NoError(t, err)

	u, err := f.members.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Doosan", u.KboTeam)
	assert.Empty(t, u.NbaTeam)
	assert.Equal(t, "hello", u.Profile)
	assert.Equal(t, "a@example.com", u.Email)

	// 修改资料后旧会话失效
	_, ok := f.sessions.Resolve(ctx, sess.ID)
	assert.False(t, ok)
}

func TestModifyProfileRejectsBlankRequired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.SeedUser(t, f.db, "alice")
	testutil.SeedUser(t, f.db, "bob")

	err := f.members.ModifyProfile(ctx, "alice", "", ProfileUpdate{NickName: ptr("  ")})
	assert.True(t, pkg.IsCode(err, pkg.CodeValidation))
	err = f.members.ModifyProfile(ctx, "alice", "", ProfileUpdate{Password: ptr("")})
	assert.True(t, pkg.IsCode(err, pkg.CodeValidation))

	err = f.members.ModifyProfile(ctx, "alice", "", ProfileUpdate{NickName: ptr("bob")})
	assert.True(t, pkg.IsCode(err, pkg.CodeConflict))

	err = f.members.ModifyProfile(ctx, "", "", ProfileUpdate{KboTeam: ptr("LG")})
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))
}

func TestModifyPasswordRehashes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.members.Register(ctx, SignUp{NickName: "alice", Password: "old", Email: "a@example.com"})
	require.NoError(t, err)

	require.NoError(t, f.members.ModifyProfile(ctx, "alice", "", ProfileUpdate{Password: ptr("new")}))
	ok, err := f.members.Authenticate(ctx, "alice", "new")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.members.Authenticate(ctx, "alice", "old")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := testutil.SeedUser(t, f.db, "alice")
	bob := testutil.SeedUser(t, f.db, "bob")
	bobBoard := testutil.SeedBoard(t, f.db, bob, "bob post")
	testutil.SeedBoard(t, f.db, alice, "alice post")

	require.NoError(t, f.boardLikes.MakeLike(ctx, "alice", bobBoard.ID))
	// 预热缓存，删除后应被清掉
	liked, err := f.boardLikes.IsLiked(ctx, "bob", bobBoard.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.True(t, f.mr.Exists("like:set:board:"+pkg.MakeKeyFromID(bobBoard.ID)))

	sess, err := f.sessions.Establish(ctx, alice.ID, "alice", false)
	require.NoError(t, err)
	require.NoError(t, f.members.DeleteAccount(ctx, "alice"))

	_, ok := f.sessions.Resolve(ctx, sess.ID)
	assert.False(t, ok)
	assert.False(t, f.mr.Exists("like:set:board:"+pkg.MakeKeyFromID(bobBoard.ID)))

	one, err := f.boards.FindOne(ctx, bobBoard.ID)
	require.NoError(t, err)
	assert.Zero(t, one.GoodCount)

	all, err := f.boards.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.members.Profile(ctx, "alice")
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))
	err = f.members.DeleteAccount(ctx, "alice")
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))
}

// 两台设备登录同一账号，注销后昵称被他人注册，另一台设备的旧会话不能冒用新账号
func TestDeleteAccountEndsEverySession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.members.Register(ctx, SignUp{NickName: "alice", Password: "pw", Email: "alice@example.com"})
	require.NoError(t, err)
	laptop, err := f.members.Login(ctx, "alice", "pw", false)
	require.NoError(t, err)
	phone, err := f.members.Login(ctx, "alice", "pw", true)
	require.NoError(t, err)

	require.NoError(t, f.members.DeleteAccount(WithIdentity(ctx, Identity{UserID: laptop.UserID, Nickname: "alice"}), "alice"))
	_, ok := f.sessions.Resolve(ctx, laptop.ID)
	assert.False(t, ok)
	_, ok = f.sessions.Resolve(ctx, phone.ID)
	assert.False(t, ok)

	mallory, err := f.members.Register(ctx, SignUp{NickName: "alice", Password: "x", Email: "mallory@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, phone.UserID, mallory.ID)
	_, ok = f.sessions.Resolve(ctx, phone.ID)
	assert.False(t, ok)

	// 即使会话残留，身份中的用户ID与当前昵称的主人不一致也拒绝
	stale := WithIdentity(ctx, Identity{UserID: phone.UserID, Nickname: "alice"})
	_, err = f.boards.Create(stale, "alice", "title", "content")
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))
	_, err = f.members.Profile(stale, "alice")
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))

	own := WithIdentity(ctx, Identity{UserID: mallory.ID, Nickname: "alice"})
	u, err := f.members.Profile(own, "alice")
	require.NoError(t, err)
	assert.Equal(t, "mallory@example.com", u.Email)
}

func TestRenameEndsEverySession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.members.Register(ctx, SignUp{NickName: "alice", Password: "pw", Email: "alice@example.com"})
	require.NoError(t, err)
	laptop, err := f.members.Login(ctx, "alice", "pw", false)
	require.NoError(t, err)
	phone, err := f.members.Login(ctx, "alice", "pw", false)
	require.NoError(t, err)

	require.NoError(t, f.members.ModifyProfile(ctx, "alice", laptop.ID, ProfileUpdate{NickName: ptr("alice2")}))
	_, ok := f.sessions.Resolve(ctx, laptop.ID)
	assert.False(t, ok)
	_, ok = f.sessions.Resolve(ctx, phone.ID)
	assert.False(t, ok)

	_, err = f.members.Register(ctx, SignUp{NickName: "alice", Password: "x", Email: "mallory@example.com"})
	require.NoError(t, err)
	_, err = f.members.Profile(WithIdentity(ctx, Identity{UserID: phone.UserID, Nickname: "alice"}), "alice")
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthorized))

	u, err := f.members.Profile(ctx, "alice2")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestPasswordChangeEndsEverySession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.members.Register(ctx, SignUp{NickName: "alice", Password: "pw", Email: "alice@example.com"})
	require.NoError(t, err)
	laptop, err := f.members.Login(ctx, "alice", "pw", false)
	require.NoError(t, err)
	phone, err := f.members.Login(ctx, "alice", "pw", false)
	require.NoError(t, err)

	require.NoError(t, f.members.ModifyProfile(ctx, "alice", laptop.ID, ProfileUpdate{Password: ptr("pw2")}))
	_, ok := f.sessions.Resolve(ctx, phone.ID)
	assert.False(t, ok)
}

// 只改球队等资料只注销当前会话
func TestModifyTeamsKeepsOtherSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.members.Register(ctx, SignUp{NickName: "alice", Password: "pw", Email: "alice@example.com"})
	require.NoError(t, err)
	laptop, err := f.members.Login(ctx, "alice", "pw", false)
	require.NoError(t, err)
	phone, err := f.members.Login(ctx, "alice", "pw", false)
	require.NoError(t, err)

	require.NoError(t, f.members.ModifyProfile(ctx, "alice", laptop.ID, ProfileUpdate{NickName: ptr("alice"), KboTeam: ptr("LG")}))
	_, ok := f.sessions.Resolve(ctx, laptop.ID)
	assert.False(t, ok)
	_, ok = f.sessions.Resolve(ctx, phone.ID)
	assert.True(t, ok)
}
