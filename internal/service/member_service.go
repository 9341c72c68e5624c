package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"sports_community/internal/model"
	"sports_community/internal/observability"
	"sports_community/internal/pkg"
	"sports_community/internal/repository/mysql"
	"sports_community/internal/repository/redis"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// kakao 未授权邮箱时使用的占位域名
const kakaoPlaceholderDomain = "@kakao.local"

type Teams struct {
	MlbTeam  string
	KboTeam  string
	KlTeam   string
	PlTeam   string
	KblTeam  string
	NbaTeam  string
	VmanTeam string
	VwoTeam  string
}

type SignUp struct {
	NickName    string
	Password    string
	Email       string
	LoginMethod string
	Profile     string
	Teams       Teams
}

// ProfileUpdate nil 表示不修改，非 nil 即覆盖（可选字段允许清空）
type ProfileUpdate struct {
	NickName *string
	Password *string
	Email    *string
	Profile  *string
	MlbTeam  *string
	KboTeam  *string
	KlTeam   *string
	PlTeam   *string
	KblTeam  *string
	NbaTeam  *string
	VmanTeam *string
	VwoTeam  *string
}

type MemberService struct {
	users     *mysql.UserRepository
	sessions  *SessionService
	likeCache *redis.LikeCacheRepository
	email     *EmailService
}

func NewMemberService(db *gorm.DB, rdb *goredis.Client, sessions *SessionService, email *EmailService) *MemberService {
	return &MemberService{
		users:     &mysql.UserRepository{DB: db},
		sessions:  sessions,
		likeCache: redis.NewLikeCacheRepository(rdb),
		email:     email,
	}
}

// Register 昵称/邮箱唯一性由数据库唯一索引保证
func (s *MemberService) Register(ctx context.Context, in SignUp) (*model.User, error) {
	in.NickName = strings.TrimSpace(in.NickName)
	in.Email = strings.TrimSpace(in.Email)
	if in.NickName == "" || in.Password == "" || in.Email == "" {
		return nil, pkg.NewValidation("nickname, password and email are required")
	}
	if in.LoginMethod == "" {
		in.LoginMethod = model.LoginEmail
	}
	switch in.LoginMethod {
	case model.LoginEmail, model.LoginKakao, model.LoginNaver:
	default:
		return nil, pkg.NewValidation("unknown login method")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, pkg.NewInternal(err)
	}
	user := &model.User{
		NickName:    in.NickName,
		Password:    string(hash),
		Email:       in.Email,
		Auth:        model.RoleCommon,
		LoginMethod: in.LoginMethod,
		Profile:     in.Profile,
		MlbTeam:     in.Teams.MlbTeam,
		KboTeam:     in.Teams.KboTeam,
		KlTeam:      in.Teams.KlTeam,
		PlTeam:      in.Teams.PlTeam,
		KblTeam:     in.Teams.KblTeam,
		NbaTeam:     in.Teams.NbaTeam,
		VmanTeam:    in.Teams.VmanTeam,
		VwoTeam:     in.Teams.VwoTeam,
	}
	if err = s.users.Create(ctx, user); err != nil {
		return nil, translate(err, "member")
	}
	observability.Logger.InfoContext(ctx, "member registered",
		slog.Uint64("user_id", user.ID), slog.String("login_method", user.LoginMethod))

	if s.email != nil && !strings.HasSuffix(user.Email, kakaoPlaceholderDomain) {
		s.email.SendWelcomeAsync(user.Email, user.NickName)
	}
	return user, nil
}

func (s *MemberService) IsNicknameTaken(ctx context.Context, nickName string) (bool, error) {
	ok, err := s.users.ExistsNickName(ctx, strings.TrimSpace(nickName))
	return ok, translate(err, "member")
}

func (s *MemberService) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	ok, err := s.users.ExistsEmail(ctx, strings.TrimSpace(email))
	return ok, translate(err, "member")
}

// Authenticate 不区分昵称不存在和密码错误
func (s *MemberService) Authenticate(ctx context.Context, nickName, password string) (bool, error) {
	user, err := s.checkPassword(ctx, nickName, password)
	return user != nil, err
}

// checkPassword 凭证不对时返回 nil, nil
func (s *MemberService) checkPassword(ctx context.Context, nickName, password string) (*model.User, error) {
	user, err := s.users.FindByNickName(ctx, nickName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkg.NewInternal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}

func (s *MemberService) EstablishSession(ctx context.Context, user *model.User, autoLogin bool) (*Session, error) {
	return s.sessions.Establish(ctx, user.ID, user.NickName, autoLogin)
}

func (s *MemberService) TerminateSession(ctx context.Context, sessionID string) error {
	return s.sessions.Terminate(ctx, sessionID)
}

// Login 校验密码后建立会话
func (s *MemberService) Login(ctx context.Context, nickName, password string, autoLogin bool) (*Session, error) {
	user, err := s.checkPassword(ctx, nickName, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkg.NewUnauthorized("invalid credentials")
	}
	return s.EstablishSession(ctx, user, autoLogin)
}

func (s *MemberService) Profile(ctx context.Context, nickName string) (*model.User, error) {
	return currentUser(ctx, s.users, nickName)
}

// ModifyProfile 修改后强制重新登录；改了昵称或密码时注销该用户全部会话
func (s *MemberService) ModifyProfile(ctx context.Context, nickName, sessionID string, upd ProfileUpdate) error {
	user, err := currentUser(ctx, s.users, nickName)
	if err != nil {
		return err
	}

	fields := map[string]any{}
	required := []struct {
		col string
		val *string
	}{
		{"nick_name", upd.NickName},
		{"email", upd.Email},
	}
	for _, f := range required {
		if f.val == nil {
			continue
		}
		v := strings.TrimSpace(*f.val)
		if v == "" {
			return pkg.NewValidation(f.col + " cannot be blank")
		}
		fields[f.col] = v
	}
	if upd.Password != nil {
		if *upd.Password == "" {
			return pkg.NewValidation("password cannot be blank")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return pkg.NewInternal(err)
		}
		fields["password"] = string(hash)
	}
	optional := map[string]*string{
		"profile":   upd.Profile,
		"mlb_team":  upd.MlbTeam,
		"kbo_team":  upd.KboTeam,
		"kl_team":   upd.KlTeam,
		"pl_team":   upd.PlTeam,
		"kbl_team":  upd.KblTeam,
		"nba_team":  upd.NbaTeam,
		"vman_team": upd.VmanTeam,
		"vwo_team":  upd.VwoTeam,
	}
	for col, val := range optional {
		if val != nil {
			fields[col] = strings.TrimSpace(*val)
		}
	}

	if err = s.users.Update(ctx, user.ID, fields); err != nil {
		return translate(err, "nickname or email")
	}
	renamed := upd.NickName != nil && strings.TrimSpace(*upd.NickName) != user.NickName
	if renamed || upd.Password != nil {
		err = s.sessions.TerminateAll(ctx, user.ID)
	} else {
		err = s.sessions.Terminate(ctx, sessionID)
	}
	if err != nil {
		observability.Logger.WarnContext(ctx, "terminate session after profile update failed", slog.Any("error", err))
	}
	return nil
}

// DeleteAccount 级联删除用户数据并注销该用户全部会话
func (s *MemberService) DeleteAccount(ctx context.Context, nickName string) error {
	user, err := currentUser(ctx, s.users, nickName)
	if err != nil {
		return err
	}
	touched, err := s.users.DeleteCascade(ctx, user.ID)
	if err != nil {
		return translate(err, "member")
	}
	if err = s.likeCache.Invalidate(ctx, touched...); err != nil {
		observability.Logger.WarnContext(ctx, "invalidate like cache failed", slog.Any("error", err))
	}
	if err = s.sessions.TerminateAll(ctx, user.ID); err != nil {
		observability.Logger.WarnContext(ctx, "terminate sessions after delete failed", slog.Any("error", err))
	}
	observability.Logger.InfoContext(ctx, "member deleted", slog.Uint64("user_id", user.ID))
	return nil
}

// currentUser 会话昵称解析为用户，解析不到视为未登录。
// context 带有会话身份时还要求用户ID一致：昵称释放后被他人注册，旧会话不能冒用新账号
func currentUser(ctx context.Context, users *mysql.UserRepository, nickName string) (*model.User, error) {
	if nickName == "" {
		return nil, pkg.NewUnauthorized("login required")
	}
	user, err := users.FindByNickName(ctx, nickName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.NewUnauthorized("member not found")
	}
	if err != nil {
		return nil, pkg.NewInternal(err)
	}
	if id, ok := identityFrom(ctx); ok && id.Nickname == nickName && id.UserID != user.ID {
		return nil, pkg.NewUnauthorized("session no longer valid")
	}
	return user, nil
}
