package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"sports_community/internal/model"
	"sports_community/internal/observability"
	"sports_community/internal/pkg"
	"sports_community/internal/repository/redis"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const maxNickNameRunes = 16

// KakaoProvider 外部协作方：授权地址、code 换 token、token 取用户信息
type KakaoProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Profile(ctx context.Context, tok *oauth2.Token) (*pkg.KakaoProfile, error)
}

type KakaoService struct {
	provider  KakaoProvider
	signer    *pkg.StateSigner
	states    *redis.OAuthStateRepository
	members   *MemberService
	redirects []string
}

func NewKakaoService(provider KakaoProvider, signer *pkg.StateSigner, rdb *goredis.Client, members *MemberService, allowedRedirects []string) *KakaoService {
	return &KakaoService{
		provider:  provider,
		signer:    signer,
		states:    &redis.OAuthStateRepository{RDB: rdb},
		members:   members,
		redirects: allowedRedirects,
	}
}

// AuthURL 回跳地址和自动登录标记写进签名 state，不落在服务实例上
func (s *KakaoService) AuthURL(ctx context.Context, redirectURI string, autoLogin bool) (string, error) {
	redirectURI = strings.TrimSpace(redirectURI)
	if redirectURI == "" && len(s.redirects) > 0 {
		redirectURI = s.redirects[0]
	}
	if !s.redirectAllowed(redirectURI) {
		return "", pkg.NewValidation("redirect uri not allowed")
	}
	state, nonce, err := s.signer.Sign(redirectURI, autoLogin)
	if err != nil {
		return "", pkg.NewInternal(err)
	}
	if err = s.states.Save(ctx, nonce, s.signer.TTL()); err != nil {
		return "", pkg.NewInternal(err)
	}
	return s.provider.AuthCodeURL(state), nil
}

func (s *KakaoService) redirectAllowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	for _, allowed := range s.redirects {
		allowed = strings.TrimSuffix(allowed, "/")
		if raw == allowed || strings.HasPrefix(raw, allowed+"/") || strings.HasPrefix(raw, allowed+"?") {
			return true
		}
	}
	return false
}

// Complete 校验 state，换取用户信息，首次登录自动注册，然后建立会话。
// 返回会话和前端回跳地址。
func (s *KakaoService) Complete(ctx context.Context, code, state string) (*Session, string, error) {
	if code == "" || state == "" {
		return nil, "", pkg.NewValidation("code and state are required")
	}
	claims, err := s.signer.Parse(state)
	if err != nil {
		return nil, "", &pkg.AppError{Code: pkg.CodeUnauthorized, Message: "invalid oauth state", Err: err}
	}
	if err = s.states.Consume(ctx, claims.ID); err != nil {
		return nil, "", &pkg.AppError{Code: pkg.CodeUnauthorized, Message: "oauth state already used", Err: err}
	}

	tok, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, "", &pkg.AppError{Code: pkg.CodeUnauthorized, Message: "kakao code exchange failed", Err: err}
	}
	profile, err := s.provider.Profile(ctx, tok)
	if err != nil {
		return nil, "", &pkg.AppError{Code: pkg.CodeUnauthorized, Message: "kakao profile failed", Err: err}
	}

	user, err := s.provisionOrFind(ctx, profile)
	if err != nil {
		return nil, "", err
	}
	sess, err := s.members.EstablishSession(ctx, user, claims.AutoLogin)
	if err != nil {
		return nil, "", err
	}
	observability.Logger.InfoContext(ctx, "kakao login", slog.Uint64("user_id", user.ID))
	return sess, claims.RedirectURI, nil
}

// kakaoEmail 只有 kakao 验证过的邮箱才用于关联已有账号，其余一律使用占位邮箱
func kakaoEmail(p *pkg.KakaoProfile) string {
	if p.Email != "" && p.EmailVerified {
		return p.Email
	}
	return p.IDString() + kakaoPlaceholderDomain
}

func (s *KakaoService) provisionOrFind(ctx context.Context, p *pkg.KakaoProfile) (*model.User, error) {
	email := kakaoEmail(p)
	user, err := s.members.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.NewInternal(err)
	}

	base := []rune(strings.TrimSpace(p.Nickname))
	if len(base) == 0 {
		base = []rune("kakao")
	}
	if len(base) > maxNickNameRunes {
		base = base[:maxNickNameRunes]
	}
	candidates := []string{string(base), fmt.Sprintf("%s_%d", string(base), p.ID)}
	if suffix, err := pkg.RandDigits(6); err == nil {
		candidates = append(candidates, string(base)+"_"+suffix)
	}

	for _, nick := range candidates {
		user, err = s.members.Register(ctx, SignUp{
			NickName:    nick,
			Password:    uuid.NewString(), // 占位密码，社交账号不走密码登录
			Email:       email,
			LoginMethod: model.LoginKakao,
			Profile:     p.ProfileImage,
		})
		if err == nil {
			return user, nil
		}
		if !pkg.IsCode(err, pkg.CodeConflict) {
			return nil, err
		}
		// 冲突也可能来自并发注册了同一邮箱
		if existing, ferr := s.members.users.FindByEmail(ctx, email); ferr == nil {
			return existing, nil
		}
	}
	return nil, pkg.NewConflict("no available nickname for kakao account")
}
