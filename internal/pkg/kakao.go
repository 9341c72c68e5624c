package pkg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
)

const (
	KakaoAuthURL     = "https://kauth.kakao.com/oauth/authorize"
	KakaoTokenURL    = "https://kauth.kakao.com/oauth/token"
	KakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"
)

var ErrKakaoProfile = errors.New("kakao profile request failed")

type KakaoConfig struct {
	ClientID     string // REST API 키
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
}

type KakaoProfile struct {
	ID            int64
	Nickname      string
	Email         string
	EmailVerified bool // kakao_account.is_email_verified
	ProfileImage  string
}

func (p *KakaoProfile) IDString() string { return strconv.FormatInt(p.ID, 10) }

type kakaoUserInfo struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
	KakaoAccount struct {
		Email           string `json:"email"`
		IsEmailVerified bool   `json:"is_email_verified"`
	} `json:"kakao_account"`
}

type KakaoClient struct {
	conf        *oauth2.Config
	userInfoURL string
}

func NewKakaoClient(cfg KakaoConfig) *KakaoClient {
	if cfg.AuthURL == "" {
		cfg.AuthURL = KakaoAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = KakaoTokenURL
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = KakaoUserInfoURL
	}
	return &KakaoClient{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
				// kakao 要求 client_id 放在表单参数中
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: cfg.UserInfoURL,
	}
}

// AuthCodeURL 拼出 response_type=code 的授权地址
func (k *KakaoClient) AuthCodeURL(state string) string {
	return k.conf.AuthCodeURL(state)
}

func (k *KakaoClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return k.conf.Exchange(ctx, code)
}

func (k *KakaoClient) Profile(ctx context.Context, tok *oauth2.Token) (*KakaoProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := k.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrKakaoProfile, resp.StatusCode, body)
	}
	var info kakaoUserInfo
	if err = json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKakaoProfile, err)
	}
	if info.ID == 0 {
		return nil, fmt.Errorf("%w: missing id", ErrKakaoProfile)
	}
	return &KakaoProfile{
		ID:            info.ID,
		Nickname:      info.Properties.Nickname,
		Email:         info.KakaoAccount.Email,
		EmailVerified: info.KakaoAccount.IsEmailVerified,
		ProfileImage:  info.Properties.ProfileImage,
	}, nil
}
