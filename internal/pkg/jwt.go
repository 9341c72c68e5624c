package pkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrStateExpired = errors.New("state expired")
	ErrStateInvalid = errors.New("state invalid")
)

const (
	DefaultStateTTL = 10 * time.Minute
	stateSubject    = "kakao_state"
)

// StateClaims OAuth state 中携带的登录上下文，替代服务端实例字段
type StateClaims struct {
	RedirectURI string `json:"redirect_uri"`
	AutoLogin   bool   `json:"auto_login"`
	jwt.RegisteredClaims
}

type StateSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewStateSigner(secret string, ttl time.Duration) *StateSigner {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &StateSigner{secret: []byte(secret), ttl: ttl}
}

func (s *StateSigner) TTL() time.Duration { return s.ttl }

// Sign 返回签名后的 state 以及其中的一次性 nonce(jti)
func (s *StateSigner) Sign(redirectURI string, autoLogin bool) (string, string, error) {
	now := time.Now()
	nonce := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, StateClaims{
		RedirectURI: redirectURI,
		AutoLogin:   autoLogin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			Subject:   stateSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return signed, nonce, nil
}

func (s *StateSigner) Parse(state string) (*StateClaims, error) {
	token, err := jwt.ParseWithClaims(state, &StateClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithSubject(stateSubject))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrStateExpired
		}
		return nil, ErrStateInvalid
	}
	claims, ok := token.Claims.(*StateClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrStateInvalid
	}
	return claims, nil
}
