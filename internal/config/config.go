// Package config 从 .env、config.yml 和环境变量加载配置。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultStateSecret = "change-me-state-secret"

type Config struct {
	AppEnv string `mapstructure:"APP_ENV"`
	Port   string `mapstructure:"PORT"`

	DBDriver string `mapstructure:"DB_DRIVER"`
	DBDSN    string `mapstructure:"DB_DSN"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	SessionCookieName string        `mapstructure:"SESSION_COOKIE_NAME"`
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL"`
	AutoLoginTTL      time.Duration `mapstructure:"AUTO_LOGIN_TTL"`
	CookieSecure      bool          `mapstructure:"COOKIE_SECURE"`

	StateSecret string        `mapstructure:"STATE_SECRET"`
	StateTTL    time.Duration `mapstructure:"STATE_TTL"`

	KakaoAppKey       string `mapstructure:"KAKAO_APP_KEY"`
	KakaoClientSecret string `mapstructure:"KAKAO_CLIENT_SECRET"`
	KakaoRedirectURI  string `mapstructure:"KAKAO_REDIRECT_URI"`
	KakaoAuthURL      string `mapstructure:"KAKAO_AUTH_URL"`
	KakaoTokenURL     string `mapstructure:"KAKAO_TOKEN_URL"`
	KakaoUserInfoURL  string `mapstructure:"KAKAO_USER_INFO_URL"`

	AllowedOrigins   string `mapstructure:"ALLOWED_ORIGINS"`
	AllowedRedirects string `mapstructure:"ALLOWED_REDIRECTS"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	OutboxInterval    time.Duration `mapstructure:"OUTBOX_INTERVAL"`
	OutboxBatch       int           `mapstructure:"OUTBOX_BATCH"`
	OutboxRetention   time.Duration `mapstructure:"OUTBOX_RETENTION"` // 已投递事件保留时长
	ReconcileInterval time.Duration `mapstructure:"RECONCILE_INTERVAL"`
	ReconcileBatch    int           `mapstructure:"RECONCILE_BATCH"`
}

var defaults = map[string]any{
	"APP_ENV":             "development",
	"PORT":                "8080",
	"DB_DRIVER":           "mysql",
	"DB_DSN":              "root:password@tcp(127.0.0.1:3306)/sports_community?charset=utf8mb4&parseTime=True&loc=Local",
	"REDIS_ADDR":          "127.0.0.1:6379",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"SESSION_COOKIE_NAME": "SESSIONID",
	"SESSION_TTL":         "30m",
	"AUTO_LOGIN_TTL":      "168h",
	"COOKIE_SECURE":       false,
	"STATE_SECRET":        defaultStateSecret,
	"STATE_TTL":           "10m",
	"KAKAO_APP_KEY":       "",
	"KAKAO_CLIENT_SECRET": "",
	"KAKAO_REDIRECT_URI":  "http://localhost:8080/kakao/code",
	"KAKAO_AUTH_URL":      "https://kauth.kakao.com/oauth/authorize",
	"KAKAO_TOKEN_URL":     "https://kauth.kakao.com/oauth/token",
	"KAKAO_USER_INFO_URL": "https://kapi.kakao.com/v2/user/me",
	"ALLOWED_ORIGINS":     "http://localhost:3000",
	"ALLOWED_REDIRECTS":   "http://localhost:3000",
	"KAFKA_BROKERS":       "",
	"KAFKA_TOPIC":         "community.like.events",
	"SMTP_HOST":           "",
	"SMTP_PORT":           587,
	"SMTP_USERNAME":       "",
	"SMTP_PASSWORD":       "",
	"SMTP_FROM":           "",
	"OUTBOX_INTERVAL":     "1s",
	"OUTBOX_BATCH":        200,
	"OUTBOX_RETENTION":    "168h",
	"RECONCILE_INTERVAL":  "5m",
	"RECONCILE_BATCH":     500,
}

// Load 优先级：环境变量 > config.yml > .env > 默认值
func Load() (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.StateSecret == "" {
		return errors.New("STATE_SECRET is required")
	}
	if c.IsProduction() {
		if c.StateSecret == defaultStateSecret || len(c.StateSecret) < 32 {
			return errors.New("STATE_SECRET must be set to at least 32 bytes in production")
		}
		if !c.CookieSecure {
			return errors.New("COOKIE_SECURE must be true in production")
		}
	}
	if c.SessionTTL <= 0 || c.AutoLoginTTL <= 0 {
		return errors.New("SESSION_TTL and AUTO_LOGIN_TTL must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func (c *Config) Origins() []string { return splitList(c.AllowedOrigins) }

func (c *Config) Redirects() []string { return splitList(c.AllowedRedirects) }

func (c *Config) Brokers() []string { return splitList(c.KafkaBrokers) }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
