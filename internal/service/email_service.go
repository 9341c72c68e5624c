package service

import (
	"context"
	"log/slog"

	"sports_community/internal/observability"
	"sports_community/internal/pkg"
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	send     func(cfg pkg.SMTPConfig, to, subject, htmlBody string) error
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{emailCfg: cfg, send: pkg.SendEmail}
}

// SendWelcome 未配置 SMTP 时直接跳过
func (s *EmailService) SendWelcome(email, nickname string) error {
	if !s.emailCfg.Enabled() {
		return nil
	}
	return s.send(s.emailCfg, email, "가입을 환영합니다", pkg.WelcomeHTML(nickname))
}

// SendWelcomeAsync 注册不因发信失败而失败
func (s *EmailService) SendWelcomeAsync(email, nickname string) {
	go func() {
		if err := s.SendWelcome(email, nickname); err != nil {
			observability.Logger.LogAttrs(context.Background(), slog.LevelWarn, "welcome mail failed",
				slog.String("email", email), slog.Any("error", err))
		}
	}()
}
