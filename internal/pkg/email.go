package pkg

import (
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

// Enabled 未配置 Host 时不发信
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return d.DialAndSend(m)
}

func WelcomeHTML(nickname string) string {
	return fmt.Sprintf(`<p>%s 님, 환영합니다!</p><p>스포츠 커뮤니티 가입이 완료되었습니다. 응원하는 팀의 게시판에서 만나요.</p>`, html.EscapeString(nickname))
}
