package mail

import (
	"crypto/tls"
	"fmt"
	"time"

	"mindhaven/config"

	"gopkg.in/gomail.v2"
)

// Mailer 通过 SMTP 发送邮件
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send 发送 HTML 邮件
func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: m.cfg.Host}
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

// SendPasswordReset 发送找回密码令牌
func (m *Mailer) SendPasswordReset(to, token string, ttl time.Duration) error {
	return m.Send(to, "Reset your password", PasswordResetHTML(token, ttl))
}

// PasswordResetHTML 找回密码邮件正文
func PasswordResetHTML(token string, ttl time.Duration) string {
	return fmt.Sprintf(`<p>Hello,</p><p>Use the token below to reset your password:</p><p><b style="font-size:16px;">%s</b></p><p>It expires in %d minutes. If you did not request this, ignore this email.</p>`,
		token, int(ttl.Minutes()))
}
