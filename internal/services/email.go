package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/draytht/nocarry/internal/config"
	"github.com/draytht/nocarry/pkg/logger"
)

// EmailService delivers invite emails over SMTP. When unconfigured it is a
// no-op; callers surface the raw accept link instead.
type EmailService struct {
	cfg *config.EmailConfig
}

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Configured reports whether an outbound delivery channel exists.
func (s *EmailService) Configured() bool {
	return s.cfg.Enabled && s.cfg.Host != ""
}

// SendInviteMail delivers one invite. Satisfies the mail queue's sender
// signature so it works for both sync and async dispatch.
func (s *EmailService) SendInviteMail(_ context.Context, mail *InviteMail) error {
	if !s.Configured() {
		logger.Infof("[Email] No SMTP configured, invite link: %s", mail.AcceptURL)
		return nil
	}

	subject := fmt.Sprintf("%s invited you to join %s on NoCarry", mail.InviterName, mail.ProjectName)
	body := s.buildInviteBody(mail)

	return s.send([]string{mail.To}, subject, body)
}

func (s *EmailService) buildInviteBody(mail *InviteMail) string {
	var sb strings.Builder

	sb.WriteString("<html><body style=\"font-family: system-ui, sans-serif; max-width: 480px; margin: 0 auto; padding: 40px 24px;\">")
	sb.WriteString("<h1 style=\"font-size: 22px; margin: 0 0 8px;\">You've been invited!</h1>")
	sb.WriteString(fmt.Sprintf(
		"<p style=\"font-size: 15px; line-height: 1.6;\"><strong>%s</strong> has invited you to join <strong>%s</strong> as a <strong>%s</strong>.</p>",
		mail.InviterName, mail.ProjectName, mail.RoleLabel))
	sb.WriteString(fmt.Sprintf(
		"<a href=\"%s\" style=\"display: inline-block; background: #6366f1; color: #fff; padding: 12px 28px; border-radius: 8px; text-decoration: none; font-weight: 700;\">Accept Invite</a>",
		mail.AcceptURL))
	sb.WriteString("<p style=\"color: #888; font-size: 12px; margin-top: 32px;\">This invite link expires in 7 days.<br>If you didn't expect this, you can safely ignore it.</p>")
	sb.WriteString("</body></html>")

	return sb.String()
}

func (s *EmailService) send(to []string, subject, body string) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	headers := map[string]string{
		"From":         from,
		"To":           strings.Join(to, ","),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var err error
	if s.cfg.UseTLS {
		err = s.sendTLS(addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, to, []byte(message.String()))
	}

	if err != nil {
		logger.Warnf("[Email] Failed to send invite email: %v", err)
		return err
	}

	logger.Infof("[Email] Sent invite to %v", to)
	return nil
}

func (s *EmailService) sendTLS(addr string, auth smtp.Auth, from string, to []string, message string) error {
	tlsConfig := &tls.Config{
		ServerName: s.cfg.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}

	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte(message)); err != nil {
		return err
	}

	return w.Close()
}
