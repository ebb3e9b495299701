package email

import (
	"context"
	"fmt"
	"slices"

	"gopkg.in/gomail.v2"

	"github.com/verbatim-inc/verbatim/internal/domain/notification"
	"github.com/verbatim-inc/verbatim/internal/shared/config"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPTransport sends notification mail over SMTP.
type SMTPTransport struct {
	config config.EmailConfig
	sender Sender
	logger logger.Interface
}

func NewSMTPTransport(cfg config.EmailConfig, logger logger.Interface) *SMTPTransport {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return NewSMTPTransportWithSender(cfg, dialer, logger)
}

// NewSMTPTransportWithSender builds a transport around an existing sender.
func NewSMTPTransportWithSender(cfg config.EmailConfig, sender Sender, logger logger.Interface) *SMTPTransport {
	return &SMTPTransport{
		config: cfg,
		sender: sender,
		logger: logger,
	}
}

// Send delivers mail as is. An empty From falls back to the configured
// sender address.
func (s *SMTPTransport) Send(ctx context.Context, mail *notification.Mail) error {
	if len(mail.To) == 0 {
		return fmt.Errorf("failed to send email: no recipients")
	}
	from := mail.From
	if from == "" {
		from = s.config.FromAddress
	}
	return s.send(ctx, from, mail.To, mail.Subject, mail)
}

// MailAdmins broadcasts mail to the configured administrators from the
// server address with the subject prefix applied. Recipients in mail are
// ignored. Without configured admins nothing is sent.
func (s *SMTPTransport) MailAdmins(ctx context.Context, mail *notification.Mail) error {
	if len(s.config.Admins) == 0 {
		s.logger.Debugw("no admins configured, skipping admin mail", "subject", mail.Subject)
		return nil
	}
	return s.send(ctx, s.config.ServerEmail, s.config.Admins, s.config.SubjectPrefix+mail.Subject, mail)
}

func (s *SMTPTransport) send(ctx context.Context, from string, to []string, subject string, mail *notification.Mail) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)

	names := make([]string, 0, len(mail.Headers))
	for name := range mail.Headers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		m.SetHeader(name, mail.Headers[name])
	}

	m.SetBody("text/plain", mail.Body)
	if mail.HTMLBody != "" {
		m.AddAlternative("text/html", mail.HTMLBody)
	}

	if err := s.sender.DialAndSend(m); err != nil {
		s.logger.Errorw("failed to send email", "to", to, "subject", subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
