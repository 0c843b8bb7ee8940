package usecase

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"content-review/pkg/utils"
)

// Mailer delivers confirmation codes out-of-band. SMTP transport is a
// deployment concern; the flow only needs this contract.
type Mailer interface {
	SendConfirmationCode(ctx context.Context, email, code string) error
}

// LogMailer writes the code to the log instead of sending mail. Used
// in development and tests.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.With(zap.String("mailer", "log"))}
}

func (m *LogMailer) SendConfirmationCode(_ context.Context, email, code string) error {
	m.log.Info("Confirmation code issued",
		zap.String("email", email),
		zap.String("confirmation_code", code),
	)
	return nil
}

// SMTPMailer sends the code through a plain SMTP relay.
type SMTPMailer struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func NewSMTPMailer(config utils.EmailConfig, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		log:    log.With(zap.String("mailer", "smtp")),
	}
}

func (m *SMTPMailer) SendConfirmationCode(_ context.Context, email, code string) error {
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.User != "" {
		auth = smtp.PlainAuth("", m.config.User, m.config.Password, m.config.Host)
	}

	msg := []byte("From: " + m.config.From + "\r\n" +
		"To: " + email + "\r\n" +
		"Subject: Your confirmation code\r\n" +
		"\r\n" +
		"Your confirmation code: " + code + "\r\n")

	if err := smtp.SendMail(addr, auth, m.config.From, []string{email}, msg); err != nil {
		return fmt.Errorf("send confirmation code to %s: %w", email, err)
	}

	m.log.Info("Confirmation code sent", zap.String("email", email))
	return nil
}
