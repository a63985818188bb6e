package notification

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/nimbus-works/identity-service/internal/config"
)

// Mailer delivers a single message to an address. Implementations report
// delivery failure through the returned error; the caller decides whether
// that failure is fatal for the surrounding operation.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewMailer selects an implementation from configuration: SMTP when an
// address is configured, otherwise a log-only mailer for development.
func NewMailer(cfg config.NotificationConfig, logger *zap.Logger) Mailer {
	if strings.TrimSpace(cfg.SMTPAddr) != "" {
		return NewSMTPMailer(cfg)
	}
	logger.Warn("SMTP_ADDR not provided; outbound email will only be logged")
	return NewLogMailer(cfg.EmailFrom, logger)
}

// SMTPMailer sends HTML mail through a plain SMTP endpoint.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer builds the mailer from notification settings.
func NewSMTPMailer(cfg config.NotificationConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		host, _, err := net.SplitHostPort(cfg.SMTPAddr)
		if err != nil {
			host = cfg.SMTPAddr
		}
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, host)
	}
	return &SMTPMailer{addr: cfg.SMTPAddr, from: cfg.EmailFrom, auth: auth}
}

// Send delivers the message. SMTP has no cancellation hook, so the context
// is only consulted before dialing.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n"+
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		m.from, to, subject, body)

	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}

// LogMailer records outbound mail instead of sending it.
type LogMailer struct {
	from   string
	logger *zap.Logger
}

// NewLogMailer builds the log-only mailer.
func NewLogMailer(from string, logger *zap.Logger) *LogMailer {
	return &LogMailer{from: from, logger: logger}
}

// Send logs the message and always succeeds.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("outbound email",
		zap.String("from", m.from),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}
