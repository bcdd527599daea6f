// internal/app/system/mailer/mailer.go
//
// Package mailer delivers the engine's outbound email. Delivery is
// best-effort by contract: callers fire it after their transaction
// commits and must not let a send failure affect the mutation result.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is one outbound message with both text and HTML bodies.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds SMTP connection settings, loaded from app config.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Mailer sends email over SMTP.
type Mailer struct {
	cfg  Config
	auth smtp.Auth
	log  *zap.Logger
}

// New constructs a Mailer. Auth is skipped when no username is set
// (local Mailpit-style servers).
func New(cfg Config, logger *zap.Logger) *Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &Mailer{cfg: cfg, auth: auth, log: logger}
}

// Send delivers one email. It implements the engine's Notifier
// contract: a nil error means the message was accepted by the SMTP
// server, anything else is reported to the caller to log and drop.
func (m *Mailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := m.encode(Email{To: to, Subject: subject, TextBody: textBody, HTMLBody: htmlBody})
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	if err := smtp.SendMail(addr, m.auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	m.log.Debug("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// encode builds a multipart/alternative message so clients can pick
// the HTML or text body.
func (m *Mailer) encode(e Email) []byte {
	const boundary = "sprinthub-alt"

	var b strings.Builder
	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, e.TextBody)
	if e.HTMLBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, e.HTMLBody)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}
