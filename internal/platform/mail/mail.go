// Package mail provides outbound email delivery. The Mailer interface keeps
// callers independent of the transport; the SMTP implementation covers
// production, and tests substitute in-memory fakes.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/taskhive/taskhive-api/internal/config"
)

// Sender addresses used by the notification emails. The assignment and
// summary senders differ; both are kept as written.
const (
	AssignmentSender   = "no-reply@projectmanager.com"
	DailySummarySender = "noreply@projectmanager.com"
)

// Message is a plain-text email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Mailer delivers email messages.
type Mailer interface {
	// Send delivers the message. Returns an error if delivery fails; callers
	// decide whether and how to retry.
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers messages through a single SMTP relay.
type SMTPMailer struct {
	addr   string
	auth   smtp.Auth
	logger *slog.Logger
}

// NewSMTPMailer creates a Mailer backed by the configured SMTP relay.
// Authentication is only used when a username is configured.
func NewSMTPMailer(cfg config.MailConfig, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPHost)
	}

	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth:   auth,
		logger: logger.With(slog.String("component", "smtp_mailer")),
	}
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)

// Send implements Mailer.Send
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(msg.To) == 0 {
		return fmt.Errorf("message has no recipients")
	}

	payload := buildPayload(msg)

	if err := smtp.SendMail(m.addr, m.auth, msg.From, msg.To, payload); err != nil {
		m.logger.Error("failed to send email",
			slog.String("error", err.Error()),
			slog.String("subject", msg.Subject),
			slog.Int("recipient_count", len(msg.To)))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug("email sent",
		slog.String("subject", msg.Subject),
		slog.Int("recipient_count", len(msg.To)))
	return nil
}

func buildPayload(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
