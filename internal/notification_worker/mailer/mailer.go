package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/fraud-screening-ledger/internal/config"
	"github.com/fraud-screening-ledger/internal/domain/shared"
)

// SendFunc matches smtp.SendMail
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// ErrUnsupportedKind is returned for events the mailer has no template for
var ErrUnsupportedKind = errors.New("unsupported notification kind")

// SMTPMailer renders notification events as plain-text mail
type SMTPMailer struct {
	cfg    config.MailConfig
	send   SendFunc
	logger *slog.Logger
}

func NewSMTPMailer(cfg config.MailConfig, logger *slog.Logger) *SMTPMailer {
	return NewSMTPMailerWithSender(cfg, smtp.SendMail, logger)
}

// NewSMTPMailerWithSender creates a mailer that delivers through send
func NewSMTPMailerWithSender(cfg config.MailConfig, send SendFunc, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: send, logger: logger}
}

// Send renders and delivers the mail for event
func (m *SMTPMailer) Send(ctx context.Context, event *shared.NotificationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		recipient string
		subject   string
		body      string
		err       error
	)
	switch event.Kind {
	case shared.NotificationVerificationRequest:
		recipient = m.cfg.To
		subject = fmt.Sprintf("Please verify a transaction for user %s", event.UserID)
		body, err = m.verificationBody(event)
	case shared.NotificationFraudAlert:
		recipient = m.cfg.AlertTo
		if recipient == "" {
			recipient = m.cfg.To
		}
		subject = fmt.Sprintf("Fraud alert for user %s", event.UserID)
		body = alertBody(event)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, event.Kind)
	}
	if err != nil {
		return err
	}

	msg := buildMessage(m.cfg.From, recipient, subject, body, time.Now())
	addr := net.JoinHostPort(m.cfg.SMTPHost, strconv.Itoa(m.cfg.SMTPPort))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	if err := m.send(addr, auth, m.cfg.From, []string{recipient}, msg); err != nil {
		return fmt.Errorf("failed to send %s mail to %s: %w", event.Kind, recipient, err)
	}

	m.logger.Info("Mail sent", "kind", event.Kind, "user_id", event.UserID, "to", recipient, "event_id", event.EventID.String())
	return nil
}

// VerificationLinks returns the confirm and deny URLs for a pending transaction
func VerificationLinks(baseURL string, event *shared.NotificationEvent) (yes string, no string, err error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse verify base url: %w", err)
	}
	if !base.IsAbs() {
		return "", "", fmt.Errorf("verify base url %q is not absolute", baseURL)
	}

	link := func(confirm string) string {
		u := *base
		q := u.Query()
		q.Set("user_id", event.UserID)
		q.Set("amount", event.Amount.String())
		q.Set("location", event.Location)
		q.Set("timestamp", event.Timestamp)
		q.Set("confirm", confirm)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return link("yes"), link("no"), nil
}

func (m *SMTPMailer) verificationBody(event *shared.NotificationEvent) (string, error) {
	yes, no, err := VerificationLinks(m.cfg.VerifyBaseURL, event)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A transaction was flagged as possible fraud.\r\n\r\n")
	writeDetails(&b, event)
	fmt.Fprintf(&b, "\r\nWas this transaction made by you?\r\n\r\n")
	fmt.Fprintf(&b, "Yes, it was me: %s\r\n", yes)
	fmt.Fprintf(&b, "No, deny it: %s\r\n", no)
	return b.String(), nil
}

func alertBody(event *shared.NotificationEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A transaction was classified as FRAUD and is awaiting verification.\r\n\r\n")
	writeDetails(&b, event)
	return b.String()
}

func writeDetails(b *strings.Builder, event *shared.NotificationEvent) {
	fmt.Fprintf(b, "User:      %s\r\n", event.UserID)
	fmt.Fprintf(b, "Amount:    %s\r\n", event.Amount.String())
	fmt.Fprintf(b, "Location:  %s\r\n", event.Location)
	fmt.Fprintf(b, "Timestamp: %s\r\n", event.Timestamp)
}

func buildMessage(from, to, subject, body string, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", headerValue(from))
	fmt.Fprintf(&b, "To: %s\r\n", headerValue(to))
	fmt.Fprintf(&b, "Subject: %s\r\n", headerValue(subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// headerValue folds control characters into spaces so a value cannot start a new header
func headerValue(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}
