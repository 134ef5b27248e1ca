package service

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/resendlabs/resend-go"
	"github.com/rs/zerolog"

	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/logger"
)

// NewMailer picks the transport named by MAIL_PROVIDER
func NewMailer(cfg *config.Config) (Mailer, error) {
	switch cfg.MailProvider {
	case "smtp":
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.MailFromName), nil
	case "resend":
		return NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom, cfg.MailFromName), nil
	case "log", "":
		return NewLogMailer(), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider %q", cfg.MailProvider)
	}
}

type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(host, port, username, password, from, fromName string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
		send:     smtp.SendMail,
	}
}

// SendEmail sends a multipart/alternative message with text and HTML parts
func (m *SMTPMailer) SendEmail(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	msg := buildMessage(formatFrom(m.fromName, m.from), to, subject, htmlBody, textBody)
	if err := m.send(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

const mimeBoundary = "recipeshare-alternative"

func buildMessage(from, to, subject, htmlBody, textBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mimeBoundary)

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	return []byte(b.String())
}

func formatFrom(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}

type ResendMailer struct {
	client   *resend.Client
	from     string
	fromName string
}

func NewResendMailer(apiKey, from, fromName string) *ResendMailer {
	return &ResendMailer{
		client:   resend.NewClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

func (m *ResendMailer) SendEmail(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    formatFrom(m.fromName, m.from),
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
		Text:    textBody,
	}
	if _, err := m.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email via resend: %w", err)
	}
	return nil
}

// LogMailer writes emails to the log instead of sending them
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer() *LogMailer {
	return &LogMailer{log: logger.Component("mailer")}
}

func (m *LogMailer) SendEmail(_ context.Context, to, subject, _, textBody string) error {
	m.log.Info().Str("to", to).Str("subject", subject).Str("body", textBody).Msg("Mail transport not configured, logging email")
	return nil
}
