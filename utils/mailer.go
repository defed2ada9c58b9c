package utils

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"
)

// EmailMessage is one outgoing email with plain and HTML alternatives.
type EmailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// SMTPMailer delivers mail through an authenticated SMTP relay.
type SMTPMailer struct {
	Host        string
	Port        string
	Username    string
	Password    string
	FromName    string
	FromAddress string
}

func safeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

// BuildMIME renders msg as a multipart/alternative message.
func BuildMIME(from string, msg EmailMessage) []byte {
	boundary := "----=_RSVP_EMAIL_BOUNDARY"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", safeHeader(from)))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", safeHeader(msg.To)))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", safeHeader(msg.Subject)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(msg.Text + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(msg.HTML + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(sb.String())
}

func (m *SMTPMailer) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := fmt.Sprintf("%s <%s>", m.FromName, m.FromAddress)
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)

	if err := smtp.SendMail(addr, auth, m.FromAddress, []string{msg.To}, BuildMIME(from, msg)); err != nil {
		log.Error().Err(err).Str("to", msg.To).Msg("❌ email send failed")
		return err
	}

	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("📧 email sent")
	return nil
}

// MockMailer only logs. Used when SMTP is not configured.
type MockMailer struct{}

func (MockMailer) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Warn().Str("to", msg.To).Str("subject", msg.Subject).Msg("[MOCK EMAIL]")
	return nil
}
