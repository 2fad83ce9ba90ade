package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

var ErrNotConfigured = errors.New("smtp is not configured")

// Config represents the configuration for the SMTP mailer
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Mailer sends plain text mail over authenticated SMTP.
type Mailer struct {
	config Config
}

// New creates a mailer. An empty host yields a mailer whose Send always
// returns ErrNotConfigured, so callers can treat mail as optional.
func New(config Config) *Mailer {
	return &Mailer{config: config}
}

// Send delivers one plain text message to the given recipients.
func (m *Mailer) Send(to []string, subject, body string) error {
	if m.config.Host == "" {
		return ErrNotConfigured
	}
	if len(to) == 0 {
		return errors.New("no recipients")
	}

	msg := strings.Builder{}
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	return smtp.SendMail(addr, auth, m.config.From, to, []byte(msg.String()))
}
