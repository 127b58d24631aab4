// Package mail sends the transactional emails of the service over SMTP.
package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"echoboard/internal/config"
	"echoboard/pkg/logger"
)

// Sender is what handlers need from the mailer.
type Sender interface {
	SendWelcome(to, fullName string) error
	SendPasswordReset(to, link string) error
}

// Transport delivers an already rendered message.
type Transport func(cfg config.MailConfig, from string, to []string, msg []byte) error

type Mailer struct {
	cfg      config.MailConfig
	loginURL string
	send     Transport
}

var _ Sender = (*Mailer)(nil)

// New returns a Mailer delivering through cfg. With no SMTP host set every
// send is a logged no-op.
func New(cfg config.MailConfig, frontendURL string) *Mailer {
	return &Mailer{cfg: cfg, loginURL: frontendURL + "/login", send: deliver}
}

// WithTransport replaces the SMTP delivery, mostly for tests.
func (m *Mailer) WithTransport(t Transport) *Mailer {
	m.send = t
	return m
}

func (m *Mailer) SendWelcome(to, fullName string) error {
	body, err := render(welcomeTmpl, map[string]string{"Name": fullName, "LoginURL": m.loginURL})
	if err != nil {
		return err
	}
	return m.sendHTML(to, "Welcome to EchoBoard", body)
}

func (m *Mailer) SendPasswordReset(to, link string) error {
	body, err := render(resetTmpl, map[string]string{"Link": link})
	if err != nil {
		return err
	}
	return m.sendHTML(to, "Reset your EchoBoard password", body)
}

func (m *Mailer) sendHTML(to, subject, body string) error {
	if !m.cfg.Enabled() {
		logger.Debug().Str("to", to).Str("subject", subject).Msg("[Email] SMTP disabled, skipping")
		return nil
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	msg := buildMessage(from, to, subject, body)
	if err := m.send(m.cfg, from, []string{to}, msg); err != nil {
		logger.Error().Err(err).Str("to", to).Msg("[Email] Failed to send email")
		return err
	}
	logger.Info().Str("to", to).Str("subject", subject).Msg("[Email] Sent")
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h[0], h[1])
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func deliver(cfg config.MailConfig, from string, to []string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	if !cfg.UseTLS {
		return smtp.SendMail(addr, auth, from, to, msg)
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: cfg.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, cfg.Host)
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
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
