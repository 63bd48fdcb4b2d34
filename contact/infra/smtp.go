package infra

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"contact-gateway/contact/domain"

	"github.com/jordan-wright/email"
)

// SMTPConfig descreve o servidor de saída. SSL usa TLS implícito (465).
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	SSL  bool
}

// SMTPMailer entrega a mesma mensagem por SMTP.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(e *email.Email, addr string, auth smtp.Auth, ssl bool, host string) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: sendEmail}
}

func (m *SMTPMailer) Configured() bool { return m.cfg.Host != "" && m.cfg.Port > 0 }

func (m *SMTPMailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	if !m.Configured() {
		return domain.ErrMissingCredential
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = msg.From
	e.To = msg.To
	if msg.ReplyTo != "" {
		e.ReplyTo = []string{msg.ReplyTo}
	}
	e.Subject = msg.Subject
	e.HTML = []byte(msg.HTML)
	e.Text = []byte(msg.Text)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(e, addr, auth, m.cfg.SSL, m.cfg.Host); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func sendEmail(e *email.Email, addr string, auth smtp.Auth, ssl bool, host string) error {
	if ssl {
		return e.SendWithTLS(addr, auth, &tls.Config{ServerName: host})
	}
	return e.Send(addr, auth)
}
