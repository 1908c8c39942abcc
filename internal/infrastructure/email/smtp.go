package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

type SMTPSender struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (s *SMTPSender) Name() string { return "smtp" }

// Send ignores ctx cancellation once the SMTP dialogue started; gomail has
// no context support.
func (s *SMTPSender) Send(ctx context.Context, n *Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := s.buildMessage(n)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *SMTPSender) buildMessage(n *Notification) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	if id := n.Meta["reportId"]; id != "" {
		m.SetHeader("X-Report-ID", id)
	}
	m.SetBody("text/plain", n.Text)
	if n.HTML != "" {
		m.AddAlternative("text/html", n.HTML)
	}
	return m
}
