// Package email delivers best-effort report notifications to the city
// administration, either through an HTTP mail relay or directly over SMTP.
package email

import (
	"context"
	"fmt"

	"github.com/gorodok-inc/gorodok/internal/shared/config"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

// Webapp identifies the submitting client in a notification.
type Webapp struct {
	Platform string `json:"platform"`
	Version  string `json:"version"`
	User     string `json:"user"`
}

// Notification is the message handed to a Sender. Its JSON form is the
// mail relay request body.
type Notification struct {
	To      string            `json:"to"`
	Subject string            `json:"subject"`
	Text    string            `json:"text"`
	HTML    string            `json:"html"`
	Meta    map[string]string `json:"meta"`
	Webapp  Webapp            `json:"webapp"`
}

// Sender delivers one notification. Delivery is attempted once.
type Sender interface {
	Send(ctx context.Context, n *Notification) error
	Name() string
}

// NopSender discards notifications.
type NopSender struct{}

func (NopSender) Send(context.Context, *Notification) error { return nil }

func (NopSender) Name() string { return "none" }

// NewSender builds the driver selected in cfg.
func NewSender(cfg config.NotifyConfig, log logger.Interface) (Sender, error) {
	switch cfg.Driver {
	case "", "none":
		return NopSender{}, nil
	case "webhook":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("notify.endpoint is required for the webhook driver")
		}
		return NewWebhookSender(cfg.Endpoint, log), nil
	case "smtp":
		return NewSMTPSender(SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUser,
			Password:    cfg.SMTPPassword,
			FromAddress: cfg.FromAddress,
			FromName:    cfg.FromName,
		}), nil
	}
	return nil, fmt.Errorf("unknown notify driver: %s", cfg.Driver)
}
