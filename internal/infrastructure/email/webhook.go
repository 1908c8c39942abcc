package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

const webhookTimeout = 15 * time.Second

// WebhookSender POSTs the notification as JSON to a mail relay.
type WebhookSender struct {
	endpoint   string
	httpClient *http.Client
	logger     logger.Interface
}

func NewWebhookSender(endpoint string, log logger.Interface) *WebhookSender {
	return &WebhookSender{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout:   webhookTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: log,
	}
}

func (s *WebhookSender) Name() string { return "webhook" }

func (s *WebhookSender) Send(ctx context.Context, n *Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail relay answered %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	s.logger.Debugw("notification posted", "status", resp.StatusCode)
	return nil
}
