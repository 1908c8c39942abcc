// Package apiclient talks to the report server's HTTP API: ingestion for
// citizens, listing and status changes for operators.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	"github.com/gorodok-inc/gorodok/internal/shared/config"
	apperrors "github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

const (
	adminTokenHeader = "X-Admin-Token"
	maxResponseSize  = 32 << 20
)

type Client struct {
	baseURL    string
	adminToken string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(cfg config.IngestConfig, log logger.Interface) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		adminToken: cfg.AdminToken,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: log,
	}
}

type envelope struct {
	OK        bool              `json:"ok"`
	Error     string            `json:"error,omitempty"`
	ID        string            `json:"id,omitempty"`
	List      []report.Snapshot `json:"list,omitempty"`
	Changed   int64             `json:"changed"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
	Stats     json.RawMessage   `json:"stats,omitempty"`
}

// StatusResult mirrors the server's status update answer.
type StatusResult struct {
	Changed   int64  `json:"changed"`
	UpdatedAt string `json:"updatedAt"`
}

// ListParams selects a page of reports. Zero values use the server defaults.
type ListParams struct {
	Type   string
	Limit  int
	Offset int
}

// Submit sends a report for idempotent ingestion and returns the canonical id.
func (c *Client) Submit(ctx context.Context, snap report.Snapshot) (string, error) {
	body := map[string]report.Snapshot{"report": snap}
	var resp envelope
	if err := c.do(ctx, http.MethodPost, "/api/reports", nil, body, false, &resp); err != nil {
		return "", err
	}
	c.logger.Debugw("report ingested by server", "report_id", resp.ID)
	return resp.ID, nil
}

func (c *Client) List(ctx context.Context, params ListParams) ([]report.Snapshot, error) {
	q := url.Values{}
	if params.Type != "" {
		q.Set("type", params.Type)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}

	var resp envelope
	if err := c.do(ctx, http.MethodGet, "/api/reports", q, nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

func (c *Client) SetStatus(ctx context.Context, reportID, status string) (*StatusResult, error) {
	path := "/api/reports/" + url.PathEscape(reportID) + "/status"
	body := map[string]string{"status": status}

	var resp envelope
	if err := c.do(ctx, http.MethodPatch, path, nil, body, true, &resp); err != nil {
		return nil, err
	}
	return &StatusResult{Changed: resp.Changed, UpdatedAt: resp.UpdatedAt}, nil
}

// Stats returns the raw statistics document of the server.
func (c *Client) Stats(ctx context.Context) (json.RawMessage, error) {
	var resp envelope
	if err := c.do(ctx, http.MethodGet, "/api/reports/stats", nil, nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Stats, nil
}

// Health reports whether the server answers its health probe.
func (c *Client) Health(ctx context.Context) error {
	var resp envelope
	return c.do(ctx, http.MethodGet, "/health", nil, nil, false, &resp)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body interface{},
	admin bool,
	out *envelope,
) error {
	if c.baseURL == "" {
		return apperrors.NewConfigurationError("report server URL is not configured")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		if c.adminToken == "" {
			return apperrors.NewConfigurationError("admin token is not configured")
		}
		req.Header.Set(adminTokenHeader, c.adminToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnw("report server request failed",
			"method", method,
			"path", path,
			"error", err,
		)
		return apperrors.NewNetworkError("report server is unreachable", err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return apperrors.NewNetworkError("failed to read server response", err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure envelope
		message := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &failure) == nil && failure.Error != "" {
			message = failure.Error
		}
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return apperrors.NewNetworkError(
			fmt.Sprintf("report server answered %d", resp.StatusCode),
			message,
		)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.NewNetworkError("unexpected server response", err.Error())
	}
	if !out.OK {
		return apperrors.NewNetworkError("report server rejected the request", out.Error)
	}
	return nil
}
