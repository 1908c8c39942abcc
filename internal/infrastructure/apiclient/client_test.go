package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	"github.com/gorodok-inc/gorodok/internal/shared/config"
	apperrors "github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.IngestConfig{
		BaseURL:        srv.URL + "/",
		AdminToken:     "secret",
		TimeoutSeconds: 2,
	}, logger.NewNopLogger())
}

func TestClient_Submit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/reports", r.URL.Path)
		assert.Empty(t, r.Header.Get(adminTokenHeader))

		raw, _ := io.ReadAll(r.Body)
		var body struct {
			Report report.Snapshot `json:"report"`
		}
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "RPT-1-abcdef", body.Report.ID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"id":"RPT-1-abcdef"}`))
	})

	id, err := c.Submit(context.Background(), report.Snapshot{ID: "RPT-1-abcdef", Type: "security", Timestamp: "2024-05-01T10:00:00.000Z"})
	require.NoError(t, err)
	assert.Equal(t, "RPT-1-abcdef", id)
}

func TestClient_ListAndStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get(adminTokenHeader))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/reports":
			assert.Equal(t, "wifi_problem", r.URL.Query().Get("type"))
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"ok":true,"list":[{"id":"a","type":"wifi_problem","status":"new","timestamp":"2024-05-01T10:00:00.000Z"}]}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/api/reports/a/status":
			_, _ = w.Write([]byte(`{"ok":true,"changed":1,"updatedAt":"2024-05-02T10:00:00.000Z"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	list, err := c.List(context.Background(), ListParams{Type: "wifi_problem", Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)

	res, err := c.SetStatus(context.Background(), "a", "resolved")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Changed)
	assert.Equal(t, "2024-05-02T10:00:00.000Z", res.UpdatedAt)
}

func TestClient_ServerErrorBecomesNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error":"unauthorized"}`))
	})

	_, err := c.List(context.Background(), ListParams{})
	require.Error(t, err)
	assert.True(t, apperrors.IsNetworkError(err))
	assert.Equal(t, "unauthorized", apperrors.GetAppError(err).Details)
}

func TestClient_Unreachable(t *testing.T) {
	c := NewClient(config.IngestConfig{BaseURL: "http://127.0.0.1:1"}, logger.NewNopLogger())
	err := c.Health(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsNetworkError(err))
}

func TestClient_MissingAdminToken(t *testing.T) {
	c := NewClient(config.IngestConfig{BaseURL: "http://example.invalid"}, logger.NewNopLogger())
	_, err := c.List(context.Background(), ListParams{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConfiguration, apperrors.GetAppError(err).Type)
}
