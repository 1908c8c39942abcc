package email

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/shared/config"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
	"github.com/gorodok-inc/gorodok/internal/shared/services/markdown"
)

func sampleReport(t *testing.T) *report.Report {
	t.Helper()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r, err := report.ReconstructReport("RPT-1714557600000-abc123", vo.TypeGraffiti, "", vo.StatusNew, ts, ts,
		&report.UserSnapshot{ID: "7", Name: "Оля", Phone: "+79991234567"},
		json.RawMessage(`{"location":"двор <b>5</b>","description":"**теги**","photos":[{"name":"a.jpg","size":10,"mimeType":"image/jpeg"}]}`))
	require.NoError(t, err)
	return r
}

func TestComposer_Compose(t *testing.T) {
	c := NewComposer(markdown.NewRenderer(), "telegram", "1.2.0")

	n, err := c.Compose(sampleReport(t), "city@example.org")
	require.NoError(t, err)

	assert.Equal(t, "city@example.org", n.To)
	assert.Equal(t, "[Graffiti] RPT-1714557600000-abc123", n.Subject)
	assert.Equal(t, "RPT-1714557600000-abc123", n.Meta["reportId"])
	assert.Equal(t, "graffiti", n.Meta["category"])
	assert.Equal(t, Webapp{Platform: "telegram", Version: "1.2.0", User: "Оля"}, n.Webapp)

	assert.Contains(t, n.Text, "# Graffiti")
	assert.Contains(t, n.HTML, "<h1>Graffiti</h1>")
	// citizen text is inert
	assert.NotContains(t, n.HTML, "<b>5</b>")
	assert.NotContains(t, n.HTML, "<strong>теги</strong>")
}

func TestWebhookSender_Send(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, logger.NewNopLogger())
	err := s.Send(context.Background(), &Notification{
		To:      "city@example.org",
		Subject: "subject",
		Text:    "text",
		Meta:    map[string]string{"reportId": "RPT-1"},
		Webapp:  Webapp{Platform: "web", Version: "1.0.0", User: "u"},
	})
	require.NoError(t, err)
	assert.Equal(t, "city@example.org", got.To)
	assert.Equal(t, "web", got.Webapp.Platform)
}

func TestWebhookSender_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "relay down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewWebhookSender(srv.URL, logger.NewNopLogger()).Send(context.Background(), &Notification{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestSMTPSender_BuildMessage(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 1025, FromAddress: "noreply@gorodok.local", FromName: "Gorodok"})
	m := s.buildMessage(&Notification{To: "city@example.org", Subject: "hello", Text: "t", HTML: "<p>t</p>", Meta: map[string]string{"reportId": "RPT-1"}})

	assert.Equal(t, []string{"city@example.org"}, m.GetHeader("To"))
	assert.Equal(t, []string{"hello"}, m.GetHeader("Subject"))
	assert.Equal(t, []string{"RPT-1"}, m.GetHeader("X-Report-ID"))
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(config.NotifyConfig{Driver: "none"}, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, "none", s.Name())

	_, err = NewSender(config.NotifyConfig{Driver: "webhook"}, logger.NewNopLogger())
	assert.Error(t, err)

	s, err = NewSender(config.NotifyConfig{Driver: "smtp", SMTPHost: "localhost", SMTPPort: 25}, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, "smtp", s.Name())

	_, err = NewSender(config.NotifyConfig{Driver: "pigeon"}, logger.NewNopLogger())
	assert.Error(t, err)
}
