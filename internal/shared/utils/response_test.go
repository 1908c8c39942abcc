package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gorodok-inc/gorodok/internal/shared/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOKResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OKResponse(c, http.StatusOK, gin.H{"id": "RPT-1-abcdef"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "RPT-1-abcdef", body["id"])
}

func TestErrorResponseWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "validation", err: apperrors.NewValidationError("id is required"), wantStatus: 400, wantError: "id is required"},
		{name: "unauthorized", err: apperrors.NewUnauthorizedError("invalid admin token"), wantStatus: 401, wantError: "invalid admin token"},
		{name: "storage", err: apperrors.NewStorageError("failed to store report"), wantStatus: 500, wantError: "failed to store report"},
		{name: "plain error is hidden", err: errors.New("sql: connection refused"), wantStatus: 500, wantError: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ErrorResponseWithError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["ok"])
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestValidateStruct_FirstErrorOnly(t *testing.T) {
	type req struct {
		Status string `json:"status" validate:"required,oneof=new in_progress resolved rejected"`
		Note   string `json:"note" validate:"required"`
	}

	err := ValidateStruct(req{})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "status is required", appErr.Message)
	assert.Equal(t, "status", appErr.Details)

	err = ValidateStruct(req{Status: "done", Note: "x"})
	require.Error(t, err)
	assert.Contains(t, apperrors.GetAppError(err).Message, "status must be one of")

	assert.NoError(t, ValidateStruct(req{Status: "new", Note: "x"}))
}
