package usecases

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	apperrors "github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

func TestExportReportsUseCase_Execute_CSV(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo := &mockReportRepository{
		ListFunc: func(ctx context.Context, filter report.Filter) ([]*report.Report, error) {
			require.NotNil(t, filter.Status)
			assert.Equal(t, vo.StatusNew, *filter.Status)
			return []*report.Report{
				newTestReport(t, "a", vo.TypeWifiProblem, vo.StatusNew, ts),
				newTestReport(t, "b", vo.TypeSecurity, vo.StatusNew, ts.Add(time.Hour)),
				newTestReport(t, "c", vo.TypeWifiSuggestion, vo.StatusNew, ts.Add(2*time.Hour)),
			}, nil
		},
	}

	uc := NewExportReportsUseCase(repo, logger.NewNopLogger())
	uc.now = func() time.Time { return ts }

	result, err := uc.Execute(context.Background(), ExportReportsQuery{Status: "new", Category: "wifi"})
	require.NoError(t, err)

	assert.Equal(t, "text/csv; charset=utf-8", result.ContentType)
	assert.Equal(t, "reports-20240501-100000.csv", result.Filename)
	assert.Equal(t, 2, result.Count)

	records, err := csv.NewReader(strings.NewReader(string(result.Body))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[1][0])
	assert.Equal(t, "a", records[2][0])
}

func TestExportReportsUseCase_Execute_ValidationErrors(t *testing.T) {
	uc := NewExportReportsUseCase(&mockReportRepository{}, logger.NewNopLogger())

	for _, q := range []ExportReportsQuery{
		{Format: "pdf"},
		{Category: "parks"},
		{Status: "closed"},
	} {
		_, err := uc.Execute(context.Background(), q)
		assert.True(t, apperrors.IsValidationError(err), "%+v", q)
	}
}
