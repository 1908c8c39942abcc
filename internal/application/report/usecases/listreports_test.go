package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	apperrors "github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

func TestListReportsUseCase_Execute_Window(t *testing.T) {
	tests := []struct {
		name       string
		query      ListReportsQuery
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: ListReportsQuery{}, wantLimit: 200, wantOffset: 0},
		{name: "capped", query: ListReportsQuery{Limit: 10000, Offset: 5}, wantLimit: 500, wantOffset: 5},
		{name: "negative offset", query: ListReportsQuery{Limit: 20, Offset: -3}, wantLimit: 20, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got report.Filter
			repo := &mockReportRepository{
				ListFunc: func(ctx context.Context, filter report.Filter) ([]*report.Report, error) {
					got = filter
					return nil, nil
				},
			}

			uc := NewListReportsUseCase(repo, logger.NewNopLogger())
			result, err := uc.Execute(context.Background(), tt.query)

			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
			assert.NotNil(t, result.Reports)
			assert.Empty(t, result.Reports)
		})
	}
}

func TestListReportsUseCase_Execute_TypeFilter(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo := &mockReportRepository{
		ListFunc: func(ctx context.Context, filter report.Filter) ([]*report.Report, error) {
			require.NotNil(t, filter.Type)
			assert.Equal(t, vo.TypeWifiProblem, *filter.Type)
			return []*report.Report{newTestReport(t, "a", vo.TypeWifiProblem, vo.StatusNew, ts)}, nil
		},
	}

	uc := NewListReportsUseCase(repo, logger.NewNopLogger())
	result, err := uc.Execute(context.Background(), ListReportsQuery{Type: "wifi_problem"})

	require.NoError(t, err)
	require.Len(t, result.Reports, 1)
	assert.Equal(t, "wifi_problem", result.Reports[0].Type)
	assert.Equal(t, "2024-05-01T10:00:00.000Z", result.Reports[0].Timestamp)
}

func TestListReportsUseCase_Execute_Errors(t *testing.T) {
	uc := NewListReportsUseCase(&mockReportRepository{}, logger.NewNopLogger())
	_, err := uc.Execute(context.Background(), ListReportsQuery{Type: "noise"})
	assert.True(t, apperrors.IsValidationError(err))

	uc = NewListReportsUseCase(&mockReportRepository{
		ListFunc: func(ctx context.Context, filter report.Filter) ([]*report.Report, error) {
			return nil, errors.New("boom")
		},
	}, logger.NewNopLogger())
	_, err = uc.Execute(context.Background(), ListReportsQuery{})
	assert.True(t, apperrors.IsStorageError(err))
}
