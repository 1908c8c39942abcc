package usecases

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
)

type mockReportRepository struct {
	InsertFunc    func(ctx context.Context, r *report.Report) (bool, error)
	GetByIDFunc   func(ctx context.Context, reportID string) (*report.Report, error)
	ListFunc      func(ctx context.Context, filter report.Filter) ([]*report.Report, error)
	SetStatusFunc func(ctx context.Context, reportID string, status vo.ReportStatus, from []vo.ReportStatus, updatedAt time.Time) (int64, error)
	CountFunc     func(ctx context.Context, filter report.Filter) (int64, error)
}

func (m *mockReportRepository) Insert(ctx context.Context, r *report.Report) (bool, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, r)
	}
	return true, nil
}

func (m *mockReportRepository) GetByID(ctx context.Context, reportID string) (*report.Report, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, reportID)
	}
	return nil, nil
}

func (m *mockReportRepository) List(ctx context.Context, filter report.Filter) ([]*report.Report, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockReportRepository) SetStatus(ctx context.Context, reportID string, status vo.ReportStatus, from []vo.ReportStatus, updatedAt time.Time) (int64, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, reportID, status, from, updatedAt)
	}
	return 0, nil
}

func (m *mockReportRepository) Count(ctx context.Context, filter report.Filter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	return 0, nil
}

func newTestReport(t *testing.T, reportID string, typ vo.ReportType, status vo.ReportStatus, ts time.Time) *report.Report {
	t.Helper()
	r, err := report.ReconstructReport(reportID, typ, "", status, ts, ts, nil, json.RawMessage(`{"description":"x"}`))
	require.NoError(t, err)
	return r
}
