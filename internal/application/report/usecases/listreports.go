package usecases

import (
	"context"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

type ListReportsQuery struct {
	Type   string
	Status string
	Limit  int
	Offset int
}

type ListReportsResult struct {
	Reports []report.Snapshot
	Limit   int
	Offset  int
}

type ListReportsUseCase struct {
	reportRepo report.Repository
	logger     logger.Interface
}

func NewListReportsUseCase(
	reportRepo report.Repository,
	logger logger.Interface,
) *ListReportsUseCase {
	return &ListReportsUseCase{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

func (uc *ListReportsUseCase) Execute(ctx context.Context, query ListReportsQuery) (*ListReportsResult, error) {
	filter, err := buildFilter(query.Type, query.Status)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = report.ClampListWindow(query.Limit, query.Offset)

	reports, err := uc.reportRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list reports", "error", err)
		return nil, errors.NewStorageError("failed to list reports")
	}

	snapshots := make([]report.Snapshot, 0, len(reports))
	for _, r := range reports {
		snapshots = append(snapshots, r.Snapshot())
	}

	return &ListReportsResult{
		Reports: snapshots,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

func buildFilter(typ, status string) (report.Filter, error) {
	var filter report.Filter
	if typ != "" {
		t, err := vo.NewReportType(typ)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Type = &t
	}
	if status != "" {
		s, err := vo.NewReportStatus(status)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Status = &s
	}
	return filter, nil
}
